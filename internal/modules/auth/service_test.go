package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/logger"
	"travelagency/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *mockAdminRepo) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type mockJWT struct {
	mock.Mock
}

func (m *mockJWT) GenerateToken(userID int64, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_Success(t *testing.T) {
	users := new(mockUserRepo)
	jwt := new(mockJWT)
	svc := NewService(users, new(mockAdminRepo), jwt, logger.Discard())

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "budi@example.com" && u.PasswordHash != "" && u.PasswordHash != "secret1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 11
	}).Return(nil)
	jwt.On("GenerateToken", int64(11), "budi@example.com", "user").Return("tok", nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name: " Budi ", Email: " Budi@Example.com ", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "Budi", resp.User.Name)
	assert.Equal(t, "user", resp.User.Role)
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockAdminRepo), new(mockJWT), logger.Discard())

	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "x", Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	users := new(mockUserRepo)
	jwt := new(mockJWT)
	svc := NewService(users, new(mockAdminRepo), jwt, logger.Discard())

	user := &domain.User{ID: 3, Email: "ani@example.com", PasswordHash: hashed(t, "rahasia")}
	users.On("GetByEmail", mock.Anything, "ani@example.com").Return(user, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)
	jwt.On("GenerateToken", int64(3), "ani@example.com", "user").Return("tok", nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ani@example.com", Password: "rahasia"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ani@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin_TouchesLastLogin(t *testing.T) {
	admins := new(mockAdminRepo)
	jwt := new(mockJWT)
	svc := NewService(new(mockUserRepo), admins, jwt, logger.Discard())
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	admin := &domain.AdminUser{ID: 1, Email: "admin@travel.local", Name: "Admin", PasswordHash: hashed(t, "admin123")}
	admins.On("GetByEmail", mock.Anything, "admin@travel.local").Return(admin, nil)
	admins.On("TouchLogin", mock.Anything, int64(1), fixed).Return(errors.New("db down"))
	jwt.On("GenerateToken", int64(1), "admin@travel.local", "admin").Return("admin-tok", nil)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "admin@travel.local", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Equal(t, "admin-tok", resp.Token)
	admins.AssertExpectations(t)
}

func TestGetMe_UnknownUser(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockAdminRepo), new(mockJWT), logger.Discard())
	users.On("GetByID", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetMe(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
