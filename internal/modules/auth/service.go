package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service contains the authentication logic for customers and admins.
type Service struct {
	users  UserRepositoryInterface
	admins AdminRepositoryInterface
	jwt    jwtService
	log    *logrus.Logger
	now    func() time.Time
}

func NewService(users UserRepositoryInterface, admins AdminRepositoryInterface, jwt jwtService, log *logrus.Logger) *Service {
	return &Service{users: users, admins: admins, jwt: jwt, log: log, now: time.Now}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(domain.RoleUser))
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("user registered")
	return &AuthResponse{User: publicUser(user), Token: token}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(domain.RoleUser))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: publicUser(user), Token: token}, nil
}

// AdminLogin authenticates against the admin table; attempts are throttled by middleware.
func (s *Service) AdminLogin(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(admin.PasswordHash, req.Password) {
		s.log.WithField("email", admin.Email).Warn("admin login failed")
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(admin.ID, admin.Email, string(domain.RoleAdmin))
	if err != nil {
		return nil, err
	}
	if err := s.admins.TouchLogin(ctx, admin.ID, s.now()); err != nil {
		s.log.WithError(err).WithField("admin_id", admin.ID).Warn("update last login failed")
	}

	return &AuthResponse{
		User:  UserPublic{ID: admin.ID, Role: string(domain.RoleAdmin), Name: admin.Name, Email: admin.Email},
		Token: token,
	}, nil
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*UserPublic, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	out := publicUser(user)
	return &out, nil
}

func publicUser(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Role: string(domain.RoleUser), Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword is used by the seed command to create admin accounts.
func HashPassword(password string) (string, error) {
	return hashPassword(password)
}
