package favorite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"travelagency/internal/database"
	"travelagency/internal/domain"
	"travelagency/internal/middleware"
	"travelagency/internal/pkg/jwt"
	"travelagency/internal/pkg/logger"
	"travelagency/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*gin.Engine, string, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	pkg := &domain.TourPackage{Name: "Raja Ampat Dive", Price: 9500000, DurationDays: 5, IsActive: true}
	require.NoError(t, db.Create(pkg).Error)

	tokens := jwt.New("test-secret", time.Hour)
	token, err := tokens.GenerateToken(3, "siti@example.com", string(domain.RoleUser))
	require.NoError(t, err)

	h := NewHandler(
		repository.NewFavoriteRepository(db),
		repository.NewCrudRepository[domain.TourPackage](db),
		logger.Discard(),
	)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api", middleware.JWTAuth(tokens)))
	return r, token, pkg.ID
}

func request(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFavorites_AddListCheckRemove(t *testing.T) {
	r, token, pkgID := setupHandler(t)
	path := "/api/favorites/" + itoa(pkgID)

	w := request(r, http.MethodPost, path, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(r, http.MethodPost, path, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(r, http.MethodGet, "/api/favorites", token)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []FavoriteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	require.NotNil(t, list.Data[0].Package)
	assert.Equal(t, "Raja Ampat Dive", list.Data[0].Package.Name)

	w = request(r, http.MethodGet, path+"/check", token)
	assert.JSONEq(t, `{"success":true,"data":{"isFavorite":true}}`, w.Body.String())

	w = request(r, http.MethodDelete, path, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(r, http.MethodDelete, path, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(r, http.MethodGet, path+"/check", token)
	assert.JSONEq(t, `{"success":true,"data":{"isFavorite":false}}`, w.Body.String())
}

func TestFavorites_UnknownPackage(t *testing.T) {
	r, token, _ := setupHandler(t)

	w := request(r, http.MethodPost, "/api/favorites/999", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(r, http.MethodPost, "/api/favorites/abc", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
