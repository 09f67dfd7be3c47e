package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/supermarket-management/internal/platform/config"
	"github.com/ridloal/supermarket-management/internal/platform/storage"
	"github.com/ridloal/supermarket-management/internal/user/domain"
	"github.com/ridloal/supermarket-management/internal/user/repository"
	"github.com/ridloal/supermarket-management/internal/user/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() (*gin.Engine, service.AuthService) {
	gin.SetMode(gin.TestMode)
	users := []domain.User{
		{ID: "1", Name: "Admin User", Email: "admin@supermarket.com", Role: domain.RoleAdmin},
		{ID: "2", Name: "Cashier User", Email: "cashier@supermarket.com", Role: domain.RoleCashier},
		{ID: "3", Name: "Staff User", Email: "staff@supermarket.com", Role: domain.RoleStaff},
	}
	as := service.NewAuthService(repository.NewMemoryUserRepository(users), storage.NewMemoryStore(), config.AuthConfig{JWTSecret: []byte("k")})

	r := gin.New()
	v1 := r.Group("/api/v1")
	NewAuthHandler(as).RegisterRoutes(v1)
	v1.GET("/till", RequireAuth(as), RequireRole(domain.RoleCashier), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, as
}

func do(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Email: email, Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data domain.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.Token
}

func TestAuthHandler_Login(t *testing.T) {
	r, _ := setupRouter()

	t.Run("Bad payload", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@supermarket.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Email: "ghost@x.com", Password: "pw"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me with session token", func(t *testing.T) {
		token := login(t, r, "admin@supermarket.com")
		w := do(r, http.MethodGet, "/api/v1/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"admin"`)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	r, as := setupRouter()
	token := login(t, r, "cashier@supermarket.com")

	w := do(r, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, as.IsAuthenticated(context.TODO()))

	w = do(r, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, _ := setupRouter()

	t.Run("No token", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/till", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Cashier allowed", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/till", login(t, r, "cashier@supermarket.com"), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Admin always allowed", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/till", login(t, r, "admin@supermarket.com"), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Staff forbidden", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/till", login(t, r, "staff@supermarket.com"), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
