package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"luckyvista-backend/config"
	"luckyvista-backend/model"
	"luckyvista-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *service.Caller) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.AppCfg.JWTAccessKey = "test-signing-key"

	var captured service.Caller
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		captured = GetCaller(c)
		c.Status(http.StatusOK)
	})
	r.GET("/admin", AuthMiddleware(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppCfg.JWTAccessKey))
	require.NoError(t, err)
	return signed
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareResolvesCaller(t *testing.T) {
	r, captured := newAuthRouter(t)

	token := signToken(t, jwt.MapClaims{
		"user_id": 7,
		"tenant":  "tenant-a",
		"role":    model.RoleTenantUser,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := doRequest(r, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), captured.UserID)
	assert.Equal(t, "tenant-a", captured.TenantID)
	assert.Equal(t, model.RoleTenantUser, captured.Role)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	r, _ := newAuthRouter(t)

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(r, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(r, "/protected", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 7,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("some-other-key"))
		require.NoError(t, err)

		w := doRequest(r, "/protected", "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": 7,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		w := doRequest(r, "/protected", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing user id claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"tenant": "tenant-a",
			"exp":    time.Now().Add(time.Hour).Unix(),
		})
		w := doRequest(r, "/protected", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r, _ := newAuthRouter(t)

	userToken := signToken(t, jwt.MapClaims{
		"user_id": 7,
		"tenant":  "tenant-a",
		"role":    model.RoleTenantUser,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	w := doRequest(r, "/admin", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := signToken(t, jwt.MapClaims{
		"user_id": 1,
		"tenant":  "platform",
		"role":    model.RoleSuperAdmin,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	w = doRequest(r, "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
