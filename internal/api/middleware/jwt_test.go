package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, role string, exp time.Duration) string {
	t.Helper()
	claims := serviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp)),
		},
		Role: role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/api")
	grp.Use(ServiceAuth())
	grp.GET("/whoami", func(c *gin.Context) {
		svc, _ := c.Get("service")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"service": svc, "role": role})
	})
	grp.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServiceAuth(t *testing.T) {
	t.Setenv("MATCHING_JWT_SECRET", testSecret)
	t.Setenv("MATCHING_JWT_ISSUER", "")

	t.Run("valid token passes", func(t *testing.T) {
		r := authRouter()
		tok := signToken(t, testSecret, "telegram-bot", "service", time.Hour)
		w := doGet(r, "/api/whoami", tok)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "telegram-bot")
	})

	t.Run("missing token", func(t *testing.T) {
		r := authRouter()
		w := doGet(r, "/api/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		r := authRouter()
		tok := signToken(t, "other-secret", "telegram-bot", "service", time.Hour)
		w := doGet(r, "/api/whoami", tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		r := authRouter()
		tok := signToken(t, testSecret, "telegram-bot", "service", -time.Minute)
		w := doGet(r, "/api/whoami", tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing subject", func(t *testing.T) {
		r := authRouter()
		tok := signToken(t, testSecret, "", "service", time.Hour)
		w := doGet(r, "/api/whoami", tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("MATCHING_JWT_SECRET", testSecret)
	t.Setenv("MATCHING_JWT_ISSUER", "")

	t.Run("admin allowed", func(t *testing.T) {
		r := authRouter()
		tok := signToken(t, testSecret, "admin-panel", "admin", time.Hour)
		w := doGet(r, "/api/admin", tok)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		r := authRouter()
		tok := signToken(t, testSecret, "telegram-bot", "service", time.Hour)
		w := doGet(r, "/api/admin", tok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
