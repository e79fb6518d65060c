package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/auth"
	"github.com/SergeiKhy/shop-directory/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func signedToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		ID:   42,
		Role: role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// TestRateLimiter_Middleware проверяет работу rate limiter middleware
func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		BurstSize:         5,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Первые 5 запросов укладываются в burst
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

// TestRateLimiter_MiddlewareWithKey проверяет rate limiting с кастомным ключом
func TestRateLimiter_MiddlewareWithKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 2,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.MiddlewareWithKey(func(c *gin.Context) string {
		return c.GetHeader("X-User-ID")
	}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	send := func(user string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("X-User-ID", user)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("user1"))
	assert.Equal(t, http.StatusOK, send("user1"))
	assert.Equal(t, http.StatusTooManyRequests, send("user1"))

	// Другой ключ: отдельный bucket
	assert.Equal(t, http.StatusOK, send("user2"))
}

// TestAuthenticator_RequireAdmin проверяет разделение 401 и 403
func TestAuthenticator_RequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authn := middleware.NewAuthenticator(auth.NewJWTVerifier(testSecret), nil)

	router := gin.New()
	router.GET("/admin", authn.RequireAdmin(), func(c *gin.Context) {
		identity, ok := middleware.IdentityFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": identity.ID})
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "без токена", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "не Bearer схема", header: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "невалидный токен", header: "Bearer garbage", expectedStatus: http.StatusUnauthorized},
		{name: "роль user", header: "Bearer " + signedToken(t, "user"), expectedStatus: http.StatusForbidden},
		{name: "роль admin", header: "Bearer " + signedToken(t, auth.RoleAdmin), expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// TestRequestID проверяет генерацию и проброс идентификатора запроса
func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/test", nil)
	req.Header.Set(middleware.RequestIDHeader, "given-id")
	router.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Body.String())
}
