package middleware

import (
	"net/http"
	"strings"

	"github.com/SergeiKhy/shop-directory/internal/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Authenticator: единая точка авторизации для административных маршрутов
type Authenticator struct {
	verifier auth.Verifier
	logger   *zap.Logger
}

func NewAuthenticator(verifier auth.Verifier, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{verifier: verifier, logger: logger}
}

// RequireRole пропускает запрос только с валидным Bearer токеном и нужной ролью.
// Нет токена или он невалиден -> 401, чужая роль -> 403.
func (a *Authenticator) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authentication required. Pass a token via Authorization: Bearer <token>",
			})
			return
		}

		identity, err := a.verifier.Verify(token)
		if err != nil {
			a.logger.Warn("Rejected token",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid or expired token",
			})
			return
		}

		if identity.Role != role {
			a.logger.Warn("Insufficient role",
				zap.Int64("user_id", identity.ID),
				zap.String("role", identity.Role),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Administrator role required",
			})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAdmin хелпер для маршрутов администратора
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return a.RequireRole(auth.RoleAdmin)
}

// IdentityFromContext извлекает проверенную личность из контекста
func IdentityFromContext(c *gin.Context) (*auth.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	return identity, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
