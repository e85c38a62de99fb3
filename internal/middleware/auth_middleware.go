package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/eduquiz-api/pkg/auth"
)

// Ключи контекста Gin, устанавливаемые RequireAuth
const (
	ContextUserID  = "user_id"
	ContextEmail   = "email"
	ContextRole    = "role"
	ContextIsAdmin = "is_admin"
)

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов.
// Токен передаётся только в заголовке Authorization: Bearer {token};
// резолв клеймов происходит здесь, хендлеры читают только контекст запроса.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth проверяет, аутентифицирован ли пользователь
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			c.Abort()
			return
		}

		// Проверяем формат заголовка Bearer {token}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextIsAdmin, claims.IsAdmin)

		c.Next()
	}
}

// AdminOnly проверяет admin-флаг. Флаг независим от роли: учитель или студент
// с is_admin=true проходит, обычный учитель — нет.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		isAdmin, exists := c.Get(ContextIsAdmin)
		if !exists || !isAdmin.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin rights required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole пропускает только пользователей с указанной ролью
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := c.Get(ContextRole)
		if !exists || current.(string) != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}
