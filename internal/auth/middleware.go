package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tmills/rosterd/internal/entities"
)

// Context keys for authenticated request data
const (
	ContextKeyAccount = "auth_account"
	ContextKeyToken   = "auth_token"
)

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	service     *Service
	publicPaths map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service) *Middleware {
	publicPaths := map[string]bool{
		"/health":    true,
		"/ping":      true,
		"/api/login": true,
	}

	return &Middleware{
		service:     service,
		publicPaths: publicPaths,
	}
}

// Handler returns a Gin middleware handler that authenticates requests via
// the Authorization bearer token. Expired and unknown tokens both abort with
// 401; the distinction stays in the response body only.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		account, err := m.service.Validate(token)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "authentication required"
			switch {
			case errors.Is(err, ErrTokenExpired):
				msg = "session expired"
			case errors.Is(err, ErrTokenNotFound):
				msg = "invalid session"
			default:
				status = http.StatusInternalServerError
				msg = "internal error"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		c.Set(ContextKeyAccount, account)
		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// GetAccount retrieves the authenticated account from the Gin context.
// Returns nil when the request is unauthenticated.
func GetAccount(c *gin.Context) *entities.Account {
	if v, exists := c.Get(ContextKeyAccount); exists {
		if account, ok := v.(*entities.Account); ok {
			return account
		}
	}
	return nil
}

// GetToken retrieves the presented session token from the Gin context.
func GetToken(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyToken); exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
