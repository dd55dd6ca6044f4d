package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hack-neuron/frontend/internal/service"
	"github.com/hack-neuron/frontend/internal/utils"
	"github.com/hack-neuron/frontend/pkg/metadata"
)

// TokenMiddleware enforces bearer token authentication on proxied endpoints.
type TokenMiddleware struct {
	authService *service.AuthService
	rateLimiter *InvalidAuthRateLimiter
}

// NewTokenMiddleware constructs a new TokenMiddleware.
func NewTokenMiddleware(authService *service.AuthService) *TokenMiddleware {
	return &TokenMiddleware{
		authService: authService,
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle returns a Gin middleware function that enforces authentication.
func (m *TokenMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract bearer token (Authorization header, token query fallback)
		token := extractToken(c)
		if token == "" {
			m.handleAuthError(c, http.StatusForbidden, "Token error!")
			return
		}

		// 2. Validate against signature and the stored current token
		name, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			var statusErr *metadata.StatusError
			switch {
			case errors.Is(err, utils.ErrInvalidToken):
				m.handleAuthError(c, http.StatusForbidden, "Token error!")
			case errors.Is(err, utils.ErrTokenExpired):
				m.handleAuthError(c, http.StatusForbidden, "Token expired!")
			case errors.As(err, &statusErr):
				// The metadata service is authoritative here; relay its answer.
				utils.AbortDetail(c, statusErr.Status, statusErr.Detail)
			default:
				utils.AbortDetail(c, http.StatusBadGateway, "Upstream unavailable!")
			}
			return
		}

		// 3. Set context values
		c.Set("app_name", name)

		c.Next()
	}
}

func (m *TokenMiddleware) handleAuthError(c *gin.Context, status int, message string) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.AbortDetail(c, http.StatusTooManyRequests, "Too many invalid authentication attempts")
		return
	}

	utils.AbortDetail(c, status, message)
}

// extractToken pulls the bearer token from the Authorization header, or from
// the token query parameter when no header is present.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
		return ""
	}
	return c.Query("token")
}

// GetAppName returns the authenticated application name from context.
func GetAppName(c *gin.Context) string {
	return c.GetString("app_name")
}
