// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/integration/entrypoint/dto"
)

// APIKeyHeader is the header clients present the service key in.
const APIKeyHeader = "X-API-Key"

// AuthMiddleware enforces the static API key on protected routes.
type AuthMiddleware struct {
	apiKey string
}

// NewAuthMiddleware creates a new auth middleware instance. An empty key
// leaves the API open, which is the expected mode for local development.
func NewAuthMiddleware(apiKey string) *AuthMiddleware {
	return &AuthMiddleware{
		apiKey: apiKey,
	}
}

// Authenticate returns a Gin middleware handler that enforces API key authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.apiKey == "" {
			c.Next()
			return
		}

		presented := c.GetHeader(APIKeyHeader)
		if presented == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "API key is required",
				Code:  string(domainerror.ErrCodeMissingAPIKey),
			})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(m.apiKey)) != 1 {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid API key",
				Code:  string(domainerror.ErrCodeInvalidAPIKey),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
