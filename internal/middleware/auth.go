package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ELYASDARK/uhc-admin-api/pkg/auth"
)

const ContextUserID = "userID"

type AuthMiddleware struct {
	jwtSvc *auth.JWTService
}

func NewAuthMiddleware(jwtSvc *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

// Session extracts the caller's identity from a bearer token when one is
// present and valid. It never aborts: the admin gate inside the account
// service decides what an absent session means, so authorization outcomes
// stay in one place.
func (m *AuthMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("invalid session token")
			c.Next()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// CallerID returns the authenticated caller's user id, or "" when the
// request carries no valid session.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
