// Package middleware provides HTTP middleware for the records API.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/service"
	"github.com/gin-gonic/gin"
)

// principalKey is the gin context key under which RequireAuth stores the
// authenticated principal's id.
const principalKey = "principalID"

// bearerScheme is the only accepted Authorization scheme literal.
const bearerScheme = "Bearer"

// RequireAuth validates the bearer token on the Authorization header and
// attaches the principal id to the request context. Every rejection is
// answered with the same opaque 401 body; the distinguishing reason is
// kept in the server logs only.
func RequireAuth(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			rejectUnauthorized(c, "missing authorization header")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || scheme != bearerScheme || token == "" {
			rejectUnauthorized(c, "unsupported authorization scheme")
			return
		}

		claims, err := jwtService.Validate(token)
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				reason = "expired token"
			}
			rejectUnauthorized(c, reason)
			return
		}

		c.Set(principalKey, claims.User.ID)
		c.Next()
	}
}

// PrincipalID returns the principal id attached by RequireAuth.
func PrincipalID(c *gin.Context) (string, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func rejectUnauthorized(c *gin.Context, reason string) {
	slog.Info("request rejected",
		"reason", reason,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
