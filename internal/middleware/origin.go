package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// OriginConfig holds configuration for origin validation middleware.
type OriginConfig struct {
	// AllowedOrigins is a list of allowed origins for state-changing
	// requests. Should match the CORS allowed origins.
	AllowedOrigins []string
}

// ValidateOrigin returns middleware that checks the Origin/Referer headers
// of state-changing requests against the allowed set. Requests without
// either header pass: non-browser clients authenticate with bearer tokens,
// which browsers never attach on their own.
func ValidateOrigin(config OriginConfig) gin.HandlerFunc {
	allowedSet := make(map[string]bool)
	for _, origin := range config.AllowedOrigins {
		normalized := strings.TrimSuffix(strings.ToLower(origin), "/")
		allowedSet[normalized] = true
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin != "" {
			if !isAllowedOrigin(origin, allowedSet) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "origin validation failed",
				})
				return
			}
			c.Next()
			return
		}

		referer := c.GetHeader("Referer")
		if referer != "" && !isAllowedOrigin(extractOrigin(referer), allowedSet) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "origin validation failed",
			})
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the given origin is in the allowed set.
func isAllowedOrigin(origin string, allowedSet map[string]bool) bool {
	normalized := strings.TrimSuffix(strings.ToLower(origin), "/")
	return allowedSet[normalized]
}

// extractOrigin extracts the origin (scheme://host:port) from a URL.
func extractOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
