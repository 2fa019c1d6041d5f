package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// RespondError writes a JSON error body with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// LogAndRespondError logs the underlying error with full detail and
// responds with only the opaque message. Internal detail never reaches
// the response body.
func LogAndRespondError(c *gin.Context, status int, err error, message string) {
	slog.Error(message,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	RespondError(c, status, message)
}
