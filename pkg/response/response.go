// Package response writes error bodies for gin handlers.
package response

import (
	"log/slog"

	"looppilot/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Error writes {"error": code, "message": msg} with the status mapped from the
// error's code. Storage and internal failures are logged with their cause.
func Error(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := apperr.HTTPStatus(code)
	if status >= 500 {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "code", code, "error", err)
	}
	c.JSON(status, gin.H{"error": code, "message": apperr.Message(err)})
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// BadRequest reports a binding or validation failure as invalid_input.
func BadRequest(c *gin.Context, err error) {
	Error(c, apperr.InvalidInput(err.Error()))
}
