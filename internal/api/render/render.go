// Package render writes JSON error responses for the API handlers.
package render

import (
	"net/http"

	"creator-platform/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error maps err onto its HTTP status and a message safe to show.
// Unexpected failures are logged with the request path.
func Error(c *gin.Context, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": apperr.PublicMessage(err),
		"code":  string(apperr.KindOf(err)),
	})
}

// BadRequest reports a request body or query that could not be bound.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
		"code":  string(apperr.KindInvalid),
	})
}
