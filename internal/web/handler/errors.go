package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/memeboard/internal/backend"
)

// writeError maps a backend error onto an HTTP response. Unauthorized
// errors get a 401 so the UI can route the user to re-authentication;
// retryable failures get a 502 with a retryable marker.
func writeError(c *gin.Context, err error) {
	kind := backend.KindOf(err)

	status := http.StatusBadGateway
	switch kind {
	case backend.ErrKindUnauthorized:
		status = http.StatusUnauthorized
	case backend.ErrKindNotFound:
		status = http.StatusNotFound
	case backend.ErrKindClient, backend.ErrKindValidation:
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"error":     err.Error(),
		"kind":      string(kind),
		"retryable": kind == backend.ErrKindTransport || kind == backend.ErrKindDecode,
	})
}
