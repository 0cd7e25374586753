package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"knowledge-network/internal/apperr"
	"knowledge-network/pkg/logger"

	"github.com/gin-gonic/gin"
)

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts with {"error": msg}. Storage and unclassified errors are
// logged and reported generically. A cancelled or timed-out request is not a
// server fault and is only logged at warn.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := publicMessage(err)
	switch status {
	case http.StatusInternalServerError:
		logger.FromGin(c).Error("request failed", "err", err)
		msg = "internal server error"
	case http.StatusServiceUnavailable:
		logger.FromGin(c).Warn("request abandoned", "err", err)
		msg = "request cancelled or timed out"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// publicMessage drops the sentinel prefix ("not found: asset x" -> "asset x").
func publicMessage(err error) string {
	msg := err.Error()
	for _, s := range []error{apperr.ErrValidation, apperr.ErrUnauthorized, apperr.ErrForbidden, apperr.ErrNotFound, apperr.ErrConflict} {
		if p := s.Error() + ": "; strings.HasPrefix(msg, p) {
			return strings.TrimPrefix(msg, p)
		}
	}
	return msg
}

func badJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
}
