package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
)

// statusOf maps domain error codes onto transport statuses. Readiness and
// payment-method rejections are client errors (400); gateway trouble and
// anything unexpected are server errors (500).
func statusOf(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.EUNAUTHORIZED:
		return http.StatusForbidden
	case domain.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the uniform error body. Server-side failures keep their detail
// in the log; the client sees only the collapsed code and message.
func fail(c *gin.Context, err error) {
	code := domain.ErrorCode(err)
	status := statusOf(code)
	if status >= http.StatusInternalServerError {
		logging.From(c).Error("request failed", "code", code, "err", err)
	}
	c.JSON(status, gin.H{"error": code, "message": domain.ErrorMessage(err)})
}
