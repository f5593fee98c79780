package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

var errInternal = errors.New("internal server error")

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	RespondErrorWithDetails(c, status, code, err, nil)
}

func RespondErrorWithDetails(c *gin.Context, status int, code string, err error, details any) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Details: details,
		},
	})
}

// RespondFromError maps err onto its HTTP status. 5xx errors are logged with
// the request path; unclassified ones report a generic message to the client.
func RespondFromError(c *gin.Context, log *logger.Logger, err error) {
	ae := apierr.FromError(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, "unclassified_error", nil)
		return
	}
	if ae.Status >= http.StatusInternalServerError && log != nil {
		log.Error("Request failed",
			"path", c.FullPath(),
			"status", ae.Status,
			"code", ae.Code,
			"error", err,
		)
	}
	var out error = ae
	if ae.Status == http.StatusInternalServerError {
		out = errInternal
	}
	RespondErrorWithDetails(c, ae.Status, ae.Code, out, ae.Details)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
