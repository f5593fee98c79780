package apierr

import (
	"errors"
	"fmt"
	"net/http"

	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
)

type Error struct {
	Status  int
	Code    string
	Err     error
	Details any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps an error onto its HTTP status and code using the error taxonomy.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch apperr.Classify(err) {
	case apperr.CategoryValidation:
		var vErr *apperr.ValidationError
		errors.As(err, &vErr)
		return &Error{Status: http.StatusBadRequest, Code: "validation_error", Err: err, Details: vErr}
	case apperr.CategoryInvalidArgument:
		return New(http.StatusBadRequest, "invalid_argument", err)
	case apperr.CategoryUnauthorized:
		return New(http.StatusUnauthorized, "unauthorized", err)
	case apperr.CategoryForbidden:
		return New(http.StatusForbidden, "forbidden", err)
	case apperr.CategoryNotFound:
		return New(http.StatusNotFound, "not_found", err)
	case apperr.CategoryPersistenceConflict:
		return New(http.StatusConflict, "persistence_conflict", err)
	case apperr.CategoryServiceUnavailable, apperr.CategoryExternalService, apperr.CategoryCredentialMissing:
		return New(http.StatusServiceUnavailable, "service_unavailable", fmt.Errorf("%w: %s", apperr.ErrServiceUnavailable, err.Error()))
	default:
		return New(http.StatusInternalServerError, "unclassified_error", err)
	}
}
