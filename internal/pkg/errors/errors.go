package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/pkg/httpx"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCredentialMissing marks an optional capability whose credential is absent.
	ErrCredentialMissing = errors.New("credential missing")
	// ErrConflict is a duplicate-key or uniqueness violation on save.
	ErrConflict = errors.New("conflict")
	// ErrServiceUnavailable is an external API or network failure the caller may retry.
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)

type FieldError struct {
	Field   string   `json:"field"`
	Value   string   `json:"value"`
	Allowed []string `json:"allowed,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// ValidationError lists absent fields and fields with invalid values.
type ValidationError struct {
	Missing []string     `json:"missing,omitempty"`
	Invalid []FieldError `json:"invalid,omitempty"`
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	for _, fe := range e.Invalid {
		switch {
		case len(fe.Allowed) > 0:
			parts = append(parts, fmt.Sprintf("invalid %s %q (allowed: %s)", fe.Field, fe.Value, strings.Join(fe.Allowed, ", ")))
		case fe.Reason != "":
			parts = append(parts, fmt.Sprintf("invalid %s %q: %s", fe.Field, fe.Value, fe.Reason))
		default:
			parts = append(parts, fmt.Sprintf("invalid %s %q", fe.Field, fe.Value))
		}
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Empty() bool {
	return e == nil || (len(e.Missing) == 0 && len(e.Invalid) == 0)
}

// ExternalServiceError is a failed remote call (network, non-2xx, malformed
// response, timeout).
type ExternalServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Service
	if e.Op != "" {
		msg += " " + e.Op
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": external service error"
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewExternal(service, op string, err error) error {
	return &ExternalServiceError{Service: service, Op: op, Err: err}
}

type Category string

const (
	CategoryValidation          Category = "validation"
	CategoryCredentialMissing   Category = "credential_missing"
	CategoryExternalService     Category = "external_service"
	CategoryPersistenceConflict Category = "persistence_conflict"
	CategoryServiceUnavailable  Category = "service_unavailable"
	CategoryNotFound            Category = "not_found"
	CategoryUnauthorized        Category = "unauthorized"
	CategoryForbidden           Category = "forbidden"
	CategoryInvalidArgument     Category = "invalid_argument"
	CategoryUnclassified        Category = "unclassified"
)

func Classify(err error) Category {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return CategoryValidation
	case errors.Is(err, ErrInvalidArgument):
		return CategoryInvalidArgument
	case errors.Is(err, ErrUnauthorized):
		return CategoryUnauthorized
	case errors.Is(err, ErrForbidden):
		return CategoryForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return CategoryNotFound
	case IsDuplicateKey(err):
		return CategoryPersistenceConflict
	case errors.Is(err, ErrCredentialMissing):
		return CategoryCredentialMissing
	}
	var extErr *ExternalServiceError
	if errors.As(err, &extErr) {
		return CategoryExternalService
	}
	if errors.Is(err, ErrServiceUnavailable) || httpx.IsTransientError(err) || looksExternal(err.Error()) {
		return CategoryServiceUnavailable
	}
	return CategoryUnclassified
}

func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint failed")
}

var externalMarkers = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"econnrefused",
	"etimedout",
	"tls handshake",
	"api error",
	"upstream",
	"bad gateway",
	"service unavailable",
}

func looksExternal(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range externalMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
