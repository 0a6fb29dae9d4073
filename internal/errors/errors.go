package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinels every service error is marked with. The mark decides the HTTP status.
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrUnauthenticated  = new(ErrCodeUnauthenticated, "unauthenticated")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	sentinels = []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrValidation,
		ErrInvalidOperation,
		ErrPermissionDenied,
		ErrUnauthenticated,
		ErrDatabase,
		ErrSystem,
	}

	statusCodeMap = map[error]int{
		ErrNotFound:         http.StatusNotFound,
		ErrAlreadyExists:    http.StatusConflict,
		ErrValidation:       http.StatusBadRequest,
		ErrInvalidOperation: http.StatusBadRequest,
		ErrPermissionDenied: http.StatusForbidden,
		ErrUnauthenticated:  http.StatusUnauthorized,
		ErrDatabase:         http.StatusInternalServerError,
		ErrSystem:           http.StatusInternalServerError,
	}
)

const (
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeUnauthenticated  = "unauthenticated"
	ErrCodeDatabase         = "database_error"
	ErrCodeSystemError      = "system_error"
)

// InternalError is a coded sentinel.
type InternalError struct {
	Code    string
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func new(code string, message string) *InternalError {
	return &InternalError{Code: code, Message: message}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// HTTPStatusFromErr maps a marked error to its HTTP status. When a chain carries
// several marks the outermost one wins. Unmarked errors are 500.
func HTTPStatusFromErr(err error) int {
	for cur := err; cur != nil; cur = errors.UnwrapOnce(cur) {
		next := errors.UnwrapOnce(cur)
		for _, sentinel := range sentinels {
			if errors.Is(cur, sentinel) && (next == nil || !errors.Is(next, sentinel)) {
				return statusCodeMap[sentinel]
			}
		}
	}
	return http.StatusInternalServerError
}

// DisplayMessage returns the outermost user-facing hint, or the error text when none was attached.
// GetAllHints lists hints innermost first, so a service hint overrides a repository one.
func DisplayMessage(err error) string {
	hints := errors.GetAllHints(err)
	for i := len(hints) - 1; i >= 0; i-- {
		if hint := strings.TrimSpace(hints[i]); hint != "" {
			return hint
		}
	}
	return err.Error()
}
