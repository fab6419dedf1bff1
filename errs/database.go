package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrPersistence is the root of every record-store failure.
var ErrPersistence = errors.New("persistence failure")

var (
	ErrAlreadyExists             = errors.New("already exists")
	ErrNotFound                  = errors.New("not found")
	ErrDatabaseQuery             = fmt.Errorf("database query failed: %w", ErrPersistence)
	ErrDatabaseConnection        = fmt.Errorf("database connection failed: %w", ErrPersistence)
	ErrUniqueConstraintViolation = fmt.Errorf("unique constraint violation: %w", ErrPersistence)
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// already classified further down the stack
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	// Check for common database errors and provide more specific messages
	if cause != nil {
		errStr := strings.ToLower(cause.Error())
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "e11000"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        ErrUniqueConstraintViolation,
				Details:    fmt.Sprintf("%s already exists", entity),
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func IsUniqueConstraintViolationError(err error) bool {
	return errors.Is(err, ErrUniqueConstraintViolation)
}
