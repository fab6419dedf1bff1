package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrStorage is the root of every object-store failure.
var ErrStorage = errors.New("object storage failure")

var (
	ErrUploadFailed = fmt.Errorf("upload failed: %w", ErrStorage)
	ErrDeleteFailed = fmt.Errorf("delete failed: %w", ErrStorage)
)

func NewUploadError(path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUploadFailed,
		Details:    fmt.Sprintf("Failed to upload %s", path),
		Field:      "media",
		Cause:      cause,
	}
}

func NewDeleteObjectError(path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrDeleteFailed,
		Details:    fmt.Sprintf("Failed to delete %s", path),
		Cause:      cause,
	}
}

// IsStorage reports whether err came from the object store.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
