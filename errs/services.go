package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party API Errors
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrServiceDisabled    = errors.New("service not configured")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s request failed", service),
		Field:      "service",
		Cause:      cause,
	}
}

func NewServiceDisabledError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceDisabled,
		Details:    fmt.Sprintf("%s is not configured", service),
		Field:      "service",
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Invalid configuration: %s", configName),
		Field:      configName,
		Cause:      cause,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Missing environment variable: %s", varName),
		Field:      varName,
	}
}

func IsServiceUnavailableError(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

func IsServiceDisabledError(err error) bool {
	return errors.Is(err, ErrServiceDisabled)
}
