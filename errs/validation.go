package errs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FromValidator converts the first failure reported by go-playground/validator into an
// ApiErr. Other errors become a bad request.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewBadRequestError(err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return NewMissingRequiredFieldError(field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return NewMissingRequiredFieldError(field)
		}
		return NewInvalidFieldError(field, fmt.Sprintf("must be at least %s characters", fe.Param()))
	case "max":
		return NewInvalidFieldError(field, fmt.Sprintf("must be at most %s characters", fe.Param()))
	case "email":
		return NewInvalidFieldError(field, "must be a valid email address")
	case "url", "http_url":
		return NewInvalidFieldError(field, "must be an absolute http(s) URL")
	}
	return NewInvalidFieldError(field, fmt.Sprintf("failed %q check", fe.Tag()))
}

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
