package api

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"wellprod-backend/pkg/api"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns a shared validator that reports fields by their json
// names.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func validateRequest(req any) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	detail := make([]api.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := "failed '" + fe.Tag() + "' validation"
		if fe.Tag() == "required" {
			msg = "field required"
		}
		detail = append(detail, api.FieldError{Field: fe.Field(), Message: msg})
	}
	return &validationError{detail: detail}
}
