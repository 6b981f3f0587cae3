package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a request payload against its validate tags. Missing
// fields are reported together; any other violation names the first field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.ActualTag() == "required" {
			missing = append(missing, fieldPath(fe))
			continue
		}
		invalid = append(invalid, fieldPath(fe))
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(
			"Missing required fields: "+strings.Join(missing, ", "),
			map[string]any{"fields": missing},
		)
	}
	return apperrors.NewValidationError(
		"Invalid value for field "+invalid[0],
		map[string]any{"fields": invalid},
	)
}

// fieldPath drops the struct name from the namespace, e.g. items[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
