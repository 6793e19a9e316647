package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var processCodeRegex = regexp.MustCompile(`^PROC-[A-Z0-9-]+$`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report wire names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("codigo_proceso", validateProcessCode)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func validateProcessCode(fl validator.FieldLevel) bool {
	return processCodeRegex.MatchString(fl.Field().String())
}

// FieldError is one entry of the details list attached to a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// IsValidationError reports whether err came from schema validation.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// Details flattens a validation error into field-level messages.
func Details(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return details
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio", fe.Field())
	case "email":
		return "Email inválido"
	case "max":
		return fmt.Sprintf("El campo %s no puede exceder %s caracteres", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("El campo %s no puede ser menor que %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("El campo %s no puede ser mayor que %s", fe.Field(), fe.Param())
	case "codigo_proceso":
		return "El código debe tener el formato PROC-XXX"
	default:
		return fmt.Sprintf("El campo %s es inválido", fe.Field())
	}
}
