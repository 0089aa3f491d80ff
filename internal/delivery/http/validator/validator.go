// Package validator adapts go-playground/validator to echo's Validator
// interface and turns tag failures into per-field messages.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	domainerrors "eventhub/internal/domain/errors"
	"eventhub/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Error aggregates validation failures for a single request payload.
type Error struct {
	Fields []domainerrors.FieldError
}

// Error implements the error interface.
func (e *Error) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		messages = append(messages, field.Field+": "+field.Message)
	}

	return "validation failed: " + strings.Join(messages, "; ")
}

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds the validator. Field names in messages come from json tags so
// they match what clients actually sent.
func New() *CustomValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return &CustomValidator{validate: validate}
}

// Validate checks the struct's validate tags and reports every failing field.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var tagErrs validator.ValidationErrors
	if !errors.As(err, &tagErrs) {
		return errors.Wrap(err, "validation failed")
	}

	fields := make([]domainerrors.FieldError, 0, len(tagErrs))
	for _, tagErr := range tagErrs {
		fields = append(fields, domainerrors.FieldError{
			Field:   tagErr.Field(),
			Message: messageFor(tagErr),
		})
	}

	return &Error{Fields: fields}
}

func messageFor(tagErr validator.FieldError) string {
	switch tagErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", tagErr.Field())
	case "email":
		return "invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", tagErr.Field(), tagErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", tagErr.Field(), strings.ReplaceAll(tagErr.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed on the %s rule", tagErr.Field(), tagErr.Tag())
	}
}
