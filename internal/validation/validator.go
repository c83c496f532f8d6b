// Package validation wraps go-playground/validator with a shared instance and
// readable error messages.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error implements error.
func (e FieldError) Error() string { return e.Message }

// Error collects every failed rule of a struct.
type Error struct {
	Fields []FieldError
}

// Error implements error.
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Get returns the shared validator. Safe for concurrent use.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct validates s and returns nil or an *Error.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &Error{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		}
	}
	return out
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"dive":     "%s is invalid",
}

var messageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"min":   "%s must have at least %s entries",
	"max":   "%s must have at most %s entries",
}

func translate(fe validator.FieldError) string {
	field := fe.Namespace()
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
}
