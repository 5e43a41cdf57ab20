package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/beankit/errors"
)

// FieldError is a single violation on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// Rules collects validation errors from chained checks.
type Rules struct {
	errors []FieldError
}

// NewRules creates an empty rule set.
func NewRules() *Rules {
	return &Rules{errors: make([]FieldError, 0)}
}

// AddError records a violation.
func (r *Rules) AddError(field, message string) {
	r.errors = append(r.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (r *Rules) HasErrors() bool {
	return len(r.errors) > 0
}

// Errors returns all recorded violations.
func (r *Rules) Errors() []FieldError {
	return r.errors
}

// Validate returns an INVALID_INPUT AppError listing every violation, or nil.
func (r *Rules) Validate() error {
	if !r.HasErrors() {
		return nil
	}
	messages := make([]string, len(r.errors))
	for i, e := range r.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return errors.New(errors.ErrCodeInvalidInput, strings.Join(messages, "; ")).
		WithDetail("fields", r.errors)
}

// Required checks that a string is non-blank.
func (r *Rules) Required(field, value string) *Rules {
	if strings.TrimSpace(value) == "" {
		r.AddError(field, "is required")
	}
	return r
}

// Range checks that a number lies within [minVal, maxVal].
func (r *Rules) Range(field string, value, minVal, maxVal int) *Rules {
	if value < minVal || value > maxVal {
		r.AddError(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal))
	}
	return r
}

// Min checks that a number is at least minVal.
func (r *Rules) Min(field string, value, minVal int) *Rules {
	if value < minVal {
		r.AddError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return r
}

// OneOf checks that a non-empty value is one of allowed.
func (r *Rules) OneOf(field, value string, allowed []string) *Rules {
	if value == "" {
		return r
	}
	for _, a := range allowed {
		if value == a {
			return r
		}
	}
	r.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return r
}

// Custom records message when condition is false.
func (r *Rules) Custom(condition bool, field, message string) *Rules {
	if !condition {
		r.AddError(field, message)
	}
	return r
}
