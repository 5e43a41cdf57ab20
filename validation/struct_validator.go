package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	defaultValidator *Validator
	once             sync.Once
)

// Validator runs struct-tag validation on component instances.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with property-name field reporting.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"di", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return toSnakeCase(fld.Name)
	})
	return &Validator{validate: v}
}

// Default returns the shared validator.
func Default() *Validator {
	once.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator
}

// RegisterRule adds a custom validation tag.
func (v *Validator) RegisterRule(tag string, fn func(fl validator.FieldLevel) bool) error {
	return v.validate.RegisterValidation(tag, fn)
}

// Check validates instance and returns one FieldError per violation.
// Instances that are not structs or pointers to structs have nothing to
// check and yield no violations.
func (v *Validator) Check(instance any) []FieldError {
	if !isStruct(instance) {
		return nil
	}
	err := v.validate.Struct(instance)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, FieldError{
			Field:   e.Field(),
			Message: formatValidationError(e),
		})
	}
	return out
}

// Validate is Check reported as a single INVALID_INPUT error.
func (v *Validator) Validate(instance any) error {
	violations := v.Check(instance)
	if len(violations) == 0 {
		return nil
	}
	r := NewRules()
	for _, fe := range violations {
		r.AddError(fe.Field, fe.Message)
	}
	return r.Validate()
}

// Check validates instance with the shared validator.
func Check(instance any) []FieldError {
	return Default().Check(instance)
}

func isStruct(instance any) bool {
	t := reflect.TypeOf(instance)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		if reflect.ValueOf(instance).IsNil() {
			return false
		}
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "failed " + e.Tag() + " check"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
