package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified container error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is matching. Matching compares codes only.
var (
	ErrNotFound           = &AppError{Code: ErrCodeNotFound}
	ErrTypeMismatch       = &AppError{Code: ErrCodeTypeMismatch}
	ErrExpectedFactory    = &AppError{Code: ErrCodeExpectedFactory}
	ErrCyclicParentChain  = &AppError{Code: ErrCodeCyclicParentChain}
	ErrPropertyResolution = &AppError{Code: ErrCodePropertyResolution}
	ErrConstruction       = &AppError{Code: ErrCodeConstruction}
	ErrHook               = &AppError{Code: ErrCodeHook}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if stderrors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// NotFound creates an error for a component name that no container in the
// hierarchy can resolve.
func NotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("no component named %q is defined", name),
		Details: map[string]any{"component": name},
	}
}

// TypeMismatch creates an error for an instance incompatible with the requested type.
func TypeMismatch(name, expected, actual string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("component %q is %s, expected %s", name, actual, expected),
		Details: map[string]any{"component": name, "expected": expected, "actual": actual},
	}
}

// ExpectedFactory creates an error for a factory dereference against a plain component.
func ExpectedFactory(name, actual string) *AppError {
	return &AppError{
		Code: ErrCodeExpectedFactory, Message: fmt.Sprintf("component %q is %s, not a factory", name, actual),
		Details: map[string]any{"component": name, "actual": actual},
	}
}

// CyclicParentChain creates an error for a descriptor whose parent chain
// exceeded the merge depth bound.
func CyclicParentChain(name string, chain []string) *AppError {
	return &AppError{
		Code: ErrCodeCyclicParentChain,
		Message: fmt.Sprintf("parent chain of %q is cyclic or too deep: %s",
			name, strings.Join(chain, " -> ")),
		Details: map[string]any{"component": name, "chain": chain},
	}
}

// PropertyResolution creates an error naming the property that failed.
func PropertyResolution(component, property string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodePropertyResolution,
		Message:   fmt.Sprintf("cannot resolve property %q of %q", property, component),
		Retryable: true,
		Details:   map[string]any{"component": component, "property": property},
		Cause:     cause,
	}
}

// Construction creates an error for a component that could not be built.
func Construction(component string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeConstruction,
		Message:   fmt.Sprintf("cannot construct %q", component),
		Retryable: true,
		Details:   map[string]any{"component": component},
		Cause:     cause,
	}
}

// Hook creates an error for a failed lifecycle hook.
func Hook(component, hook string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeHook,
		Message:   fmt.Sprintf("hook %q of %q failed", hook, component),
		Retryable: true,
		Details:   map[string]any{"component": component, "hook": hook},
		Cause:     cause,
	}
}

// AlreadyExists creates an error for a duplicate registration.
func AlreadyExists(kind, name string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("%s %q is already registered", kind, name),
		Details: map[string]any{"kind": kind, "name": name},
	}
}

// InvalidInput creates an error for a malformed argument.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected container error occurred",
		Cause: cause,
	}
}

// --- Predicates ---

func hasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &AppError{Code: code})
}

// IsNotFound reports whether err, or any error it wraps, is NOT_FOUND.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsTypeMismatch reports whether err is TYPE_MISMATCH.
func IsTypeMismatch(err error) bool { return hasCode(err, ErrCodeTypeMismatch) }

// IsExpectedFactory reports whether err is EXPECTED_FACTORY_COMPONENT.
func IsExpectedFactory(err error) bool { return hasCode(err, ErrCodeExpectedFactory) }

// IsCyclicParentChain reports whether err is CYCLIC_PARENT_CHAIN.
func IsCyclicParentChain(err error) bool { return hasCode(err, ErrCodeCyclicParentChain) }

// IsConstruction reports whether err is CONSTRUCTION_FAILED.
func IsConstruction(err error) bool { return hasCode(err, ErrCodeConstruction) }

// IsHook reports whether err is HOOK_FAILED.
func IsHook(err error) bool { return hasCode(err, ErrCodeHook) }
