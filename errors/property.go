package errors

import (
	"fmt"
	"strings"
)

// PropertyErrors aggregates the per-property failures of one construction.
// Values that resolved successfully have already been applied when this
// error is returned.
type PropertyErrors struct {
	Component string
	Failures  []*AppError
}

// Add records a failure for property.
func (e *PropertyErrors) Add(property string, cause error) {
	if appErr, ok := AsAppError(cause); ok && appErr.Code == ErrCodePropertyResolution {
		if p, _ := appErr.Details["property"].(string); p == property {
			e.Failures = append(e.Failures, appErr)
			return
		}
	}
	e.Failures = append(e.Failures, PropertyResolution(e.Component, property, cause))
}

// Names returns the offending property names in failure order.
func (e *PropertyErrors) Names() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		if p, ok := f.Details["property"].(string); ok {
			names = append(names, p)
		}
	}
	return names
}

// Empty reports whether no failure was recorded.
func (e *PropertyErrors) Empty() bool { return len(e.Failures) == 0 }

// Error lists every failing property with its cause.
func (e *PropertyErrors) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		p, _ := f.Details["property"].(string)
		if f.Cause != nil {
			parts = append(parts, fmt.Sprintf("%s: %v", p, f.Cause))
		} else {
			parts = append(parts, p)
		}
	}
	return fmt.Sprintf("%d property error(s) on %q: %s", len(e.Failures), e.Component, strings.Join(parts, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *PropertyErrors) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
