package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeConstruction, "failed")
	if !err.Retryable {
		t.Error("CONSTRUCTION_FAILED should be retryable")
	}
}

func TestAppError_NotFound_Details(t *testing.T) {
	err := NotFound("userService")
	if err.Details["component"] != "userService" {
		t.Errorf("expected component=userService, got %v", err.Details["component"])
	}
	if !strings.Contains(err.Error(), "userService") {
		t.Errorf("Error() should name the component, got %q", err.Error())
	}
}

func TestAppError_CyclicParentChain_Message(t *testing.T) {
	err := CyclicParentChain("a", []string{"a", "b", "a"})
	if !strings.Contains(err.Message, "a -> b -> a") {
		t.Errorf("expected chain in message, got %q", err.Message)
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Construction("svc", nil).WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("item").WithDetails(map[string]any{"container": "root"})
	if err.Details["container"] != "root" {
		t.Errorf("expected container=root in details")
	}
	if err.Details["component"] != "item" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Construction("a", NotFound("b")))

	if !stderrors.Is(wrapped, ErrConstruction) {
		t.Error("expected CONSTRUCTION_FAILED to match")
	}
	if !stderrors.Is(wrapped, ErrNotFound) {
		t.Error("expected nested NOT_FOUND to match")
	}
	if stderrors.Is(wrapped, ErrTypeMismatch) {
		t.Error("TYPE_MISMATCH should not match")
	}
}

func TestPredicates_Table(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"not found", NotFound("x"), IsNotFound, true},
		{"type mismatch", TypeMismatch("x", "int", "string"), IsTypeMismatch, true},
		{"expected factory", ExpectedFactory("x", "*main.T"), IsExpectedFactory, true},
		{"cyclic parent", CyclicParentChain("x", nil), IsCyclicParentChain, true},
		{"construction", Construction("x", nil), IsConstruction, true},
		{"hook", Hook("x", "init", nil), IsHook, true},
		{"nested hook", Construction("x", Hook("x", "init", nil)), IsHook, true},
		{"plain error", fmt.Errorf("boom"), IsNotFound, false},
		{"nil error", nil, IsConstruction, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pred(tc.err); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPropertyErrors_Aggregate(t *testing.T) {
	agg := &PropertyErrors{Component: "svc"}
	agg.Add("port", fmt.Errorf("not a number"))
	agg.Add("repo", NotFound("repo"))

	if agg.Empty() {
		t.Fatal("expected failures to be recorded")
	}
	names := agg.Names()
	if len(names) != 2 || names[0] != "port" || names[1] != "repo" {
		t.Errorf("expected [port repo], got %v", names)
	}
	if !strings.Contains(agg.Error(), "port: not a number") {
		t.Errorf("expected property in message, got %q", agg.Error())
	}

	wrapped := Construction("svc", agg)
	if !IsNotFound(wrapped) {
		t.Error("expected NOT_FOUND reachable through the aggregate")
	}
	var got *PropertyErrors
	if !stderrors.As(wrapped, &got) || got != agg {
		t.Error("expected errors.As to find the aggregate")
	}
}

func TestPropertyErrors_AddKeepsExistingPropertyError(t *testing.T) {
	agg := &PropertyErrors{Component: "svc"}
	inner := PropertyResolution("svc", "port", fmt.Errorf("bad"))
	agg.Add("port", inner)
	if agg.Failures[0] != inner {
		t.Error("expected an existing property error to be kept as-is")
	}
}

func TestAppError_HTTPStatus_Table(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("x"), http.StatusNotFound},
		{TypeMismatch("x", "a", "b"), http.StatusBadRequest},
		{AlreadyExists("alias", "x"), http.StatusConflict},
		{Construction("x", nil), http.StatusUnprocessableEntity},
		{Internal(nil), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(string(tc.err.Code), func(t *testing.T) {
			if got := tc.err.HTTPStatus(); got != tc.status {
				t.Errorf("expected %d, got %d", tc.status, got)
			}
		})
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	resp := NotFound("user").ToResponse()
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected code NOT_FOUND in response, got %s", resp.Error.Code)
	}
	if resp.Error.Details["component"] != "user" {
		t.Error("expected component=user in response details")
	}
}

func TestAsAppError(t *testing.T) {
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error should not convert")
	}
	appErr, ok := AsAppError(fmt.Errorf("wrap: %w", Internal(nil)))
	if !ok || appErr.Code != ErrCodeInternal {
		t.Error("expected wrapped AppError to convert")
	}
	if !IsAppError(appErr) {
		t.Error("expected IsAppError true")
	}
}
