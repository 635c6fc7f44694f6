package response

import (
	"errors"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	appErr := NewAppError(CodeNotFound, "order not found", nil)
	if appErr.Error() != "order not found" {
		t.Fatalf("bare message want %q got %q", "order not found", appErr.Error())
	}

	cause := errors.New("record missing")
	appErr = NewAppError(CodeNotFound, "order not found", cause)
	if appErr.Error() != "order not found: record missing" {
		t.Fatalf("wrapped message got %q", appErr.Error())
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("record missing")
	appErr := NewAppError(CodeInternal, "lookup failed", cause)
	if !errors.Is(appErr, cause) {
		t.Fatalf("errors.Is must reach the cause")
	}
	if errors.Unwrap(NewAppError(CodeInternal, "lookup failed", nil)) != nil {
		t.Fatalf("nil cause must unwrap to nil")
	}
}
