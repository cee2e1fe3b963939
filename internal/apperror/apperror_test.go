package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"missing version", NewMissingVersion(), 400},
		{"forbidden", NewForbidden(), 403},
		{"not found", NewNotFound("note", "abc"), 404},
		{"conflict", NewConflict("note"), 409},
		{"too large", NewTooLarge(8 * 1024 * 1024), 413},
		{"unsupported type", NewUnsupportedType("image/gif"), 415},
		{"validation", NewValidation("name can't be blank"), 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Status(); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFound("folder", 42)
	want := "folder (id : 42) not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsKind(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NewConflict("project"))

	if !IsKind(wrapped, KindConflict) {
		t.Error("IsKind() did not unwrap a conflict")
	}
	if IsKind(wrapped, KindNotFound) {
		t.Error("IsKind() matched the wrong kind")
	}
	if IsKind(errors.New("plain"), KindConflict) {
		t.Error("IsKind() matched a non-app error")
	}
}

func TestAppend(t *testing.T) {
	err := NewValidation("name can't be blank").Append("email is invalid")
	if len(err.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(err.Messages))
	}
}
