package errors

import (
	"fmt"
	"testing"
)

func TestVaultError_Error(t *testing.T) {
	err := &VaultError{
		Code:    ErrNotFound,
		Message: "file not found: hr.json",
	}

	expected := "NOT_FOUND: file not found: hr.json"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidPayload(t *testing.T) {
	err := NewInvalidPayload("issue body is not valid JSON")

	if err.Code != ErrInvalidPayload {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidPayload)
	}
	if err.Message != "issue body is not valid JSON" {
		t.Errorf("Message = %q, want %q", err.Message, "issue body is not valid JSON")
	}
}

func TestNewValidation(t *testing.T) {
	err := NewValidation("metrics[1].data[0].date", "required string is missing")

	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	// The field path must appear verbatim in the message so it can be posted
	// to a human reviewer as-is.
	want := "metrics[1].data[0].date: required string is missing"
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
	if err.Details["path"] != "metrics[1].data[0].date" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "metrics[1].data[0].date")
	}
}

func TestNewUnauthorized(t *testing.T) {
	err := NewUnauthorized("mallory")

	if err.Code != ErrUnauthorized {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnauthorized)
	}
	if err.Details["sender"] != "mallory" {
		t.Errorf("Details[sender] = %v, want %q", err.Details["sender"], "mallory")
	}
}

func TestNewWriteFailed(t *testing.T) {
	err := NewWriteFailed("hr.json", fmt.Errorf("disk full"))

	if err.Code != ErrWriteFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrWriteFailed)
	}
	if err.Details["file"] != "hr.json" {
		t.Errorf("Details[file] = %v, want %q", err.Details["file"], "hr.json")
	}
}

func TestNewInternal_Nil(t *testing.T) {
	err := NewInternal(nil)

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "an internal error occurred" {
		t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
	}
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("hr.json")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("hr.json")
		if Is(err, ErrWriteFailed) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-VaultError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-VaultError")
		}
	})

	t.Run("wrapped VaultError", func(t *testing.T) {
		inner := NewNotFound("hr.json")
		wrapped := fmt.Errorf("reading state: %w", inner)
		if !Is(wrapped, ErrNotFound) {
			t.Error("Is() = false, want true for wrapped VaultError")
		}
	})
}
