package errors

import (
	"fmt"
	"testing"
)

func TestSelError_Error(t *testing.T) {
	err := &SelError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "saved selection not found",
	}

	expected := "NOT_FOUND: saved selection not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("name is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "name is required" {
		t.Errorf("Message = %q, want %q", err.Message, "name is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("preset-a")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["name"] != "preset-a" {
		t.Errorf("Details[name] = %v, want %q", err.Details["name"], "preset-a")
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/zones.json")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Details["path"] != "/tmp/zones.json" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "/tmp/zones.json")
	}
}

func TestNewNameAlreadyExists(t *testing.T) {
	err := NewNameAlreadyExists("review")

	if err.Code != ErrNameAlreadyExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrNameAlreadyExists)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
}

func TestNewMalformedRecord(t *testing.T) {
	err := NewMalformedRecord("broken", fmt.Errorf("unexpected end of JSON input"))

	if err.Code != ErrMalformedRecord {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedRecord)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Details["decode_error"] != "unexpected end of JSON input" {
		t.Errorf("Details[decode_error] = %v", err.Details["decode_error"])
	}
}

func TestNewStorageFailure(t *testing.T) {
	err := NewStorageFailure("save", fmt.Errorf("database is closed"))

	if err.Code != ErrStorageFailure {
		t.Errorf("Code = %q, want %q", err.Code, ErrStorageFailure)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
	if err.Details["operation"] != "save" {
		t.Errorf("Details[operation] = %v, want %q", err.Details["operation"], "save")
	}
	if err.Details["storage_error"] != "database is closed" {
		t.Errorf("Details[storage_error] = %v", err.Details["storage_error"])
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("export")

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Message != "export cancelled" {
		t.Errorf("Message = %q, want %q", err.Message, "export cancelled")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("database connection failed"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		if !Is(NewNotFound("x"), ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		if Is(NewNotFound("x"), ErrStorageFailure) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-SelError", func(t *testing.T) {
		if Is(fmt.Errorf("plain error"), ErrNotFound) {
			t.Error("Is() = true, want false for non-SelError")
		}
	})

	t.Run("wrapped SelError", func(t *testing.T) {
		wrapped := fmt.Errorf("load: %w", NewStorageFailure("load", nil))
		if !Is(wrapped, ErrStorageFailure) {
			t.Error("Is() = false, want true for wrapped SelError")
		}
	})
}
