package errors

import (
	"fmt"
	"testing"
)

func TestLapseError_Error(t *testing.T) {
	err := &LapseError{
		Code:    ErrDocumentNotFound,
		Status:  404,
		Message: "document not found",
	}

	expected := "DOCUMENT_NOT_FOUND: document not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidQuery(t *testing.T) {
	err := NewInvalidQuery("period must be one of: today, thisWeek, thisMonth, lastWeek, lastMonth")

	if err.Code != ErrInvalidQuery {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidQuery)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
}

func TestNewDocumentNotFound(t *testing.T) {
	err := NewDocumentNotFound("Projects/alpha.md")

	if err.Code != ErrDocumentNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrDocumentNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["document"] != "Projects/alpha.md" {
		t.Errorf("Details[document] = %v, want %q", err.Details["document"], "Projects/alpha.md")
	}
}

func TestNewVaultIO(t *testing.T) {
	err := NewVaultIO("notes/a.md", fmt.Errorf("permission denied"))

	if err.Code != ErrVaultIO {
		t.Errorf("Code = %q, want %q", err.Code, ErrVaultIO)
	}
	if err.Details["document"] != "notes/a.md" {
		t.Errorf("Details[document] = %v, want %q", err.Details["document"], "notes/a.md")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want 'internal error'", err.Message)
	}
}

func TestIs(t *testing.T) {
	err := NewInvalidQuery("bad period")

	if !Is(err, ErrInvalidQuery) {
		t.Error("Is(err, ErrInvalidQuery) = false, want true")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(err, ErrInternal) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrInternal) {
		t.Error("Is(plain error, ErrInternal) = true, want false")
	}
}
