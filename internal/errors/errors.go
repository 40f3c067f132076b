package errors

import "fmt"

// ErrorCode represents a Lapse error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"    // 400
	ErrInvalidQuery     ErrorCode = "INVALID_QUERY"      // 400
	ErrDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND" // 404
	ErrVaultIO          ErrorCode = "VAULT_IO"           // 502
	ErrInternal         ErrorCode = "INTERNAL"           // 500
)

// LapseError represents a structured error with code, status, and details.
//
// Malformed document content never produces a LapseError: the codec and the
// aggregation engine degrade to "field absent" / "document skipped" instead.
// These codes cover the CLI and MCP surfaces only.
type LapseError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LapseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LapseError {
	return &LapseError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidQuery creates a 400 error for an unusable query specification.
func NewInvalidQuery(msg string) *LapseError {
	return &LapseError{
		Code:    ErrInvalidQuery,
		Status:  400,
		Message: msg,
	}
}

// NewDocumentNotFound creates a 404 error for a missing document.
func NewDocumentNotFound(id string) *LapseError {
	return &LapseError{
		Code:    ErrDocumentNotFound,
		Status:  404,
		Message: fmt.Sprintf("document not found: %s", id),
		Details: map[string]any{"document": id},
	}
}

// NewVaultIO creates a 502 error for a failed vault read or write.
func NewVaultIO(id string, err error) *LapseError {
	msg := fmt.Sprintf("vault operation failed for %s", id)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &LapseError{
		Code:    ErrVaultIO,
		Status:  502,
		Message: msg,
		Details: map[string]any{"document": id},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *LapseError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &LapseError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a LapseError with the given code.
func Is(err error, code ErrorCode) bool {
	if lErr, ok := err.(*LapseError); ok {
		return lErr.Code == code
	}
	return false
}
