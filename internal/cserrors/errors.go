package cserrors

import "fmt"

// CodeSearchError is the structured error type threaded through the
// scan/chunk/embed/store pipeline. Category and severity are derived from
// Code so callers only need to supply a code, a message, and the cause.
type CodeSearchError struct {
	// Code is the error code, e.g. ERR_202_FILE_TOO_LARGE.
	Code string

	// Message is the human-readable error message.
	Message string

	// Category classifies the error for reporting.
	Category Category

	// Severity says whether the enclosing operation must abort.
	Severity Severity

	// Details carries extra context (file path, codebase id, etc).
	Details map[string]string

	// Cause is the underlying error, if any.
	Cause error

	// Retryable is true for errors worth retrying as-is (currently none
	// of this taxonomy's codes are: embedder/storage failures need a
	// caller-level retry policy, not a flag on the error itself).
	Retryable bool

	// Suggestion is an optional actionable hint for the caller.
	Suggestion string
}

// Error implements the error interface.
func (e *CodeSearchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes Cause so errors.Is/errors.As traverse the chain.
func (e *CodeSearchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a CodeSearchError with the same Code.
func (e *CodeSearchError) Is(target error) bool {
	t, ok := target.(*CodeSearchError)
	return ok && e.Code == t.Code
}

// WithDetail attaches a key-value detail and returns e for chaining.
func (e *CodeSearchError) WithDetail(key, value string) *CodeSearchError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion sets an actionable suggestion and returns e for chaining.
func (e *CodeSearchError) WithSuggestion(suggestion string) *CodeSearchError {
	e.Suggestion = suggestion
	return e
}

// New creates a CodeSearchError with category and severity derived from
// code.
func New(code, message string, cause error) *CodeSearchError {
	return &CodeSearchError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a CodeSearchError from an existing error, using err's
// message as the CodeSearchError message. Returns nil if err is nil.
func Wrap(code string, err error) *CodeSearchError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// IsFatal reports whether err is a CodeSearchError whose severity should
// abort the enclosing index() or search() call.
func IsFatal(err error) bool {
	ce, ok := err.(*CodeSearchError)
	return ok && ce.Severity == SeverityFatal
}

// Code extracts the error code from err, or "" if err isn't a
// CodeSearchError.
func Code(err error) string {
	if ce, ok := err.(*CodeSearchError); ok {
		return ce.Code
	}
	return ""
}
