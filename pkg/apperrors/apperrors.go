package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError into the small closed error taxonomy the API
// exposes. Callers branch on the kind (or the HTTP status derived from it)
// instead of inspecting error strings.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// AppError is an error carrying an HTTP status and a client-facing message.
// Operational errors are expected failures whose message is safe to show to
// clients; non-operational errors are flattened to a generic message in
// production.
type AppError struct {
	Kind        Kind
	Status      int
	Message     string
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation reports malformed, missing, or out-of-range input (400).
func NewValidation(message string) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Operational: true}
}

// NewUnauthorized reports a missing, malformed, or expired credential (401).
func NewUnauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message, Operational: true}
}

// NewForbidden reports an authenticated identity lacking the required role (403).
func NewForbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Status: http.StatusForbidden, Message: message, Operational: true}
}

// NewNotFound reports an absent resource, including resources hidden from
// non-owners (404).
func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message, Operational: true}
}

// NewConflict reports a uniqueness violation. The status is 400 to match the
// API's historical mapping of unique-constraint failures.
func NewConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusBadRequest, Message: message, Operational: true}
}

// NewInternal wraps an unanticipated error (500). Not operational: the
// wrapped detail is logged server-side, never shown to clients in production.
func NewInternal(err error) *AppError {
	return &AppError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Something went wrong", Err: err}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
