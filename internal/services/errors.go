package services

import (
	"errors"
)

// Errors surfaced to the boundary layer. The presentation layer maps these
// onto its transport (403/404/405 in the HTTP case); storage detail never
// crosses this line. Every one of them is returned before any mutation.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// ValidationError reports input that fails a content constraint, such as an
// empty comment body or a too-short title.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
