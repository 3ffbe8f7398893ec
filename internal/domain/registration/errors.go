package registration

import "errors"

var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrDuplicateDetails = errors.New("An account with these details already exists. Please sign in instead or use different information.")
	ErrDuplicateEmail   = errors.New("An account with this email address already exists. Please sign in or use a different email.")
)

// ValidationError carries field -> failed rule from the struct validator.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation failed" }
