package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when the server rejects the password (401).
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when no account matches the email (404).
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("not logged in")
)

// Kind classifies an AuthError.
type Kind string

const (
	KindValidation Kind = "validation"
	KindOther      Kind = "other"
)

// AuthError carries a message for a failed login or registration that is
// not one of the sentinel cases.
type AuthError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *AuthError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}
