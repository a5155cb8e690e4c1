// Package session establishes the authenticated LinkedIn browsing session.
package session

import "fmt"

// AuthKind classifies authentication failures.
type AuthKind string

const (
	// InvalidCredentials means the site rejected the email/password pair.
	// Terminal for the run; never retried.
	InvalidCredentials AuthKind = "InvalidCredentials"
	// VerificationRequired means the site demanded a manual challenge
	// (two-factor, checkpoint). Terminal for the run; never retried.
	VerificationRequired AuthKind = "VerificationRequired"
	// TransientError covers network or site availability failures. Retried
	// once with backoff before becoming terminal.
	TransientError AuthKind = "TransientError"
)

// AuthError represents an authentication failure.
type AuthError struct {
	Kind    AuthKind
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error (%s): %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}
