// Package credentials manages LinkedIn login credentials as an opaque
// handle. The engine carries the handle but never inspects, logs, or
// serializes the secret; only the session authenticator reads it back.
package credentials

import (
	"fmt"
	"os"
)

// Environment variable names for the env-based credential source.
const (
	EnvEmail    = "LINKEDIN_EMAIL"
	EnvPassword = "LINKEDIN_PASSWORD"
)

const redacted = `"<redacted>"`

// Credentials is an opaque credential handle. The zero value is invalid;
// construct with New or resolve with Resolve/FromEnv.
type Credentials struct {
	email    string
	password string
}

// New builds a credential handle. Both fields are required.
func New(email, password string) (Credentials, error) {
	if email == "" {
		return Credentials{}, fmt.Errorf("credentials: email is required")
	}
	if password == "" {
		return Credentials{}, fmt.Errorf("credentials: password is required")
	}
	return Credentials{email: email, password: password}, nil
}

// Email returns the account email.
func (c Credentials) Email() string { return c.email }

// Secret returns the password. Callers must never log or persist the value.
func (c Credentials) Secret() string { return c.password }

// IsZero reports whether the handle is unset.
func (c Credentials) IsZero() bool { return c.email == "" && c.password == "" }

// String redacts the secret so accidental formatting never leaks it.
func (c Credentials) String() string {
	return fmt.Sprintf("credentials(%s)", c.email)
}

// GoString redacts the secret in %#v output.
func (c Credentials) GoString() string {
	return c.String()
}

// MarshalJSON redacts the handle entirely; credentials are never serialized
// as part of reports or logs.
func (c Credentials) MarshalJSON() ([]byte, error) {
	return []byte(redacted), nil
}

// FromEnv reads credentials from LINKEDIN_EMAIL / LINKEDIN_PASSWORD.
func FromEnv() (Credentials, error) {
	email := os.Getenv(EnvEmail)
	password := os.Getenv(EnvPassword)
	if email == "" || password == "" {
		return Credentials{}, fmt.Errorf("credentials: %s and %s must both be set", EnvEmail, EnvPassword)
	}
	return New(email, password)
}

// Resolve returns credentials from the first available source: the encrypted
// local store under dir, then the environment. The returned source names
// where the credentials came from ("store" or "env").
func Resolve(dir string) (Credentials, string, error) {
	if creds, err := LoadFromStore(dir); err == nil {
		return creds, "store", nil
	}
	creds, err := FromEnv()
	if err != nil {
		return Credentials{}, "", fmt.Errorf("credentials: no encrypted store under %s and environment is not set", dir)
	}
	return creds, "env", nil
}
