// Package credentials - store.go provides the encrypted local credential
// store: a random key file plus a secretbox-sealed blob, both 0600.
package credentials

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
)

// Store file names under the credential directory.
const (
	KeyFileName  = "credentials.key"
	BlobFileName = "credentials.enc"
)

const (
	keySize   = 32
	nonceSize = 24
)

// storedCredentials is the plaintext layout sealed into the blob file.
type storedCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DefaultDir returns the per-user credential directory (~/.easyapply).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".easyapply"), nil
}

// SaveToStore seals the credentials under dir, generating a fresh key. Any
// previous store is overwritten.
func SaveToStore(dir string, creds Credentials) error {
	if creds.IsZero() {
		return fmt.Errorf("credentials: refusing to store empty credentials")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credential dir: %w", err)
	}

	var key [keySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	plaintext, err := json.Marshal(storedCredentials{Email: creds.email, Password: creds.password})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Blob layout: nonce || sealed ciphertext.
	blob := secretbox.Seal(nonce[:], plaintext, &nonce, &key)

	if err := os.WriteFile(filepath.Join(dir, KeyFileName), key[:], 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, BlobFileName), blob, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

// LoadFromStore opens the sealed credentials under dir.
func LoadFromStore(dir string) (Credentials, error) {
	keyBytes, err := os.ReadFile(filepath.Join(dir, KeyFileName))
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read key file: %w", err)
	}
	if len(keyBytes) != keySize {
		return Credentials{}, fmt.Errorf("credential key file is corrupt")
	}

	blob, err := os.ReadFile(filepath.Join(dir, BlobFileName))
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credential file: %w", err)
	}
	if len(blob) < nonceSize {
		return Credentials{}, fmt.Errorf("credential file is corrupt")
	}

	var key [keySize]byte
	copy(key[:], keyBytes)
	var nonce [nonceSize]byte
	copy(nonce[:], blob[:nonceSize])

	plaintext, ok := secretbox.Open(nil, blob[nonceSize:], &nonce, &key)
	if !ok {
		return Credentials{}, fmt.Errorf("failed to decrypt credentials (key/blob mismatch)")
	}

	var stored storedCredentials
	if err := json.Unmarshal(plaintext, &stored); err != nil {
		return Credentials{}, fmt.Errorf("failed to decode credentials: %w", err)
	}
	return New(stored.Email, stored.Password)
}

// StoreExists reports whether dir holds a complete credential store.
func StoreExists(dir string) bool {
	for _, name := range []string{KeyFileName, BlobFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}
