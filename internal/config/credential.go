package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// TokenEnv supplies the bearer credential without touching the token file.
const TokenEnv = "HIREWIRE_TOKEN"

// LoadCredential returns the current bearer token, or "" if none is available.
// HIREWIRE_TOKEN takes precedence over the token file.
func LoadCredential() (string, error) {
	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		return tok, nil
	}

	path, err := CredentialFile()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveCredential stores the bearer token with owner-only permissions.
func SaveCredential(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}
	path, err := CredentialFile()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(token+"\n"), 0o600)
}

// RemoveCredential deletes the token file. Removing a missing file is not an error.
func RemoveCredential() error {
	path, err := CredentialFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}

// MaskToken hides all but the last four characters of a token for display.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
