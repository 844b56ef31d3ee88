// Package auth holds the session credentials and their on-disk persistence.
// The sheet API is stateless: there are no tokens, the username and password
// ride along on every call.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`[^a-z0-9]`)

// Credentials is a username/password pair for the sheet API.
type Credentials struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

// Store persists credentials between sessions.
type Store interface {
	// Get returns the saved credentials, or nil when none are saved.
	Get() (*Credentials, error)
	Set(creds Credentials) error
	Clear() error
}

// FileStore implements Store using a JSON file.
type FileStore struct {
	filepath string
}

// NewFileStore creates a new file-based credential store.
func NewFileStore(filepath string) (*FileStore, error) {
	return &FileStore{filepath: filepath}, nil
}

// Get retrieves the credentials from the file. A missing file means no saved
// session, not an error.
func (s *FileStore) Get() (*Credentials, error) {
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if creds.User == "" || creds.Pass == "" {
		return nil, nil
	}

	return &creds, nil
}

// Set saves the credentials to the file.
func (s *FileStore) Set(creds Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filepath, data, 0600)
}

// Clear removes the credentials file.
func (s *FileStore) Clear() error {
	err := os.Remove(s.filepath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SanitizeUsername lowercases the username and replaces everything outside
// [a-z0-9] with underscores, matching what the sheet backend accepts.
func SanitizeUsername(user string) string {
	user = strings.ToLower(strings.TrimSpace(user))
	return usernamePattern.ReplaceAllString(user, "_")
}
