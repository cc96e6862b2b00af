// Package credentials persists the bearer token between runs.
// The token is stored in ~/.config/bookworm/credentials.toml.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultCredentialsPath = "~/.config/bookworm/credentials.toml"

// DefaultPath returns the default credentials file path.
func DefaultPath() string {
	return defaultCredentialsPath
}

// Store reads and writes the single persisted bearer token. The file
// is consulted on every Token call, so external changes (another
// bookworm process logging in or out) are picked up without restart.
type Store struct {
	path string
}

type fileFormat struct {
	Token string `toml:"token"`
}

// NewStore builds a Store rooted at path, falling back to the default
// location when path is empty.
func NewStore(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved}, nil
}

// Path returns the resolved credentials file location.
func (s *Store) Path() string {
	return s.path
}

// Token returns the persisted bearer token, or "" when none is stored.
// Unreadable or malformed files degrade to "no token" rather than
// failing the request that asked.
func (s *Store) Token() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var contents fileFormat
	if err := toml.Unmarshal(data, &contents); err != nil {
		return ""
	}
	return strings.TrimSpace(contents.Token)
}

// Save writes the token, creating the directory as needed. The file is
// user-only since it holds a live credential.
func (s *Store) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is empty")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	data, err := toml.Marshal(fileFormat{Token: token})
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the persisted token. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultCredentialsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
