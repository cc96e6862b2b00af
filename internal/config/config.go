package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields Bookworm needs to reach the
// reading-challenge server.
type Config struct {
	ServerURL       string
	CredentialsPath string
	LeaderboardSize int
}

const (
	defaultConfigPath      = "~/.config/bookworm/config.toml"
	defaultServerURL       = "http://127.0.0.1:8080"
	defaultCredentialsPath = "~/.config/bookworm/credentials.toml"
	defaultLeaderboardSize = 10

	// RequestTimeout bounds every API call issued by the UI.
	RequestTimeout = 10 * time.Second
)

// Load locates and parses the config file, falling back to defaults
// when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerURL:       defaultServerURL,
		CredentialsPath: defaultCredentialsPath,
		LeaderboardSize: defaultLeaderboardSize,
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL       string `toml:"server_url"`
		CredentialsPath string `toml:"credentials_path"`
		LeaderboardSize int    `toml:"leaderboard_size"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if url := strings.TrimSpace(raw.ServerURL); url != "" {
		cfg.ServerURL = url
	}
	if creds := strings.TrimSpace(raw.CredentialsPath); creds != "" {
		cfg.CredentialsPath = creds
	}
	if raw.LeaderboardSize > 0 {
		cfg.LeaderboardSize = raw.LeaderboardSize
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
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
