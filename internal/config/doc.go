// Package config handles loading the Bookworm configuration file.
//
// The file lives at ~/.config/bookworm/config.toml and is entirely
// optional: a missing file yields working defaults, so Bookworm runs
// against a local server without any setup. Fields:
//
//	server_url = "http://127.0.0.1:8080"
//	credentials_path = "~/.config/bookworm/credentials.toml"
//	leaderboard_size = 10
//
// Tilde paths are expanded. Parse errors and unreadable existing files
// are reported; only a genuinely absent file falls back silently.
package config
