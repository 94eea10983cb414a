package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/hexalock/internal/utils"
)

// Settings are the per-user locations HexaLock reads and writes.
type Settings struct {
	ConfigDir string
	DataDir   string
	Username  string
}

// LoadSettings resolves the config and data directories for the current user.
// Data lives under $XDG_DATA_HOME (or ~/.local/share), config under the
// platform config dir.
func LoadSettings() (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error getting config directory: %w", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		username = "unknown"
	}

	return &Settings{
		ConfigDir: filepath.Join(configDir, "hexalock"),
		DataDir:   filepath.Join(dataDir, "hexalock"),
		Username:  username,
	}, nil
}

// ConfigPath is the TOML file read at startup.
func (s *Settings) ConfigPath() string {
	return filepath.Join(s.ConfigDir, "config.toml")
}

// DatabasePath is the default SQLite database shared by OTPs and the audit log.
func (s *Settings) DatabasePath() string {
	return filepath.Join(s.DataDir, "hexalock.db")
}

// AuditLogPath is the default JSON Lines audit log.
func (s *Settings) AuditLogPath() string {
	return filepath.Join(s.DataDir, "audit.jsonl")
}

// OutboxDir is the default directory for the outbox notifier.
func (s *Settings) OutboxDir() string {
	return filepath.Join(s.DataDir, "outbox")
}
