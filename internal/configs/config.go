package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/notify"
	"github.com/PolarWolf314/hexalock/internal/secrets"
)

// EnvPrefix namespaces every environment override, e.g. HEXALOCK_DB_PATH.
const EnvPrefix = "HEXALOCK_"

// Audit backends.
const (
	AuditSQLite = "sqlite"
	AuditJSONL  = "jsonl"
)

// Notifier backends.
const (
	NotifyConsole  = "console"
	NotifyOutbox   = "outbox"
	NotifyPostmark = "postmark"
)

// DefaultOTPTTL is how long an issued code stays valid.
const DefaultOTPTTL = 300 * time.Second

type Config struct {
	User     string            `toml:"user" env:"USER"`
	Database DatabaseConfig    `toml:"database" envPrefix:"DB_"`
	Audit    AuditConfig       `toml:"audit" envPrefix:"AUDIT_"`
	OTP      OTPConfig         `toml:"otp" envPrefix:"OTP_"`
	Notify   NotifyConfig      `toml:"notify" envPrefix:"NOTIFY_"`
	KDF      secrets.KDFParams `toml:"kdf" envPrefix:"KDF_"`
	Cipher   CipherConfig      `toml:"cipher" envPrefix:"CIPHER_"`
}

type DatabaseConfig struct {
	Path string `toml:"path" env:"PATH"`
}

type AuditConfig struct {
	Backend string `toml:"backend" env:"BACKEND"`
	Path    string `toml:"path" env:"PATH"`
}

type OTPConfig struct {
	TTL Duration `toml:"ttl" env:"TTL"`
}

type NotifyConfig struct {
	Backend   string                `toml:"backend" env:"BACKEND"`
	OutboxDir string                `toml:"outbox_dir" env:"OUTBOX_DIR"`
	Postmark  notify.PostmarkConfig `toml:"postmark"`
}

type CipherConfig struct {
	// MaxPayloadAge rejects files older than this on decryption. Zero disables the check.
	MaxPayloadAge Duration `toml:"max_payload_age" env:"MAX_PAYLOAD_AGE"`
}

// Default returns the built-in configuration for settings.
func Default(s *Settings) *Config {
	return &Config{
		User:     s.Username,
		Database: DatabaseConfig{Path: s.DatabasePath()},
		Audit:    AuditConfig{Backend: AuditSQLite, Path: s.AuditLogPath()},
		OTP:      OTPConfig{TTL: Duration(DefaultOTPTTL)},
		Notify:   NotifyConfig{Backend: NotifyConsole, OutboxDir: s.OutboxDir()},
		KDF:      secrets.DefaultKDFParams,
	}
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (if it exists), then HEXALOCK_* variables from environ. A nil environ
// reads the process environment.
func Load(s *Settings, path string, environ map[string]string) (*Config, error) {
	cfg := Default(s)

	if path != "" {
		if _, err := LoadTOML(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to load %s: %v", kerrors.ErrInvalidConfig, path, err)
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("%w: failed to parse environment: %v", kerrors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg *Config) error {
	if err := SaveTOML(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate checks that the configuration can be used to build a workflow.
func (c *Config) Validate() error {
	if c.User == "" {
		return fmt.Errorf("%w: user is empty", kerrors.ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is empty", kerrors.ErrInvalidConfig)
	}

	switch c.Audit.Backend {
	case AuditSQLite:
	case AuditJSONL:
		if c.Audit.Path == "" {
			return fmt.Errorf("%w: jsonl audit backend needs a path", kerrors.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown audit backend %q (want %s or %s)",
			kerrors.ErrInvalidConfig, c.Audit.Backend, AuditSQLite, AuditJSONL)
	}

	if c.OTP.TTL <= 0 {
		return fmt.Errorf("%w: otp ttl must be positive, got %s", kerrors.ErrInvalidConfig, c.OTP.TTL)
	}

	switch c.Notify.Backend {
	case NotifyConsole:
	case NotifyOutbox:
		if c.Notify.OutboxDir == "" {
			return fmt.Errorf("%w: outbox notifier needs a directory", kerrors.ErrInvalidConfig)
		}
	case NotifyPostmark:
		if err := c.Notify.Postmark.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown notifier %q (want %s, %s or %s)",
			kerrors.ErrInvalidConfig, c.Notify.Backend, NotifyConsole, NotifyOutbox, NotifyPostmark)
	}

	if err := c.KDF.Validate(); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	if c.Cipher.MaxPayloadAge < 0 {
		return fmt.Errorf("%w: max payload age must not be negative", kerrors.ErrInvalidConfig)
	}

	return nil
}
