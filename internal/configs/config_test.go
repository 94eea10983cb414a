package configs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/secrets"
)

func testSettings(t *testing.T) *Settings {
	t.Helper()
	dir := t.TempDir()
	return &Settings{
		ConfigDir: filepath.Join(dir, "config"),
		DataDir:   filepath.Join(dir, "data"),
		Username:  "tester",
	}
}

func TestDefault(t *testing.T) {
	s := testSettings(t)
	cfg := Default(s)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.User != "tester" {
		t.Errorf("Expected user tester, got %s", cfg.User)
	}
	if cfg.Database.Path != s.DatabasePath() {
		t.Errorf("Expected database %s, got %s", s.DatabasePath(), cfg.Database.Path)
	}
	if time.Duration(cfg.OTP.TTL) != 300*time.Second {
		t.Errorf("Expected 300s ttl, got %s", cfg.OTP.TTL)
	}
	if cfg.KDF != secrets.DefaultKDFParams {
		t.Errorf("Expected default KDF params, got %+v", cfg.KDF)
	}
	if cfg.Audit.Backend != AuditSQLite || cfg.Notify.Backend != NotifyConsole {
		t.Errorf("Unexpected default backends: %s, %s", cfg.Audit.Backend, cfg.Notify.Backend)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s := testSettings(t)

	cfg, err := Load(s, s.ConfigPath(), map[string]string{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default(s) {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	s := testSettings(t)
	path := s.ConfigPath()

	content := `
user = "alice"

[audit]
backend = "jsonl"

[otp]
ttl = "2m"

[kdf]
time = 3
memory_kib = 1024
threads = 2

[cipher]
max_payload_age = "720h"
`
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(s, path, map[string]string{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.User != "alice" {
		t.Errorf("Expected user alice, got %s", cfg.User)
	}
	if cfg.Audit.Backend != AuditJSONL {
		t.Errorf("Expected jsonl audit, got %s", cfg.Audit.Backend)
	}
	if cfg.Audit.Path != s.AuditLogPath() {
		t.Errorf("Keys missing from the file should keep defaults, got audit path %s", cfg.Audit.Path)
	}
	if time.Duration(cfg.OTP.TTL) != 2*time.Minute {
		t.Errorf("Expected 2m ttl, got %s", cfg.OTP.TTL)
	}
	if cfg.KDF != (secrets.KDFParams{Time: 3, MemoryKiB: 1024, Threads: 2}) {
		t.Errorf("Unexpected KDF params %+v", cfg.KDF)
	}
	if time.Duration(cfg.Cipher.MaxPayloadAge) != 720*time.Hour {
		t.Errorf("Expected 720h max age, got %s", cfg.Cipher.MaxPayloadAge)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	s := testSettings(t)
	path := s.ConfigPath()

	if err := SaveTOML(path, map[string]any{"user": "alice", "otp": map[string]any{"ttl": "2m"}}); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	environ := map[string]string{
		"HEXALOCK_USER":                          "bob",
		"HEXALOCK_DB_PATH":                       "/tmp/other.db",
		"HEXALOCK_OTP_TTL":                       "45s",
		"HEXALOCK_KDF_THREADS":                   "1",
		"HEXALOCK_NOTIFY_BACKEND":                "postmark",
		"HEXALOCK_NOTIFY_POSTMARK_SERVER_TOKEN":  "server",
		"HEXALOCK_NOTIFY_POSTMARK_ACCOUNT_TOKEN": "account",
		"HEXALOCK_NOTIFY_POSTMARK_SENDER_EMAIL":  "noreply@example.com",
		"UNRELATED":                              "ignored",
	}

	cfg, err := Load(s, path, environ)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.User != "bob" {
		t.Errorf("Expected env user bob, got %s", cfg.User)
	}
	if cfg.Database.Path != "/tmp/other.db" {
		t.Errorf("Expected env db path, got %s", cfg.Database.Path)
	}
	if time.Duration(cfg.OTP.TTL) != 45*time.Second {
		t.Errorf("Expected 45s ttl, got %s", cfg.OTP.TTL)
	}
	if cfg.KDF.Threads != 1 || cfg.KDF.Time != secrets.DefaultKDFParams.Time {
		t.Errorf("Expected only threads overridden, got %+v", cfg.KDF)
	}
	if cfg.Notify.Postmark.ServerToken != "server" {
		t.Errorf("Expected postmark token from env, got %q", cfg.Notify.Postmark.ServerToken)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		file    string
	}{
		{"unknown audit backend", map[string]string{"HEXALOCK_AUDIT_BACKEND": "csv"}, ""},
		{"unknown notifier", map[string]string{"HEXALOCK_NOTIFY_BACKEND": "sms"}, ""},
		{"postmark without tokens", map[string]string{"HEXALOCK_NOTIFY_BACKEND": "postmark"}, ""},
		{"zero ttl", map[string]string{"HEXALOCK_OTP_TTL": "0s"}, ""},
		{"bad duration", map[string]string{"HEXALOCK_OTP_TTL": "soon"}, ""},
		{"bad kdf", map[string]string{"HEXALOCK_KDF_TIME": "0"}, ""},
		{"malformed toml", map[string]string{}, "this is = = not toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings(t)
			path := s.ConfigPath()
			if tt.file != "" {
				if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
					t.Fatalf("Failed to create config dir: %v", err)
				}
				if err := os.WriteFile(path, []byte(tt.file), 0600); err != nil {
					t.Fatalf("Failed to write config: %v", err)
				}
			}

			_, err := Load(s, path, tt.environ)
			if !errors.Is(err, kerrors.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	s := testSettings(t)
	path := s.ConfigPath()

	cfg := Default(s)
	cfg.User = "carol"
	cfg.OTP.TTL = Duration(90 * time.Second)
	cfg.Notify.Backend = NotifyOutbox

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !Exists(path) {
		t.Fatal("Expected config file to exist after Save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if !strings.Contains(string(data), `ttl = "1m30s"`) {
		t.Errorf("Expected human-readable ttl in file, got:\n%s", data)
	}

	loaded, err := Load(s, path, map[string]string{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Round trip mismatch:\nsaved  %+v\nloaded %+v", cfg, loaded)
	}
}

func TestSettingsPaths(t *testing.T) {
	s := &Settings{ConfigDir: "/cfg/hexalock", DataDir: "/data/hexalock"}

	if s.ConfigPath() != "/cfg/hexalock/config.toml" {
		t.Errorf("Unexpected config path %s", s.ConfigPath())
	}
	if s.DatabasePath() != "/data/hexalock/hexalock.db" {
		t.Errorf("Unexpected database path %s", s.DatabasePath())
	}
	if s.AuditLogPath() != "/data/hexalock/audit.jsonl" {
		t.Errorf("Unexpected audit path %s", s.AuditLogPath())
	}
	if s.OutboxDir() != "/data/hexalock/outbox" {
		t.Errorf("Unexpected outbox dir %s", s.OutboxDir())
	}
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "xdg"))

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if !strings.HasSuffix(s.DataDir, filepath.Join("xdg", "hexalock")) {
		t.Errorf("Expected data dir under XDG_DATA_HOME, got %s", s.DataDir)
	}
	if s.Username == "" {
		t.Error("Expected a username")
	}
}
