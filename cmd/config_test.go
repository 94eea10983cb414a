package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndShow(t *testing.T) {
	work := setupTestEnvironment(t)
	path := filepath.Join(work, "hexalock.toml")

	output, err := runCLI(t, "", "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, output)
	}
	assertContains(t, output, "Configuration written to")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected 0600, got %o", perm)
	}

	output, _ = runCLI(t, "", "config", "init", "--config", path)
	assertContains(t, output, "already exists")

	output, err = runCLI(t, "", "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, output)
	}
	assertContains(t, output, "'testuser'")
	assertContains(t, output, "sqlite")
	assertContains(t, output, "5m0s")
}

func TestConfigShow_WarnsOnPermissiveConfigFile(t *testing.T) {
	work := setupTestEnvironment(t)
	path := filepath.Join(work, "hexalock.toml")

	if output, err := runCLI(t, "", "config", "init", "--config", path); err != nil {
		t.Fatalf("config init failed: %v\n%s", err, output)
	}
	if err := os.Chmod(path, 0644); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}

	output, err := runCLI(t, "", "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, output)
	}
	assertContains(t, output, "overly permissive permissions (644)")
}

func TestConfigShow_InvalidEnvironment(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("HEXALOCK_AUDIT_BACKEND", "carrier-pigeon")

	output, err := runCLI(t, "", "config", "show")
	if err != nil {
		t.Fatalf("An invalid config should not be an unexpected error: %v", err)
	}
	assertContains(t, output, "Configuration is invalid")
}

func TestConfigShow_MasksPostmarkTokens(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("HEXALOCK_NOTIFY_BACKEND", "postmark")
	t.Setenv("HEXALOCK_NOTIFY_POSTMARK_SERVER_TOKEN", "server-secret")
	t.Setenv("HEXALOCK_NOTIFY_POSTMARK_ACCOUNT_TOKEN", "account-secret")
	t.Setenv("HEXALOCK_NOTIFY_SENDER_EMAIL", "noreply@example.com")

	output, err := runCLI(t, "", "config", "show", "--json")
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, output)
	}
	for _, secret := range []string{"server-secret", "account-secret"} {
		if strings.Contains(output, secret) {
			t.Errorf("Output leaks %q:\n%s", secret, output)
		}
	}
	assertContains(t, output, "noreply@example.com")
}

func TestRootCommand_Banner(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI(t, "")
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	assertContains(t, output, "Welcome to HexaLock!")
	assertContains(t, output, "`hexalock --help`")
}
