package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// setupTestEnvironment points every HexaLock path at a temporary home and
// makes key derivation cheap. It returns a scratch directory for test files.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("NO_COLOR", "1")
	t.Setenv("HEXALOCK_USER", "testuser")
	t.Setenv("HEXALOCK_KDF_MEMORY_KIB", "64")
	t.Setenv("HEXALOCK_KDF_THREADS", "1")

	ResetGlobalState()
	t.Cleanup(ResetGlobalState)

	work := filepath.Join(home, "work")
	if err := os.MkdirAll(work, 0700); err != nil {
		t.Fatalf("Failed to create work directory: %v", err)
	}
	return work
}

// dataDir is where the test environment keeps the database and audit log.
func dataDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(os.Getenv("XDG_DATA_HOME"), "hexalock")
}

// runCLI executes the root command with args, feeding stdin, and returns
// everything written to stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ResetGlobalState()

	var out bytes.Buffer
	root := GetRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

var simulatedCode = regexp.MustCompile(`OTP for file '[^']*': (\d{6})`)

// codeFromOutput extracts the code from a simulated email.
func codeFromOutput(t *testing.T, output string) string {
	t.Helper()
	m := simulatedCode.FindStringSubmatch(output)
	if m == nil {
		t.Fatalf("No OTP found in output:\n%s", output)
	}
	return m[1]
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("Expected output to contain %q, got:\n%s", want, output)
	}
}
