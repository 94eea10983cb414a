package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOTPSendAndRedeem(t *testing.T) {
	work := setupTestEnvironment(t)
	path := writeTestFile(t, work, "report.txt", "quarterly numbers")
	if output, err := runCLI(t, "pw\n", "encrypt", "--password-stdin", path); err != nil {
		t.Fatalf("encrypt failed: %v\n%s", err, output)
	}

	output, err := runCLI(t, "", "otp", "send", "report.txt", "--to", "alice@example.com")
	if err != nil {
		t.Fatalf("otp send failed: %v\n%s", err, output)
	}
	assertContains(t, output, "Simulated Email to alice@example.com")
	assertContains(t, output, "Subject: Your HexaLock OTP")
	assertContains(t, output, "OTP sent to")
	code := codeFromOutput(t, output)

	out := filepath.Join(work, "plain.txt")
	output, err = runCLI(t, "pw\n", "otp", "redeem", path+".enc",
		"--to", "alice@example.com", "--code", code, "-o", out, "--password-stdin")
	if err != nil {
		t.Fatalf("otp redeem failed: %v\n%s", err, output)
	}
	assertContains(t, output, "OTP accepted")
	got, err := os.ReadFile(out)
	if err != nil || string(got) != "quarterly numbers" {
		t.Errorf("Unexpected plaintext %q (err %v)", got, err)
	}

	output, err = runCLI(t, "pw\n", "otp", "redeem", path+".enc",
		"--to", "alice@example.com", "--code", code, "-o", out, "--password-stdin")
	if err != nil {
		t.Fatalf("A reused code should not be an unexpected error: %v", err)
	}
	assertContains(t, output, "Invalid or expired OTP")
}

func TestOTPRedeem_InvalidCode(t *testing.T) {
	work := setupTestEnvironment(t)

	if output, err := runCLI(t, "", "otp", "issue", "report.txt", "--to", "bob"); err != nil {
		t.Fatalf("otp issue failed: %v\n%s", err, output)
	}

	// The file does not exist; a malformed code is rejected before the path is checked.
	output, err := runCLI(t, "pw\n", "otp", "redeem", filepath.Join(work, "report.txt.enc"),
		"--to", "bob", "--code", "not-a-code", "--password-stdin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, output, "Invalid or expired OTP")
}

func TestOTPIssueListAndPurge(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI(t, "", "otp", "issue", "a.txt", "--to", "carol", "--ttl", "1h")
	if err != nil {
		t.Fatalf("otp issue failed: %v\n%s", err, output)
	}
	assertContains(t, output, "OTP for 'carol' on a.txt")

	output, err = runCLI(t, "", "otp", "list", "--to", "carol")
	if err != nil {
		t.Fatalf("otp list failed: %v\n%s", err, output)
	}
	assertContains(t, output, "a.txt")
	assertContains(t, output, "****")

	output, err = runCLI(t, "", "otp", "list", "--to", "nobody")
	if err != nil {
		t.Fatalf("otp list failed: %v\n%s", err, output)
	}
	assertContains(t, output, "No outstanding OTPs")

	output, err = runCLI(t, "", "otp", "purge")
	if err != nil {
		t.Fatalf("otp purge failed: %v\n%s", err, output)
	}
	assertContains(t, output, "Purged 0 expired OTP(s)")
}

func TestOTPSend_OutboxNotifier(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("HEXALOCK_NOTIFY_BACKEND", "outbox")

	output, err := runCLI(t, "", "otp", "send", "report.txt", "--to", "alice@example.com")
	if err != nil {
		t.Fatalf("otp send failed: %v\n%s", err, output)
	}

	entries, err := os.ReadDir(filepath.Join(dataDir(t), "outbox"))
	if err != nil {
		t.Fatalf("Expected outbox directory: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected a text and a JSON file in the outbox, got %d entries", len(entries))
	}
}
