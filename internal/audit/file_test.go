package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

func TestFileLog_CreatesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "audit.jsonl")
	l := NewFileLog(logPath)

	if _, err := l.Append(context.Background(), NewEntry(ActionEncrypted, "report.txt", "alice")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	info, err := os.Stat(logPath)
	if os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected file mode 0600, got %v", info.Mode().Perm())
	}
}

func TestFileLog_AppendsValidJSONLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	l := NewFileLog(logPath)
	ctx := context.Background()

	for _, action := range []string{ActionEncrypted, ActionDecrypted, ActionOTPGenerated} {
		if _, err := l.Append(ctx, NewEntry(action, "report.txt", "alice")); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}

	for i, line := range lines {
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("Line %d is not valid JSON: %v", i, err)
		}
		if e.ID == "" {
			t.Errorf("Line %d has no id", i)
		}
		if e.Timestamp.IsZero() {
			t.Errorf("Line %d has no timestamp", i)
		}
	}
}

func TestFileLog_AppendFillsIDAndTimestamp(t *testing.T) {
	l := NewFileLog(filepath.Join(t.TempDir(), "audit.jsonl"))
	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.FixedZone("X", 3600))
	l.now = func() time.Time { return fixed }

	e, err := l.Append(context.Background(), NewEntry(ActionEncrypted, "report.txt", "alice"))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if e.ID == "" {
		t.Error("Expected an id to be assigned")
	}
	if !e.Timestamp.Equal(fixed) || e.Timestamp.Location() != time.UTC {
		t.Errorf("Expected %v in UTC, got %v", fixed, e.Timestamp)
	}

	// Caller-provided values are kept.
	given := Entry{ID: "given", Timestamp: fixed, Action: ActionDecrypted}
	e, err = l.Append(context.Background(), given)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if e.ID != "given" {
		t.Errorf("Expected id to be kept, got %s", e.ID)
	}
}

func TestFileLog_RecentMostRecentFirst(t *testing.T) {
	l := NewFileLog(filepath.Join(t.TempDir(), "audit.jsonl"))
	ctx := context.Background()

	entries := []Entry{
		NewEntry(ActionEncrypted, "a.txt", "alice"),
		NewEntry(ActionDecrypted, "a.txt.enc", "bob"),
		NewEntry(ActionDecryptFail, "a.txt.enc", "alice"),
		NewEntry(ActionOTPGenerated, "a.txt", "alice"),
	}
	for _, e := range entries {
		if _, err := l.Append(ctx, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	all, err := l.Recent(ctx, Query{})
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(all))
	}
	if all[0].Action != ActionOTPGenerated || all[3].Action != ActionEncrypted {
		t.Errorf("Expected most recent first, got %s ... %s", all[0].Action, all[3].Action)
	}

	limited, err := l.Recent(ctx, Query{Limit: 2, User: "alice"})
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(limited))
	}
	if limited[0].Action != ActionOTPGenerated || limited[1].Action != ActionDecryptFail {
		t.Errorf("Unexpected filtered entries: %+v", limited)
	}

	byAction, err := l.Recent(ctx, Query{Action: ActionDecrypted})
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(byAction) != 1 || byAction[0].User != "bob" {
		t.Errorf("Expected bob's decrypt only, got %+v", byAction)
	}
}

func TestFileLog_RecentMissingFile(t *testing.T) {
	l := NewFileLog(filepath.Join(t.TempDir(), "absent.jsonl"))

	entries, err := l.Recent(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Expected no error for missing log, got %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries, got %v", entries)
	}
}

func TestFileLog_AppendFailureWrapsErrAudit(t *testing.T) {
	// A directory where the log file should be makes the open fail.
	logPath := t.TempDir()
	l := NewFileLog(logPath)

	_, err := l.Append(context.Background(), NewEntry(ActionEncrypted, "a", "b"))
	if !errors.Is(err, kerrors.ErrAudit) {
		t.Errorf("Expected ErrAudit, got %v", err)
	}
}
