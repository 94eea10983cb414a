package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action labels recorded in the log.
const (
	ActionEncrypted         = "encrypted"
	ActionEncryptFail       = "encrypt_fail"
	ActionDecrypted         = "decrypted"
	ActionDecryptFail       = "decrypt_fail"
	ActionOTPGenerated      = "otp_generated"
	ActionOTPSent           = "otp_sent"
	ActionOTPSendFail       = "otp_send_fail"
	ActionOTPDecryptSuccess = "otp_decrypt_success"
	ActionOTPDecryptFail    = "otp_decrypt_fail"
	ActionDemoEncrypted     = "demo_encrypted"
	ActionDemoDecrypted     = "demo_decrypted"
	ActionOTPPurged         = "otp_purged"
	ActionCreated           = "created"
)

// Entry represents a single audit log entry.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Action    string    `json:"action"`
	Filename  string    `json:"filename"`
	User      string    `json:"user"`
}

// Query filters Recent. Zero values match everything; Limit <= 0 means no limit.
type Query struct {
	Limit  int
	User   string
	Action string

	// Since and Until bound the timestamp, both inclusive.
	Since time.Time
	Until time.Time
}

func (q Query) matches(e Entry) bool {
	if q.User != "" && e.User != q.User {
		return false
	}
	if q.Action != "" && e.Action != q.Action {
		return false
	}
	if !q.Since.IsZero() && e.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && e.Timestamp.After(q.Until) {
		return false
	}
	return true
}

// Log is an append-only audit trail.
type Log interface {
	// Append stores entry, filling ID and Timestamp when unset, and returns
	// the stored entry.
	Append(ctx context.Context, entry Entry) (Entry, error)

	// Recent returns entries matching q, most recent first.
	Recent(ctx context.Context, q Query) ([]Entry, error)
}

// NewEntry builds an entry for action on filename by user.
func NewEntry(action, filename, user string) Entry {
	return Entry{Action: action, Filename: filename, User: user}
}

func stamp(entry Entry, now func() time.Time) Entry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	return entry
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
