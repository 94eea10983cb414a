// Package audit records who did what to which file, and when.
//
// Every encrypt, decrypt, OTP issue/send and OTP redemption attempt, whether
// it succeeded or failed, is appended as an Entry. Entries are immutable and
// are read back most recent first.
//
// # Backends
//
// SQLiteLog writes to the access_logs table of the shared hexalock database.
// FileLog writes JSON Lines (one JSON object per line), by default at:
//
//	~/.local/share/hexalock/audit.jsonl
//
// Each entry contains:
//   - ID (random UUID)
//   - Timestamp (UTC)
//   - Action label (see the Action constants)
//   - Filename the action applied to
//   - User performing the action
//
// # Failure Handling
//
// Append returns its error wrapped in ErrAudit. Callers report it next to
// the result of the operation; a failed append never undoes the operation.
//
// # Reading Logs
//
// Use Recent to query entries for display. FileLog skips malformed lines to
// survive partial writes.
package audit
