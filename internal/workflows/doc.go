// Package workflows provides high-level orchestration for HexaLock commands.
//
// A Workflow coordinates the secrets, otp, audit and notify packages to
// implement complete user-facing features. Each method handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Builds a Workflow from configuration
//   - Calls the appropriate method
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Reading and writing files
//   - Deriving keys and sealing or opening envelopes
//   - Issuing, sending and redeeming one-time passcodes
//   - Recording audit trail entries for successes and failures
//
// # Available Workflows
//
//   - EncryptFile / EncryptFiles: seal files under a password
//   - DecryptFile: open a sealed file with its password
//   - IssueOTP / SendOTP: create a passcode, optionally delivering it
//   - DecryptWithOTP: redeem a passcode, then decrypt
//   - Demo: round-trip a sample file
//   - Log: query the audit trail
//   - Inspect: read an envelope header without a password
//   - PurgeOTPs: delete expired passcodes
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := wf.DecryptWithOTP(ctx, opts)
//	if errors.Is(err, kerrors.ErrInvalidOTP) {
//	    // Show user-friendly message
//	}
//
// A failed audit append never undoes an operation. The method returns its
// normal result together with an error wrapping ErrAudit, so callers must
// check the result before treating a non-nil error as failure.
//
// # Context Usage
//
// All workflow methods that touch the store, the audit log or a notifier
// accept a context.Context as their first parameter.
package workflows
