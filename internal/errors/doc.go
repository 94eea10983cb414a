// Package errors provides typed error values for the HexaLock application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Crypto errors: ErrAuthentication, ErrFormat, ErrPayloadExpired
//   - OTP errors: ErrInvalidOTP, ErrOTPGeneration
//   - Storage errors: ErrIO, ErrStore, ErrAudit, ErrNotify
//   - Input errors: ErrInvalidInput, ErrNoFilesFound, ErrFileNotFound
//
// ErrAuthentication never reveals whether the password was wrong or the file
// was modified. Callers must not try to tell the two apart.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: reading %s: %v", errors.ErrIO, path, err)
//
// Handle errors in the CLI layer:
//
//	result, err := wf.DecryptWithOTP(ctx, opts)
//	if errors.Is(err, herrors.ErrInvalidOTP) {
//	    // Show user-friendly message
//	}
package errors
