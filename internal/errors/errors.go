package errors

import "errors"

// Cryptographic errors indicate failures while sealing or opening payloads.
var (
	// ErrAuthentication indicates the payload could not be verified. A wrong
	// password and a tampered file are deliberately indistinguishable.
	ErrAuthentication = errors.New("wrong password or corrupted file")

	// ErrFormat indicates the payload or envelope is structurally invalid.
	ErrFormat = errors.New("malformed encrypted payload")

	// ErrPayloadExpired indicates the payload is older than the allowed age.
	ErrPayloadExpired = errors.New("encrypted payload has expired")

	// ErrEncryptFailed indicates file encryption failed.
	ErrEncryptFailed = errors.New("failed to encrypt file")
)

// OTP errors indicate issues with one-time passcodes.
var (
	// ErrInvalidOTP indicates the code is wrong, expired, or already consumed.
	ErrInvalidOTP = errors.New("invalid or expired OTP")

	// ErrOTPGeneration indicates the random source failed while generating a code.
	ErrOTPGeneration = errors.New("failed to generate OTP")
)

// Storage errors indicate the backing resources are unavailable.
var (
	// ErrIO indicates a file could not be read or written.
	ErrIO = errors.New("file is unavailable")

	// ErrStore indicates the OTP store could not be reached or queried.
	ErrStore = errors.New("otp store is unavailable")

	// ErrAudit indicates the audit log could not be written or read.
	ErrAudit = errors.New("audit log is unavailable")

	// ErrNotify indicates the notification could not be delivered.
	ErrNotify = errors.New("failed to deliver notification")
)

// Input errors indicate issues with user-provided values.
var (
	// ErrInvalidInput indicates a required value is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidConfig indicates the configuration is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")
)
