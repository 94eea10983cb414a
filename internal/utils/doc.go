// Package utils provides shared helpers for the HexaLock CLI.
//
// # String Utilities
//   - FormatPaths: formats file paths for human-readable output
//   - IsValidEmail: checks an address before handing it to a mail provider
//
// # System Utilities
//   - GetUsername: returns the current system username (the default audit user)
//
// # Password Input
//   - ReadPassphrase / ReadNewPassphrase: prompt on the terminal without echo
//   - ReadPasswordFrom: read a piped password for --password-stdin
package utils
