// Package ui renders HexaLock's terminal output.
//
// Styles colour a piece of text when the terminal supports it. With NO_COLOR
// set, or without a capable terminal, they fall back to plain markers:
// Code gets `backticks`, Highlight 'quotes' and Muted (parentheses).
//
// Commands end with one status line:
//
//	ui.SuccessLine("File decrypted: " + ui.Path.Sprint(out))
//	ui.FailureLine("Invalid or expired OTP") + "\n" + ui.Hint("Request a new code with " + ui.Code.Sprint("hexalock otp send"))
//
// Action styles audit actions for `hexalock log` and MaskCode hides listed
// passcodes.
package ui
