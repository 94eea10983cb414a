package ui

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Style renders a piece of CLI output. With colour off it falls back to the
// plain-text markers open and close.
type Style struct {
	color *color.Color
	open  string
	close string
}

func (s Style) Sprint(a ...any) string {
	text := fmt.Sprint(a...)
	if plain() {
		return s.open + text + s.close
	}
	return s.color.Sprint(text)
}

var (
	// Code is a command the user can run: `hexalock otp send`.
	Code = Style{color.New(color.FgYellow), "`", "`"}

	// Path is a file or directory.
	Path = Style{color: color.New(color.FgYellow)}

	// Highlight is a value the user supplied, such as a recipient: 'alice'.
	Highlight = Style{color.New(color.FgCyan), "'", "'"}

	// Muted is secondary detail: (37 bytes).
	Muted = Style{color.New(color.FgHiBlack), "(", ")"}

	Success = Style{color: color.New(color.FgGreen)}
	Info    = Style{color: color.New(color.FgCyan)}

	failure = Style{color: color.New(color.FgRed)}
	warning = Style{color: color.New(color.FgYellow)}
)

// plain reports whether colour is off, either through NO_COLOR or because
// fatih/color found no capable terminal.
func plain() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return color.NoColor
}

func SuccessLine(msg string) string {
	return Success.Sprint("✓") + " " + msg
}

func FailureLine(msg string) string {
	return failure.Sprint("✗") + " " + msg
}

func WarningLine(msg string) string {
	return warning.Sprint("⚠") + " " + msg
}

func Hint(msg string) string {
	return Info.Sprint("→") + " " + msg
}

// ErrorDetail is the line printed under a failure with the underlying error.
func ErrorDetail(err error) string {
	return failure.Sprint("Error: ") + err.Error()
}

// Action picks the style of an audit action in `hexalock log`: failures red,
// OTP bookkeeping cyan, everything else green.
func Action(action string) Style {
	switch {
	case strings.HasSuffix(action, "_fail"):
		return failure
	case strings.HasPrefix(action, "otp_") && !strings.HasPrefix(action, "otp_decrypt"):
		return Info
	default:
		return Success
	}
}

// MaskCode keeps the first two digits of a passcode so listed codes can be
// told apart without being usable.
func MaskCode(code string) string {
	if len(code) <= 2 {
		return code
	}
	return code[:2] + strings.Repeat("*", len(code)-2)
}

// PadRight pads s with spaces to width runes. Longer strings are returned as is.
func PadRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func EnsureNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}
