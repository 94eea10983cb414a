package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

var errSentinel = errors.New("sentinel")

func newTestLogger(verbose, debug bool) (Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return Logger{Verbose: verbose, Debug: debug, Out: &out, Err: &errOut}, &out, &errOut
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name           string
		verbose, debug bool
		wantInfo       bool
		wantDebug      bool
		wantWarn       bool
		wantError      bool
	}{
		{"quiet", false, false, false, false, false, false},
		{"verbose", true, false, true, false, true, false},
		{"debug", false, true, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, out, errOut := newTestLogger(tt.verbose, tt.debug)

			l.Infof("info %d", 1)
			l.Debugf("debug %d", 2)
			l.Warnf("warn %d", 3)
			l.Errorf("error %d", 4)

			check := func(buf *bytes.Buffer, text string, want bool) {
				if got := strings.Contains(buf.String(), text); got != want {
					t.Errorf("%q present = %v, want %v", text, got, want)
				}
			}
			check(out, "info 1", tt.wantInfo)
			check(out, "debug 2", tt.wantDebug)
			check(errOut, "warn 3", tt.wantWarn)
			check(errOut, "error 4", tt.wantError)
		})
	}
}

func TestLogger_WarnfAlways(t *testing.T) {
	l, _, errOut := newTestLogger(false, false)

	l.WarnfAlways("file mode %o", 0644)

	if !strings.Contains(errOut.String(), "file mode 644") {
		t.Errorf("Expected WarnfAlways output, got %q", errOut.String())
	}
}

func TestLogger_ErrorfAndReturn(t *testing.T) {
	l, _, errOut := newTestLogger(false, true)

	err := l.ErrorfAndReturn("failed to open store: %w", errSentinel)

	if !errors.Is(err, errSentinel) {
		t.Errorf("Expected wrapped sentinel, got %v", err)
	}
	if !strings.Contains(errOut.String(), "failed to open store: sentinel") {
		t.Errorf("Expected error to be logged, got %q", errOut.String())
	}
}
