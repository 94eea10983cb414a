package notify

import (
	"context"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// ConsoleSender prints a simulated email instead of sending one.
type ConsoleSender struct {
	w io.Writer
}

// NewConsoleSender returns a sender printing to w.
func NewConsoleSender(w io.Writer) *ConsoleSender {
	return &ConsoleSender{w: w}
}

func (c *ConsoleSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(c.w, "\n📧 Simulated Email to %s:\nSubject: %s\n%s\n\n", msg.To, msg.Subject, msg.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrNotify, err)
	}
	return nil
}
