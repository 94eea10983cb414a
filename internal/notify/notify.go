package notify

import (
	"context"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// OTPSubject is the subject line of every passcode message.
const OTPSubject = "Your HexaLock OTP"

// OTPTag groups passcode messages in provider analytics.
const OTPTag = "otp"

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a plain-text notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Tag     string `json:"tag,omitempty"`
}

// Validate checks the message has a recipient, a subject and a body.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.To) == "":
		return fmt.Errorf("%w: message has no recipient", kerrors.ErrInvalidInput)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: message has no subject", kerrors.ErrInvalidInput)
	case m.Body == "":
		return fmt.Errorf("%w: message has no body", kerrors.ErrInvalidInput)
	}
	return nil
}

// OTPMessage builds the message carrying code for filename to recipient.
func OTPMessage(to, filename, code string) Message {
	return Message{
		To:      to,
		Subject: OTPSubject,
		Body:    fmt.Sprintf("OTP for file '%s': %s", filename, code),
		Tag:     OTPTag,
	}
}
