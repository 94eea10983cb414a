package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// OutboxSender saves each message as a text body plus JSON metadata in a
// directory instead of delivering it.
type OutboxSender struct {
	dir string
	now func() time.Time
}

// NewOutboxSender returns a sender writing to dir. The directory is created
// on first send.
func NewOutboxSender(dir string) *OutboxSender {
	return &OutboxSender{dir: dir, now: time.Now}
}

// messageMetadata is the JSON written next to the body.
type messageMetadata struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

func (o *OutboxSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(o.dir, 0700); err != nil {
		return fmt.Errorf("%w: failed to create outbox: %v", kerrors.ErrNotify, err)
	}

	now := o.now()

	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := fmt.Sprintf("%s_%s_%s", now.Format("2006_01_02_150405.000000"), sanitizeFilename(msg.To), sanitizeFilename(identifier))

	// Bodies hold live codes, so keep them owner-only.
	if err := os.WriteFile(filepath.Join(o.dir, base+".txt"), []byte(msg.Body), 0600); err != nil {
		return fmt.Errorf("%w: failed to write message body: %v", kerrors.ErrNotify, err)
	}

	meta, err := json.MarshalIndent(messageMetadata{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    msg.To,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", kerrors.ErrNotify, err)
	}

	if err := os.WriteFile(filepath.Join(o.dir, base+".json"), meta, 0600); err != nil {
		return fmt.Errorf("%w: failed to write metadata: %v", kerrors.ErrNotify, err)
	}

	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename turns s into a short lowercase filename fragment.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "@", "_at_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 64
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "message"
	}

	return strings.ToLower(s)
}
