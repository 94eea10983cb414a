package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/hexalock/internal/audit"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	logger "github.com/PolarWolf314/hexalock/internal/logging"
	"github.com/PolarWolf314/hexalock/internal/notify"
	"github.com/PolarWolf314/hexalock/internal/otp"
	"github.com/PolarWolf314/hexalock/internal/secrets"
)

// DefaultUser is recorded in the audit log when no user is given.
const DefaultUser = "unknown"

// Workflow owns the collaborators every command needs.
type Workflow struct {
	store    otp.Store
	audit    audit.Log
	notifier notify.Sender
	cipher   *secrets.Cipher
	codes    *otp.Generator
	kdf      secrets.KDFParams
	log      logger.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithCipher replaces the default cipher, e.g. to set a max payload age.
func WithCipher(c *secrets.Cipher) Option {
	return func(w *Workflow) { w.cipher = c }
}

// WithGenerator replaces the OTP generator.
func WithGenerator(g *otp.Generator) Option {
	return func(w *Workflow) { w.codes = g }
}

// WithKDFParams sets the Argon2id cost used for new envelopes.
func WithKDFParams(p secrets.KDFParams) Option {
	return func(w *Workflow) { w.kdf = p }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Workflow) { w.log = l }
}

// New returns a Workflow over the given store, audit log and notifier.
func New(store otp.Store, log audit.Log, notifier notify.Sender, opts ...Option) *Workflow {
	w := &Workflow{
		store:    store,
		audit:    log,
		notifier: notifier,
		cipher:   secrets.NewCipher(),
		codes:    otp.NewGenerator(nil),
		kdf:      secrets.DefaultKDFParams,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// record appends an audit entry. The returned error, if any, wraps ErrAudit.
func (w *Workflow) record(ctx context.Context, action, filename, user string) error {
	if user == "" {
		user = DefaultUser
	}

	e, err := w.audit.Append(ctx, audit.NewEntry(action, filename, user))
	if err != nil {
		w.log.Errorf("Failed to record %s for %s: %v", action, filename, err)
		return err
	}

	w.log.Debugf("Recorded %s for %s by %s (%s)", action, filename, user, e.ID)
	return nil
}

// fail records a failure entry and returns opErr joined with any audit error.
func (w *Workflow) fail(ctx context.Context, opErr error, action, filename, user string) error {
	if auditErr := w.record(ctx, action, filename, user); auditErr != nil {
		return errors.Join(opErr, auditErr)
	}
	return opErr
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w: %s", kerrors.ErrIO, kerrors.ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}
	return data, nil
}

// statFile checks path exists and is a regular file without reading it.
func statFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w: %s", kerrors.ErrIO, kerrors.ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file: %s", kerrors.ErrIO, path)
	}
	return nil
}

// createFile writes data to a new file readable only by its owner. It fails
// if path already exists.
func createFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}
	return nil
}

// writeFile writes data readable only by its owner.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}
	return nil
}
