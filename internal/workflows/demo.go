package workflows

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/hexalock/internal/audit"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/secrets"
)

const (
	// DemoFilename is the sample file written by the demo.
	DemoFilename = "test_file.txt"

	// DemoUser is recorded in the audit log when the demo runs without a user.
	DemoUser = "demo"

	// DemoContent is the default sample plaintext.
	DemoContent = "This is a test file for HexaLock encryption demo.\nYou can replace this content with your own text."
)

// DemoOptions configures the demo cycle.
type DemoOptions struct {
	// Dir holds the sample files. Empty means a fresh temporary directory.
	Dir string

	Password string

	// User defaults to DemoUser.
	User string

	// Content defaults to DemoContent. It is ignored when Dir already holds
	// a sample file.
	Content []byte

	// Keep leaves the sample, encrypted and decrypted files in place. An
	// existing sample is never removed.
	Keep bool
}

// DemoResult contains the outcome of a demo cycle.
type DemoResult struct {
	Plaintext string
	Encrypted string
	Decrypted string

	// Match is true when the decrypted bytes equal the sample.
	Match bool

	// Existing is true when Dir already held the sample and it was used as is.
	Existing bool
}

// Demo writes a sample file, encrypts it, decrypts the result and compares.
//
// A sample already present in Dir is used as the plaintext and left in place.
// Existing encrypted or decrypted outputs are never overwritten; Demo fails
// with ErrInvalidInput instead. Each step is audited with the demo actions.
// Files Demo created are removed afterwards unless Keep is set.
func (w *Workflow) Demo(ctx context.Context, opts DemoOptions) (*DemoResult, error) {
	if opts.Password == "" {
		return nil, fmt.Errorf("%w: password must not be empty", kerrors.ErrInvalidInput)
	}
	user := opts.User
	if user == "" {
		user = DemoUser
	}
	content := opts.Content
	if content == nil {
		content = []byte(DemoContent)
	}

	dir := opts.Dir
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp("", "hexalock-demo-")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrIO, err)
		}
		if !opts.Keep {
			defer os.RemoveAll(dir)
		}
	}

	plain := filepath.Join(dir, DemoFilename)
	res := &DemoResult{
		Plaintext: plain,
		Encrypted: secrets.EncryptedPath(plain),
		Decrypted: secrets.DecryptedPath(secrets.EncryptedPath(plain)),
	}
	for _, p := range []string{res.Encrypted, res.Decrypted} {
		if _, err := os.Lstat(p); err == nil {
			return nil, fmt.Errorf("%w: %s already exists, remove it or choose another directory", kerrors.ErrInvalidInput, p)
		}
	}

	var auditErrs []error
	existing, err := readFile(res.Plaintext)
	switch {
	case err == nil:
		content = existing
		res.Existing = true
		w.log.Infof("Using existing sample file %s", res.Plaintext)
	case errors.Is(err, kerrors.ErrFileNotFound):
		if err := createFile(res.Plaintext, content); err != nil {
			return nil, err
		}
		w.log.Infof("Created sample file %s", res.Plaintext)
		auditErrs = append(auditErrs, w.record(ctx, audit.ActionCreated, DemoFilename, user))
	default:
		return nil, err
	}

	if !opts.Keep {
		defer func() {
			if !res.Existing {
				_ = os.Remove(res.Plaintext)
			}
			_ = os.Remove(res.Encrypted)
			_ = os.Remove(res.Decrypted)
		}()
	}

	if err := w.encrypt(res.Plaintext, res.Encrypted, opts.Password); err != nil {
		return nil, w.fail(ctx, err, audit.ActionEncryptFail, DemoFilename, user)
	}
	auditErrs = append(auditErrs, w.record(ctx, audit.ActionDemoEncrypted, DemoFilename, user))

	dec, err := w.decrypt(DecryptOptions{Path: res.Encrypted, Password: opts.Password, Output: res.Decrypted})
	if err != nil {
		return nil, w.fail(ctx, err, audit.ActionDecryptFail, DemoFilename, user)
	}
	auditErrs = append(auditErrs, w.record(ctx, audit.ActionDemoDecrypted, DemoFilename, user))

	got, err := readFile(dec.Output)
	if err != nil {
		return nil, err
	}
	res.Match = bytes.Equal(got, content)
	if !res.Match {
		w.log.Warnf("Demo round trip produced different bytes")
	}

	return res, errors.Join(auditErrs...)
}
