package workflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/hexalock/internal/audit"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/secrets"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// Path is the envelope to decrypt.
	Path string

	Password string

	// User is recorded in the audit log.
	User string

	// Output overrides the default destination, which replaces a trailing
	// .enc with .dec.
	Output string
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Source string
	Output string

	// Size is the plaintext length in bytes.
	Size int
}

// DecryptFile opens an envelope with its password and writes the plaintext.
//
// A wrong password and a tampered file both yield ErrAuthentication.
func (w *Workflow) DecryptFile(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	name := filepath.Base(opts.Path)
	w.log.Infof("Decrypting %s", opts.Path)

	if opts.Path == "" {
		return nil, fmt.Errorf("%w: no file given", kerrors.ErrInvalidInput)
	}

	result, err := w.decrypt(opts)
	if err != nil {
		w.log.Warnf("Decryption of %s failed: %v", opts.Path, err)
		return nil, w.fail(ctx, err, audit.ActionDecryptFail, name, opts.User)
	}

	return result, w.record(ctx, audit.ActionDecrypted, name, opts.User)
}

func (w *Workflow) decrypt(opts DecryptOptions) (*DecryptResult, error) {
	sealed, err := readFile(opts.Path)
	if err != nil {
		return nil, err
	}

	plaintext, err := w.cipher.Open(sealed, opts.Password)
	if err != nil {
		return nil, err
	}

	output := opts.Output
	if output == "" {
		output = secrets.DecryptedPath(opts.Path)
	}
	if err := writeFile(output, plaintext); err != nil {
		return nil, err
	}

	w.log.Infof("Wrote %d bytes to %s", len(plaintext), output)
	return &DecryptResult{Source: opts.Path, Output: output, Size: len(plaintext)}, nil
}
