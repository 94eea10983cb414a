package workflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/hexalock/internal/audit"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/secrets"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Path is the plaintext file to encrypt.
	Path string

	// Password is the secret the key is derived from. It must not be empty.
	Password string

	// User is recorded in the audit log.
	User string

	// Output overrides the default <path>.enc destination.
	Output string
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// Source is the plaintext file that was read.
	Source string

	// Output is the envelope that was written.
	Output string
}

// EncryptFile seals a single file under a password-derived key.
//
// Both outcomes are audited under the file's base name. When the audit append
// fails after a successful encryption, the result is returned together with
// an error wrapping ErrAudit.
func (w *Workflow) EncryptFile(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	name := filepath.Base(opts.Path)
	w.log.Infof("Encrypting %s", opts.Path)

	if opts.Path == "" {
		return nil, fmt.Errorf("%w: no file given", kerrors.ErrInvalidInput)
	}
	if opts.Password == "" {
		return nil, w.fail(ctx, fmt.Errorf("%w: password must not be empty", kerrors.ErrInvalidInput),
			audit.ActionEncryptFail, name, opts.User)
	}

	output := opts.Output
	if output == "" {
		output = secrets.EncryptedPath(opts.Path)
	}

	if err := w.encrypt(opts.Path, output, opts.Password); err != nil {
		w.log.Warnf("Encryption of %s failed: %v", opts.Path, err)
		return nil, w.fail(ctx, err, audit.ActionEncryptFail, name, opts.User)
	}

	result := &EncryptResult{Source: opts.Path, Output: output}
	w.log.Infof("Wrote %s", output)
	return result, w.record(ctx, audit.ActionEncrypted, name, opts.User)
}

func (w *Workflow) encrypt(src, dst, password string) error {
	plaintext, err := readFile(src)
	if err != nil {
		return err
	}

	sealed, err := w.cipher.Seal(plaintext, password, w.kdf)
	if err != nil {
		return err
	}

	return writeFile(dst, sealed)
}

// EncryptFilesOptions configures batch encryption.
type EncryptFilesOptions struct {
	// Patterns are file paths, directories, or glob patterns (including **).
	Patterns []string

	// BaseDir resolves relative patterns. Empty means the working directory.
	BaseDir string

	Password string
	User     string
}

// EncryptFilesResult contains the outcome of a batch encryption.
type EncryptFilesResult struct {
	// Encrypted lists every file sealed successfully, in resolution order.
	Encrypted []EncryptResult

	// Failed maps a source path to the reason it was not encrypted.
	Failed map[string]error
}

// EncryptFiles resolves patterns to plaintext files and encrypts each one.
//
// A failing file does not stop the batch. The returned error is non-nil only
// when nothing matched or the inputs are invalid; per-file failures, including
// audit failures, are reported in Failed.
func (w *Workflow) EncryptFiles(ctx context.Context, opts EncryptFilesOptions) (*EncryptFilesResult, error) {
	if opts.Password == "" {
		return nil, fmt.Errorf("%w: password must not be empty", kerrors.ErrInvalidInput)
	}

	files, err := secrets.ResolveFiles(opts.Patterns, opts.BaseDir, true)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}
	w.log.Debugf("Resolved %d files for encryption", len(files))

	result := &EncryptFilesResult{Failed: make(map[string]error)}
	for _, file := range files {
		res, err := w.EncryptFile(ctx, EncryptOptions{Path: file, Password: opts.Password, User: opts.User})
		if res != nil {
			result.Encrypted = append(result.Encrypted, *res)
		}
		if err != nil {
			result.Failed[file] = err
		}
	}

	return result, nil
}
