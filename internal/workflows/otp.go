package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/hexalock/internal/audit"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/notify"
	"github.com/PolarWolf314/hexalock/internal/otp"
)

// IssueOptions configures passcode issuance.
type IssueOptions struct {
	// Recipient identifies who may redeem the code, usually an email address.
	Recipient string

	// Filename is the logical file the code unlocks. It is compared verbatim.
	Filename string

	TTL time.Duration
}

// IssueResult describes an issued passcode.
type IssueResult struct {
	Code      string
	Recipient string
	Filename  string
	Expiry    time.Time
}

// IssueOTP generates a passcode and persists it for (recipient, filename).
func (w *Workflow) IssueOTP(ctx context.Context, opts IssueOptions) (*IssueResult, error) {
	if strings.TrimSpace(opts.Recipient) == "" || strings.TrimSpace(opts.Filename) == "" {
		return nil, fmt.Errorf("%w: recipient and filename are required", kerrors.ErrInvalidInput)
	}

	code, err := w.codes.Generate()
	if err != nil {
		return nil, err
	}

	rec, err := w.store.Issue(ctx, code, opts.Recipient, opts.Filename, opts.TTL)
	if err != nil {
		return nil, err
	}
	w.log.Infof("Issued OTP for %s on %s, valid until %s", opts.Recipient, opts.Filename, rec.Expiry.Format(time.RFC3339))

	result := &IssueResult{Code: rec.Code, Recipient: rec.Recipient, Filename: rec.Filename, Expiry: rec.Expiry}
	return result, w.record(ctx, audit.ActionOTPGenerated, opts.Filename, opts.Recipient)
}

// SendResult describes an issued passcode and its delivery.
type SendResult struct {
	IssueResult

	// Delivered is false when the notifier failed. The code stays valid.
	Delivered bool
}

// SendOTP issues a passcode and delivers it through the notifier.
//
// A delivery failure is recorded and returned wrapped in ErrNotify, but the
// issued code is not withdrawn; the result is still returned.
func (w *Workflow) SendOTP(ctx context.Context, opts IssueOptions) (*SendResult, error) {
	issued, issueErr := w.IssueOTP(ctx, opts)
	if issued == nil {
		return nil, issueErr
	}

	result := &SendResult{IssueResult: *issued}
	msg := notify.OTPMessage(opts.Recipient, opts.Filename, issued.Code)
	if err := w.notifier.Send(ctx, msg); err != nil {
		w.log.Warnf("Failed to send OTP to %s: %v", opts.Recipient, err)
		if !errors.Is(err, kerrors.ErrNotify) {
			err = fmt.Errorf("%w: %w", kerrors.ErrNotify, err)
		}
		return result, errors.Join(issueErr, w.fail(ctx, err, audit.ActionOTPSendFail, opts.Filename, opts.Recipient))
	}

	result.Delivered = true
	return result, errors.Join(issueErr, w.record(ctx, audit.ActionOTPSent, opts.Filename, opts.Recipient))
}

// RedeemOptions configures OTP-gated decryption.
type RedeemOptions struct {
	// Path is the envelope to decrypt once the code is accepted.
	Path string

	// Output overrides the default decryption destination.
	Output string

	Recipient string
	Filename  string
	Code      string
	Password  string
}

// DecryptWithOTP consumes a passcode and, only if it was valid, decrypts Path.
//
// An invalid, expired or reused code yields ErrInvalidOTP without reading the
// file. A missing Path fails with ErrFileNotFound before the code is checked,
// so the code stays valid. A consumed code is spent even when decryption then fails. Both
// outcomes are audited under Filename with the recipient as the user.
func (w *Workflow) DecryptWithOTP(ctx context.Context, opts RedeemOptions) (*DecryptResult, error) {
	ok, err := w.redeem(ctx, opts)
	if err != nil {
		return nil, w.fail(ctx, err, audit.ActionOTPDecryptFail, opts.Filename, opts.Recipient)
	}
	if !ok {
		w.log.Warnf("Rejected OTP for %s on %s", opts.Recipient, opts.Filename)
		return nil, w.fail(ctx, kerrors.ErrInvalidOTP, audit.ActionOTPDecryptFail, opts.Filename, opts.Recipient)
	}

	result, err := w.decrypt(DecryptOptions{Path: opts.Path, Password: opts.Password, Output: opts.Output})
	if err != nil {
		w.log.Warnf("Decryption of %s failed after OTP was accepted: %v", opts.Path, err)
		return nil, w.fail(ctx, err, audit.ActionOTPDecryptFail, opts.Filename, opts.Recipient)
	}

	return result, w.record(ctx, audit.ActionOTPDecryptSuccess, opts.Filename, opts.Recipient)
}

func (w *Workflow) redeem(ctx context.Context, opts RedeemOptions) (bool, error) {
	if opts.Path == "" {
		return false, fmt.Errorf("%w: no file given", kerrors.ErrInvalidInput)
	}
	// Malformed codes can never match a stored record.
	if !otp.IsWellFormed(opts.Code) {
		return false, nil
	}
	// A missing file must not spend the code. Stat does not read the contents.
	if err := statFile(opts.Path); err != nil {
		return false, err
	}
	return w.store.ValidateAndConsume(ctx, opts.Code, opts.Recipient, opts.Filename)
}

// PurgeOTPs deletes expired passcodes and returns how many were removed.
func (w *Workflow) PurgeOTPs(ctx context.Context, user string) (int64, error) {
	n, err := w.store.Purge(ctx)
	if err != nil {
		return 0, err
	}
	w.log.Infof("Purged %d expired OTPs", n)

	return n, w.record(ctx, audit.ActionOTPPurged, "*", user)
}

// Outstanding lists unexpired passcodes issued to recipient, soonest expiry
// first.
func (w *Workflow) Outstanding(ctx context.Context, recipient string) ([]otp.Record, error) {
	if strings.TrimSpace(recipient) == "" {
		return nil, fmt.Errorf("%w: recipient is required", kerrors.ErrInvalidInput)
	}
	return w.store.Outstanding(ctx, recipient)
}
