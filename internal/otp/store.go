package otp

import (
	"context"
	"fmt"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// Record is an issued code waiting to be redeemed.
type Record struct {
	Code      string
	Recipient string
	Filename  string
	Expiry    time.Time
}

// Store persists issued codes.
type Store interface {
	// Issue records code for (recipient, filename), valid for ttl from now.
	// Re-issuing an identical triple keeps whichever expiry is later.
	Issue(ctx context.Context, code, recipient, filename string, ttl time.Duration) (Record, error)

	// ValidateAndConsume reports whether code is outstanding and unexpired for
	// (recipient, filename), deleting it in the same step when it is.
	ValidateAndConsume(ctx context.Context, code, recipient, filename string) (bool, error)

	// Purge deletes expired codes and returns how many were removed.
	Purge(ctx context.Context) (int64, error)

	// Outstanding lists unexpired codes for recipient, soonest expiry first.
	Outstanding(ctx context.Context, recipient string) ([]Record, error)
}

// Option configures a Store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func validateIssue(code, recipient, filename string, ttl time.Duration) error {
	switch {
	case code == "":
		return fmt.Errorf("%w: code is empty", kerrors.ErrInvalidInput)
	case recipient == "":
		return fmt.Errorf("%w: recipient is empty", kerrors.ErrInvalidInput)
	case filename == "":
		return fmt.Errorf("%w: filename is empty", kerrors.ErrInvalidInput)
	case ttl <= 0:
		return fmt.Errorf("%w: ttl must be positive, got %s", kerrors.ErrInvalidInput, ttl)
	}
	return nil
}
