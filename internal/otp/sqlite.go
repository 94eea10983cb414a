package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/PolarWolf314/hexalock/internal/db"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// SQLiteStore keeps codes in the otps table. Expiry is stored as unix
// milliseconds.
type SQLiteStore struct {
	db  db.DBTX
	now func() time.Time
}

// NewSQLiteStore returns a store over an already migrated database.
func NewSQLiteStore(conn db.DBTX, opts ...Option) *SQLiteStore {
	o := buildOptions(opts)
	return &SQLiteStore{db: conn, now: o.now}
}

func (s *SQLiteStore) Issue(ctx context.Context, code, recipient, filename string, ttl time.Duration) (Record, error) {
	if err := validateIssue(code, recipient, filename, ttl); err != nil {
		return Record{}, err
	}

	expiry := s.now().Add(ttl).Truncate(time.Millisecond)

	// A re-issued triple keeps the later expiry; return whichever was stored.
	var stored int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO otps (code, recipient, filename, expiry) VALUES (?, ?, ?, ?)
		ON CONFLICT(code, recipient, filename) DO UPDATE SET expiry = MAX(expiry, excluded.expiry)
		RETURNING expiry
	`, code, recipient, filename, expiry.UnixMilli()).Scan(&stored)
	if err != nil {
		return Record{}, fmt.Errorf("%w: failed to issue otp for %s: %v", kerrors.ErrStore, recipient, err)
	}

	return Record{Code: code, Recipient: recipient, Filename: filename, Expiry: time.UnixMilli(stored).UTC()}, nil
}

func (s *SQLiteStore) ValidateAndConsume(ctx context.Context, code, recipient, filename string) (bool, error) {
	// Check and delete happen in one statement so two redeemers cannot both win.
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM otps
		WHERE code = ? AND recipient = ? AND filename = ? AND expiry > ?
	`, code, recipient, filename, s.now().UnixMilli())
	if err != nil {
		return false, fmt.Errorf("%w: failed to redeem otp: %v", kerrors.ErrStore, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: failed to redeem otp: %v", kerrors.ErrStore, err)
	}
	return n == 1, nil
}

func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM otps WHERE expiry <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("%w: failed to purge otps: %v", kerrors.ErrStore, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to purge otps: %v", kerrors.ErrStore, err)
	}
	return n, nil
}

// Outstanding lists unexpired codes for recipient, soonest expiry first.
func (s *SQLiteStore) Outstanding(ctx context.Context, recipient string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, recipient, filename, expiry FROM otps
		WHERE recipient = ? AND expiry > ?
		ORDER BY expiry ASC
	`, recipient, s.now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list otps: %v", kerrors.ErrStore, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ms int64
		if err := rows.Scan(&r.Code, &r.Recipient, &r.Filename, &ms); err != nil {
			return nil, fmt.Errorf("%w: failed to scan otp row: %v", kerrors.ErrStore, err)
		}
		r.Expiry = time.UnixMilli(ms)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate otp rows: %v", kerrors.ErrStore, err)
	}

	return out, nil
}
