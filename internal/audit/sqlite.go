package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/PolarWolf314/hexalock/internal/db"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// SQLiteLog stores entries in the access_logs table. Timestamps are stored as
// unix microseconds; ties are broken by insertion order.
type SQLiteLog struct {
	db  db.DBTX
	now func() time.Time
}

// NewSQLiteLog returns a log over an already migrated database.
func NewSQLiteLog(conn db.DBTX) *SQLiteLog {
	return &SQLiteLog{db: conn, now: time.Now}
}

func (l *SQLiteLog) Append(ctx context.Context, entry Entry) (Entry, error) {
	entry = stamp(entry, l.now)
	entry.Timestamp = entry.Timestamp.Truncate(time.Microsecond)

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO access_logs (id, filename, action, user, timestamp) VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Filename, entry.Action, entry.User, entry.Timestamp.UnixMicro())
	if err != nil {
		return entry, fmt.Errorf("%w: failed to append %s entry: %v", kerrors.ErrAudit, entry.Action, err)
	}

	return entry, nil
}

func (l *SQLiteLog) Recent(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit.
	}

	var since, until int64
	if !q.Since.IsZero() {
		since = q.Since.UnixMicro()
	}
	if !q.Until.IsZero() {
		until = q.Until.UnixMicro()
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, filename, action, user, timestamp FROM access_logs
		WHERE (? = '' OR user = ?) AND (? = '' OR action = ?)
		  AND (? = 0 OR timestamp >= ?) AND (? = 0 OR timestamp <= ?)
		ORDER BY timestamp DESC, seq DESC
		LIMIT ?
	`, q.User, q.User, q.Action, q.Action, since, since, until, until, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query access logs: %v", kerrors.ErrAudit, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var micros int64
		if err := rows.Scan(&e.ID, &e.Filename, &e.Action, &e.User, &micros); err != nil {
			return nil, fmt.Errorf("%w: failed to scan access log row: %v", kerrors.ErrAudit, err)
		}
		e.Timestamp = time.UnixMicro(micros).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate access log rows: %v", kerrors.ErrAudit, err)
	}

	return out, nil
}
