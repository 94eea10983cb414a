package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/PolarWolf314/hexalock/internal/audit"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// DefaultLogLimit is the number of entries shown when no limit is given.
const DefaultLogLimit = 10

const dateLayout = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit caps the number of entries. Zero means DefaultLogLimit and a
	// negative value means no limit.
	Limit int

	// User filters by user.
	User string

	// Action filters by action label.
	Action string

	// Since filters to entries on or after this date (YYYY-MM-DD).
	Since string

	// Until filters to entries on or before this date (YYYY-MM-DD).
	Until string
}

// LogResult contains the outcome of a log query.
type LogResult struct {
	// Entries are the matching entries, most recent first.
	Entries []audit.Entry
}

// Log reads recent audit entries matching the filters.
func (w *Workflow) Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	q := audit.Query{User: opts.User, Action: opts.Action}

	switch {
	case opts.Limit == 0:
		q.Limit = DefaultLogLimit
	case opts.Limit > 0:
		q.Limit = opts.Limit
	}

	if opts.Since != "" {
		since, err := time.ParseInLocation(dateLayout, opts.Since, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid --since date format, expected YYYY-MM-DD: %v", kerrors.ErrInvalidInput, err)
		}
		q.Since = since
	}

	if opts.Until != "" {
		until, err := time.ParseInLocation(dateLayout, opts.Until, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid --until date format, expected YYYY-MM-DD: %v", kerrors.ErrInvalidInput, err)
		}
		// Include the whole day.
		q.Until = until.Add(24*time.Hour - time.Microsecond)
	}

	if !q.Since.IsZero() && !q.Until.IsZero() && q.Until.Before(q.Since) {
		return nil, fmt.Errorf("%w: --until is before --since", kerrors.ErrInvalidInput)
	}

	entries, err := w.audit.Recent(ctx, q)
	if err != nil {
		return nil, err
	}
	w.log.Debugf("Loaded %d audit entries", len(entries))

	return &LogResult{Entries: entries}, nil
}
