package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// FileLog appends entries as JSON Lines to a single file.
type FileLog struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewFileLog returns a log writing to path. The file and its directory are
// created on first append.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path, now: time.Now}
}

// Path returns the path to the audit log file.
func (l *FileLog) Path() string {
	return l.path
}

func (l *FileLog) Append(ctx context.Context, entry Entry) (Entry, error) {
	entry = stamp(entry, l.now)

	data, err := json.Marshal(entry)
	if err != nil {
		return entry, fmt.Errorf("%w: %v", kerrors.ErrAudit, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return entry, fmt.Errorf("%w: %v", kerrors.ErrAudit, err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return entry, fmt.Errorf("%w: %v", kerrors.ErrAudit, err)
	}
	defer f.Close()

	// Write entry with newline.
	if _, err := f.Write(append(data, '\n')); err != nil {
		return entry, fmt.Errorf("%w: %v", kerrors.ErrAudit, err)
	}

	return entry, nil
}

func (l *FileLog) Recent(ctx context.Context, q Query) ([]Entry, error) {
	l.mu.Lock()
	data, err := os.ReadFile(l.path)
	l.mu.Unlock()

	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrAudit, err)
	}

	entries, err := ParseEntries(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrAudit, err)
	}

	// Lines are in append order; walk backwards for most recent first.
	var out []Entry
	for i := len(entries) - 1; i >= 0; i-- {
		if !q.matches(entries[i]) {
			continue
		}
		out = append(out, entries[i])
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}

	return out, nil
}
