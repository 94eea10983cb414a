package otp

import (
	"context"
	"sort"
	"sync"
	"time"
)

type recordKey struct {
	code, recipient, filename string
}

// MemoryStore is an in-process Store. Its contents are lost on exit.
type MemoryStore struct {
	mu  sync.Mutex
	m   map[recordKey]time.Time
	now func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		m:   make(map[recordKey]time.Time),
		now: o.now,
	}
}

func (s *MemoryStore) Issue(ctx context.Context, code, recipient, filename string, ttl time.Duration) (Record, error) {
	if err := validateIssue(code, recipient, filename, ttl); err != nil {
		return Record{}, err
	}

	k := recordKey{code, recipient, filename}
	expiry := s.now().Add(ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.m[k]; ok && prev.After(expiry) {
		expiry = prev
	}
	s.m[k] = expiry

	return Record{Code: code, Recipient: recipient, Filename: filename, Expiry: expiry}, nil
}

func (s *MemoryStore) ValidateAndConsume(ctx context.Context, code, recipient, filename string) (bool, error) {
	k := recordKey{code, recipient, filename}

	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.m[k]
	if !ok || !s.now().Before(expiry) {
		return false, nil
	}
	delete(s.m, k)
	return true, nil
}

func (s *MemoryStore) Purge(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for k, expiry := range s.m {
		if !now.Before(expiry) {
			delete(s.m, k)
			n++
		}
	}
	return n, nil
}

// Outstanding lists unexpired codes for recipient, soonest expiry first.
func (s *MemoryStore) Outstanding(ctx context.Context, recipient string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []Record
	for k, expiry := range s.m {
		if k.recipient == recipient && now.Before(expiry) {
			out = append(out, Record{Code: k.code, Recipient: k.recipient, Filename: k.filename, Expiry: expiry})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Expiry.Before(out[j].Expiry) })
	return out, nil
}
