package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// Entry is the counter for one client key.
type Entry struct {
	Count int
	Start time.Time
}

// MemoryStore is a process-local fixed-window limiter. A window resets once
// more than Window has elapsed since its first request, so a client can burst
// up to twice the quota across a window boundary.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
	config  Config
	now     func() time.Time
}

// MemoryOption customises a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory limiter.
func NewMemoryStore(cfg Config, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*Entry),
		config:  cfg.normalized(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Admit counts the request against key and reports whether it is within quota.
// Rejected requests still count.
func (s *MemoryStore) Admit(_ context.Context, key string) bool {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		entry = &Entry{Start: now}
		s.entries[key] = entry
	}
	if now.Sub(entry.Start) > s.config.Window {
		entry.Count = 0
		entry.Start = now
	}
	entry.Count++
	return entry.Count <= s.config.Quota
}

// Snapshot returns a copy of the entry for key.
func (s *MemoryStore) Snapshot(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Len reports how many keys are tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops entries whose window has expired and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if now.Sub(entry.Start) > s.config.Window {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps the table every interval until ctx is cancelled.
func (s *MemoryStore) StartJanitor(ctx context.Context, every time.Duration, logger *logging.Logger) {
	if every <= 0 {
		return
	}
	if logger == nil {
		logger = logging.Default()
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					logger.Debug("rate limit entries swept", "removed", n, "remaining", s.Len())
				}
			}
		}
	}()
}
