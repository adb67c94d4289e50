package historystore

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultCapacity   = 10000
	DefaultWindowSize = 10
	DefaultWindowTTL  = 10 * time.Minute
)

type windowEntry struct {
	token  uint64
	hash   string
	score  float64
	scored bool
	seen   time.Time
}

type userEntry struct {
	mu        sync.Mutex
	state     UserState
	window    []windowEntry
	lastToken uint64
}

// MemHistoryStore keeps per-user state in a capacity-bounded LRU. Eviction
// is a memory policy, not a correctness mechanism: terminal ban status must
// be mirrored durably by the caller (the engine writes a flagstore flag)
// before eviction can matter.
type MemHistoryStore struct {
	users      *lru.Cache[string, *userEntry]
	windowSize int
	windowTTL  time.Duration
}

func NewMemHistoryStore(capacity, windowSize int, windowTTL time.Duration) *MemHistoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if windowTTL <= 0 {
		windowTTL = DefaultWindowTTL
	}
	cache, _ := lru.New[string, *userEntry](capacity)
	return &MemHistoryStore{
		users:      cache,
		windowSize: windowSize,
		windowTTL:  windowTTL,
	}
}

func (s *MemHistoryStore) entry(uid string, now time.Time) *userEntry {
	if e, ok := s.users.Get(uid); ok {
		return e
	}
	e := &userEntry{
		state: UserState{FirstSeen: now},
	}
	// two concurrent first messages may race to insert; keep whichever won
	if prev, ok, _ := s.users.PeekOrAdd(uid, e); ok {
		return prev
	}
	return e
}

func (s *MemHistoryStore) GetState(ctx context.Context, uid string) (UserState, error) {
	e := s.entry(uid, time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, nil
}

func (s *MemHistoryStore) AddWarning(ctx context.Context, uid string) (int, error) {
	e := s.entry(uid, time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Warnings++
	return e.state.Warnings, nil
}

func (s *MemHistoryStore) AddForwardViolation(ctx context.Context, uid string) (int, error) {
	e := s.entry(uid, time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.ForwardViolations++
	return e.state.ForwardViolations, nil
}

func (s *MemHistoryStore) SetMuted(ctx context.Context, uid string, until time.Time) error {
	e := s.entry(uid, time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.MutedUntil = &until
	return nil
}

func (s *MemHistoryStore) SetBanned(ctx context.Context, uid string) error {
	e := s.entry(uid, time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Banned = true
	return nil
}

func (s *MemHistoryStore) ResetWarnings(ctx context.Context, uid string) error {
	e := s.entry(uid, time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Warnings = 0
	return nil
}

func (s *MemHistoryStore) ObserveMessage(ctx context.Context, uid, hash string, now time.Time) (WindowStats, uint64, error) {
	e := s.entry(uid, now)
	e.mu.Lock()
	defer e.mu.Unlock()

	// evict expired entries, then enforce the size bound
	cutoff := now.Add(-s.windowTTL)
	kept := e.window[:0]
	for _, w := range e.window {
		if w.seen.After(cutoff) {
			kept = append(kept, w)
		}
	}
	e.window = kept
	if len(e.window) >= s.windowSize {
		e.window = e.window[len(e.window)-s.windowSize+1:]
	}

	var stats WindowStats
	stats.PriorCount = len(e.window)
	safe := 0
	scored := 0
	minuteAgo := now.Add(-time.Minute)
	for _, w := range e.window {
		if w.hash == hash {
			stats.DuplicateCount++
		}
		if w.seen.After(minuteAgo) {
			stats.CountLastMinute++
		}
		if w.scored {
			scored++
			if w.score < 0.4 {
				safe++
			}
		}
	}
	if scored > 0 {
		stats.PriorSafeRatio = float64(safe) / float64(scored)
	}

	e.lastToken++
	e.window = append(e.window, windowEntry{token: e.lastToken, hash: hash, seen: now})
	stats.DuplicateCount++
	stats.CountLastMinute++
	return stats, e.lastToken, nil
}

func (s *MemHistoryStore) RecordScore(ctx context.Context, uid string, token uint64, score float64) error {
	e := s.entry(uid, time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	// newest entries are likeliest; the entry may also have been evicted,
	// which is fine
	for i := len(e.window) - 1; i >= 0; i-- {
		if e.window[i].token == token {
			e.window[i].score = score
			e.window[i].scored = true
			break
		}
	}
	return nil
}

var _ HistoryStore = (*MemHistoryStore)(nil)
