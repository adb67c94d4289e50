package historystore

import (
	"context"
	"time"
)

// Snapshot of a user's moderation state. Immutable copy; mutations go
// through the store methods so that threshold checks stay atomic.
type UserState struct {
	Warnings          int
	ForwardViolations int
	MutedUntil        *time.Time
	Banned            bool
	FirstSeen         time.Time
}

// Stats computed over the user's bounded recent-message window, under the
// same lock as the insert which produced them.
type WindowStats struct {
	// Number of messages in the window sharing the current message's hash,
	// including the current message itself.
	DuplicateCount int
	// Messages observed in the trailing one-minute window, including the
	// current message.
	CountLastMinute int
	// Number of messages in the window before the current one.
	PriorCount int
	// Fraction of prior windowed messages with a final score below 0.4.
	PriorSafeRatio float64
}

// HistoryStore owns per-user moderation state: warning and forward-violation
// counters, mute/ban status, and the bounded recent-message window used for
// duplicate and rate detection.
//
// Counter methods return the post-increment value so that threshold
// crossings ("did this warning reach 3?") are decided from a single atomic
// step, never from a separate read-then-write.
type HistoryStore interface {
	GetState(ctx context.Context, uid string) (UserState, error)
	AddWarning(ctx context.Context, uid string) (int, error)
	AddForwardViolation(ctx context.Context, uid string) (int, error)
	SetMuted(ctx context.Context, uid string, until time.Time) error
	SetBanned(ctx context.Context, uid string) error
	// ResetWarnings is an explicit external (admin) action; nothing in the
	// decision path calls it.
	ResetWarnings(ctx context.Context, uid string) error
	// ObserveMessage inserts the message into the user's window (evicting
	// expired entries) and returns stats for duplicate/rate detection, plus
	// an opaque token identifying the inserted entry.
	ObserveMessage(ctx context.Context, uid, hash string, now time.Time) (WindowStats, uint64, error)
	// RecordScore attaches the final fused score to the window entry the
	// token identifies, feeding the safe-ratio history. Scoring by token
	// keeps concurrent in-flight messages from one user from scoring each
	// other's entries.
	RecordScore(ctx context.Context, uid string, token uint64, score float64) error
}
