package flagstore

import (
	"context"
)

// Well-known flag values applied to users by the engine.
const (
	FlagBanned        = "banned"
	FlagReview        = "needs-review"
	FlagForwardAbuser = "forward-abuser"
)

// FlagStore tracks private per-user moderation flags. Terminal ban status is
// mirrored here so that eviction of transient in-memory user state never
// forgets a ban.
type FlagStore interface {
	Get(ctx context.Context, key string) ([]string, error)
	Add(ctx context.Context, key string, flags []string) error
	Remove(ctx context.Context, key string, flags []string) error
}
