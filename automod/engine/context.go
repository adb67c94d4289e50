package engine

import (
	"context"
	"log/slog"

	"github.com/vigil-bot/vigil/automod/historystore"
)

// The primary interface exposed to rules.
type MessageContext struct {
	// Actual golang "context.Context", if needed for timeouts etc
	Ctx context.Context
	// slog logger handle, with message-specific structured fields pre-populated. Pointer, but expected to never be nil.
	Logger *slog.Logger

	Message Message
	// Normalize()d form of the message text; all lexical checks run on this.
	NormalizedText string
	// The sender's moderation state as of message arrival.
	Account historystore.UserState
	// Stats over the sender's bounded recent-message window, computed when
	// this message was inserted.
	Window historystore.WindowStats

	engine  *Engine
	effects Effects
}

// checks if `val` is an element of set `name`
func (c *MessageContext) InSet(name, val string) bool {
	out, err := c.engine.Sets.InSet(c.Ctx, name, val)
	if err != nil {
		c.Logger.Error("checking set membership", "set", name, "err", err)
		return false
	}
	return out
}

// checks if any element of set `name` occurs in the normalized text,
// returning the matching phrase
func (c *MessageContext) MatchInText(name string) (string, bool) {
	phrase, ok, err := c.engine.Sets.AnyInText(c.Ctx, name, c.NormalizedText)
	if err != nil {
		c.Logger.Error("matching set against text", "set", name, "err", err)
		return "", false
	}
	return phrase, ok
}

// returns every element of set `name` occurring in the normalized text
func (c *MessageContext) MatchAllInText(name string) []string {
	matches, err := c.engine.Sets.MatchesInText(c.Ctx, name, c.NormalizedText)
	if err != nil {
		c.Logger.Error("matching set against text", "set", name, "err", err)
		return nil
	}
	return matches
}

func (c *MessageContext) GetCount(name, val, period string) int {
	out, err := c.engine.Counters.GetCount(c.Ctx, name, val, period)
	if err != nil {
		c.Logger.Error("reading counter", "name", name, "err", err)
		return 0
	}
	return out
}

func (c *MessageContext) GetCountDistinct(name, bucket, period string) int {
	out, err := c.engine.Counters.GetCountDistinct(c.Ctx, name, bucket, period)
	if err != nil {
		c.Logger.Error("reading distinct counter", "name", name, "err", err)
		return 0
	}
	return out
}

// Enqueues the named counter to be incremented at the end of all rule processing.
func (c *MessageContext) Increment(name, val string) {
	c.effects.CounterIncrements = append(c.effects.CounterIncrements, CounterRef{Name: name, Val: val})
}

// Enqueues the named "distinct value" counter to be incremented at the end of all rule processing.
func (c *MessageContext) IncrementDistinct(name, bucket, val string) {
	c.effects.CounterDistinctIncrements = append(c.effects.CounterDistinctIncrements, CounterDistinctRef{Name: name, Bucket: bucket, Val: val})
}

// Adds a weighted partial score with a reason tag. Signal rules never take
// actions themselves; fusion decides.
func (c *MessageContext) AddSignal(score float64, reason string) {
	c.effects.Signals = append(c.effects.Signals, Signal{Score: score, Reason: reason})
}

// Marks a zero-tolerance category match. First match wins.
func (c *MessageContext) TriggerInstantBan(category string) {
	if c.effects.InstantCategory == "" {
		c.effects.InstantCategory = category
	}
}

// Marks the message as containing bad language; follows the separately
// configured bad-language action rather than the spam score bands.
func (c *MessageContext) FlagBadLanguage() {
	c.effects.BadLanguage = true
}

// Enqueues the provided flag (string value) to be recorded on the account at the end of rule processing.
func (c *MessageContext) AddAccountFlag(val string) {
	c.effects.AccountFlags = append(c.effects.AccountFlags, val)
}

// Config exposes the engine configuration to rules (thresholds, grace
// periods). Read-only.
func (c *MessageContext) Config() *Config {
	return &c.engine.Config
}

// InstantCategory returns the zero-tolerance category recorded so far, if
// any.
func (c *MessageContext) InstantCategory() string {
	return c.effects.InstantCategory
}

func NewMessageContext(ctx context.Context, eng *Engine, msg Message, normText string, account historystore.UserState, window historystore.WindowStats) MessageContext {
	return MessageContext{
		Ctx:            ctx,
		Logger:         eng.Logger.With("sender", msg.Sender.ID, "chat", msg.ChatID),
		Message:        msg,
		NormalizedText: normText,
		Account:        account,
		Window:         window,
		engine:         eng,
	}
}
