package rules

import (
	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/helpers"
)

var _ automod.SignalRuleFunc = RateLimitSignalRule

// Message-rate ceiling over the trailing minute; nearing the ceiling already
// contributes a smaller signal.
func RateLimitSignalRule(c *automod.MessageContext) error {
	limit := c.Config().RateLimitPerMinute
	count := c.Window.CountLastMinute
	switch {
	case count > limit:
		c.AddSignal(0.5, "message-flood")
	case float64(count) > float64(limit)*0.7:
		c.AddSignal(0.2, "message-flood")
	}
	return nil
}

var _ automod.SignalRuleFunc = DuplicateSignalRule

// Repeated identical payloads, both from one sender (recent-message window)
// and across senders (distinct counter keyed by payload hash).
func DuplicateSignalRule(c *automod.MessageContext) error {
	threshold := c.Config().DuplicateThreshold
	if c.Window.DuplicateCount >= threshold {
		c.AddSignal(0.6, "duplicate-message")
		return nil
	}

	hash := helpers.HashOfString(c.NormalizedText)
	c.IncrementDistinct("msg-payload", hash, c.Message.Sender.ID)
	senders := c.GetCountDistinct("msg-payload", hash, automod.PeriodHour)
	if senders+1 >= threshold {
		c.Logger.Info("cross-sender duplicate flood", "hash", hash, "senders", senders)
		c.AddSignal(0.6, "duplicate-message")
	}
	return nil
}
