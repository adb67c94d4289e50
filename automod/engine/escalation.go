package engine

import (
	"github.com/vigil-bot/vigil/automod/flagstore"
)

// mercyApplies reports whether the sender's recent window shows an
// established clean history. Spares only the warning-limit ban; zero-tolerance
// matches and the forward-violation track always ban.
func (eng *Engine) mercyApplies(c *MessageContext) bool {
	return c.Window.PriorCount >= eng.Config.MercyMinHistory &&
		c.Window.PriorSafeRatio >= eng.Config.MercyMinSafeRatio
}

// applyEscalation turns the per-message verdict into per-user state
// transitions: the warning counter track for ordinary violations, and the
// separate (harsher) forward-violation track for forwarded content.
//
// Threshold decisions use the post-increment counter value returned by the
// history store, so concurrent messages from one sender each see a distinct
// count and exactly one crosses each threshold.
func (eng *Engine) applyEscalation(c *MessageContext, dec Decision) (Decision, error) {
	cfg := &eng.Config

	// forwarding disallowed: every forwarded message runs the violation
	// ladder, regardless of what its content scored
	if c.Message.Forwarded && cfg.ForwardViolations {
		// zero-tolerance content arriving via forward skips the ladder
		// entirely
		if dec.HardRuleTriggered {
			return dec, eng.executeBan(c)
		}
		n, err := eng.History.AddForwardViolation(c.Ctx, c.Message.Sender.ID)
		if err != nil {
			return dec, err
		}
		c.AddAccountFlag(flagstore.FlagForwardAbuser)
		dec.Reasons = append(dec.Reasons, "forwarded-content")
		if n >= 2 {
			dec.Action = ActionBan
			return dec, eng.executeBan(c)
		}
		dec.Action = ActionMute
		return dec, eng.History.SetMuted(c.Ctx, c.Message.Sender.ID, c.Message.ReceivedAt.Add(cfg.MuteDuration))
	}

	switch dec.Action {
	case ActionBan:
		return dec, eng.executeBan(c)
	case ActionMute:
		return dec, eng.History.SetMuted(c.Ctx, c.Message.Sender.ID, c.Message.ReceivedAt.Add(cfg.MuteDuration))
	case ActionWarn:
		n, err := eng.History.AddWarning(c.Ctx, c.Message.Sender.ID)
		if err != nil {
			return dec, err
		}
		switch {
		case n >= cfg.BanAfterWarnings:
			if eng.mercyApplies(c) {
				mercyDowngradeCount.Inc()
				c.Logger.Info("mercy review spared warning-limit ban",
					"warnings", n,
					"priorCount", c.Window.PriorCount,
					"safeRatio", c.Window.PriorSafeRatio,
				)
				dec.Reasons = append(dec.Reasons, "mercy-downgrade")
				return dec, nil
			}
			dec.Action = ActionBan
			dec.Reasons = append(dec.Reasons, "warning-limit")
			return dec, eng.executeBan(c)
		case n >= cfg.MuteAfterWarnings:
			dec.Action = ActionMute
			dec.Reasons = append(dec.Reasons, "warning-threshold")
			return dec, eng.History.SetMuted(c.Ctx, c.Message.Sender.ID, c.Message.ReceivedAt.Add(cfg.MuteDuration))
		}
	case ActionFlag:
		c.AddAccountFlag(flagstore.FlagReview)
	}
	return dec, nil
}

// executeBan records the terminal ban in the history store and mirrors it to
// the durable flag store, so eviction of in-memory user state never forgets
// it.
func (eng *Engine) executeBan(c *MessageContext) error {
	if err := eng.History.SetBanned(c.Ctx, c.Message.Sender.ID); err != nil {
		return err
	}
	c.AddAccountFlag(flagstore.FlagBanned)
	return nil
}
