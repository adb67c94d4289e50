package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vigil-bot/vigil/automod/classifier"
	"github.com/vigil-bot/vigil/automod/countstore"
	"github.com/vigil-bot/vigil/automod/flagstore"
	"github.com/vigil-bot/vigil/automod/helpers"
	"github.com/vigil-bot/vigil/automod/historystore"
	"github.com/vigil-bot/vigil/automod/keyword"
	"github.com/vigil-bot/vigil/automod/setstore"
)

// runtime for executing rules, managing per-user state, and deciding
// moderation actions.
//
// TODO: careful when initializing: several fields should not be null or zero, even though they are pointer type.
type Engine struct {
	Logger   *slog.Logger
	Rules    RuleSet
	Counters countstore.CountStore
	Sets     setstore.SetStore
	Flags    flagstore.FlagStore
	History  historystore.HistoryStore
	// Ensemble classifier; optional, rules-only operation when nil or
	// untrained.
	Classifier *classifier.Classifier
	// Self-learning loop; optional. Confirmed spam is fed back here.
	Trainer *classifier.Trainer
	Config  Config
}

// ProcessMessage runs the full decision pipeline for one inbound message and
// returns the verdict. The engine never applies actions itself; the platform
// adapter does.
func (eng *Engine) ProcessMessage(ctx context.Context, msg Message) (dec Decision, outErr error) {
	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("automod message execution exception", "err", r, "sender", msg.Sender.ID, "chat", msg.ChatID)
			messageErrorCount.Inc()
			dec = Decision{Action: ActionFlag, Reasons: []string{"internal-error"}}
			outErr = fmt.Errorf("rule execution panic: %v", r)
		}
	}()
	start := time.Now()
	defer func() {
		messageProcessDuration.Observe(time.Since(start).Seconds())
	}()
	messageProcessCount.Inc()

	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}
	uid := msg.Sender.ID

	// banned senders short-circuit everything: delete, no further state
	// changes. Ban status is checked against the durable flag store first,
	// so history eviction never resurrects a banned user.
	banned, err := eng.isBanned(ctx, uid)
	if err != nil {
		messageErrorCount.Inc()
		return Decision{}, err
	}
	if banned {
		dec := Decision{Action: ActionDelete, Score: 1.0, Reasons: []string{"sender-banned"}}
		decisionActionCount.WithLabelValues(string(dec.Action)).Inc()
		return dec, nil
	}

	normText := keyword.Normalize(msg.Text)

	// insert into the user's recent-message window before rules run, so
	// duplicate/rate stats include this message
	window, msgToken, err := eng.History.ObserveMessage(ctx, uid, helpers.HashOfString(normText), msg.ReceivedAt)
	if err != nil {
		messageErrorCount.Inc()
		return Decision{}, err
	}
	account, err := eng.History.GetState(ctx, uid)
	if err != nil {
		messageErrorCount.Inc()
		return Decision{}, err
	}

	// an active mute also short-circuits: the message should not have been
	// delivered, delete it
	if account.MutedUntil != nil && account.MutedUntil.After(msg.ReceivedAt) {
		dec := Decision{Action: ActionDelete, Score: 1.0, Reasons: []string{"sender-muted"}}
		decisionActionCount.WithLabelValues(string(dec.Action)).Inc()
		return dec, nil
	}

	c := NewMessageContext(ctx, eng, msg, normText, account, window)

	// zero-tolerance rules first; any match bypasses scoring entirely
	if err := eng.Rules.CallInstantRules(&c); err != nil {
		messageErrorCount.Inc()
		return Decision{}, err
	}

	if cat := c.effects.InstantCategory; cat != "" {
		instantBanCount.WithLabelValues(cat).Inc()
		dec = Decision{
			Action:            ActionBan,
			Score:             1.0,
			Reasons:           c.effects.Reasons(),
			HardRuleTriggered: true,
		}
	} else {
		if err := eng.Rules.CallSignalRules(&c); err != nil {
			messageErrorCount.Inc()
			return Decision{}, err
		}
		prob, ok := 0.0, false
		if eng.Classifier != nil {
			prob, ok = eng.Classifier.Classify(normText)
		}
		score := fuseScore(c.effects.RuleScore(), prob, ok)
		fusedScoreHist.Observe(score)
		dec = Decision{
			Action:  actionForScore(score),
			Score:   score,
			Reasons: c.effects.Reasons(),
		}
		// bad language follows its own configured action, never a weaker one
		if c.effects.BadLanguage && eng.Config.BadLanguageAction.AtLeast(dec.Action) {
			dec.Action = eng.Config.BadLanguageAction
			dec.Reasons = append(dec.Reasons, "bad-language")
		}
	}

	dec, err = eng.applyEscalation(&c, dec)
	if err != nil {
		messageErrorCount.Inc()
		return Decision{}, err
	}

	if err := eng.History.RecordScore(ctx, uid, msgToken, dec.Score); err != nil {
		c.Logger.Error("recording message score", "err", err)
	}
	eng.persistCounters(&c)
	eng.persistAccountFlags(&c)
	eng.feedTrainer(&c, dec)

	decisionActionCount.WithLabelValues(string(dec.Action)).Inc()
	eng.canonicalLogLine(&c, dec)
	return dec, nil
}

func (eng *Engine) isBanned(ctx context.Context, uid string) (bool, error) {
	flags, err := eng.Flags.Get(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("reading account flags: %w", err)
	}
	for _, f := range flags {
		if f == flagstore.FlagBanned {
			return true, nil
		}
	}
	state, err := eng.History.GetState(ctx, uid)
	if err != nil {
		return false, err
	}
	return state.Banned, nil
}

// confirmed spam (a banned message) feeds the self-learning corpus.
// Lesser actions are not auto-learned; admins feed those through the learn
// endpoints after review. Fire-and-forget: corpus writes and retraining never
// block the decision path.
func (eng *Engine) feedTrainer(c *MessageContext, dec Decision) {
	if eng.Trainer == nil || dec.Action != ActionBan {
		return
	}
	text := c.Message.Text
	go func() {
		if err := eng.Trainer.LearnSpam(context.Background(), text); err != nil {
			eng.Logger.Error("feeding training sample", "err", err)
		}
	}()
}

func (eng *Engine) persistCounters(c *MessageContext) {
	for _, ref := range c.effects.CounterIncrements {
		if err := eng.Counters.Increment(c.Ctx, ref.Name, ref.Val); err != nil {
			c.Logger.Error("incrementing counter", "name", ref.Name, "err", err)
		}
	}
	for _, ref := range c.effects.CounterDistinctIncrements {
		if err := eng.Counters.IncrementDistinct(c.Ctx, ref.Name, ref.Bucket, ref.Val); err != nil {
			c.Logger.Error("incrementing distinct counter", "name", ref.Name, "err", err)
		}
	}
}

func (eng *Engine) persistAccountFlags(c *MessageContext) {
	if len(c.effects.AccountFlags) == 0 {
		return
	}
	if err := eng.Flags.Add(c.Ctx, c.Message.Sender.ID, helpers.DedupeStrings(c.effects.AccountFlags)); err != nil {
		c.Logger.Error("persisting account flags", "err", err)
	}
}

func (eng *Engine) canonicalLogLine(c *MessageContext, dec Decision) {
	c.Logger.Info("canonical-event-results",
		"action", dec.Action,
		"score", dec.Score,
		"reasons", dec.Reasons,
		"hardRule", dec.HardRuleTriggered,
		"accountFlags", c.effects.AccountFlags,
		"warnings", c.Account.Warnings,
	)
}
