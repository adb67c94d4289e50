package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-bot/vigil/automod/classifier"
	"github.com/vigil-bot/vigil/automod/corpusstore"
	"github.com/vigil-bot/vigil/automod/flagstore"
	"github.com/vigil-bot/vigil/automod/setstore"
)

func testMessage(uid, text string) Message {
	return Message{
		Text:       text,
		Sender:     Sender{ID: uid, Username: "tester"},
		ChatID:     "chat-1",
		ReceivedAt: time.Now().UTC(),
	}
}

func TestEngineAllowsCleanMessage(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	dec, err := eng.ProcessMessage(ctx, testMessage("user-clean", "good morning everyone, lovely weather today"))
	assert.NoError(err)
	assert.Equal(ActionAllow, dec.Action)
	assert.Equal(0.0, dec.Score)
	assert.False(dec.HardRuleTriggered)
}

func TestEngineInstantBan(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	dec, err := eng.ProcessMessage(ctx, testMessage("user-instant", "this contains the zero tolerance phrase right here"))
	assert.NoError(err)
	assert.Equal(ActionBan, dec.Action)
	assert.Equal(1.0, dec.Score)
	assert.True(dec.HardRuleTriggered)
	assert.Contains(dec.Reasons, CategoryInstantBanPhrase)

	// ban is mirrored to the durable flag store
	flags, err := eng.Flags.Get(ctx, "user-instant")
	assert.NoError(err)
	assert.Contains(flags, flagstore.FlagBanned)

	// subsequent messages short-circuit to deletion, no rules run
	dec, err = eng.ProcessMessage(ctx, testMessage("user-instant", "good morning everyone"))
	assert.NoError(err)
	assert.Equal(ActionDelete, dec.Action)
	assert.Contains(dec.Reasons, "sender-banned")
}

func TestEngineWarningEscalation(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	uid := "user-warn"

	base := time.Now().UTC()
	spam := func(at time.Time) Message {
		m := testMessage(uid, "limited time offer just for you my friend")
		m.ReceivedAt = at
		return m
	}

	// warnings one and two: delete plus warn
	for i := 0; i < 2; i++ {
		dec, err := eng.ProcessMessage(ctx, spam(base))
		require.NoError(err)
		assert.Equal(ActionWarn, dec.Action)
		assert.True(dec.Score >= ScoreBandWarn)
	}

	// third warning crosses the mute threshold
	dec, err := eng.ProcessMessage(ctx, spam(base))
	require.NoError(err)
	assert.Equal(ActionMute, dec.Action)
	assert.Contains(dec.Reasons, "warning-threshold")

	// while muted, anything is deleted without further escalation
	dec, err = eng.ProcessMessage(ctx, spam(base.Add(time.Minute)))
	require.NoError(err)
	assert.Equal(ActionDelete, dec.Action)
	assert.Contains(dec.Reasons, "sender-muted")

	// after the mute expires: warning four, then five triggers the ban
	after := base.Add(25 * time.Hour)
	dec, err = eng.ProcessMessage(ctx, spam(after))
	require.NoError(err)
	assert.Equal(ActionWarn, dec.Action)

	dec, err = eng.ProcessMessage(ctx, spam(after))
	require.NoError(err)
	assert.Equal(ActionBan, dec.Action)
	assert.Contains(dec.Reasons, "warning-limit")

	state, err := eng.History.GetState(ctx, uid)
	require.NoError(err)
	assert.True(state.Banned)
	assert.Equal(5, state.Warnings)
}

func TestEngineForwardViolationTrack(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	uid := "user-fwd"

	base := time.Now().UTC()
	fwd := func(at time.Time) Message {
		m := testMessage(uid, "limited time offer just for you my friend")
		m.Forwarded = true
		m.ForwardOrigin = "somewhere"
		m.ReceivedAt = at
		return m
	}

	// first forwarded violation mutes instead of warning
	dec, err := eng.ProcessMessage(ctx, fwd(base))
	require.NoError(err)
	assert.Equal(ActionMute, dec.Action)
	assert.Contains(dec.Reasons, "forwarded-content")

	// second, after the mute expires, bans
	dec, err = eng.ProcessMessage(ctx, fwd(base.Add(25*time.Hour)))
	require.NoError(err)
	assert.Equal(ActionBan, dec.Action)

	flags, err := eng.Flags.Get(ctx, uid)
	require.NoError(err)
	assert.Contains(flags, flagstore.FlagForwardAbuser)
	assert.Contains(flags, flagstore.FlagBanned)
}

func TestEngineForwardViolationCleanContent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	uid := "user-fwd-clean"

	base := time.Now().UTC()
	fwd := func(at time.Time) Message {
		m := testMessage(uid, "an unremarkable forwarded announcement")
		m.Forwarded = true
		m.ForwardOrigin = "elsewhere"
		m.ReceivedAt = at
		return m
	}

	// content scores clean, but the forward itself is the violation
	dec, err := eng.ProcessMessage(ctx, fwd(base))
	require.NoError(err)
	assert.Equal(ActionMute, dec.Action)
	assert.Contains(dec.Reasons, "forwarded-content")

	state, err := eng.History.GetState(ctx, uid)
	require.NoError(err)
	assert.Equal(1, state.ForwardViolations)

	dec, err = eng.ProcessMessage(ctx, fwd(base.Add(25*time.Hour)))
	require.NoError(err)
	assert.Equal(ActionBan, dec.Action)

	state, err = eng.History.GetState(ctx, uid)
	require.NoError(err)
	assert.True(state.Banned)
}

func TestEngineForwardedInstantBan(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	m := testMessage("user-fwd-instant", "forwarding the zero tolerance phrase to you all")
	m.Forwarded = true
	dec, err := eng.ProcessMessage(ctx, m)
	assert.NoError(err)
	// no violation ladder: straight to the ban
	assert.Equal(ActionBan, dec.Action)
	assert.True(dec.HardRuleTriggered)

	state, err := eng.History.GetState(ctx, "user-fwd-instant")
	assert.NoError(err)
	assert.Equal(0, state.ForwardViolations)
}

func TestEngineInstantBanDespiteCleanHistory(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	uid := "user-history"

	// an established clean scored history
	for i := 0; i < 6; i++ {
		dec, err := eng.ProcessMessage(ctx, testMessage(uid, fmt.Sprintf("perfectly ordinary message number %d", i)))
		require.NoError(err)
		require.Equal(ActionAllow, dec.Action)
	}

	// a zero-tolerance match is terminal no matter how clean the history is
	dec, err := eng.ProcessMessage(ctx, testMessage(uid, "oops the zero tolerance phrase slipped in"))
	require.NoError(err)
	assert.Equal(ActionBan, dec.Action)
	assert.Equal(1.0, dec.Score)
	assert.True(dec.HardRuleTriggered)
	assert.NotContains(dec.Reasons, "mercy-downgrade")

	state, err := eng.History.GetState(ctx, uid)
	require.NoError(err)
	assert.True(state.Banned)
}

func TestEngineMercySparesWarningLimitBan(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	uid := "user-mercy"

	base := time.Now().UTC()
	spam := func(at time.Time) Message {
		m := testMessage(uid, "limited time offer just for you my friend")
		m.ReceivedAt = at
		return m
	}

	// three warnings; the third mutes
	for i := 0; i < 3; i++ {
		_, err := eng.ProcessMessage(ctx, spam(base))
		require.NoError(err)
	}
	// fourth warning after the mute expires mutes again
	dec, err := eng.ProcessMessage(ctx, spam(base.Add(25*time.Hour)))
	require.NoError(err)
	assert.Equal(ActionMute, dec.Action)

	// an established clean stretch once that mute expires
	calm := base.Add(50 * time.Hour)
	for i := 0; i < 6; i++ {
		m := testMessage(uid, fmt.Sprintf("perfectly ordinary message number %d", i))
		m.ReceivedAt = calm.Add(time.Duration(i) * time.Second)
		dec, err := eng.ProcessMessage(ctx, m)
		require.NoError(err)
		require.Equal(ActionAllow, dec.Action)
	}

	// the fifth warning crosses the ban limit, but the clean window spares it
	dec, err = eng.ProcessMessage(ctx, spam(calm.Add(time.Minute)))
	require.NoError(err)
	assert.Equal(ActionWarn, dec.Action)
	assert.Contains(dec.Reasons, "mercy-downgrade")

	state, err := eng.History.GetState(ctx, uid)
	require.NoError(err)
	assert.False(state.Banned)
	assert.Equal(5, state.Warnings)
}

func TestEngineBadLanguageOverride(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	eng.Sets.(*setstore.MemSetStore).AddSet("test-bad-words", []string{"crud"})
	eng.Rules.SignalRules = append(eng.Rules.SignalRules, func(c *MessageContext) error {
		if _, ok := c.MatchInText("test-bad-words"); ok {
			c.FlagBadLanguage()
		}
		return nil
	})

	dec, err := eng.ProcessMessage(ctx, testMessage("user-lang", "oh crud I dropped it"))
	assert.NoError(err)
	assert.Equal(ActionDelete, dec.Action)
	assert.Contains(dec.Reasons, "bad-language")
}

func TestEngineScoreBands(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Rules = RuleSet{SignalRules: []SignalRuleFunc{
		func(c *MessageContext) error {
			c.AddSignal(0.35, "weak-signal")
			return nil
		},
	}}
	dec, err := eng.ProcessMessage(ctx, testMessage("user-band-flag", "some borderline message content"))
	assert.NoError(err)
	assert.Equal(ActionFlag, dec.Action)

	// flagged-for-review accounts pick up the review flag
	flags, err := eng.Flags.Get(ctx, "user-band-flag")
	assert.NoError(err)
	assert.Contains(flags, flagstore.FlagReview)

	eng2 := EngineTestFixture()
	eng2.Rules = RuleSet{SignalRules: []SignalRuleFunc{
		func(c *MessageContext) error {
			c.AddSignal(0.55, "medium-signal")
			return nil
		},
	}}
	dec, err = eng2.ProcessMessage(ctx, testMessage("user-band-del", "some suspicious message content"))
	assert.NoError(err)
	assert.Equal(ActionDelete, dec.Action)
}

func TestEngineTrainerFeedBanOnly(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	corpus := corpusstore.NewMemCorpusStore()
	eng.Trainer = classifier.NewTrainer(eng.Logger, corpus, eng.Classifier, nil)
	eng.Rules.SignalRules = append(eng.Rules.SignalRules, func(c *MessageContext) error {
		if strings.Contains(c.NormalizedText, "borderline") {
			c.AddSignal(0.55, "medium-signal")
		}
		return nil
	})

	// a deleted-but-unconfirmed message is not auto-learned
	dec, err := eng.ProcessMessage(ctx, testMessage("user-feed-del", "a borderline promotional message here"))
	require.NoError(err)
	require.Equal(ActionDelete, dec.Action)

	// a confirmed ban is
	dec, err = eng.ProcessMessage(ctx, testMessage("user-feed-ban", "the zero tolerance phrase ends the discussion"))
	require.NoError(err)
	require.Equal(ActionBan, dec.Action)

	deadline := time.Now().Add(5 * time.Second)
	for {
		n, err := corpus.SampleCount(ctx)
		require.NoError(err)
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	samples, err := corpus.LoadAll(ctx)
	require.NoError(err)
	require.Equal(1, len(samples))
	assert.Contains(samples[0].Text, "zero tolerance")
	assert.Equal(corpusstore.LabelSpam, samples[0].Label)
}

func TestEngineRulePanicRecovery(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	eng.Rules.SignalRules = append(eng.Rules.SignalRules, func(c *MessageContext) error {
		panic("rule bug")
	})

	dec, err := eng.ProcessMessage(ctx, testMessage("user-panic", "an ordinary message that trips the buggy rule"))
	assert.Error(err)
	assert.Equal(ActionFlag, dec.Action)
}

func TestFuseScore(t *testing.T) {
	assert := assert.New(t)

	// classifier alone never reaches a ban-grade score
	assert.Equal(0.4, fuseScore(0, 0.99, true))
	// untrained classifier contributes nothing
	assert.Equal(0.5, fuseScore(0.5, 0.99, false))
	// medium confidence adds the smaller step
	assert.InDelta(0.5, fuseScore(0.3, 0.65, true), 0.0001)
	// capped at 1
	assert.Equal(1.0, fuseScore(0.9, 0.9, true))
}
