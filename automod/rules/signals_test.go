package rules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/engine"
	"github.com/vigil-bot/vigil/automod/historystore"
)

func signalScore(t *testing.T, c *automod.MessageContext, reason string) float64 {
	t.Helper()
	for _, s := range engine.ExtractEffects(c).Signals {
		if s.Reason == reason {
			return s.Score
		}
	}
	return 0
}

func TestSpamKeywordSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	fixtures := []struct {
		text  string
		score float64
	}{
		{"totally normal chat message", 0},
		{"this is a limited time offer", 0.3},
		{"limited time offer, guaranteed profit", 0.5},
		{"limited time offer, guaranteed profit, risk free", 0.8},
	}
	for _, f := range fixtures {
		c := ruleContext(&eng, message("u1", f.text), accountState(), windowStats())
		require.NoError(t, SpamKeywordSignalRule(&c))
		assert.Equal(f.score, signalScore(t, &c, "spam-keywords"), "text: %s", f.text)
	}
}

func TestSuspiciousURLSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	// allowlisted domains contribute nothing
	c := ruleContext(&eng, message("u1", "see https://example.com/docs/start"), accountState(), windowStats())
	require.NoError(t, SuspiciousURLSignalRule(&c))
	assert.Equal(0.0, signalScore(t, &c, "suspicious-url"))

	// unknown domains are suspicious
	c = ruleContext(&eng, message("u1", "see https://random-site.net/thing"), accountState(), windowStats())
	require.NoError(t, SuspiciousURLSignalRule(&c))
	assert.Equal(0.8, signalScore(t, &c, "suspicious-url"))

	// denylisted domains score higher
	c = ruleContext(&eng, message("u1", "see https://sketchy.site/win"), accountState(), windowStats())
	require.NoError(t, SuspiciousURLSignalRule(&c))
	assert.Equal(0.9, signalScore(t, &c, "suspicious-url"))
}

func TestNewAccountLinkSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()
	now := time.Now().UTC()

	msg := message("u1", "check https://random-site.net/ref")
	msg.ReceivedAt = now

	// fresh account posting a link
	c := ruleContext(&eng, msg, historystore.UserState{FirstSeen: now.Add(-time.Hour)}, windowStats())
	require.NoError(t, NewAccountLinkSignalRule(&c))
	assert.Equal(0.6, signalScore(t, &c, "new-account-link"))

	// same link from an account past the grace period
	c = ruleContext(&eng, msg, historystore.UserState{FirstSeen: now.Add(-48 * time.Hour)}, windowStats())
	require.NoError(t, NewAccountLinkSignalRule(&c))
	assert.Equal(0.0, signalScore(t, &c, "new-account-link"))

	// fresh account, no link
	c = ruleContext(&eng, message("u1", "hello everyone"), historystore.UserState{FirstSeen: now.Add(-time.Hour)}, windowStats())
	require.NoError(t, NewAccountLinkSignalRule(&c))
	assert.Equal(0.0, signalScore(t, &c, "new-account-link"))
}

func TestMoneyEmojiSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()
	now := time.Now().UTC()

	msg := message("u1", "easy money 💰💵🤑 ask me how")
	msg.ReceivedAt = now

	// new account: signal fires
	c := ruleContext(&eng, msg, historystore.UserState{FirstSeen: now.Add(-time.Hour)}, windowStats())
	require.NoError(t, MoneyEmojiSignalRule(&c))
	assert.Equal(0.8, signalScore(t, &c, "money-emoji"))

	// established account with history: exempt
	c = ruleContext(&eng, msg, historystore.UserState{FirstSeen: now.Add(-72 * time.Hour)}, historystore.WindowStats{PriorCount: 8})
	require.NoError(t, MoneyEmojiSignalRule(&c))
	assert.Equal(0.0, signalScore(t, &c, "money-emoji"))
}

func TestRateLimitSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	c := ruleContext(&eng, message("u1", "hello"), accountState(), historystore.WindowStats{CountLastMinute: 11})
	require.NoError(t, RateLimitSignalRule(&c))
	assert.Equal(0.5, signalScore(t, &c, "message-flood"))

	c = ruleContext(&eng, message("u1", "hello"), accountState(), historystore.WindowStats{CountLastMinute: 8})
	require.NoError(t, RateLimitSignalRule(&c))
	assert.Equal(0.2, signalScore(t, &c, "message-flood"))

	c = ruleContext(&eng, message("u1", "hello"), accountState(), historystore.WindowStats{CountLastMinute: 2})
	require.NoError(t, RateLimitSignalRule(&c))
	assert.Equal(0.0, signalScore(t, &c, "message-flood"))
}

func TestDuplicateSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	// same sender repeating themselves
	c := ruleContext(&eng, message("u1", "buy my stuff"), accountState(), historystore.WindowStats{DuplicateCount: 3})
	require.NoError(t, DuplicateSignalRule(&c))
	assert.Equal(0.6, signalScore(t, &c, "duplicate-message"))

	// the same payload blasted by different senders
	ctx := context.Background()
	for i, uid := range []string{"ua", "ub", "uc"} {
		m := message(uid, "JOIN our channel for free cash")
		c = ruleContext(&eng, m, accountState(), windowStats())
		require.NoError(t, DuplicateSignalRule(&c))
		// counter increments are buffered in effects; flush like the engine does
		for _, ref := range engine.ExtractEffects(&c).CounterDistinctIncrements {
			require.NoError(t, eng.Counters.IncrementDistinct(ctx, ref.Name, ref.Bucket, ref.Val))
		}
		if i == 2 {
			assert.Equal(0.6, signalScore(t, &c, "duplicate-message"))
		}
	}
}

func TestFormattingSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	c := ruleContext(&eng, message("u1", "HURRY HURRY BIGWIN TODAY JACKPOT TIMES!!!!!"), accountState(), windowStats())
	require.NoError(t, FormattingSignalRule(&c))
	assert.Equal(0.3, signalScore(t, &c, "excessive-caps"))
	assert.Equal(0.2, signalScore(t, &c, "repeated-chars"))

	c = ruleContext(&eng, message("u1", "a perfectly calm sentence"), accountState(), windowStats())
	require.NoError(t, FormattingSignalRule(&c))
	assert.Empty(engine.ExtractEffects(&c).Signals)
}

func TestCryptoAddressSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	c := ruleContext(&eng, message("u1", "send to 0x52908400098527886E0F7030069857D2E4169EE7 now"), accountState(), windowStats())
	require.NoError(t, CryptoAddressSignalRule(&c))
	assert.Equal(0.4, signalScore(t, &c, "crypto-address"))

	c = ruleContext(&eng, message("u1", "ethereum is interesting technology"), accountState(), windowStats())
	require.NoError(t, CryptoAddressSignalRule(&c))
	assert.Equal(0.0, signalScore(t, &c, "crypto-address"))

	// a long alphanumeric token (digest, serial) is not an address
	c = ruleContext(&eng, message("u1", "build digest 9f2e4d6c8b1a3f5e7d9c2b4a6e8f1d3c5b7a9e2f4d6c8b1a3e5f7d9c2b4a6e8f uploaded"), accountState(), windowStats())
	require.NoError(t, CryptoAddressSignalRule(&c))
	assert.Equal(0.0, signalScore(t, &c, "crypto-address"))
}

func TestMentionSpamSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	fixtures := []struct {
		text  string
		score float64
	}{
		{"@a @b @c @d @e check this out", 0.7},
		{"@one @two @three join now", 0.6},
		{"@one @two @three what do you think", 0.3},
		{"@friend click here now", 0.0},
		{"@same @same @same", 0.5},
		{"hello @friend", 0.0},
	}
	for _, f := range fixtures {
		c := ruleContext(&eng, message("u1", f.text), accountState(), windowStats())
		require.NoError(t, MentionSpamSignalRule(&c))
		assert.Equal(f.score, signalScore(t, &c, "mention-spam"), "text: %s", f.text)
	}
}

func TestBadLanguageSignalRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	c := ruleContext(&eng, message("u1", "oh dang that heck of a thing"), accountState(), windowStats())
	require.NoError(t, BadLanguageSignalRule(&c))
	assert.Equal(0.4, signalScore(t, &c, "bad-language"))
	assert.True(engine.ExtractEffects(&c).BadLanguage)

	// substrings inside other words do not match
	c = ruleContext(&eng, message("u1", "the dangling pointer was the problem"), accountState(), windowStats())
	require.NoError(t, BadLanguageSignalRule(&c))
	assert.Equal(0.0, signalScore(t, &c, "bad-language"))
	assert.False(engine.ExtractEffects(&c).BadLanguage)
}

func TestDefaultRulesEndToEnd(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	eng := engineFixture()

	// plain chat sails through
	dec, err := eng.ProcessMessage(ctx, message("u-e2e-1", "morning all, markets look quiet today"))
	require.NoError(err)
	assert.Equal(automod.ActionAllow, dec.Action)

	// casino blast is an instant ban
	dec, err = eng.ProcessMessage(ctx, message("u-e2e-2", "🎰 FREE SPINS and casino bonus for everyone 🎰"))
	require.NoError(err)
	assert.Equal(automod.ActionBan, dec.Action)
	assert.True(dec.HardRuleTriggered)

	// stacked weak signals fuse into a deletion
	dec, err = eng.ProcessMessage(ctx, message("u-e2e-3", "guaranteed profit, risk free! visit https://random-site.net/ref"))
	require.NoError(err)
	assert.True(dec.Action.AtLeast(automod.ActionDelete))
	assert.True(dec.Score >= 0.5)
}
