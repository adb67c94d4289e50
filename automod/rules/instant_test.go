package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/engine"
)

func TestAdultContentInstantRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	fixtures := []struct {
		text string
		ban  bool
	}{
		{"check out my onlyfans page", true},
		{"p o r n for free", true},
		// Cyrillic homoglyph obfuscation
		{"hot РОRN here", true},
		{"our corn harvest was great this year", false},
	}
	for _, f := range fixtures {
		c := ruleContext(&eng, message("u1", f.text), accountState(), windowStats())
		require.NoError(t, AdultContentInstantRule(&c))
		got := engine.ExtractEffects(&c).InstantCategory
		if f.ban {
			assert.Equal(automod.CategoryAdultContent, got, "text: %s", f.text)
		} else {
			assert.Empty(got, "text: %s", f.text)
		}
	}
}

func TestBotLinkInstantRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	fixtures := []struct {
		text string
		ban  bool
	}{
		{"claim rewards at t.me/freemoneybot today", true},
		{"message @cashdropbot for your prize", true},
		// allowlisted bot
		{"ask @vigil_bot about the rules", false},
		// command format
		{"/warn@somerandombot", false},
		{"no links here at all", false},
	}
	for _, f := range fixtures {
		c := ruleContext(&eng, message("u1", f.text), accountState(), windowStats())
		require.NoError(t, BotLinkInstantRule(&c))
		got := engine.ExtractEffects(&c).InstantCategory
		if f.ban {
			assert.Equal(automod.CategoryBotLink, got, "text: %s", f.text)
		} else {
			assert.Empty(got, "text: %s", f.text)
		}
	}
}

func TestCasinoInstantRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	c := ruleContext(&eng, message("u1", "grab your CASINO BONUS while it lasts"), accountState(), windowStats())
	require.NoError(t, CasinoInstantRule(&c))
	assert.Equal(automod.CategoryCasino, engine.ExtractEffects(&c).InstantCategory)

	// "promo code" alone is not bannable
	c = ruleContext(&eng, message("u1", "where do I enter a promo code?"), accountState(), windowStats())
	require.NoError(t, CasinoInstantRule(&c))
	assert.Empty(engine.ExtractEffects(&c).InstantCategory)

	// promo code + spam signals + emoji wall is
	c = ruleContext(&eng, message("u1", "promo code inside! win big bonus 🎰🎰💰"), accountState(), windowStats())
	require.NoError(t, CasinoInstantRule(&c))
	assert.Equal(automod.CategoryCasino, engine.ExtractEffects(&c).InstantCategory)
}

func TestRecruitmentScamInstantRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	scam := "Looking for 2-3 people for a new online project. Earnings from $120 per day, fully remote, simple tasks. Write to @hiring_manager if interested"
	c := ruleContext(&eng, message("u1", scam), accountState(), windowStats())
	require.NoError(t, RecruitmentScamInstantRule(&c))
	assert.Equal(automod.CategoryRecruitmentScam, engine.ExtractEffects(&c).InstantCategory)

	// individual cues below the threshold stay quiet
	legit := "I'm looking for the API docs, can someone help?"
	c = ruleContext(&eng, message("u1", legit), accountState(), windowStats())
	require.NoError(t, RecruitmentScamInstantRule(&c))
	assert.Empty(engine.ExtractEffects(&c).InstantCategory)
}

func TestScamPatternInstantRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	c := ruleContext(&eng, message("u1", "Thanks to Mrs Helen, my trading account is thriving"), accountState(), windowStats())
	require.NoError(t, ScamPatternInstantRule(&c))
	assert.Equal(automod.CategoryScamPattern, engine.ExtractEffects(&c).InstantCategory)

	c = ruleContext(&eng, message("u1", "I get 15% weekly returns on this strategy"), accountState(), windowStats())
	require.NoError(t, ScamPatternInstantRule(&c))
	assert.Equal(automod.CategoryScamPattern, engine.ExtractEffects(&c).InstantCategory)

	c = ruleContext(&eng, message("u1", "my account is doing fine, thanks for asking"), accountState(), windowStats())
	require.NoError(t, ScamPatternInstantRule(&c))
	assert.Empty(engine.ExtractEffects(&c).InstantCategory)
}

func TestPremiumEmojiInstantRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	msg := message("u1", "big announcement")
	for i := 0; i < 5; i++ {
		msg.Entities = append(msg.Entities, automod.Entity{Kind: automod.EntityCustomEmoji, Start: i, End: i + 1})
	}
	c := ruleContext(&eng, msg, accountState(), windowStats())
	require.NoError(t, PremiumEmojiInstantRule(&c))
	assert.Equal(automod.CategoryPremiumEmoji, engine.ExtractEffects(&c).InstantCategory)
}

func TestHyperlinkEmojiInstantRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	msg := message("u1", "🔥🔥🔥 amazing deal")
	msg.Entities = []automod.Entity{{Kind: automod.EntityTextLink, Start: 0, End: 4, URL: "https://sketchy.site/x"}}
	c := ruleContext(&eng, msg, accountState(), windowStats())
	require.NoError(t, HyperlinkEmojiInstantRule(&c))
	assert.Equal(automod.CategoryHyperlinkEmoji, engine.ExtractEffects(&c).InstantCategory)

	// links without the emoji dressing are left to the signal rules
	msg = message("u1", "see the docs here")
	msg.Entities = []automod.Entity{{Kind: automod.EntityTextLink, Start: 0, End: 3, URL: "https://example.com/docs"}}
	c = ruleContext(&eng, msg, accountState(), windowStats())
	require.NoError(t, HyperlinkEmojiInstantRule(&c))
	assert.Empty(engine.ExtractEffects(&c).InstantCategory)
}

func TestWhitelistedPhraseGuard(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()

	// end-to-end: the whitelisted phrase suppresses what would otherwise be
	// a contextual casino ban
	dec, err := eng.ProcessMessage(context.Background(), message("u-wl", "how to get promo code? want to win the bonus 🎰🎰🎰"))
	require.NoError(t, err)
	assert.NotEqual(automod.ActionBan, dec.Action)
	assert.False(dec.HardRuleTriggered)
}

func TestBlockedScriptInstantRule(t *testing.T) {
	assert := assert.New(t)
	eng := engineFixture()
	eng.Config.BlockedScripts = []string{"han", "hangul"}

	// blocked script plus a link bans
	c := ruleContext(&eng, message("u1", "加入我们 https://sketchy.site/go"), accountState(), windowStats())
	require.NoError(t, BlockedScriptInstantRule(&c))
	assert.Equal(automod.CategoryBlockedScript, engine.ExtractEffects(&c).InstantCategory)

	// without a link it is a signal, not a ban
	c = ruleContext(&eng, message("u1", "안녕하세요 여러분"), accountState(), windowStats())
	require.NoError(t, BlockedScriptInstantRule(&c))
	assert.Empty(engine.ExtractEffects(&c).InstantCategory)
	require.NoError(t, BlockedScriptSignalRule(&c))
	eff := engine.ExtractEffects(&c)
	require.Len(t, eff.Signals, 1)
	assert.Equal(1.0, eff.Signals[0].Score)
}
