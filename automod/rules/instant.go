package rules

import (
	"regexp"
	"strings"

	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/helpers"
	"github.com/vigil-bot/vigil/automod/setstore"
)

// unlessWhitelisted guards a zero-tolerance rule: known-legitimate phrases
// (eg, "how to get promo codes in the app") bypass the instant checks
// entirely. Weighted signals and the classifier still run.
func unlessWhitelisted(f automod.InstantRuleFunc) automod.InstantRuleFunc {
	return func(c *automod.MessageContext) error {
		if _, ok := c.MatchInText(setstore.SetWhitelistedPhrases); ok {
			return nil
		}
		return f(c)
	}
}

var _ automod.InstantRuleFunc = PremiumEmojiInstantRule

// Spammers use premium accounts to send custom emojis that bypass text
// detection.
func PremiumEmojiInstantRule(c *automod.MessageContext) error {
	count := c.Message.CountEntityKind(automod.EntityCustomEmoji)
	if count >= c.Config().PremiumEmojiThreshold {
		c.Logger.Info("premium emoji spam", "count", count)
		c.TriggerInstantBan(automod.CategoryPremiumEmoji)
	}
	return nil
}

var _ automod.InstantRuleFunc = HyperlinkEmojiInstantRule

// Catches hidden links disguised with pretty emoji-laden text: a hyperlink
// entity plus more than two emojis.
func HyperlinkEmojiInstantRule(c *automod.MessageContext) error {
	if !c.Message.HasEntityKind(automod.EntityTextLink) && !c.Message.HasEntityKind(automod.EntityURL) {
		return nil
	}
	if helpers.CountEmojis(c.Message.Text) > 2 {
		c.TriggerInstantBan(automod.CategoryHyperlinkEmoji)
	}
	return nil
}

var adultRegex = regexp.MustCompile(`(?i)x\s*x\s*x|p[\s\-.]*o[\s\-.]*r[\s\-.]*n|xxx|porn|nudes|onlyfans`)

var _ automod.InstantRuleFunc = AdultContentInstantRule

// Matches against both the raw and the homoglyph-folded text, so Cyrillic
// obfuscation does not evade it.
func AdultContentInstantRule(c *automod.MessageContext) error {
	if adultRegex.MatchString(c.Message.Text) || adultRegex.MatchString(c.NormalizedText) {
		c.TriggerInstantBan(automod.CategoryAdultContent)
	}
	return nil
}

var botLinkRegex = regexp.MustCompile(`(?i)t\.me/[a-zA-Z0-9_]+bot|@[a-zA-Z0-9_]+bot`)

var _ automod.InstantRuleFunc = BotLinkInstantRule

// Links or mentions of other bots are scam funnels, with two exemptions:
// allowlisted bots, and command messages (`/warn@somebot`).
func BotLinkInstantRule(c *automod.MessageContext) error {
	m := botLinkRegex.FindString(c.Message.Text)
	if m == "" {
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(c.Message.Text), "/") {
		return nil
	}
	handle := strings.ToLower(strings.TrimPrefix(m, "@"))
	handle = strings.TrimPrefix(handle, "t.me/")
	if c.InSet(setstore.SetSafeBots, handle) {
		return nil
	}
	c.Logger.Info("bot link detected", "handle", handle)
	c.TriggerInstantBan(automod.CategoryBotLink)
	return nil
}

var _ automod.InstantRuleFunc = BotAccountInstantRule

// Messages sent by non-allowlisted bot accounts themselves.
func BotAccountInstantRule(c *automod.MessageContext) error {
	if !c.Message.Sender.IsBot {
		return nil
	}
	if c.InSet(setstore.SetSafeBots, strings.ToLower(c.Message.Sender.Username)) {
		return nil
	}
	c.TriggerInstantBan(automod.CategoryBotAccount)
	return nil
}

var _ automod.InstantRuleFunc = CasinoInstantRule

// Definite casino/betting phrases ban on their own. "promo code" alone is
// contextual: it only bans when combined with further spam signals, which
// keeps legitimate promo-code questions alive.
func CasinoInstantRule(c *automod.MessageContext) error {
	if phrase, ok := c.MatchInText(setstore.SetCasinoPhrases); ok {
		c.Logger.Info("casino spam", "phrase", phrase)
		c.TriggerInstantBan(automod.CategoryCasino)
		return nil
	}

	if !strings.Contains(c.NormalizedText, "promo code") {
		return nil
	}
	hasBotMention := strings.Contains(c.Message.Text, "@") &&
		(strings.Contains(c.NormalizedText, "bot") || strings.Contains(c.NormalizedText, "win"))
	_, hasSpamSignal := c.MatchInText(setstore.SetPromoKeywords)
	manyEmojis := helpers.CountEmojis(c.Message.Text) >= 3
	if hasBotMention || (hasSpamSignal && manyEmojis) {
		c.TriggerInstantBan(automod.CategoryCasino)
	}
	return nil
}

var _ automod.InstantRuleFunc = DMSolicitationInstantRule

func DMSolicitationInstantRule(c *automod.MessageContext) error {
	if phrase, ok := c.MatchInText(setstore.SetDMSolicitation); ok {
		c.Logger.Info("dm solicitation", "phrase", phrase)
		c.TriggerInstantBan(automod.CategoryDMSolicitation)
	}
	return nil
}

var _ automod.InstantRuleFunc = InstantBanPhraseRule

// Deployment-configured zero-tolerance phrases.
func InstantBanPhraseRule(c *automod.MessageContext) error {
	if _, ok := c.MatchInText(setstore.SetInstantBanPhrases); ok {
		c.TriggerInstantBan(automod.CategoryInstantBanPhrase)
	}
	return nil
}

var _ automod.InstantRuleFunc = EmojiPromoInstantRule

// Promo-style blasts: heavy emoji decoration plus links, or emoji overload
// combined with promotional keywords.
func EmojiPromoInstantRule(c *automod.MessageContext) error {
	decorative := helpers.CountEmojis(c.Message.Text)
	hasLinks := helpers.ContainsURL(c.Message.Text) || c.Message.HasEntityKind(automod.EntityURL) || c.Message.HasEntityKind(automod.EntityTextLink)

	if decorative > 8 && hasLinks {
		c.TriggerInstantBan(automod.CategoryHyperlinkEmoji)
		return nil
	}
	if decorative > 15 {
		if len(c.MatchAllInText(setstore.SetPromoKeywords)) >= 2 {
			c.TriggerInstantBan(automod.CategoryScamPattern)
		}
	}
	return nil
}

// Flexible scam phrasing seen in the wild: trading-bot testimonials, funded
// account offers, unrealistic return promises. Partial patterns, matched on
// the normalized text.
var scamRegexes = []*regexp.Regexp{
	regexp.MustCompile(`thanks to [^,\n]+,? my (trading )?account is (thriving|growing|doing great)`),
	regexp.MustCompile(`profit (with|thanks to) (mrs|mr|@)\S+`),
	regexp.MustCompile(`withdrawals? (are|is) (easy|straightforward|simple|without hassle)`),
	regexp.MustCompile(`from [^\n]+ to \$?\d{2,5} (profit|returns|income)`),
	regexp.MustCompile(`automated trading system (based on|using) (market conditions|algorithms)`),
	regexp.MustCompile(`avoids? risky strategies? (like|such as) (martingale|grid|hedging)`),
	regexp.MustCompile(`aims? for a daily (performance|return|roi|profit) of ?\d+%?`),
	regexp.MustCompile(`(ea|system) operates? on the m\d+ timeframe`),
	regexp.MustCompile(`compatible with all brokers`),
	regexp.MustCompile(`manages? (sl/tp|stop loss|take profit)`),
	regexp.MustCompile(`works 24/5 on mt4( and mt5)?`),
	regexp.MustCompile(`funded account challenges?`),
	regexp.MustCompile(`send me a dm (for|to see|for more) (proof|results|details)`),
	regexp.MustCompile(`financial assistance (without|with no) hassle`),
	regexp.MustCompile(`my life changed after`),
	regexp.MustCompile(`i bought (my|a|the) [^\n]+ for my (son|daughter|family|wife|husband)`),
	regexp.MustCompile(`(contact|dm|message) @[a-zA-Z0-9_]{4,} (for|to get|for help|for more)`),
	regexp.MustCompile(`\$\d{2,5} (profit|returns|income|gain|withdrawal)`),
	regexp.MustCompile(`\d+% (daily|weekly|monthly) (returns?|profit|roi)`),
	regexp.MustCompile(`roi of \d+%`),
}

var _ automod.InstantRuleFunc = ScamPatternInstantRule

func ScamPatternInstantRule(c *automod.MessageContext) error {
	lower := strings.ToLower(c.Message.Text)
	for _, re := range scamRegexes {
		if re.MatchString(lower) {
			c.Logger.Info("scam pattern", "pattern", re.String())
			c.TriggerInstantBan(automod.CategoryScamPattern)
			return nil
		}
	}
	return nil
}
