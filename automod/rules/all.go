package rules

import (
	"github.com/vigil-bot/vigil/automod"
)

func DefaultRules() automod.RuleSet {
	rules := automod.RuleSet{
		InstantRules: []automod.InstantRuleFunc{
			unlessWhitelisted(PremiumEmojiInstantRule),
			unlessWhitelisted(HyperlinkEmojiInstantRule),
			unlessWhitelisted(AdultContentInstantRule),
			unlessWhitelisted(BotLinkInstantRule),
			unlessWhitelisted(BotAccountInstantRule),
			unlessWhitelisted(CasinoInstantRule),
			unlessWhitelisted(DMSolicitationInstantRule),
			unlessWhitelisted(InstantBanPhraseRule),
			unlessWhitelisted(EmojiPromoInstantRule),
			unlessWhitelisted(RecruitmentScamInstantRule),
			unlessWhitelisted(ScamPatternInstantRule),
			unlessWhitelisted(BlockedScriptInstantRule),
		},
		SignalRules: []automod.SignalRuleFunc{
			SpamKeywordSignalRule,
			BadLanguageSignalRule,
			SuspiciousURLSignalRule,
			NewAccountLinkSignalRule,
			MoneyEmojiSignalRule,
			RateLimitSignalRule,
			DuplicateSignalRule,
			FormattingSignalRule,
			CryptoAddressSignalRule,
			MentionSpamSignalRule,
			BlockedScriptSignalRule,
		},
	}
	return rules
}
