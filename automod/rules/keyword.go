package rules

import (
	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/keyword"
	"github.com/vigil-bot/vigil/automod/setstore"
)

var _ automod.SignalRuleFunc = SpamKeywordSignalRule

// Known spam phrases, weighted by how many distinct phrases appear.
func SpamKeywordSignalRule(c *automod.MessageContext) error {
	matched := c.MatchAllInText(setstore.SetSpamKeywords)
	switch {
	case len(matched) >= 3:
		c.AddSignal(0.8, "spam-keywords")
	case len(matched) >= 2:
		c.AddSignal(0.5, "spam-keywords")
	case len(matched) >= 1:
		c.AddSignal(0.3, "spam-keywords")
	default:
		return nil
	}
	c.Increment("spam-keyword", matched[0])
	return nil
}

var _ automod.SignalRuleFunc = BadLanguageSignalRule

// Profanity is matched on whole tokens, never substrings, and follows its
// own configured action rather than the spam score bands.
func BadLanguageSignalRule(c *automod.MessageContext) error {
	found := 0
	for _, tok := range keyword.TokenizeText(c.NormalizedText) {
		if c.InSet(setstore.SetBadWords, tok) {
			found++
		}
	}
	if found == 0 {
		return nil
	}
	switch {
	case found >= 3:
		c.AddSignal(0.6, "bad-language")
	case found >= 2:
		c.AddSignal(0.4, "bad-language")
	default:
		c.AddSignal(0.3, "bad-language")
	}
	c.FlagBadLanguage()
	return nil
}
