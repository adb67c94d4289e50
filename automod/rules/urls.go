package rules

import (
	"time"

	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/helpers"
	"github.com/vigil-bot/vigil/automod/setstore"
)

// collects URLs from both the text and the entity annotations
func messageURLs(c *automod.MessageContext) []string {
	urls := helpers.ExtractTextURLs(c.Message.Text)
	urls = append(urls, c.Message.EntityURLs()...)
	return helpers.DedupeStrings(urls)
}

var _ automod.SignalRuleFunc = SuspiciousURLSignalRule

// Links to domains outside the allowlist. Denylisted domains score slightly
// higher than merely unknown ones.
func SuspiciousURLSignalRule(c *automod.MessageContext) error {
	score := 0.0
	for _, u := range messageURLs(c) {
		domain := helpers.DomainFromURL(u)
		if domain == "" {
			continue
		}
		if c.InSet(setstore.SetDomainAllowlist, domain) {
			continue
		}
		c.Increment("suspicious-domain", domain)
		if c.InSet(setstore.SetDomainDenylist, domain) {
			score = 0.9
			c.Logger.Info("denylisted domain", "domain", domain)
			break
		}
		score = 0.8
	}
	if score > 0 {
		c.AddSignal(score, "suspicious-url")
	}
	return nil
}

var _ automod.SignalRuleFunc = NewAccountLinkSignalRule

// Accounts inside their grace period posting links get extra scrutiny.
func NewAccountLinkSignalRule(c *automod.MessageContext) error {
	age := c.Message.ReceivedAt.Sub(c.Account.FirstSeen)
	if age < 0 || age >= c.Config().NewAccountAge {
		return nil
	}
	if len(messageURLs(c)) == 0 {
		return nil
	}
	c.AddSignal(0.6, "new-account-link")
	return nil
}

var _ automod.SignalRuleFunc = MoneyEmojiSignalRule

// Money emojis from unestablished senders are a promo tell. Established
// accounts (past the grace period, with prior history) are exempt.
func MoneyEmojiSignalRule(c *automod.MessageContext) error {
	count := helpers.CountMoneyEmojis(c.Message.Text)
	if count < c.Config().MoneyEmojiThreshold {
		return nil
	}
	age := c.Message.ReceivedAt.Sub(c.Account.FirstSeen)
	isNew := age >= 0 && age < c.Config().NewAccountAge
	firstMessage := c.Window.PriorCount == 0
	if !isNew && !firstMessage {
		return nil
	}
	c.Logger.Info("money emoji spam", "count", count, "accountAge", age.Round(time.Minute))
	c.AddSignal(0.8, "money-emoji")
	return nil
}
