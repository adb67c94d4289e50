package rules

import (
	"regexp"

	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/helpers"
)

var _ automod.SignalRuleFunc = FormattingSignalRule

// Spam-like formatting: shouting, stretched characters, emoji walls. Each
// tell contributes a small partial score.
func FormattingSignalRule(c *automod.MessageContext) error {
	if helpers.CountCapsRuns(c.Message.Text) >= 3 {
		c.AddSignal(0.3, "excessive-caps")
	}
	if helpers.HasRepeatedChars(c.Message.Text) {
		c.AddSignal(0.2, "repeated-chars")
	}
	if helpers.CountEmojis(c.Message.Text) > 10 {
		c.AddSignal(0.2, "excessive-emojis")
	}
	return nil
}

// Addresses must be standalone tokens; without the boundaries any long
// alphanumeric run (hashes, serial numbers) would trip the base58 pattern.
var (
	ethAddressRegex = regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`)
	btcAddressRegex = regexp.MustCompile(`\b(?:[13][a-km-zA-HJ-NP-Z1-9]{25,34}|bc1[a-zA-HJ-NP-Z0-9]{39,59})\b`)
	solAddressRegex = regexp.MustCompile(`\b[1-9A-HJ-NP-Za-km-z]{32,44}\b`)
)

var _ automod.SignalRuleFunc = CryptoAddressSignalRule

// Raw wallet addresses dropped in chat are a scam tell.
func CryptoAddressSignalRule(c *automod.MessageContext) error {
	text := c.Message.Text
	if ethAddressRegex.MatchString(text) || btcAddressRegex.MatchString(text) || solAddressRegex.MatchString(text) {
		c.AddSignal(0.4, "crypto-address")
		c.Increment("crypto-address", c.Message.Sender.ID)
	}
	return nil
}
