package rules

import (
	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/helpers"
	"github.com/vigil-bot/vigil/automod/setstore"
)

var _ automod.SignalRuleFunc = MentionSpamSignalRule

// Repeated @-mentions, weighted up when combined with promotional language
// or when the same handle is mentioned over and over.
func MentionSpamSignalRule(c *automod.MessageContext) error {
	mentions := helpers.ExtractMentions(c.Message.Text)
	count := len(mentions)
	if count == 0 {
		return nil
	}

	_, hasPromo := c.MatchInText(setstore.SetPromoKeywords)

	var score float64
	switch {
	case count >= 5:
		score = 0.7
	case count >= 3:
		if hasPromo {
			score = 0.6
		} else {
			score = 0.3
		}
	case count >= 2:
		if hasPromo {
			score = 0.4
		}
	}

	// many duplicate mentions of the same handle
	unique := len(helpers.DedupeStrings(mentions))
	if float64(unique) < float64(count)*0.5 && score < 0.5 {
		score = 0.5
	}

	if score > 0 {
		c.AddSignal(score, "mention-spam")
		c.IncrementDistinct("mention-targets", c.Message.Sender.ID, mentions[0])
	}
	return nil
}
