package rules

import (
	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/helpers"
)

var _ automod.InstantRuleFunc = BlockedScriptInstantRule

// Text in a blocked script family combined with a link is treated like any
// other link-spam funnel and banned outright.
func BlockedScriptInstantRule(c *automod.MessageContext) error {
	blocked := c.Config().BlockedScripts
	if len(blocked) == 0 {
		return nil
	}
	found := helpers.DetectScripts(c.Message.Text, blocked)
	if len(found) == 0 {
		return nil
	}
	if helpers.ContainsURL(c.Message.Text) || len(c.Message.EntityURLs()) > 0 {
		c.Logger.Info("blocked script with link", "scripts", found)
		c.TriggerInstantBan(automod.CategoryBlockedScript)
	}
	return nil
}

var _ automod.SignalRuleFunc = BlockedScriptSignalRule

// Without a link the message is still removed (full-strength signal), but
// the sender stays on the warning ladder.
func BlockedScriptSignalRule(c *automod.MessageContext) error {
	blocked := c.Config().BlockedScripts
	if len(blocked) == 0 {
		return nil
	}
	if found := helpers.DetectScripts(c.Message.Text, blocked); len(found) > 0 {
		c.AddSignal(1.0, "blocked-script")
	}
	return nil
}
