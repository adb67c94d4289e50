package rules

import (
	"regexp"
	"strings"

	"github.com/vigil-bot/vigil/automod"
)

// Recruitment scams promise remote work with unrealistic earnings and ask
// victims to DM. No single cue is conclusive; the rule scores a weighted
// combination and bans above a configured threshold.

var telegramHandleRegex = regexp.MustCompile(`@[a-zA-Z][a-zA-Z0-9_]{4,}`)

var earningsRegexes = []*regexp.Regexp{
	regexp.MustCompile(`\$\d{2,4}\s*(per|a)\s*(day|week)`),
	regexp.MustCompile(`\$\d{2,4}\s*-\s*\$\d{2,4}`),
	regexp.MustCompile(`(earnings?|income|earn)\s*(from|starting|of|up to)?\s*\$\d+`),
	regexp.MustCompile(`\$\d+\+?\s*(per|a|/)\s*(day|week)`),
	regexp.MustCompile(`(up to|starting at)\s*\$\d+`),
	regexp.MustCompile(`\d{2,4}\s*(dollars?|usd)\s*(per|a)\s*(day|week)`),
	regexp.MustCompile(`\d{2,4}\s*-\s*\d{2,4}\s*(dollars?|usd)`),
	regexp.MustCompile(`\$\d+\s*[–-]\s*\$\d+`),
}

var remoteKeywords = []string{
	"remote", "remotely", "from home", "from a phone", "from phone",
	"from a computer", "from computer", "work online", "online work",
	"completely remote", "fully remote", "remote employment",
	"remote job", "online project", "via phone", "via pc",
	"only via phone", "phone or pc",
}

var recruitmentKeywords = []string{
	"looking for", "recruiting", "recruitment", "opening recruitment",
	"join a project", "join my team", "putting together", "team",
	"looking for people", "looking for partners", "looking for several",
	"2-3 people", "two people", "several people", "responsible people",
	"2-3 individuals", "seeking", "urgently seeking", "new online project",
	"cool project", "join my team at", "activities on bybit",
	"activities on binance", "we're recruiting",
}

var dmRequestKeywords = []string{
	"write to", "message me", "dm me", "private message",
	"send me a", "contact me", `write "+"`, `write '+'`, `leave a "+"`,
	"write +", "leave +", "interested, message", "if interested",
	"details:", "details -", "want to join", "details in pm",
	"details in dm", "write now", "write to me at", "send me a private",
	"pm -", "dm -", "pm:", "write me",
}

var easyWorkKeywords = []string{
	"simple tasks", "clear instructions", "easy", "1-2 hours",
	"1.5-2 hours", "hours per day", "full training", "training and support",
	"we provide", "daily payments", "transparent",
}

var attentionMarkers = []string{
	"attention", "‼️", "❗", "⚡", "❗️", "✔", "✅",
}

var legalClaimKeywords = []string{
	"legal", "secure", "legitimate", "legit", "safe", "trusted",
}

func anyKeyword(text string, kws []string) bool {
	for _, kw := range kws {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

var _ automod.InstantRuleFunc = RecruitmentScamInstantRule

func RecruitmentScamInstantRule(c *automod.MessageContext) error {
	lower := strings.ToLower(c.Message.Text)

	hasHandle := telegramHandleRegex.MatchString(c.Message.Text)
	hasEarnings := false
	for _, re := range earningsRegexes {
		if re.MatchString(lower) {
			hasEarnings = true
			break
		}
	}
	hasRemote := anyKeyword(lower, remoteKeywords)
	hasRecruitment := anyKeyword(lower, recruitmentKeywords)
	hasDMRequest := anyKeyword(lower, dmRequestKeywords)
	hasEasyPromise := anyKeyword(lower, easyWorkKeywords)
	hasAttention := anyKeyword(c.Message.Text, attentionMarkers)
	hasLegalClaim := anyKeyword(lower, legalClaimKeywords)

	var score float64
	if hasHandle {
		score += 1.5
	}
	if hasEarnings {
		score += 2
	}
	if hasRemote {
		score += 1
	}
	if hasRecruitment {
		score += 1.5
	}
	if hasDMRequest {
		score += 2
	}
	if hasEasyPromise {
		score += 1
	}
	if hasAttention {
		score += 1
	}
	if hasLegalClaim {
		score += 0.5
	}
	// handle + attention markers + recruitment language together is the
	// classic template
	if hasHandle && hasAttention && hasRecruitment {
		score += 1
	}

	if score >= c.Config().RecruitmentCueThreshold {
		c.Logger.Info("recruitment scam", "cueScore", score)
		c.TriggerInstantBan(automod.CategoryRecruitmentScam)
	}
	return nil
}
