package engine

import (
	"fmt"
	"time"

	"github.com/vigil-bot/vigil/automod/helpers"
)

// Instant-ban category tags. Rules trigger these through
// MessageContext.TriggerInstantBan; a match is always a terminal ban.
const (
	CategoryAdultContent     = "adult-content"
	CategoryBotLink          = "bot-link"
	CategoryBotAccount       = "bot-account"
	CategoryCasino           = "casino"
	CategoryDMSolicitation   = "dm-solicitation"
	CategoryRecruitmentScam  = "recruitment-scam"
	CategoryHyperlinkEmoji   = "hyperlink-emoji"
	CategoryPremiumEmoji     = "premium-emoji"
	CategoryInstantBanPhrase = "instant-ban-phrase"
	CategoryScamPattern      = "scam-pattern"
	CategoryBlockedScript    = "blocked-script"
)

// Engine tunables. NewConfig returns the production defaults; deployments
// override individual fields before engine construction.
type Config struct {
	// Warning count at which the sender is muted, and at which they are
	// banned outright.
	MuteAfterWarnings int
	BanAfterWarnings  int
	MuteDuration      time.Duration

	// Per-user message rate ceiling over the trailing minute; exceeding it
	// contributes a flood signal.
	RateLimitPerMinute int
	// Identical-payload repeats (within the user's recent window) at which
	// the duplicate signal fires.
	DuplicateThreshold int

	// Weighted-cue score at which the recruitment-scam instant rule fires.
	RecruitmentCueThreshold float64
	// Accounts younger than this get a scrutiny bonus on link-bearing spam.
	NewAccountAge time.Duration

	// Custom (premium) emoji count at which the premium-emoji instant rule
	// fires.
	PremiumEmojiThreshold int
	// Money-emoji count treated as a promotional signal.
	MoneyEmojiThreshold int

	// Action taken when bad language is detected and the spam score alone
	// would act less severely. Typically delete.
	BadLanguageAction Action

	// Script families (see helpers.DetectScripts) whose presence triggers an
	// instant ban. Empty means no script blocking.
	BlockedScripts []string

	// Mercy review: a user reaching the warning-limit ban with at least
	// MercyMinHistory prior messages and a safe ratio at or above
	// MercyMinSafeRatio keeps the warning instead. Never applies to
	// zero-tolerance matches.
	MercyMinHistory   int
	MercyMinSafeRatio float64

	// Forward policy: whether forwarded messages from non-allowlisted
	// origins count as violations at all.
	ForwardViolations bool
}

func NewConfig() Config {
	return Config{
		MuteAfterWarnings:       3,
		BanAfterWarnings:        5,
		MuteDuration:            24 * time.Hour,
		RateLimitPerMinute:      10,
		DuplicateThreshold:      3,
		RecruitmentCueThreshold: 3.5,
		NewAccountAge:           24 * time.Hour,
		PremiumEmojiThreshold:   5,
		MoneyEmojiThreshold:     3,
		BadLanguageAction:       ActionDelete,
		MercyMinHistory:         5,
		MercyMinSafeRatio:       0.8,
		ForwardViolations:       true,
	}
}

// Validate fails fast on settings that would otherwise silently misbehave at
// message-processing time.
func (c *Config) Validate() error {
	if c.MuteAfterWarnings <= 0 || c.BanAfterWarnings <= c.MuteAfterWarnings {
		return fmt.Errorf("warning thresholds out of order: mute=%d ban=%d", c.MuteAfterWarnings, c.BanAfterWarnings)
	}
	if c.MuteDuration <= 0 {
		return fmt.Errorf("mute duration must be positive")
	}
	if c.MercyMinSafeRatio < 0 || c.MercyMinSafeRatio > 1 {
		return fmt.Errorf("mercy safe ratio out of range: %f", c.MercyMinSafeRatio)
	}
	for _, fam := range c.BlockedScripts {
		if !helpers.KnownScriptFamily(fam) {
			return fmt.Errorf("unknown script family: %s", fam)
		}
	}
	switch c.BadLanguageAction {
	case ActionAllow, ActionFlag, ActionDelete, ActionWarn, ActionMute, ActionBan:
	default:
		return fmt.Errorf("unknown bad-language action: %s", c.BadLanguageAction)
	}
	return nil
}
