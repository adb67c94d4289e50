package engine

// Moderation actions, in increasing severity. Warn implies deletion of the
// offending message (the platform adapter deletes, then issues the warning).
type Action string

const (
	ActionAllow  Action = "allow"
	ActionFlag   Action = "flag"
	ActionDelete Action = "delete"
	ActionWarn   Action = "warn"
	ActionMute   Action = "mute"
	ActionBan    Action = "ban"
)

var actionRank = map[Action]int{
	ActionAllow:  0,
	ActionFlag:   1,
	ActionDelete: 2,
	ActionWarn:   3,
	ActionMute:   4,
	ActionBan:    5,
}

// Severity comparison between actions.
func (a Action) AtLeast(other Action) bool {
	return actionRank[a] >= actionRank[other]
}

// Deletes reports whether the action implies removing the message.
func (a Action) Deletes() bool {
	return a.AtLeast(ActionDelete)
}

// The engine's verdict for one message. Output only; the platform adapter
// applies it.
type Decision struct {
	Action Action `json:"action"`
	// Fused spam score in [0,1].
	Score float64 `json:"score"`
	// Ordered category/reason tags collected during rule execution.
	Reasons []string `json:"reasons,omitempty"`
	// True when a zero-tolerance rule fired (instant-ban path).
	HardRuleTriggered bool `json:"hard_rule_triggered"`
}

// Score-band thresholds (fused score → action), per the escalation policy:
// at or above Warn the message is deleted and the sender warned; above
// Delete it is just deleted; above Flag it is queued for review.
const (
	ScoreBandWarn   = 0.7
	ScoreBandDelete = 0.5
	ScoreBandFlag   = 0.3
)

// Classifier contribution weights: a high-confidence spam verdict adds a
// large step to the rule score, medium confidence a smaller one. The
// classifier never bans on its own.
const (
	classifierHighConfidence   = 0.75
	classifierMediumConfidence = 0.6
	classifierHighWeight       = 0.4
	classifierMediumWeight     = 0.2
)

// fuseScore combines the additive rule score with the classifier
// probability. Monotonic in both inputs; capped at 1.
func fuseScore(ruleScore, classifierProb float64, classifierOK bool) float64 {
	fused := ruleScore
	if classifierOK {
		switch {
		case classifierProb >= classifierHighConfidence:
			fused += classifierHighWeight
		case classifierProb >= classifierMediumConfidence:
			fused += classifierMediumWeight
		}
	}
	if fused > 1 {
		fused = 1
	}
	if fused < 0 {
		fused = 0
	}
	return fused
}

func actionForScore(score float64) Action {
	switch {
	case score >= ScoreBandWarn:
		return ActionWarn
	case score >= ScoreBandDelete:
		return ActionDelete
	case score >= ScoreBandFlag:
		return ActionFlag
	default:
		return ActionAllow
	}
}
