package engine

type CounterRef struct {
	Name   string
	Val    string
	Period *string
}

type CounterDistinctRef struct {
	Name   string
	Bucket string
	Val    string
}

// One weighted partial score from a signal detector.
type Signal struct {
	Score  float64
	Reason string
}

// Mutable container for all the possible side-effects from rule execution.
//
// Signal scores and counter increments are collected during rule execution;
// score fusion and persistence happen afterwards, in the engine. No rule
// invokes a moderation action directly.
type Effects struct {
	// Partial scores contributed by signal rules, fused additively (capped
	// at 1.0) by the decision stage.
	Signals []Signal
	// First zero-tolerance category to match, if any. Set via the instant
	// rule path only; short-circuits the additive score entirely.
	InstantCategory string
	// Bad-language detection is tracked separately from the spam score; it
	// follows its own configured action.
	BadLanguage bool
	// Counters to increment after processing, in bulk.
	CounterIncrements         []CounterRef
	CounterDistinctIncrements []CounterDistinctRef
	// Moderation flags to persist on the account after processing.
	AccountFlags []string
}

// Reasons returns the ordered reason tags from all triggered signals.
func (e *Effects) Reasons() []string {
	var out []string
	if e.InstantCategory != "" {
		out = append(out, e.InstantCategory)
	}
	for _, s := range e.Signals {
		out = append(out, s.Reason)
	}
	return out
}

// RuleScore is the additive combination of partial signal scores, bounded
// to [0,1].
func (e *Effects) RuleScore() float64 {
	var sum float64
	for _, s := range e.Signals {
		sum += s.Score
	}
	if sum > 1 {
		return 1
	}
	if sum < 0 {
		return 0
	}
	return sum
}
