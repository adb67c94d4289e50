package engine

// Holds configuration of which rules should be run, and dispatches messages
// to those rules.
type RuleSet struct {
	InstantRules []InstantRuleFunc
	SignalRules  []SignalRuleFunc
}

// Executes the instant (zero-tolerance) rules in order, stopping at the
// first triggered category. Only dispatches execution, does no other pre/post
// processing.
func (r *RuleSet) CallInstantRules(c *MessageContext) error {
	for _, f := range r.InstantRules {
		if err := f(c); err != nil {
			return err
		}
		if c.effects.InstantCategory != "" {
			return nil
		}
	}
	return nil
}

// Executes all signal rules. Signal rules always all run; their scores are
// fused afterwards.
func (r *RuleSet) CallSignalRules(c *MessageContext) error {
	for _, f := range r.SignalRules {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}
