package engine

// InstantRuleFunc is a zero-tolerance check: on a match it calls
// TriggerInstantBan with a category and the engine short-circuits further
// rule execution.
type InstantRuleFunc = func(c *MessageContext) error

// SignalRuleFunc contributes weighted partial scores via AddSignal; it never
// decides an action on its own.
type SignalRuleFunc = func(c *MessageContext) error
