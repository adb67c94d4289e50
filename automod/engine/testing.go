package engine

import (
	"log/slog"
	"strings"

	"github.com/vigil-bot/vigil/automod/classifier"
	"github.com/vigil-bot/vigil/automod/countstore"
	"github.com/vigil-bot/vigil/automod/flagstore"
	"github.com/vigil-bot/vigil/automod/historystore"
	"github.com/vigil-bot/vigil/automod/setstore"
)

var _ SignalRuleFunc = simpleSignalRule

func simpleSignalRule(c *MessageContext) error {
	if phrase, ok := c.MatchInText(setstore.SetSpamKeywords); ok {
		c.AddSignal(0.8, "spam-keyword")
		c.Logger.Debug("spam keyword matched", "phrase", phrase)
	}
	return nil
}

var _ InstantRuleFunc = simpleInstantRule

func simpleInstantRule(c *MessageContext) error {
	if strings.Contains(c.NormalizedText, "zero tolerance phrase") {
		c.TriggerInstantBan(CategoryInstantBanPhrase)
	}
	return nil
}

// EngineTestFixture wires an engine entirely over in-memory stores, with one
// instant rule and one signal rule. Intentionally exported, for use in other
// packages.
func EngineTestFixture() Engine {
	rules := RuleSet{
		InstantRules: []InstantRuleFunc{
			simpleInstantRule,
		},
		SignalRules: []SignalRuleFunc{
			simpleSignalRule,
		},
	}
	sets := setstore.NewMemSetStore()
	sets.AddSet(setstore.SetSpamKeywords, []string{"limited time offer"})
	engine := Engine{
		Logger:     slog.Default(),
		Rules:      rules,
		Counters:   countstore.NewMemCountStore(),
		Sets:       sets,
		Flags:      flagstore.NewMemFlagStore(),
		History:    historystore.NewMemHistoryStore(0, 0, 0),
		Classifier: &classifier.Classifier{},
		Config:     NewConfig(),
	}
	return engine
}

// Helper to access the private effects field from a context. Intended for use in test code, *not* from rules.
func ExtractEffects(c *MessageContext) Effects {
	return c.effects
}
