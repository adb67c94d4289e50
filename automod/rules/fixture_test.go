package rules

import (
	"context"
	"log/slog"
	"time"

	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/classifier"
	"github.com/vigil-bot/vigil/automod/countstore"
	"github.com/vigil-bot/vigil/automod/engine"
	"github.com/vigil-bot/vigil/automod/flagstore"
	"github.com/vigil-bot/vigil/automod/historystore"
	"github.com/vigil-bot/vigil/automod/keyword"
	"github.com/vigil-bot/vigil/automod/setstore"
)

func engineFixture() automod.Engine {
	sets := setstore.NewMemSetStore()
	sets.AddSet(setstore.SetSpamKeywords, []string{
		"guaranteed profit", "double your money", "limited time offer",
		"act fast", "risk free",
	})
	sets.AddSet(setstore.SetBadWords, []string{"dang", "heck", "frick"})
	sets.AddSet(setstore.SetDomainAllowlist, []string{"example.com", "docs.example.com"})
	sets.AddSet(setstore.SetDomainDenylist, []string{"sketchy.site"})
	sets.AddSet(setstore.SetInstantBanPhrases, []string{"free airdrop giveaway"})
	sets.AddSet(setstore.SetCasinoPhrases, []string{
		"1win", "1xbet", "casino bonus", "free spins", "activate the promo",
	})
	sets.AddSet(setstore.SetDMSolicitation, []string{"dm me now", "inbox me", "dm me"})
	sets.AddSet(setstore.SetWhitelistedPhrases, []string{"how to get promo code"})
	sets.AddSet(setstore.SetSafeBots, []string{"vigil_bot"})
	sets.AddSet(setstore.SetPromoKeywords, []string{
		"join", "click", "now", "bonus", "win", "free", "hurry", "cash", "promo",
	})

	return automod.Engine{
		Logger:     slog.Default(),
		Rules:      DefaultRules(),
		Counters:   countstore.NewMemCountStore(),
		Sets:       sets,
		Flags:      flagstore.NewMemFlagStore(),
		History:    historystore.NewMemHistoryStore(0, 0, 0),
		Classifier: &classifier.Classifier{},
		Config:     engine.NewConfig(),
	}
}

func message(uid, text string) automod.Message {
	return automod.Message{
		Text:       text,
		Sender:     automod.Sender{ID: uid, Username: "someone"},
		ChatID:     "chat-1",
		ReceivedAt: time.Now().UTC(),
	}
}

// default account fixture: an established sender (zero FirstSeen reads as an
// old account)
func accountState() historystore.UserState {
	return historystore.UserState{}
}

func windowStats() historystore.WindowStats {
	return historystore.WindowStats{DuplicateCount: 1, CountLastMinute: 1}
}

// builds a context for exercising one rule in isolation
func ruleContext(eng *automod.Engine, msg automod.Message, account historystore.UserState, window historystore.WindowStats) automod.MessageContext {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}
	return engine.NewMessageContext(context.Background(), eng, msg, keyword.Normalize(msg.Text), account, window)
}
