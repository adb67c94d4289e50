package automod

import (
	"github.com/vigil-bot/vigil/automod/countstore"
	"github.com/vigil-bot/vigil/automod/engine"
)

type Engine = engine.Engine
type Config = engine.Config
type RuleSet = engine.RuleSet
type Message = engine.Message
type Entity = engine.Entity
type Sender = engine.Sender
type Decision = engine.Decision
type Action = engine.Action

type MessageContext = engine.MessageContext

type InstantRuleFunc = engine.InstantRuleFunc
type SignalRuleFunc = engine.SignalRuleFunc

var (
	EntityURL         = engine.EntityURL
	EntityTextLink    = engine.EntityTextLink
	EntityMention     = engine.EntityMention
	EntityCustomEmoji = engine.EntityCustomEmoji

	ActionAllow  = engine.ActionAllow
	ActionFlag   = engine.ActionFlag
	ActionDelete = engine.ActionDelete
	ActionWarn   = engine.ActionWarn
	ActionMute   = engine.ActionMute
	ActionBan    = engine.ActionBan

	CategoryAdultContent     = engine.CategoryAdultContent
	CategoryBotLink          = engine.CategoryBotLink
	CategoryBotAccount       = engine.CategoryBotAccount
	CategoryCasino           = engine.CategoryCasino
	CategoryDMSolicitation   = engine.CategoryDMSolicitation
	CategoryRecruitmentScam  = engine.CategoryRecruitmentScam
	CategoryHyperlinkEmoji   = engine.CategoryHyperlinkEmoji
	CategoryPremiumEmoji     = engine.CategoryPremiumEmoji
	CategoryInstantBanPhrase = engine.CategoryInstantBanPhrase
	CategoryScamPattern      = engine.CategoryScamPattern
	CategoryBlockedScript    = engine.CategoryBlockedScript

	PeriodTotal  = countstore.PeriodTotal
	PeriodDay    = countstore.PeriodDay
	PeriodHour   = countstore.PeriodHour
	PeriodMinute = countstore.PeriodMinute
)
