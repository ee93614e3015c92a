package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Action is the advisory action of a verdict.
type Action string

const (
	ActionStrongBuy  Action = "Strong Buy"
	ActionBuy        Action = "Buy"
	ActionHold       Action = "Hold"
	ActionSell       Action = "Sell"
	ActionStrongSell Action = "Strong Sell"
)

// Tone classifies an action for rendering.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
)

// Tone returns the rendering tone of the action.
func (a Action) Tone() Tone {
	switch a {
	case ActionStrongBuy, ActionBuy:
		return TonePositive
	case ActionSell, ActionStrongSell:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// Fundamentals are the key metrics shown next to a verdict, copied from the quote.
type Fundamentals struct {
	TrailingPE   null.Float
	PEGRatio     null.Float
	ProfitMargin null.Float
	DebtToEquity null.Float
}

// Verdict is the output of the recommendation engine.
type Verdict struct {
	Action       Action
	Rationale    string
	Fundamentals Fundamentals
	GeneratedAt  time.Time
}
