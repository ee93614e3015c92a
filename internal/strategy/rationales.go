package strategy

import "StockAdvisor/internal/model"

// Rationales holds the fixed reasons offered for each action.
var Rationales = map[model.Action][]string{
	model.ActionStrongBuy: {
		"Exceptional growth potential with strong fundamentals",
		"Undervalued based on our AI analysis with positive momentum",
		"Industry leader with expanding market share",
	},
	model.ActionBuy: {
		"Solid financials with reasonable valuation",
		"Positive earnings outlook with manageable risks",
		"Technical indicators show upward momentum",
	},
	model.ActionHold: {
		"Fairly valued with balanced risk/reward",
		"Waiting for clearer signals on future performance",
		"Mixed technical and fundamental indicators",
	},
	model.ActionSell: {
		"Valuation appears stretched relative to peers",
		"Deteriorating fundamentals and negative momentum",
		"Increased competitive pressures affecting margins",
	},
	model.ActionStrongSell: {
		"Significant downside risk identified",
		"Severe fundamental deterioration",
		"Technical indicators show strong downward momentum",
	},
}
