package notifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"

	"StockAdvisor/internal/model"
)

// FormatPrice renders a price as "$189.50", or N/A.
func FormatPrice(p null.Float) string {
	if !p.Valid {
		return model.Unavailable
	}
	return fmt.Sprintf("$%.2f", p.Float64)
}

// FormatChange renders today's move against the previous close.
func FormatChange(q model.Quote) string {
	change, pct, ok := q.Change()
	if !ok {
		return model.Unavailable
	}
	if change >= 0 {
		return fmt.Sprintf("+$%.2f (+%.2f%%)", change, pct)
	}
	return fmt.Sprintf("-$%.2f (%.2f%%)", math.Abs(change), pct)
}

// FormatMarketCap renders a market cap with a T/B/M suffix.
func FormatMarketCap(c null.Float) string {
	if !c.Valid {
		return model.Unavailable
	}
	v := c.Float64
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// FormatMetric renders a raw metric as the provider reported it.
func FormatMetric(v null.Float) string {
	if !v.Valid {
		return model.Unavailable
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

// FormatTitle renders "Long Name (SYM)".
func FormatTitle(q model.Quote) string {
	name := model.Unavailable
	if q.LongName.Valid && q.LongName.String != "" {
		name = q.LongName.String
	}
	return fmt.Sprintf("%s (%s)", name, q.Symbol)
}

// FormatAnalysis renders the verdict detail pane.
func FormatAnalysis(symbol string, v model.Verdict) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("AI Analysis for %s:\n\n", symbol))
	b.WriteString(fmt.Sprintf("Recommendation: %s\n", v.Action))
	b.WriteString(fmt.Sprintf("Reason: %s\n\n", v.Rationale))
	b.WriteString("Key Metrics:\n")
	b.WriteString(fmt.Sprintf("- P/E Ratio: %s\n", FormatMetric(v.Fundamentals.TrailingPE)))
	b.WriteString(fmt.Sprintf("- PEG Ratio: %s\n", FormatMetric(v.Fundamentals.PEGRatio)))
	b.WriteString(fmt.Sprintf("- Profit Margins: %s\n", FormatMetric(v.Fundamentals.ProfitMargin)))
	b.WriteString(fmt.Sprintf("- Debt/Equity: %s\n", FormatMetric(v.Fundamentals.DebtToEquity)))
	return b.String()
}

// FormatTrade renders the confirmation text for a trade action.
func FormatTrade(action, symbol, price string) string {
	switch action {
	case "buy":
		return fmt.Sprintf("Buy order placed for %s at %s", symbol, price)
	case "sell":
		return fmt.Sprintf("Sell order placed for %s at %s", symbol, price)
	case "watchlist":
		return fmt.Sprintf("%s added to your watchlist", symbol)
	default:
		return fmt.Sprintf("Unknown action %q for %s", action, symbol)
	}
}

// FormatRSI renders an RSI reading with one decimal.
func FormatRSI(v null.Float) string {
	if !v.Valid {
		return model.Unavailable
	}
	return fmt.Sprintf("%.1f", v.Float64)
}
