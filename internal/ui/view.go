package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"StockAdvisor/internal/calculator"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/notifier"
)

const chatLines = 8

func (m Model) View() string {
	b := m.monitor.Bundle()
	symbol := m.monitor.Symbol()

	title := symbol
	if b != nil && b.Symbol == symbol {
		title = notifier.FormatTitle(b.Quote)
	}
	header := headerStyle.Render(padOrTrunc(fmt.Sprintf(" AI Stock Advisor  %s    %s ", title, m.status), m.width))

	var body strings.Builder
	if b == nil {
		body.WriteString(dimStyle.Render("Loading " + symbol + "..."))
		body.WriteString("\n")
	} else {
		if b.Symbol != symbol {
			body.WriteString(dimStyle.Render(fmt.Sprintf("Loading %s, showing %s", symbol, b.Symbol)))
			body.WriteString("\n")
		}
		body.WriteString(renderQuote(b))
		body.WriteString("\n")
		body.WriteString(renderVerdict(b))
		body.WriteString("\n")
		body.WriteString(renderChart(b, m.width-4))
	}

	body.WriteString("\n")
	body.WriteString(m.renderChat())
	body.WriteString("\n")
	body.WriteString(m.input.View())
	if m.notice != "" {
		body.WriteString("\n")
		body.WriteString(noticeStyle.Render(m.notice))
	}

	footer := footerStyle.Render(padOrTrunc(" 1-0 popular  /symbol  /period  /ma  /rsi  /buy  /sell  /watch  esc quit", m.width))
	return header + "\n" + body.String() + "\n" + footer
}

func renderQuote(b *model.Bundle) string {
	q := b.Quote
	change := notifier.FormatChange(q)
	changeStyle := dimStyle
	if c, _, ok := q.Change(); ok {
		changeStyle = gainStyle
		if c < 0 {
			changeStyle = lossStyle
		}
	}
	return fmt.Sprintf("%s %s  %s\n%s %s   %s %s   %s %s",
		labelStyle.Render("Price:"), priceStyle.Render(notifier.FormatPrice(q.CurrentPrice)),
		changeStyle.Render(change),
		labelStyle.Render("Market Cap:"), notifier.FormatMarketCap(q.MarketCap),
		labelStyle.Render("P/E:"), notifier.FormatMetric(q.PERatio),
		labelStyle.Render("Updated:"), humanize.Time(b.FetchedAt),
	)
}

func renderVerdict(b *model.Bundle) string {
	v := b.Verdict
	head := labelStyle.Render("Recommendation: ") + toneStyle(v.Action.Tone()).Render(string(v.Action))
	return head + "\n" + paneStyle.Render(strings.TrimRight(notifier.FormatAnalysis(b.Symbol, v), "\n"))
}

func renderChart(b *model.Bundle, width int) string {
	if width < 10 {
		width = 10
	}
	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("%s Price Chart (%s)", b.Symbol, b.Options.Period)))
	s.WriteString("\n")

	closes := b.Bars.Closes()
	ma := calculator.Valid(b.Indicators.MA)
	high, low, ok := priceBounds(closes, ma)
	if !ok {
		s.WriteString(dimStyle.Render("no bars"))
		return s.String()
	}

	last := b.Bars.Bars[len(b.Bars.Bars)-1]
	s.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
		labelStyle.Render("High"), fmt.Sprintf("$%.2f", high),
		labelStyle.Render("Low"), fmt.Sprintf("$%.2f", low),
		labelStyle.Render("Vol"), humanize.Comma(int64(last.Volume)),
	))
	s.WriteString(sparkline(closes, width, high, low))

	if b.Indicators.HasMA() {
		s.WriteString("\n")
		s.WriteString(maStyle.Render(sparkline(ma, width, high, low)))
		s.WriteString(" ")
		s.WriteString(maStyle.Render(fmt.Sprintf("MA %d", b.Indicators.MAWindow)))
	}
	if b.Indicators.HasRSI() {
		rsi := calculator.Valid(b.Indicators.RSI)
		s.WriteString("\n")
		s.WriteString(rsiStyle.Render(sparkline(rsi, width, 100, 0)))
		s.WriteString(" ")
		s.WriteString(rsiStyle.Render(fmt.Sprintf("RSI %s", notifier.FormatRSI(model.Last(b.Indicators.RSI)))))
	}
	return s.String()
}

func (m Model) renderChat() string {
	msgs := m.monitor.Messages()
	if len(msgs) > chatLines {
		msgs = msgs[len(msgs)-chatLines:]
	}
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, senderStyle.Render(msg.Sender+":")+" "+msg.Body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func padOrTrunc(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
