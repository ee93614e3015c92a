package ui

import (
	"github.com/charmbracelet/lipgloss"

	"StockAdvisor/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	priceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	gainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	maStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	rsiStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	noticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	senderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

func toneStyle(t model.Tone) lipgloss.Style {
	switch t {
	case model.TonePositive:
		return gainStyle.Bold(true)
	case model.ToneNegative:
		return lossStyle.Bold(true)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	}
}
