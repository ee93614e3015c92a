// Package ui is the terminal front end. It drains the scheduler's event
// queue on its own cadence and runs every fetch as a tea.Cmd.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/collector"
	"StockAdvisor/internal/events"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/monitor"
)

// PollInterval is how often the event queue is drained.
const PollInterval = 100 * time.Millisecond

// WelcomeText opens the chat log.
const WelcomeText = "Welcome to AI Stock Advisor! How can I help you today?"

type pollMsg time.Time

type refreshDoneMsg struct {
	chartOnly bool
	bundle    *model.Bundle
	err       error
}

type replyMsg struct {
	text string
}

// Config configures the UI model.
type Config struct {
	Symbols      []string
	ThinkDelay   time.Duration
	FetchTimeout time.Duration
}

// Model is the bubbletea model of the advisor screen.
type Model struct {
	monitor *monitor.Monitor
	queue   *events.Queue
	cfg     Config

	input  textinput.Model
	status string
	notice string
	width  int
	height int
}

// New creates the UI model.
func New(m *monitor.Monitor, q *events.Queue, cfg Config) Model {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	in := textinput.New()
	in.Placeholder = "Ask the advisor, or /help"
	in.CharLimit = 256
	in.Focus()
	m.Post(model.SenderAdvisor, WelcomeText)
	return Model{
		monitor: m,
		queue:   q,
		cfg:     cfg,
		input:   in,
		status:  "Market: ...",
		width:   100,
	}
}

func pollCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// refreshCmd runs a refresh off the event loop.
func (m Model) refreshCmd(chartOnly bool) tea.Cmd {
	mon := m.monitor
	timeout := m.cfg.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var (
			b   *model.Bundle
			err error
		)
		if chartOnly {
			b, err = mon.RefreshChart(ctx)
		} else {
			b, err = mon.Refresh(ctx)
		}
		return refreshDoneMsg{chartOnly: chartOnly, bundle: b, err: err}
	}
}

func (m Model) replyCmd(text string) tea.Cmd {
	return tea.Tick(m.cfg.ThinkDelay, func(time.Time) tea.Msg {
		return replyMsg{text: text}
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(pollCmd(), m.refreshCmd(false), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		cmds := append(m.applyEvents(), pollCmd())
		return m, tea.Batch(cmds...)

	case refreshDoneMsg:
		m.applyRefresh(msg)
		return m, nil

	case replyMsg:
		m.monitor.Reply(msg.text)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			return m.submit(text)
		case tea.KeyRunes:
			if m.input.Value() == "" && len(msg.Runes) == 1 {
				if sym, ok := m.popularSymbol(msg.Runes[0]); ok {
					return m.selectSymbol(sym)
				}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyEvents drains the queue and returns the commands the events start.
func (m *Model) applyEvents() []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range m.queue.Drain() {
		switch e.Kind {
		case events.KindStatusChanged:
			m.status = e.Text
		case events.KindRefreshRequested:
			cmds = append(cmds, m.refreshCmd(false))
		}
	}
	return cmds
}

func (m *Model) applyRefresh(msg refreshDoneMsg) {
	switch {
	case msg.err == nil:
		m.notice = ""
	case errors.Is(msg.err, monitor.ErrSuperseded):
	case msg.chartOnly:
		m.notice = fmt.Sprintf("Failed to update chart: %v", msg.err)
	default:
		symbol := m.monitor.Symbol()
		var fe *collector.FetchError
		if errors.As(msg.err, &fe) {
			symbol = fe.Symbol
		}
		m.notice = fmt.Sprintf("Failed to fetch data for %s: %v", symbol, msg.err)
	}
}

// popularSymbol maps keys 1-9 and 0 onto the popular symbols.
func (m Model) popularSymbol(r rune) (string, bool) {
	if r < '0' || r > '9' {
		return "", false
	}
	idx := int(r - '1')
	if r == '0' {
		idx = 9
	}
	if idx >= len(m.cfg.Symbols) {
		return "", false
	}
	return m.cfg.Symbols[idx], true
}

func (m Model) selectSymbol(symbol string) (tea.Model, tea.Cmd) {
	if _, err := m.monitor.Select(symbol); err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	return m, m.refreshCmd(false)
}

func (m Model) setChart(opts model.ChartOptions) (tea.Model, tea.Cmd) {
	if err := m.monitor.SetChart(opts); err != nil {
		m.notice = err.Error()
		return m, nil
	}
	return m, m.refreshCmd(true)
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	if text == "" {
		return m, nil
	}
	if !strings.HasPrefix(text, "/") {
		m.monitor.Post(model.SenderUser, text)
		return m, m.replyCmd(text)
	}

	fields := strings.Fields(text)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	opts := m.monitor.Options()
	switch fields[0] {
	case "/symbol":
		return m.selectSymbol(arg)
	case "/period":
		opts.Period = model.ChartPeriod(strings.ToLower(arg))
		return m.setChart(opts)
	case "/ma":
		opts.ShowMA = !opts.ShowMA
		return m.setChart(opts)
	case "/rsi":
		opts.ShowRSI = !opts.ShowRSI
		return m.setChart(opts)
	case "/buy", "/sell", "/watch":
		return m.trade(strings.TrimPrefix(fields[0], "/"))
	case "/refresh":
		return m, m.refreshCmd(false)
	case "/quit":
		return m, tea.Quit
	case "/help":
		m.monitor.Post(model.SenderSystem, helpText)
		return m, nil
	default:
		m.notice = fmt.Sprintf("unknown command %s", fields[0])
		return m, nil
	}
}

func (m Model) trade(action string) (tea.Model, tea.Cmd) {
	if action == "watch" {
		action = monitor.TradeWatchlist
	}
	mon := m.monitor
	return m, func() tea.Msg {
		if _, err := mon.Trade(context.Background(), action); err != nil {
			log.Error().Err(err).Str("action", action).Msg("trade")
		}
		return nil
	}
}

const helpText = "Commands: /symbol SYM, /period 1d|1wk|1mo|3mo|1y|5y, /ma, /rsi, /buy, /sell, /watch, /refresh, /quit. " +
	"Keys 1-0 pick a popular stock when the input is empty."
