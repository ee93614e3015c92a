// Package monitor holds the application state for the watched symbol: the
// selection, the displayed bundle and the chat log.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/calculator"
	"StockAdvisor/internal/collector"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/notifier"
	"StockAdvisor/internal/recorder"
	"StockAdvisor/internal/strategy"
)

// ErrSuperseded is returned when the selection changed while a refresh was
// in flight. The result is discarded.
var ErrSuperseded = errors.New("refresh superseded by a newer selection")

// NoticeTimeout bounds delivery of a fetch-failure notice.
var NoticeTimeout = 30 * time.Second

// Settings configures a Monitor.
type Settings struct {
	Symbol    string
	Chart     model.ChartOptions
	MAWindow  int
	RSIWindow int
	Now       func() time.Time
}

// Monitor owns the active selection and the bundle displayed for it.
type Monitor struct {
	collector *collector.Collector
	engine    *strategy.Engine
	notifier  notifier.Notifier
	recorder  recorder.Recorder

	maWindow  int
	rsiWindow int
	now       func() time.Time

	mu      sync.Mutex
	symbol  string
	options model.ChartOptions

	bundle  atomic.Pointer[model.Bundle]
	version atomic.Uint64

	chatMu   sync.Mutex
	messages []model.ChatMessage
}

// New creates a Monitor. A nil notifier or recorder is replaced by a no-op one.
func New(c *collector.Collector, e *strategy.Engine, n notifier.Notifier, r recorder.Recorder, s Settings) (*Monitor, error) {
	symbol, err := model.NormalizeSymbol(s.Symbol)
	if err != nil {
		return nil, err
	}
	if s.Chart.Period == "" {
		s.Chart.Period = model.Period1M
	}
	if !s.Chart.Period.Valid() {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidPeriod, s.Chart.Period)
	}
	if s.MAWindow <= 0 {
		s.MAWindow = calculator.DefaultMAWindow
	}
	if s.RSIWindow <= 0 {
		s.RSIWindow = calculator.DefaultRSIWindow
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if n == nil {
		n = notifier.NewLogNotifier()
	}
	if r == nil {
		r = recorder.NewNoopRecorder()
	}
	return &Monitor{
		collector: c,
		engine:    e,
		notifier:  n,
		recorder:  r,
		maWindow:  s.MAWindow,
		rsiWindow: s.RSIWindow,
		now:       s.Now,
		symbol:    symbol,
		options:   s.Chart,
	}, nil
}

// Select replaces the active symbol.
func (m *Monitor) Select(symbol string) (string, error) {
	symbol, err := model.NormalizeSymbol(symbol)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.symbol = symbol
	m.mu.Unlock()
	log.Info().Str("symbol", symbol).Msg("symbol selected")
	return symbol, nil
}

// SetChart replaces the chart options.
func (m *Monitor) SetChart(opts model.ChartOptions) error {
	if !opts.Period.Valid() {
		return fmt.Errorf("%w: %s", model.ErrInvalidPeriod, opts.Period)
	}
	m.mu.Lock()
	m.options = opts
	m.mu.Unlock()
	return nil
}

// Symbol returns the active symbol.
func (m *Monitor) Symbol() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.symbol
}

// Options returns the active chart options.
func (m *Monitor) Options() model.ChartOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.options
}

func (m *Monitor) selection() (string, model.ChartOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.symbol, m.options
}

// Bundle returns the displayed bundle, or nil before the first install.
// The returned value must not be modified.
func (m *Monitor) Bundle() *model.Bundle {
	return m.bundle.Load()
}

// Refresh fetches quote and bars for the current selection, recomputes
// indicators and the verdict, and installs the result.
func (m *Monitor) Refresh(ctx context.Context) (*model.Bundle, error) {
	symbol, opts := m.selection()

	quote, err := m.collector.Quote(ctx, symbol)
	if err != nil {
		return nil, m.fetchFailed(ctx, symbol, err)
	}
	bars, err := m.collector.Bars(ctx, symbol, opts.Period)
	if err != nil {
		return nil, m.fetchFailed(ctx, symbol, err)
	}

	b := &model.Bundle{
		Symbol:     symbol,
		Options:    opts,
		Quote:      quote,
		Bars:       bars,
		Indicators: calculator.Compute(bars.Closes(), opts, m.maWindow, m.rsiWindow),
		Verdict:    m.engine.Evaluate(quote),
		FetchedAt:  m.now(),
	}
	return m.install(b)
}

// RefreshChart re-fetches bars only, keeping the displayed quote and verdict.
// Without a bundle for the active symbol it performs a full Refresh.
func (m *Monitor) RefreshChart(ctx context.Context) (*model.Bundle, error) {
	symbol, opts := m.selection()
	cur := m.bundle.Load()
	if cur == nil || cur.Symbol != symbol {
		return m.Refresh(ctx)
	}

	bars, err := m.collector.Bars(ctx, symbol, opts.Period)
	if err != nil {
		return nil, m.fetchFailed(ctx, symbol, err)
	}

	b := &model.Bundle{
		Symbol:     symbol,
		Options:    opts,
		Quote:      cur.Quote,
		Bars:       bars,
		Indicators: calculator.Compute(bars.Closes(), opts, m.maWindow, m.rsiWindow),
		Verdict:    cur.Verdict,
		FetchedAt:  m.now(),
	}
	return m.install(b)
}

// install publishes b if the selection it was built for is still active.
func (m *Monitor) install(b *model.Bundle) (*model.Bundle, error) {
	m.mu.Lock()
	if b.Symbol != m.symbol || b.Options != m.options {
		m.mu.Unlock()
		log.Debug().Str("symbol", b.Symbol).Str("active", m.Symbol()).Msg("refresh superseded")
		return nil, ErrSuperseded
	}
	b.Version = m.version.Add(1)
	m.bundle.Store(b)
	m.mu.Unlock()

	log.Info().Str("symbol", b.Symbol).Uint64("version", b.Version).
		Str("period", string(b.Options.Period)).Int("bars", b.Bars.Len()).
		Str("action", string(b.Verdict.Action)).Msg("refresh installed")

	rec := &recorder.RefreshRecord{
		Version:   b.Version,
		Symbol:    b.Symbol,
		Period:    string(b.Options.Period),
		Bars:      b.Bars.Len(),
		Price:     b.Quote.CurrentPrice,
		LastMA:    model.Last(b.Indicators.MA),
		LastRSI:   model.Last(b.Indicators.RSI),
		Action:    string(b.Verdict.Action),
		Rationale: b.Verdict.Rationale,
		FetchedAt: b.FetchedAt,
	}
	if err := m.recorder.RecordRefresh(rec); err != nil {
		log.Error().Err(err).Msg("record refresh")
	}
	return b, nil
}

// fetchFailed reports a failed fetch through the notifier and returns err.
func (m *Monitor) fetchFailed(ctx context.Context, symbol string, err error) error {
	log.Warn().Err(err).Str("symbol", symbol).Msg("fetch failed")

	// the refresh deadline may already be spent
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NoticeTimeout)
	defer cancel()
	m.notify(nctx, fmt.Sprintf("Failed to fetch data for %s: %v", symbol, err))
	return err
}

func (m *Monitor) notify(ctx context.Context, text string) {
	if err := m.notifier.Notify(ctx, text); err != nil {
		log.Error().Err(err).Msg("notify")
	}
}
