package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"StockAdvisor/internal/collector"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/notifier"
	"StockAdvisor/internal/strategy"
)

var fixedNow = time.Date(2024, 3, 1, 11, 0, 0, 0, time.Local)

type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingNotifier) Notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return nil
}

func (r *recordingNotifier) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

// blockingFetcher holds quote fetches for one symbol until released.
type blockingFetcher struct {
	*collector.MockFetcher
	symbol  string
	started chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	if symbol == f.symbol {
		close(f.started)
		<-f.release
	}
	return f.MockFetcher.FetchQuote(ctx, symbol)
}

func newMonitor(t *testing.T, f collector.Fetcher, n *recordingNotifier) *Monitor {
	t.Helper()
	m, err := New(collector.NewCollector(f), strategy.NewEngine(1), n, nil, Settings{
		Symbol: " aapl ",
		Chart:  model.ChartOptions{Period: model.Period1M, ShowMA: true},
		Now:    func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	return m
}

func TestNew_Validation(t *testing.T) {
	f := collector.NewMockFetcher()
	if _, err := New(collector.NewCollector(f), strategy.NewEngine(1), nil, nil, Settings{Symbol: "  "}); !errors.Is(err, model.ErrEmptySymbol) {
		t.Errorf("expected ErrEmptySymbol, got %v", err)
	}
	_, err := New(collector.NewCollector(f), strategy.NewEngine(1), nil, nil, Settings{
		Symbol: "AAPL",
		Chart:  model.ChartOptions{Period: "2w"},
	})
	if !errors.Is(err, model.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestRefresh_Installs(t *testing.T) {
	m := newMonitor(t, collector.NewMockFetcher(), &recordingNotifier{})
	if m.Bundle() != nil {
		t.Fatal("expected no bundle before first refresh")
	}

	b, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if b.Version != 1 || b.Symbol != "AAPL" {
		t.Errorf("unexpected bundle version=%d symbol=%s", b.Version, b.Symbol)
	}
	if b.Bars.Len() != 22 {
		t.Errorf("expected 22 daily bars, got %d", b.Bars.Len())
	}
	if !b.Indicators.HasMA() || b.Indicators.MAWindow != 11 {
		t.Errorf("expected MA with effective window 11, got has=%v window=%d", b.Indicators.HasMA(), b.Indicators.MAWindow)
	}
	if b.Indicators.HasRSI() {
		t.Error("RSI was not requested")
	}
	if m.Bundle() != b {
		t.Error("Bundle() should return the installed value")
	}
}

func TestRefresh_SupersededBySelection(t *testing.T) {
	f := &blockingFetcher{
		MockFetcher: collector.NewMockFetcher(),
		symbol:      "AAPL",
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	m := newMonitor(t, f, &recordingNotifier{})

	errc := make(chan error, 1)
	go func() {
		_, err := m.Refresh(context.Background())
		errc <- err
	}()
	<-f.started

	if _, err := m.Select("MSFT"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("MSFT refresh: %v", err)
	}
	close(f.release)

	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected ErrSuperseded for stale AAPL refresh, got %v", err)
	}

	b := m.Bundle()
	if b.Symbol != "MSFT" || b.Quote.Symbol != "MSFT" || b.Bars.Symbol != "MSFT" {
		t.Errorf("bundle mixes symbols: bundle=%s quote=%s bars=%s", b.Symbol, b.Quote.Symbol, b.Bars.Symbol)
	}
	if b.Quote.CurrentPrice.Float64 != 415.2 {
		t.Errorf("expected MSFT price, got %v", b.Quote.CurrentPrice.Float64)
	}
}

func TestRefresh_FetchErrorKeepsBundle(t *testing.T) {
	n := &recordingNotifier{}
	m := newMonitor(t, collector.NewMockFetcher(), n)

	first, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Select("ZZZZ"); err != nil {
		t.Fatal(err)
	}

	_, err = m.Refresh(context.Background())
	var fe *collector.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Symbol != "ZZZZ" {
		t.Errorf("expected ZZZZ, got %s", fe.Symbol)
	}
	if m.Bundle() != first {
		t.Error("failed refresh must leave the bundle unchanged")
	}
	if !strings.HasPrefix(n.last(), "Failed to fetch data for ZZZZ") {
		t.Errorf("unexpected notice %q", n.last())
	}
}

func TestRefreshChart_ReusesQuoteAndVerdict(t *testing.T) {
	m := newMonitor(t, collector.NewMockFetcher(), &recordingNotifier{})
	first, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	opts := model.ChartOptions{Period: model.Period1D, ShowMA: true, ShowRSI: true}
	if err := m.SetChart(opts); err != nil {
		t.Fatal(err)
	}
	b, err := m.RefreshChart(context.Background())
	if err != nil {
		t.Fatalf("refresh chart: %v", err)
	}
	if b.Version != first.Version+1 {
		t.Errorf("expected version %d, got %d", first.Version+1, b.Version)
	}
	if b.Quote != first.Quote {
		t.Error("chart refresh must reuse the quote")
	}
	if b.Verdict.Action != first.Verdict.Action || b.Verdict.Rationale != first.Verdict.Rationale ||
		!b.Verdict.GeneratedAt.Equal(first.Verdict.GeneratedAt) {
		t.Error("chart refresh must reuse the verdict")
	}
	if b.Bars.Interval != "5m" || b.Bars.Len() != 78 {
		t.Errorf("expected 78 intraday bars, got %d at %s", b.Bars.Len(), b.Bars.Interval)
	}
	if b.Indicators.MAWindow != 50 || !b.Indicators.HasRSI() {
		t.Errorf("expected MA 50 and RSI, got window=%d rsi=%v", b.Indicators.MAWindow, b.Indicators.HasRSI())
	}
}

func TestRefreshChart_FallsBackToRefresh(t *testing.T) {
	m := newMonitor(t, collector.NewMockFetcher(), &recordingNotifier{})
	b, err := m.RefreshChart(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.Symbol != "AAPL" || !b.Quote.CurrentPrice.Valid {
		t.Error("expected a full bundle")
	}
}

func TestSetChart_InvalidPeriod(t *testing.T) {
	m := newMonitor(t, collector.NewMockFetcher(), &recordingNotifier{})
	if err := m.SetChart(model.ChartOptions{Period: "10y"}); !errors.Is(err, model.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
	if m.Options().Period != model.Period1M {
		t.Error("invalid options must not be applied")
	}
}

func TestChat(t *testing.T) {
	m := newMonitor(t, collector.NewMockFetcher(), &recordingNotifier{})

	reply := m.Reply("Can you tell me the price?")
	if reply.Body != "The current price of AAPL is N/A." {
		t.Errorf("unexpected reply before refresh: %q", reply.Body)
	}

	b, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	m.Post(model.SenderUser, "what do you recommend?")
	reply = m.Reply("what do you recommend?")
	want := "Our AI recommends: " + string(b.Verdict.Action) + "."
	if !strings.HasPrefix(reply.Body, want) {
		t.Errorf("expected prefix %q, got %q", want, reply.Body)
	}

	msgs := m.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Sender != model.SenderUser || msgs[2].Sender != model.SenderAdvisor {
		t.Errorf("unexpected senders %s, %s", msgs[1].Sender, msgs[2].Sender)
	}
	if msgs[0].ID == msgs[1].ID {
		t.Error("message ids must be unique")
	}

	msgs[0].Body = "changed"
	if m.Messages()[0].Body == "changed" {
		t.Error("Messages must return a copy")
	}
}

func TestTrade(t *testing.T) {
	n := &recordingNotifier{}
	m := newMonitor(t, collector.NewMockFetcher(), n)
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	text, err := m.Trade(context.Background(), TradeBuy)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Buy order placed for AAPL at $189.50" || n.last() != text {
		t.Errorf("unexpected confirmation %q (notified %q)", text, n.last())
	}
	msgs := m.Messages()
	if got := msgs[len(msgs)-1]; got.Sender != model.SenderSystem || got.Body != "Action: buy for AAPL" {
		t.Errorf("unexpected system line %s: %q", got.Sender, got.Body)
	}

	if _, err := m.Trade(context.Background(), TradeWatchlist); err != nil {
		t.Fatal(err)
	}
	if n.last() != "AAPL added to your watchlist" {
		t.Errorf("unexpected watchlist notice %q", n.last())
	}

	if _, err := m.Trade(context.Background(), "short"); !errors.Is(err, ErrUnknownTrade) {
		t.Errorf("expected ErrUnknownTrade, got %v", err)
	}
}

// stalledFetcher never answers a quote before the caller gives up.
type stalledFetcher struct {
	*collector.MockFetcher
}

func (f *stalledFetcher) FetchQuote(ctx context.Context, _ string) (model.Quote, error) {
	<-ctx.Done()
	return model.Quote{}, ctx.Err()
}

func TestRefresh_TimeoutNoticeDelivered(t *testing.T) {
	var (
		mu    sync.Mutex
		texts []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		texts = append(texts, payload["text"])
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tn := notifier.NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	m, err := New(collector.NewCollector(&stalledFetcher{collector.NewMockFetcher()}), strategy.NewEngine(1), tn, nil,
		Settings{Symbol: "AAPL"})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = m.Refresh(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(texts) != 1 {
		t.Fatalf("expected 1 telegram notice, got %d", len(texts))
	}
	if !strings.HasPrefix(texts[0], "Failed to fetch data for AAPL") {
		t.Errorf("unexpected notice %q", texts[0])
	}
}
