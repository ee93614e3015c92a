package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockAdvisor/internal/model"
)

// stubFetcher returns fixed bars and records the last request.
type stubFetcher struct {
	bars    []model.OHLCV
	err     error
	lastReq model.BarRequest
}

func (s *stubFetcher) Name() string { return "stub" }

func (s *stubFetcher) FetchQuote(_ context.Context, symbol string) (model.Quote, error) {
	return model.Quote{Symbol: symbol}, s.err
}

func (s *stubFetcher) FetchBars(_ context.Context, _ string, req model.BarRequest) ([]model.OHLCV, error) {
	s.lastReq = req
	return s.bars, s.err
}

func TestRequestFor(t *testing.T) {
	tests := []struct {
		period   model.ChartPeriod
		rng      string
		interval string
		session  bool
	}{
		{model.Period1D, "1d", "5m", true},
		{model.Period1W, "5d", "60m", false},
		{model.Period5D, "5d", "60m", false},
		{model.Period1M, "1mo", "1d", false},
		{model.Period3M, "3mo", "1d", false},
		{model.Period1Y, "1y", "1d", false},
		{model.Period5Y, "5y", "1d", false},
	}
	for _, tt := range tests {
		req, session := RequestFor(tt.period)
		if req.Range != tt.rng || req.Interval != tt.interval || session != tt.session {
			t.Errorf("%s: expected %s/%s session=%v, got %s/%s session=%v",
				tt.period, tt.rng, tt.interval, tt.session, req.Range, req.Interval, session)
		}
	}
}

func TestBars_SessionFilterAndOrder(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) }
	stub := &stubFetcher{bars: []model.OHLCV{
		{Time: day(16, 0), Close: 5},
		{Time: day(9, 25), Close: 1},
		{Time: day(9, 30), Close: 2},
		{Time: day(12, 0), Close: 3},
		{Time: day(16, 5), Close: 6},
		{Time: day(15, 55), Close: 4},
	}}
	c := NewCollector(stub)

	series, err := c.Bars(context.Background(), "AAPL", model.Period1D)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{2, 3, 4, 5}
	got := series.Closes()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %.0f, got %.0f", i, want[i], got[i])
		}
	}
	if series.Interval != "5m" || series.Symbol != "AAPL" || series.Period != model.Period1D {
		t.Errorf("unexpected series header: %+v", series)
	}

	// daily periods are not filtered
	series, _ = c.Bars(context.Background(), "AAPL", model.Period1M)
	if series.Len() != 6 {
		t.Errorf("expected 6 bars unfiltered, got %d", series.Len())
	}
	if stub.lastReq.Range != "1mo" {
		t.Errorf("expected range 1mo, got %s", stub.lastReq.Range)
	}
}

func TestFetchErrorWrapping(t *testing.T) {
	c := NewCollector(&stubFetcher{err: ErrNoData})
	_, err := c.Quote(context.Background(), "ZZZZ")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fe.Symbol != "ZZZZ" || fe.Op != "quote" {
		t.Errorf("unexpected fetch error: %+v", fe)
	}
	if !errors.Is(err, ErrNoData) {
		t.Error("expected wrapped ErrNoData")
	}
}

func TestMockFetcher(t *testing.T) {
	c := NewCollector(NewMockFetcher())
	q, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.CurrentPrice.Valid || q.PEGRatio.Valid {
		t.Errorf("unexpected mock quote: %+v", q)
	}
	series, err := c.Bars(context.Background(), "AAPL", model.Period1D)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 78 {
		t.Errorf("expected all 78 intraday bars inside the session, got %d", series.Len())
	}
	if _, err := c.Quote(context.Background(), "NOPE"); err == nil {
		t.Error("expected error for unknown symbol")
	}
}

func TestYahooFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chart/AAPL":
			w.Write([]byte(`{"chart":{"result":[{"meta":{"longName":"Apple Inc.","exchangeTimezoneName":"UTC",
				"regularMarketPrice":190.5,"previousClose":188.0},
				"timestamp":[1700000120,1700000000,1700000060],
				"indicators":{"quote":[{"open":[3,1,null],"high":[3,1,null],"low":[3,1,null],"close":[3,1,null],"volume":[30,10,null]}]}}],
				"error":null}}`))
		case "/summary/AAPL":
			w.Write([]byte(`{"quoteSummary":{"result":[{"price":{"longName":"Apple Inc.","marketCap":{"raw":2.9e12}},
				"summaryDetail":{"trailingPE":{"raw":29.1}},"defaultKeyStatistics":{"pegRatio":{}},
				"financialData":{"profitMargins":{"raw":0.24},"debtToEquity":{"raw":150.2}}}],"error":null}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
		}
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.ChartURL = srv.URL + "/chart"
	f.SummaryURL = srv.URL + "/summary"

	bars, err := f.FetchBars(context.Background(), "AAPL", model.BarRequest{Range: "1mo", Interval: "1d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || bars[0].Close != 1 || bars[1].Close != 3 {
		t.Errorf("expected two sorted non-null bars, got %+v", bars)
	}

	q, err := f.FetchQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CurrentPrice.Float64 != 190.5 || q.PreviousClose.Float64 != 188 {
		t.Errorf("unexpected price fields: %+v", q)
	}
	if q.PERatio.Float64 != 29.1 || q.PEGRatio.Valid || q.DebtToEquity.Float64 != 150.2 {
		t.Errorf("unexpected fundamentals: %+v", q)
	}
	if q.LongName.String != "Apple Inc." {
		t.Errorf("expected long name, got %q", q.LongName.String)
	}

	if _, err := f.FetchQuote(context.Background(), "NOPE"); err == nil {
		t.Error("expected error for unknown symbol")
	}
}

func TestRestFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/v1/quote":
			w.Write([]byte(`{"price":101.5,"previous_close":100,"trailing_pe":null}`))
		case "/api/v1/bars":
			if r.URL.Query().Get("interval") != "60m" {
				t.Errorf("unexpected interval %q", r.URL.Query().Get("interval"))
			}
			w.Write([]byte(`[{"timestamp":200,"close":2},{"timestamp":100,"close":1}]`))
		}
	}))
	defer srv.Close()

	f := NewRestFetcher(srv.URL, "secret", "")
	q, err := f.FetchQuote(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CurrentPrice.Float64 != 101.5 || q.PERatio.Valid || q.LongName.Valid {
		t.Errorf("unexpected quote: %+v", q)
	}
	bars, err := f.FetchBars(context.Background(), "MSFT", model.BarRequest{Range: "5d", Interval: "60m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || bars[0].Close != 1 {
		t.Errorf("expected sorted bars, got %+v", bars)
	}

	f.APIKey = "wrong"
	if _, err := f.FetchQuote(context.Background(), "MSFT"); err == nil {
		t.Error("expected error on unauthorized")
	}
}

func TestRestFetcher_SkipsNullBars(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		closes  []float64
		wantErr error
	}{
		{
			name:   "null bar dropped",
			body:   `[{"timestamp":100,"open":1,"high":1,"low":1,"close":1},{"timestamp":200},{"timestamp":300,"open":3,"high":3,"low":3,"close":3}]`,
			closes: []float64{1, 3},
		},
		{
			name:    "only null bars",
			body:    `[{"timestamp":100},{"timestamp":200,"volume":5}]`,
			wantErr: ErrNoData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewRestFetcher(srv.URL, "", "")
			bars, err := f.FetchBars(context.Background(), "MSFT", model.BarRequest{Range: "1mo", Interval: "1d"})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(bars) != len(tt.closes) {
				t.Fatalf("expected %d bars, got %+v", len(tt.closes), bars)
			}
			for i, c := range tt.closes {
				if bars[i].Close != c {
					t.Errorf("index %d: expected close %.0f, got %.0f", i, c, bars[i].Close)
				}
			}
		})
	}
}
