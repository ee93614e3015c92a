package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null/v6"

	"StockAdvisor/internal/model"
)

// MockFetcher returns generated data for offline runs and tests.
type MockFetcher struct {
	// Prices maps a symbol to its base price. Unknown symbols fail unless Default is set.
	Prices  map[string]float64
	Default float64
	Now     func() time.Time
}

// NewMockFetcher creates a MockFetcher seeded with a few well-known tickers.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Prices: map[string]float64{
			"AAPL": 189.5, "MSFT": 415.2, "GOOGL": 152.8, "AMZN": 178.3, "TSLA": 175.1,
			"META": 495.0, "NVDA": 880.4, "JPM": 198.6, "V": 276.9, "WMT": 60.3,
		},
		Now: time.Now,
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) price(symbol string) (float64, error) {
	if p, ok := m.Prices[symbol]; ok {
		return p, nil
	}
	if m.Default > 0 {
		return m.Default, nil
	}
	return 0, fmt.Errorf("unknown symbol %q", symbol)
}

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (model.Quote, error) {
	p, err := m.price(symbol)
	if err != nil {
		return model.Quote{}, err
	}
	return model.Quote{
		Symbol:        symbol,
		LongName:      null.StringFrom(symbol + " Inc."),
		CurrentPrice:  null.FloatFrom(p),
		PreviousClose: null.FloatFrom(p * 0.99),
		MarketCap:     null.FloatFrom(p * 1e10),
		PERatio:       null.FloatFrom(28.4),
		PEGRatio:      null.Float{},
		ProfitMargin:  null.FloatFrom(0.25),
		DebtToEquity:  null.FloatFrom(145.3),
	}, nil
}

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, req model.BarRequest) ([]model.OHLCV, error) {
	p, err := m.price(symbol)
	if err != nil {
		return nil, err
	}
	step, count := mockLayout(req)
	end := time.Now()
	if m.Now != nil {
		end = m.Now()
	}
	if req.Interval == "5m" {
		// intraday bars end at today's close so the session filter keeps them all
		end = time.Date(end.Year(), end.Month(), end.Day(), 16, 0, 0, 0, end.Location())
	}
	return generateMockBars(p, count, end, step), nil
}

func mockLayout(req model.BarRequest) (time.Duration, int) {
	switch req.Interval {
	case "5m":
		return 5 * time.Minute, 78
	case "60m":
		return time.Hour, 35
	}
	switch req.Range {
	case "1mo":
		return 24 * time.Hour, 22
	case "3mo":
		return 24 * time.Hour, 63
	case "1y":
		return 24 * time.Hour, 252
	case "5y":
		return 24 * time.Hour, 1260
	default:
		return 24 * time.Hour, 22
	}
}

func generateMockBars(basePrice float64, count int, end time.Time, step time.Duration) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
