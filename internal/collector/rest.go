package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"StockAdvisor/internal/model"
)

// RestFetcher implements Fetcher against a plain JSON REST provider.
type RestFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRestFetcher creates a new fetcher with optional proxy support.
func NewRestFetcher(baseURL, apiKey, proxyURL string) *RestFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RestFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RestFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// restQuote is the expected JSON shape of a quote; absent values are null.
type restQuote struct {
	LongName      *string  `json:"long_name"`
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previous_close"`
	MarketCap     *float64 `json:"market_cap"`
	TrailingPE    *float64 `json:"trailing_pe"`
	PEGRatio      *float64 `json:"peg_ratio"`
	ProfitMargin  *float64 `json:"profit_margin"`
	DebtToEquity  *float64 `json:"debt_to_equity"`
}

func (f *RestFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var rq restQuote
	if err := f.getJSON(ctx, endpoint, &rq); err != nil {
		return model.Quote{}, fmt.Errorf("fetch quote: %w", err)
	}
	return model.Quote{
		Symbol:        symbol,
		LongName:      null.StringFromPtr(rq.LongName),
		CurrentPrice:  null.FloatFromPtr(rq.Price),
		PreviousClose: null.FloatFromPtr(rq.PreviousClose),
		MarketCap:     null.FloatFromPtr(rq.MarketCap),
		PERatio:       null.FloatFromPtr(rq.TrailingPE),
		PEGRatio:      null.FloatFromPtr(rq.PEGRatio),
		ProfitMargin:  null.FloatFromPtr(rq.ProfitMargin),
		DebtToEquity:  null.FloatFromPtr(rq.DebtToEquity),
	}, nil
}

func (f *RestFetcher) FetchBars(ctx context.Context, symbol string, req model.BarRequest) ([]model.OHLCV, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars?symbol=%s&range=%s&interval=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(req.Range), url.QueryEscape(req.Interval))
	var rbs []restBar
	if err := f.getJSON(ctx, endpoint, &rbs); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	if len(rbs) == 0 {
		return nil, ErrNoData
	}
	bars := make([]model.OHLCV, 0, len(rbs))
	for _, rb := range rbs {
		if rb.Open == 0 && rb.High == 0 && rb.Low == 0 && rb.Close == 0 {
			continue // skip null bars
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(rb.Timestamp, 0),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *RestFetcher) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
