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
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/model"
)

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client     *http.Client
	ChartURL   string
	SummaryURL string
	SymbolMap  map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		ChartURL:   "https://query1.finance.yahoo.com/v8/finance/chart",
		SummaryURL: "https://query2.finance.yahoo.com/v10/finance/quoteSummary",
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				LongName             string   `json:"longName"`
				ShortName            string   `json:"shortName"`
				ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
				RegularMarketPrice   *float64 `json:"regularMarketPrice"`
				PreviousClose        *float64 `json:"previousClose"`
				ChartPreviousClose   *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooValue is the {raw, fmt} pair used by quoteSummary.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName  string     `json:"longName"`
				MarketCap yahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE yahooValue `json:"trailingPE"`
				MarketCap  yahooValue `json:"marketCap"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				PEGRatio yahooValue `json:"pegRatio"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				ProfitMargins yahooValue `json:"profitMargins"`
				DebtToEquity  yahooValue `json:"debtToEquity"`
			} `json:"financialData"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(values []interface{}, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return toFloat(values[i])
}

func (f *YahooFetcher) get(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		f.ChartURL, url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape(interval), url.QueryEscape(rng))

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, ErrNoData
	}
	return &chart, nil
}

func (f *YahooFetcher) FetchBars(ctx context.Context, symbol string, req model.BarRequest) ([]model.OHLCV, error) {
	chart, err := f.fetchChart(ctx, symbol, req.Interval, req.Range)
	if err != nil {
		return nil, err
	}
	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	loc := time.Local
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).In(loc),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	chart, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return model.Quote{}, err
	}
	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil {
		return model.Quote{}, ErrNoData
	}

	q := model.Quote{
		Symbol:       symbol,
		CurrentPrice: null.FloatFromPtr(meta.RegularMarketPrice),
	}
	if meta.PreviousClose != nil {
		q.PreviousClose = null.FloatFromPtr(meta.PreviousClose)
	} else {
		q.PreviousClose = null.FloatFromPtr(meta.ChartPreviousClose)
	}
	switch {
	case meta.LongName != "":
		q.LongName = null.StringFrom(meta.LongName)
	case meta.ShortName != "":
		q.LongName = null.StringFrom(meta.ShortName)
	}

	// Fundamentals are best-effort; the price alone is a usable quote.
	if err := f.fillFundamentals(ctx, symbol, &q); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("yahoo fundamentals unavailable")
	}
	return q, nil
}

func (f *YahooFetcher) fillFundamentals(ctx context.Context, symbol string, q *model.Quote) error {
	u := fmt.Sprintf("%s/%s?modules=price,summaryDetail,defaultKeyStatistics,financialData",
		f.SummaryURL, url.PathEscape(f.yahooSymbol(symbol)))

	var summary yahooSummary
	if err := f.get(ctx, u, &summary); err != nil {
		return err
	}
	if summary.QuoteSummary.Error != nil {
		return fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return ErrNoData
	}

	r := summary.QuoteSummary.Result[0]
	if r.Price.LongName != "" {
		q.LongName = null.StringFrom(r.Price.LongName)
	}
	q.MarketCap = null.FloatFromPtr(r.Price.MarketCap.Raw)
	if !q.MarketCap.Valid {
		q.MarketCap = null.FloatFromPtr(r.SummaryDetail.MarketCap.Raw)
	}
	q.PERatio = null.FloatFromPtr(r.SummaryDetail.TrailingPE.Raw)
	q.PEGRatio = null.FloatFromPtr(r.DefaultKeyStatistics.PEGRatio.Raw)
	q.ProfitMargin = null.FloatFromPtr(r.FinancialData.ProfitMargins.Raw)
	q.DebtToEquity = null.FloatFromPtr(r.FinancialData.DebtToEquity.Raw)
	return nil
}
