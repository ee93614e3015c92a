package collector

import (
	"context"
	"errors"
	"fmt"

	"StockAdvisor/internal/model"
)

// ErrNoData is returned when a provider answers without usable data.
var ErrNoData = errors.New("no data returned")

// Fetcher is the market data gateway: read-only access to one provider.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	FetchBars(ctx context.Context, symbol string, req model.BarRequest) ([]model.OHLCV, error)
	Name() string
}

// FetchError reports a failed provider call. The currently displayed data
// must be left as it is when one is returned.
type FetchError struct {
	Symbol string
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s for %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
