// Package marketstack reads end-of-day quotes from Marketstack.
package marketstack

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bondfeed/internal/fault"
	"bondfeed/internal/fixtures"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

const (
	Name           = "marketstack"
	DefaultBaseURL = "https://api.marketstack.com/v1"
)

// Defaults for the free tier.
var Defaults = provider.Config{
	BaseURL:   DefaultBaseURL,
	RateLimit: time.Second,
	CacheTTL:  15 * time.Minute,
}

// Adapter fetches the latest end-of-day bar per symbol.
type Adapter struct {
	client *provider.Client
}

// New builds the Marketstack adapter. APIKey carries the access key.
func New(cfg provider.Config, deps provider.Deps, logger zerolog.Logger) *Adapter {
	return &Adapter{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger)}
}

func (a *Adapter) Name() string    { return Name }
func (a *Adapter) Available() bool { return a.client.Available() }

type eodResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Data []struct {
		Symbol string          `json:"symbol"`
		Open   provider.Number `json:"open"`
		High   provider.Number `json:"high"`
		Low    provider.Number `json:"low"`
		Close  provider.Number `json:"close"`
		Volume provider.Number `json:"volume"`
		Date   string          `json:"date"`
	} `json:"data"`
}

// Symbol maps a Euronext Paris ticker to its Marketstack form.
func Symbol(symbol string) string {
	if base, ok := strings.CutSuffix(strings.ToUpper(symbol), ".PA"); ok {
		return base + ".XPAR"
	}
	return symbol
}

// FetchOne returns the latest bar of symbol as a quote. Change is measured
// against the session open.
func (a *Adapter) FetchOne(ctx context.Context, symbol string) (*market.Quote, error) {
	return provider.Fetch(ctx, a.client, symbol, 0, func(ctx context.Context) (*market.Quote, error) {
		query := url.Values{}
		query.Set("access_key", a.client.APIKey())
		query.Set("symbols", Symbol(symbol))
		query.Set("limit", "1")

		var resp eodResponse
		if err := a.client.GetJSON(ctx, a.client.Endpoint("/eod/latest", query), nil, &resp); err != nil {
			return nil, err
		}
		if resp.Error != nil {
			return nil, classify(resp.Error.Code, resp.Error.Message)
		}
		if len(resp.Data) == 0 {
			return nil, fault.Shape(Name, "no bar for %s", symbol)
		}

		bar := resp.Data[0]
		price, err := provider.Require(Name, "close", bar.Close)
		if err != nil {
			return nil, err
		}

		now := a.client.Now()
		q := &market.Quote{
			Symbol:        symbol,
			Price:         price,
			Open:          provider.Optional(bar.Open),
			PreviousClose: provider.Optional(bar.Open),
			DayLow:        provider.Optional(bar.Low),
			DayHigh:       provider.Optional(bar.High),
			Volume:        provider.Optional(bar.Volume),
			Timestamp:     now,
			Origin:        market.Origin{Source: Name, FetchedAt: now},
		}
		if t, err := time.Parse("2006-01-02T15:04:05-0700", bar.Date); err == nil {
			q.Timestamp = t.UTC()
		}
		q.DeriveChange(q.Open)
		if !q.Change.Valid {
			q.Change = decimal.NewNullDecimal(decimal.Zero)
		}
		return q, nil
	})
}

func classify(code, msg string) error {
	lower := strings.ToLower(code)
	switch {
	case strings.Contains(lower, "limit"):
		return fault.Quota(Name, 0, errors.New(msg))
	case strings.Contains(lower, "access_key") || strings.Contains(lower, "unauthorized"):
		return fault.Configuration(Name, "%s", msg)
	default:
		return fault.Shape(Name, "api error %s: %s", code, msg)
	}
}

// Fallback returns the static reference quote.
func (a *Adapter) Fallback(symbol string) (*market.Quote, bool) {
	return fixtures.QuoteFallback(symbol)
}

var _ provider.Adapter[*market.Quote] = (*Adapter)(nil)
