// Package twelvedata reads stock quotes from the Twelve Data quote endpoint.
package twelvedata

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/fault"
	"bondfeed/internal/fixtures"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

const (
	Name           = "twelvedata"
	DefaultBaseURL = "https://api.twelvedata.com"
	// DemoKey is the placeholder key shipped in sample configs.
	DemoKey = "demo"
)

// Defaults for the free tier: 8 calls per minute.
var Defaults = provider.Config{
	BaseURL:   DefaultBaseURL,
	RateLimit: 7500 * time.Millisecond,
	CacheTTL:  15 * time.Minute,
}

// exchanges maps ticker suffixes to Twelve Data exchange codes.
var exchanges = map[string]string{
	".PA": "EURONEXT",
	".MI": "MIL",
	".AS": "AMS",
}

// Adapter fetches one quote per symbol.
type Adapter struct {
	client *provider.Client
}

// New builds the Twelve Data adapter. The demo key counts as no key.
func New(cfg provider.Config, deps provider.Deps, logger zerolog.Logger) *Adapter {
	available := provider.WithAvailability(func(cfg provider.Config) bool {
		key := strings.TrimSpace(cfg.APIKey)
		return cfg.Enabled && key != "" && key != DemoKey
	})
	return &Adapter{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger, available)}
}

func (a *Adapter) Name() string    { return Name }
func (a *Adapter) Available() bool { return a.client.Available() }

type quoteResponse struct {
	Code          int             `json:"code"`
	Message       string          `json:"message"`
	Status        string          `json:"status"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Timestamp     int64           `json:"timestamp"`
	Open          provider.Number `json:"open"`
	High          provider.Number `json:"high"`
	Low           provider.Number `json:"low"`
	Close         provider.Number `json:"close"`
	Volume        provider.Number `json:"volume"`
	PreviousClose provider.Number `json:"previous_close"`
	Change        provider.Number `json:"change"`
	PercentChange provider.Number `json:"percent_change"`
	FiftyTwoWeek  struct {
		Low  provider.Number `json:"low"`
		High provider.Number `json:"high"`
	} `json:"fifty_two_week"`
}

// SplitSymbol strips a known exchange suffix and returns the exchange code.
func SplitSymbol(symbol string) (string, string) {
	for suffix, exchange := range exchanges {
		if strings.HasSuffix(strings.ToUpper(symbol), suffix) {
			return symbol[:len(symbol)-len(suffix)], exchange
		}
	}
	return symbol, ""
}

// FetchOne returns the quote of a stock symbol. Index tickers are not served.
func (a *Adapter) FetchOne(ctx context.Context, symbol string) (*market.Quote, error) {
	if strings.HasPrefix(symbol, "^") {
		return nil, fault.Configuration(Name, "index %s is not served", symbol)
	}

	return provider.Fetch(ctx, a.client, symbol, 0, func(ctx context.Context) (*market.Quote, error) {
		clean, exchange := SplitSymbol(symbol)
		query := url.Values{}
		query.Set("symbol", clean)
		if exchange != "" {
			query.Set("exchange", exchange)
		}
		query.Set("apikey", a.client.APIKey())

		var resp quoteResponse
		if err := a.client.GetJSON(ctx, a.client.Endpoint("/quote", query), nil, &resp); err != nil {
			return nil, err
		}
		if resp.Code != 0 && resp.Code != http.StatusOK {
			return nil, classify(resp)
		}
		return a.normalize(symbol, resp)
	})
}

func (a *Adapter) normalize(symbol string, resp quoteResponse) (*market.Quote, error) {
	priceField := resp.Close
	if !priceField.Valid {
		priceField = resp.PreviousClose
	}
	price, err := provider.Require(Name, "close", priceField)
	if err != nil {
		return nil, err
	}

	now := a.client.Now()
	q := &market.Quote{
		Symbol:        symbol,
		Name:          resp.Name,
		Price:         price,
		Change:        provider.Optional(resp.Change),
		ChangePercent: provider.Optional(resp.PercentChange),
		Open:          provider.Optional(resp.Open),
		PreviousClose: provider.Optional(resp.PreviousClose),
		DayLow:        provider.Optional(resp.Low),
		DayHigh:       provider.Optional(resp.High),
		YearLow:       provider.Optional(resp.FiftyTwoWeek.Low),
		YearHigh:      provider.Optional(resp.FiftyTwoWeek.High),
		Volume:        provider.Optional(resp.Volume),
		Timestamp:     now,
		Origin:        market.Origin{Source: Name, FetchedAt: now},
	}
	if market.KnownCurrency(resp.Currency) {
		q.Currency = strings.ToUpper(resp.Currency)
	}
	if resp.Timestamp > 0 {
		q.Timestamp = time.Unix(resp.Timestamp, 0).UTC()
	}
	q.DeriveChange(q.PreviousClose)
	return q, nil
}

func classify(resp quoteResponse) error {
	err := errors.New(resp.Message)
	switch resp.Code {
	case http.StatusTooManyRequests:
		return fault.Quota(Name, 0, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fault.Configuration(Name, "%s", resp.Message)
	default:
		return fault.Shape(Name, "api error %d: %s", resp.Code, resp.Message)
	}
}

// Fallback returns the static reference quote.
func (a *Adapter) Fallback(symbol string) (*market.Quote, bool) {
	return fixtures.QuoteFallback(symbol)
}

var _ provider.Adapter[*market.Quote] = (*Adapter)(nil)
