package fmp

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/fault"
	"bondfeed/internal/fixtures"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

// Quotes fetches /quote/{symbol}.
type Quotes struct {
	client *provider.Client
}

// NewQuotes builds the quote adapter.
func NewQuotes(cfg provider.Config, deps provider.Deps, logger zerolog.Logger) *Quotes {
	return &Quotes{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger)}
}

func (q *Quotes) Name() string    { return Name }
func (q *Quotes) Available() bool { return q.client.Available() }

type quoteRow struct {
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	Price             provider.Number `json:"price"`
	Change            provider.Number `json:"change"`
	ChangesPercentage provider.Number `json:"changesPercentage"`
	DayLow            provider.Number `json:"dayLow"`
	DayHigh           provider.Number `json:"dayHigh"`
	YearLow           provider.Number `json:"yearLow"`
	YearHigh          provider.Number `json:"yearHigh"`
	MarketCap         provider.Number `json:"marketCap"`
	Volume            provider.Number `json:"volume"`
	Open              provider.Number `json:"open"`
	PreviousClose     provider.Number `json:"previousClose"`
	Timestamp         int64           `json:"timestamp"`
}

// FetchOne returns the quote of symbol.
func (q *Quotes) FetchOne(ctx context.Context, symbol string) (*market.Quote, error) {
	return provider.Fetch(ctx, q.client, "quote:"+symbol, 0, func(ctx context.Context) (*market.Quote, error) {
		query := url.Values{}
		query.Set("apikey", q.client.APIKey())

		payload, err := q.client.Get(ctx, q.client.Endpoint("/quote/"+url.PathEscape(symbol), query), nil)
		if err != nil {
			return nil, err
		}
		var rows []quoteRow
		if err := decodeList(payload, &rows); err != nil {
			return nil, err
		}
		return q.normalize(symbol, rows)
	})
}

func (q *Quotes) normalize(symbol string, rows []quoteRow) (*market.Quote, error) {
	var row *quoteRow
	for i := range rows {
		if strings.EqualFold(rows[i].Symbol, symbol) {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return nil, fault.Shape(Name, "no quote for %s", symbol)
	}

	price, err := provider.Require(Name, "price", row.Price)
	if err != nil {
		return nil, err
	}

	now := q.client.Now()
	out := &market.Quote{
		Symbol:        symbol,
		Name:          row.Name,
		Price:         price,
		Change:        provider.Optional(row.Change),
		ChangePercent: provider.Optional(row.ChangesPercentage),
		Open:          provider.Optional(row.Open),
		PreviousClose: provider.Optional(row.PreviousClose),
		DayLow:        provider.Optional(row.DayLow),
		DayHigh:       provider.Optional(row.DayHigh),
		YearLow:       provider.Optional(row.YearLow),
		YearHigh:      provider.Optional(row.YearHigh),
		Volume:        provider.Optional(row.Volume),
		MarketCap:     provider.Optional(row.MarketCap),
		Timestamp:     now,
		Origin:        market.Origin{Source: Name, FetchedAt: now},
	}
	if row.Timestamp > 0 {
		out.Timestamp = time.Unix(row.Timestamp, 0).UTC()
	}
	out.DeriveChange(out.PreviousClose)
	return out, nil
}

// Fallback returns the static reference quote.
func (q *Quotes) Fallback(symbol string) (*market.Quote, bool) {
	return fixtures.QuoteFallback(symbol)
}

var _ provider.Adapter[*market.Quote] = (*Quotes)(nil)
