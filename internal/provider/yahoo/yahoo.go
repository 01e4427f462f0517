// Package yahoo reads stock and index quotes from the Yahoo Finance chart
// endpoint.
package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bondfeed/internal/fault"
	"bondfeed/internal/fixtures"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

const (
	Name           = "yahoo"
	DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

	metaPath  = "$.chart.result[0].meta"
	errorPath = "$.chart.error.description"
)

// Defaults for the chart endpoint. CacheTTL applies to stocks.
var Defaults = provider.Config{
	BaseURL:   DefaultBaseURL,
	RateLimit: 100 * time.Millisecond,
	CacheTTL:  15 * time.Minute,
	UserAgent: "Mozilla/5.0 (compatible; bondfeed/1.0)",
}

// DefaultIndexTTL is the cache window for index tickers.
const DefaultIndexTTL = 5 * time.Minute

// Options parameterise the adapter.
type Options struct {
	Config   provider.Config
	IndexTTL time.Duration
}

// Adapter fetches one chart per symbol.
type Adapter struct {
	client   *provider.Client
	indexTTL time.Duration
}

// New builds the Yahoo adapter. No key is needed.
func New(opts Options, deps provider.Deps, logger zerolog.Logger) *Adapter {
	if opts.IndexTTL <= 0 {
		opts.IndexTTL = DefaultIndexTTL
	}
	return &Adapter{
		client:   provider.NewClient(Name, opts.Config.WithDefaults(Defaults), deps, logger, provider.Keyless()),
		indexTTL: opts.IndexTTL,
	}
}

func (a *Adapter) Name() string    { return Name }
func (a *Adapter) Available() bool { return a.client.Available() }

// FetchOne returns the quote of symbol. Index symbols start with "^".
func (a *Adapter) FetchOne(ctx context.Context, symbol string) (*market.Quote, error) {
	var ttl time.Duration
	if strings.HasPrefix(symbol, "^") {
		ttl = a.indexTTL
	}

	return provider.Fetch(ctx, a.client, symbol, ttl, func(ctx context.Context) (*market.Quote, error) {
		query := url.Values{}
		query.Set("interval", "1d")
		query.Set("range", "1d")

		body, err := a.client.Get(ctx, a.client.Endpoint("/"+url.PathEscape(symbol), query), nil)
		if err != nil {
			return nil, err
		}
		return parse(symbol, body, a.client.Now())
	})
}

func parse(symbol string, body []byte, now time.Time) (*market.Quote, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fault.Shape(Name, "decode chart: %v", err)
	}

	if msg, ok := lookup(doc, errorPath).(string); ok && msg != "" {
		return nil, fault.Shape(Name, "chart error for %s: %s", symbol, msg)
	}
	if _, ok := lookup(doc, metaPath).(map[string]any); !ok {
		return nil, fault.Shape(Name, "no chart meta for %s", symbol)
	}

	price := field(doc, "regularMarketPrice")
	if !price.Valid || !price.Decimal.IsPositive() {
		return nil, fault.Shape(Name, "missing regularMarketPrice for %s", symbol)
	}

	previous := field(doc, "previousClose")
	if !previous.Valid {
		previous = field(doc, "chartPreviousClose")
	}

	q := &market.Quote{
		Symbol:        symbol,
		Price:         price.Decimal,
		PreviousClose: previous,
		DayLow:        orPrice(field(doc, "regularMarketDayLow"), price),
		DayHigh:       orPrice(field(doc, "regularMarketDayHigh"), price),
		YearLow:       field(doc, "fiftyTwoWeekLow"),
		YearHigh:      field(doc, "fiftyTwoWeekHigh"),
		Volume:        field(doc, "regularMarketVolume"),
		Timestamp:     now,
		Origin:        market.Origin{Source: Name, FetchedAt: now},
	}
	if name, ok := lookup(doc, metaPath+".shortName").(string); ok {
		q.Name = name
	}
	if cur, ok := lookup(doc, metaPath+".currency").(string); ok && market.KnownCurrency(cur) {
		q.Currency = strings.ToUpper(cur)
	}
	if ts := field(doc, "regularMarketTime"); ts.Valid {
		q.Timestamp = time.Unix(ts.Decimal.IntPart(), 0).UTC()
	}
	q.DeriveChange(previous)
	return q, nil
}

// lookup evaluates path; a single-element list result is unwrapped.
func lookup(doc any, path string) any {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		v = list[0]
	}
	return v
}

func field(doc any, name string) decimal.NullDecimal {
	switch v := lookup(doc, metaPath+"."+name).(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	default:
		return decimal.NullDecimal{}
	}
}

func orPrice(v, price decimal.NullDecimal) decimal.NullDecimal {
	if v.Valid {
		return v
	}
	return price
}

// Fallback returns the static reference quote.
func (a *Adapter) Fallback(symbol string) (*market.Quote, bool) {
	return fixtures.QuoteFallback(symbol)
}

var _ provider.Adapter[*market.Quote] = (*Adapter)(nil)
