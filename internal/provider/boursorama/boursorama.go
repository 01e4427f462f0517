// Package boursorama scrapes money-market rates and sovereign yields from
// Boursorama quote pages.
package boursorama

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"bondfeed/internal/fault"
	"bondfeed/internal/fixtures"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

const (
	Name           = "boursorama"
	DefaultBaseURL = "https://www.boursorama.com/bourse/taux/cours"
)

// Defaults for the quote pages.
var Defaults = provider.Config{
	BaseURL:   DefaultBaseURL,
	RateLimit: 2 * time.Second,
	CacheTTL:  24 * time.Hour,
	UserAgent: "Mozilla/5.0 (compatible; bondfeed/1.0)",
}

// Pages maps rate ids to quote page codes. Swap rates are not published.
var Pages = map[string]string{
	"euribor3m":  "2xERB3MOIS",
	"euribor6m":  "2xERB6MOIS",
	"euribor12m": "2xERB12MOIS",
	"bund10y":    "1rTGER10YT",
	"oat10y":     "1rTFRA10YT",
}

// selectors are tried in order.
var selectors = []string{
	".c-faceplate__price .c-instrument--last",
	".c-instrument--last",
	".c-faceplate__price",
}

// Adapter reads the last printed value from a quote page.
type Adapter struct {
	client *provider.Client
}

// New builds the Boursorama adapter.
func New(cfg provider.Config, deps provider.Deps, logger zerolog.Logger) *Adapter {
	return &Adapter{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger, provider.Keyless())}
}

func (a *Adapter) Name() string    { return Name }
func (a *Adapter) Available() bool { return a.client.Available() }

// FetchOne scrapes the rate id.
func (a *Adapter) FetchOne(ctx context.Context, id string) (*market.Rate, error) {
	page, ok := Pages[id]
	if !ok {
		return nil, fault.Configuration(Name, "rate %q is not published", id)
	}

	return provider.Fetch(ctx, a.client, page, 0, func(ctx context.Context) (*market.Rate, error) {
		header := http.Header{}
		header.Set("Accept", "text/html")
		body, err := a.client.Get(ctx, a.client.Endpoint("/"+page+"/", nil), header)
		if err != nil {
			return nil, err
		}
		return parse(id, body, a.client.Now())
	})
}

func parse(id string, body []byte, now time.Time) (*market.Rate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fault.Shape(Name, "parse html: %v", err)
	}

	var text string
	for _, sel := range selectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			text = strings.TrimSpace(node.Text())
			break
		}
	}
	if text == "" {
		return nil, fault.Shape(Name, "could not find rate element for %s", id)
	}

	value, err := provider.ParseNumber(text)
	if err != nil {
		return nil, fault.Shape(Name, "invalid rate value for %s: %q", id, text)
	}
	if err := provider.InRange(Name, id, value, 0, 20); err != nil {
		return nil, err
	}

	return &market.Rate{
		ID:     id,
		Value:  value,
		Date:   now.Format(time.DateOnly),
		Unit:   "percent",
		Origin: market.Origin{Source: Name, FetchedAt: now},
	}, nil
}

// Fallback returns the static reference value for id, swaps included.
func (a *Adapter) Fallback(id string) (*market.Rate, bool) {
	return fixtures.RateFallback(id)
}

var _ provider.Adapter[*market.Rate] = (*Adapter)(nil)
