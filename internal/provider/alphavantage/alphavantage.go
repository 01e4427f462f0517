// Package alphavantage reads US macro indicators (CPI, unemployment, real
// GDP, federal funds rate, inflation) from Alpha Vantage.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
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
	Name           = "alphavantage"
	DefaultBaseURL = "https://www.alphavantage.co"
)

// Defaults for the free tier: 5 calls per minute, monthly data.
var Defaults = provider.Config{
	BaseURL:   DefaultBaseURL,
	RateLimit: 12 * time.Second,
	CacheTTL:  24 * time.Hour,
}

// Indicators lists the supported function names.
var Indicators = []string{"CPI", "UNEMPLOYMENT", "REAL_GDP", "FEDERAL_FUNDS_RATE", "INFLATION"}

// Adapter fetches the latest reading of one indicator.
type Adapter struct {
	client *provider.Client
}

// New builds the Alpha Vantage adapter.
func New(cfg provider.Config, deps provider.Deps, logger zerolog.Logger) *Adapter {
	return &Adapter{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger)}
}

func (a *Adapter) Name() string    { return Name }
func (a *Adapter) Available() bool { return a.client.Available() }

type seriesResponse struct {
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
	Data         []struct {
		Date  string          `json:"date"`
		Value provider.Number `json:"value"`
	} `json:"data"`
}

func supported(id string) bool {
	for _, ind := range Indicators {
		if ind == id {
			return true
		}
	}
	return false
}

// FetchOne returns the most recent valid reading of indicator id.
func (a *Adapter) FetchOne(ctx context.Context, id string) (*market.Rate, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if !supported(id) {
		return nil, fault.Configuration(Name, "unsupported indicator %q", id)
	}

	return provider.Fetch(ctx, a.client, id, 0, func(ctx context.Context) (*market.Rate, error) {
		query := url.Values{}
		query.Set("function", id)
		query.Set("apikey", a.client.APIKey())

		payload, err := a.client.Get(ctx, a.client.Endpoint("/query", query), nil)
		if err != nil {
			return nil, err
		}
		var resp seriesResponse
		if err := json.Unmarshal(payload, &resp); err != nil {
			return nil, fault.Shape(Name, "decode response: %v", err)
		}
		return a.normalize(id, resp)
	})
}

func (a *Adapter) normalize(id string, resp seriesResponse) (*market.Rate, error) {
	switch {
	case resp.Note != "":
		return nil, fault.Quota(Name, 0, errors.New(resp.Note))
	case resp.Information != "":
		return nil, fault.Quota(Name, 0, errors.New(resp.Information))
	case resp.ErrorMessage != "":
		return nil, fault.Shape(Name, "api error: %s", resp.ErrorMessage)
	}

	// Readings are newest first; placeholders are skipped.
	for _, point := range resp.Data {
		if !point.Value.Valid {
			continue
		}
		return &market.Rate{
			ID:     id,
			Value:  point.Value.Decimal,
			Date:   point.Date,
			Unit:   resp.Unit,
			Origin: market.Origin{Source: Name, FetchedAt: a.client.Now()},
		}, nil
	}
	return nil, fault.Shape(Name, "no readings for %s", id)
}

// Fallback returns the last published reading shipped with the dataset.
func (a *Adapter) Fallback(id string) (*market.Rate, bool) {
	return fixtures.IndicatorFallback(id)
}

var _ provider.Adapter[*market.Rate] = (*Adapter)(nil)
