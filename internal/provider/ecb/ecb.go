// Package ecb reads Euribor, sovereign yield and swap proxies from the
// European Central Bank data portal (SDMX JSON).
package ecb

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/fault"
	"bondfeed/internal/fixtures"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

const (
	Name           = "ecb"
	DefaultBaseURL = "https://data-api.ecb.europa.eu/service/data"
)

// Defaults for the ECB portal. The data is daily.
var Defaults = provider.Config{
	BaseURL:   DefaultBaseURL,
	RateLimit: time.Second,
	CacheTTL:  24 * time.Hour,
}

// SeriesKeys maps rate ids to SDMX series.
var SeriesKeys = map[string]string{
	"euribor3m":  "FM/D.U2.EUR.RT.MM.EURIBOR3MD_.HSTA",
	"euribor6m":  "FM/D.U2.EUR.RT.MM.EURIBOR6MD_.HSTA",
	"euribor12m": "FM/D.U2.EUR.RT.MM.EURIBOR1YD_.HSTA",
	"bund10y":    "YC/B.U2.EUR.4F.G_N_A.SV_C_YM.SR_10Y",
	"oat10y":     "YC/B.FR.EUR.4F.G_N_A.SV_C_YM.SR_10Y",
	"swap2y":     "FM/D.U2.EUR.4F.BB.EURIBOR3MD_.HSTA",
	"swap5y":     "FM/D.U2.EUR.4F.BB.EURIBOR6MD_.HSTA",
	"swap10y":    "FM/D.U2.EUR.4F.BB.EURIBOR1YD_.HSTA",
}

// Adapter reads the latest observation of a series.
type Adapter struct {
	client *provider.Client
}

// New builds the ECB adapter. The portal is open, no key is needed.
func New(cfg provider.Config, deps provider.Deps, logger zerolog.Logger) *Adapter {
	return &Adapter{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger, provider.Keyless())}
}

func (a *Adapter) Name() string    { return Name }
func (a *Adapter) Available() bool { return a.client.Available() }

type sdmxResponse struct {
	DataSets []struct {
		Series map[string]struct {
			Observations map[string][]provider.Number `json:"observations"`
		} `json:"series"`
	} `json:"dataSets"`
	Structure struct {
		Dimensions struct {
			Observation []struct {
				Values []struct {
					ID string `json:"id"`
				} `json:"values"`
			} `json:"observation"`
		} `json:"dimensions"`
	} `json:"structure"`
}

// FetchOne returns the latest value of the rate id.
func (a *Adapter) FetchOne(ctx context.Context, id string) (*market.Rate, error) {
	series, ok := SeriesKeys[id]
	if !ok {
		return nil, fault.Configuration(Name, "no series for rate %q", id)
	}

	return provider.Fetch(ctx, a.client, series, 0, func(ctx context.Context) (*market.Rate, error) {
		query := url.Values{}
		query.Set("format", "jsondata")
		query.Set("lastNObservations", "1")

		var resp sdmxResponse
		if err := a.client.GetJSON(ctx, a.client.Endpoint("/"+series, query), nil, &resp); err != nil {
			return nil, err
		}
		return parse(id, resp, a.client.Now())
	})
}

func parse(id string, resp sdmxResponse, now time.Time) (*market.Rate, error) {
	if len(resp.DataSets) == 0 {
		return nil, fault.Shape(Name, "no data sets in response")
	}
	if len(resp.DataSets[0].Series) == 0 {
		return nil, fault.Shape(Name, "no series in data set")
	}

	seriesIDs := make([]string, 0, len(resp.DataSets[0].Series))
	for k := range resp.DataSets[0].Series {
		seriesIDs = append(seriesIDs, k)
	}
	sort.Strings(seriesIDs)
	observations := resp.DataSets[0].Series[seriesIDs[0]].Observations
	if len(observations) == 0 {
		return nil, fault.Shape(Name, "no observations in series")
	}

	// The latest observation has the highest index.
	latest, idx := "", -1
	for k := range observations {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		if n > idx {
			latest, idx = k, n
		}
	}
	if idx < 0 || len(observations[latest]) == 0 {
		return nil, fault.Shape(Name, "no observation key found")
	}

	value, err := provider.Require(Name, "observation", observations[latest][0])
	if err != nil {
		return nil, err
	}
	if err := provider.InRange(Name, id, value, -5, 20); err != nil {
		return nil, err
	}

	rate := &market.Rate{
		ID:     id,
		Value:  value,
		Unit:   "percent",
		Origin: market.Origin{Source: Name, FetchedAt: now},
	}
	if dims := resp.Structure.Dimensions.Observation; len(dims) > 0 && idx < len(dims[0].Values) {
		rate.Date = dims[0].Values[idx].ID
	}
	return rate, nil
}

// Fallback returns the static reference value for id.
func (a *Adapter) Fallback(id string) (*market.Rate, bool) {
	return fixtures.RateFallback(id)
}

var _ provider.Adapter[*market.Rate] = (*Adapter)(nil)
