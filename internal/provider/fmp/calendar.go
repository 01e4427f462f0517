package fmp

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/fault"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

const (
	// DefaultCalendarTTL is the cache window of a calendar request.
	DefaultCalendarTTL = 4 * time.Hour
	calendarWindow     = 7 * 24 * time.Hour
)

// Calendar fetches the economic calendar for the week starting at a date.
type Calendar struct {
	client *provider.Client
	ttl    time.Duration
}

// NewCalendar builds the calendar adapter. It shares pacing and status with
// the quote adapter.
func NewCalendar(cfg provider.Config, ttl time.Duration, deps provider.Deps, logger zerolog.Logger) *Calendar {
	if ttl <= 0 {
		ttl = DefaultCalendarTTL
	}
	return &Calendar{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger), ttl: ttl}
}

func (c *Calendar) Name() string    { return Name }
func (c *Calendar) Available() bool { return c.client.Available() }

type eventRow struct {
	Date     string          `json:"date"`
	Country  string          `json:"country"`
	Event    string          `json:"event"`
	Currency string          `json:"currency"`
	Impact   string          `json:"impact"`
	Previous provider.Number `json:"previous"`
	Estimate provider.Number `json:"estimate"`
	Actual   provider.Number `json:"actual"`
}

// FetchOne returns the events in [from, from+7d]. from is YYYY-MM-DD.
func (c *Calendar) FetchOne(ctx context.Context, from string) (*market.Calendar, error) {
	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return nil, fault.Configuration(Name, "invalid calendar start %q", from)
	}
	to := start.Add(calendarWindow).Format(time.DateOnly)

	return provider.Fetch(ctx, c.client, "calendar:"+from, c.ttl, func(ctx context.Context) (*market.Calendar, error) {
		query := url.Values{}
		query.Set("from", from)
		query.Set("to", to)
		query.Set("apikey", c.client.APIKey())

		payload, err := c.client.Get(ctx, c.client.Endpoint("/economic_calendar", query), nil)
		if err != nil {
			return nil, err
		}
		var rows []eventRow
		if err := decodeList(payload, &rows); err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fault.Shape(Name, "no events between %s and %s", from, to)
		}

		now := c.client.Now()
		cal := &market.Calendar{From: from, To: to, Origin: market.Origin{Source: Name, FetchedAt: now}}
		for _, row := range rows {
			if ev, ok := normalizeEvent(row); ok {
				cal.Events = append(cal.Events, ev)
			}
		}
		if len(cal.Events) == 0 {
			return nil, fault.Shape(Name, "no usable events between %s and %s", from, to)
		}
		sort.SliceStable(cal.Events, func(i, j int) bool { return cal.Events[i].Date.Before(cal.Events[j].Date) })
		return cal, nil
	})
}

// Fallback: the static calendar already lives in the dataset.
func (c *Calendar) Fallback(string) (*market.Calendar, bool) { return nil, false }

func normalizeEvent(row eventRow) (market.Event, bool) {
	name := strings.TrimSpace(row.Event)
	if name == "" {
		return market.Event{}, false
	}
	date, err := parseDate(row.Date)
	if err != nil {
		return market.Event{}, false
	}
	country := CountryCode(row.Country)
	currency := strings.ToUpper(strings.TrimSpace(row.Currency))
	if currency == "" {
		currency = market.CurrencyForCountry(country)
	}
	return market.Event{
		Date:        date,
		CountryCode: country,
		Currency:    currency,
		Name:        name,
		Category:    Category(name),
		Impact:      Impact(row.Impact),
		Previous:    provider.Optional(row.Previous),
		Forecast:    provider.Optional(row.Estimate),
		Actual:      provider.Optional(row.Actual),
	}, true
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

var countryCodes = map[string]string{
	"united states":  "US",
	"usa":            "US",
	"euro zone":      "EU",
	"eurozone":       "EU",
	"euro area":      "EU",
	"european union": "EU",
	"united kingdom": "GB",
	"uk":             "GB",
	"japan":          "JP",
	"china":          "CN",
	"germany":        "DE",
	"france":         "FR",
	"italy":          "IT",
	"spain":          "ES",
	"canada":         "CA",
	"australia":      "AU",
	"switzerland":    "CH",
}

// CountryCode maps a country name or code to a two-letter code. Unknown
// names map to US.
func CountryCode(country string) string {
	c := strings.TrimSpace(country)
	if code, ok := countryCodes[strings.ToLower(c)]; ok {
		return code
	}
	if len(c) == 2 {
		return strings.ToUpper(c)
	}
	return "US"
}

// Impact normalises the provider impact label to high, medium or low.
func Impact(impact string) string {
	lower := strings.ToLower(impact)
	switch {
	case strings.Contains(lower, "high"):
		return "high"
	case strings.Contains(lower, "medium"):
		return "medium"
	default:
		return "low"
	}
}

var categories = []struct {
	name     string
	keywords []string
}{
	{"Inflation", []string{"cpi", "inflation", "ppi"}},
	{"GDP", []string{"gdp", "gross domestic"}},
	{"Employment", []string{"employment", "payroll", "unemployment", "jobless"}},
	{"Economic Activity", []string{"pmi", "manufacturing", "services"}},
	{"Central Banks", []string{"rate", "fed", "ecb", "boe"}},
	{"Consumer Spending", []string{"retail", "sales", "consumer"}},
	{"Housing", []string{"housing", "building", "permits"}},
}

// Category classifies an event by keywords in its name.
func Category(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return "Other"
}

var _ provider.Adapter[*market.Calendar] = (*Calendar)(nil)
