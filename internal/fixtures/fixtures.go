// Package fixtures is the static reference dataset the dashboard ships with.
// Every record starts with static freshness and verified provenance; the
// enrichment layer overwrites values when a provider answers.
package fixtures

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bondfeed/internal/market"
)

// StaticSource tags values served from this package.
const StaticSource = "static"

// Dataset assembles the full reference dataset.
func Dataset() market.Dataset {
	ds := market.Dataset{
		Emissions: Emissions(),
		Stocks:    Stocks(),
		Indices:   Indices(),
		Rates:     Rates(),
		Events:    Events(),
	}
	for i := range ds.Emissions {
		ds.Emissions[i].Enrichment = market.Static()
	}
	return ds
}

// Indices returns the headline market indices.
func Indices() []market.Instrument {
	return []market.Instrument{
		index("^FCHI", "CAC 40", "EUR", "7650.00", "45.50", "0.60", "7605.00", "7670.00", "6800.00", "7850.00", "7604.50"),
		index("^GSPC", "S&P 500", "USD", "5850.00", "25.30", "0.43", "5825.00", "5865.00", "5200.00", "6100.00", "5824.70"),
		index("^GDAXI", "DAX", "EUR", "17500.00", "85.20", "0.49", "17420.00", "17530.00", "15800.00", "18200.00", "17414.80"),
		index("^DJI", "Dow Jones", "USD", "42500.00", "150.00", "0.35", "42350.00", "42580.00", "38000.00", "44000.00", "42350.00"),
		index("^VIX", "VIX", "", "14.50", "-0.30", "-2.03", "14.20", "15.10", "12.00", "25.00", "14.80"),
	}
}

var rateFallbacks = []struct {
	id, label, value string
}{
	{"euribor3m", "Euribor 3M", "3.65"},
	{"euribor6m", "Euribor 6M", "3.45"},
	{"euribor12m", "Euribor 12M", "3.25"},
	{"bund10y", "Bund 10Y", "2.42"},
	{"oat10y", "OAT 10Y", "2.91"},
	{"swap2y", "EUR Swap 2Y", "3.12"},
	{"swap5y", "EUR Swap 5Y", "2.88"},
	{"swap10y", "EUR Swap 10Y", "2.75"},
}

// Rates returns the reference money-market rates and yields.
func Rates() []market.RateTicker {
	out := make([]market.RateTicker, 0, len(rateFallbacks))
	for _, r := range rateFallbacks {
		out = append(out, market.RateTicker{ID: r.id, Label: r.label, Value: num(r.value), Enrichment: market.Static()})
	}
	return out
}

// RateFallback is the static value of a rate ticker.
func RateFallback(id string) (*market.Rate, bool) {
	for _, r := range rateFallbacks {
		if r.id == id {
			return &market.Rate{ID: id, Value: num(r.value), Unit: "percent", Origin: market.Origin{Source: StaticSource}}, true
		}
	}
	return nil, false
}

var indicatorFallbacks = map[string]market.Rate{
	"CPI":                {ID: "CPI", Value: num("2.7"), Unit: "percent"},
	"INFLATION":          {ID: "INFLATION", Value: num("2.9"), Unit: "percent"},
	"UNEMPLOYMENT":       {ID: "UNEMPLOYMENT", Value: num("4.1"), Unit: "percent"},
	"REAL_GDP":           {ID: "REAL_GDP", Value: num("2.8"), Unit: "percent"},
	"FEDERAL_FUNDS_RATE": {ID: "FEDERAL_FUNDS_RATE", Value: num("4.50"), Unit: "percent"},
}

// IndicatorFallback is the last published reading of a macro indicator.
func IndicatorFallback(id string) (*market.Rate, bool) {
	r, ok := indicatorFallbacks[strings.ToUpper(id)]
	if !ok {
		return nil, false
	}
	r.Origin = market.Origin{Source: StaticSource}
	return &r, true
}

// QuoteFallback derives a quote from the reference stock or index row.
func QuoteFallback(symbol string) (*market.Quote, bool) {
	for _, rows := range [][]market.Instrument{Stocks(), Indices()} {
		for _, row := range rows {
			if !strings.EqualFold(row.Symbol, symbol) {
				continue
			}
			return &market.Quote{
				Symbol:        row.Symbol,
				Name:          row.Name,
				Currency:      row.Currency,
				Price:         row.Price,
				Change:        row.Change,
				ChangePercent: row.ChangePercent,
				PreviousClose: row.PreviousClose,
				DayLow:        row.DayLow,
				DayHigh:       row.DayHigh,
				YearLow:       row.YearLow,
				YearHigh:      row.YearHigh,
				Volume:        row.Volume,
				Origin:        market.Origin{Source: StaticSource},
			}, true
		}
	}
	return nil, false
}

func index(symbol, name, currency, price, change, pct, low, high, yearLow, yearHigh, prev string) market.Instrument {
	return market.Instrument{
		Symbol:        symbol,
		Name:          name,
		Sector:        "Index",
		Currency:      currency,
		Price:         num(price),
		Change:        opt(change),
		ChangePercent: opt(pct),
		PreviousClose: opt(prev),
		DayLow:        opt(low),
		DayHigh:       opt(high),
		YearLow:       opt(yearLow),
		YearHigh:      opt(yearHigh),
		Enrichment:    market.Static(),
	}
}

var countryNames = map[string]string{
	"US":  "United States",
	"EU":  "Euro Area",
	"ECB": "Euro Area",
	"GB":  "United Kingdom",
	"DE":  "Germany",
	"FR":  "France",
	"CN":  "China",
}

func event(at, country, name, importance, category, currency, previous, forecast string) market.CalendarEvent {
	date, err := time.Parse(time.RFC3339, at)
	if err != nil {
		panic("fixtures: bad event date " + at)
	}
	e := market.CalendarEvent{
		Date:        date,
		Country:     country,
		CountryName: countryNames[country],
		Event:       name,
		Importance:  importance,
		Category:    category,
		Previous:    previous,
		Forecast:    forecast,
		Currency:    currency,
		Impact:      importance,
		Enrichment:  market.Static(),
	}
	e.ID = date.Format("20060102") + "-" + e.Key()
	return e
}

func num(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func opt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(num(s))
}
