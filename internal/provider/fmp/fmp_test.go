package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"bondfeed/internal/fault"
	"bondfeed/internal/provider"
)

func server(t *testing.T, path, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "key" {
			t.Errorf("missing apikey")
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func config(base string) provider.Config {
	return provider.Config{Enabled: true, APIKey: "key", BaseURL: base, RateLimit: -1}
}

func TestQuoteFetchOne(t *testing.T) {
	base := server(t, "/quote/MC.PA", `[{"symbol":"MC.PA","name":"LVMH","price":851.2,"change":6.4,"changesPercentage":0.7576,
"dayLow":845,"dayHigh":856,"yearLow":600,"yearHigh":900,"marketCap":425000000000,"volume":410000,"open":846,"previousClose":844.8,"timestamp":1768400000}]`)

	quotes := NewQuotes(config(base), provider.Deps{}, zerolog.Nop())
	q, err := quotes.FetchOne(context.Background(), "MC.PA")
	if err != nil {
		t.Fatalf("FetchOne returned error: %v", err)
	}
	if q.Price.String() != "851.2" || q.Change.Decimal.String() != "6.4" || !q.MarketCap.Valid {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestQuoteMissingPriceIsShape(t *testing.T) {
	base := server(t, "/quote/MC.PA", `[{"symbol":"MC.PA","name":"LVMH","price":null}]`)
	quotes := NewQuotes(config(base), provider.Deps{}, zerolog.Nop())
	q, err := quotes.FetchOne(context.Background(), "MC.PA")
	if q != nil || fault.KindOf(err) != fault.KindShape {
		t.Fatalf("expected shape error without quote, got %v / %v", q, err)
	}
}

func TestQuoteLimitMessageIsQuota(t *testing.T) {
	base := server(t, "/quote/MC.PA", `{"Error Message":"Limit Reach . Please upgrade your plan"}`)
	quotes := NewQuotes(config(base), provider.Deps{}, zerolog.Nop())
	_, err := quotes.FetchOne(context.Background(), "MC.PA")
	if fault.KindOf(err) != fault.KindQuota {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestQuoteInvalidKeyIsConfiguration(t *testing.T) {
	base := server(t, "/quote/MC.PA", `{"Error Message":"Invalid API KEY. Please retry or visit our documentation"}`)
	quotes := NewQuotes(config(base), provider.Deps{}, zerolog.Nop())
	_, err := quotes.FetchOne(context.Background(), "MC.PA")
	if fault.KindOf(err) != fault.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCalendarFetchOne(t *testing.T) {
	base := server(t, "/economic_calendar", `[
{"date":"2026-01-16 10:00:00","country":"Euro Zone","event":"CPI (YoY)","impact":"High","previous":"2.4%","estimate":2.4,"actual":null},
{"date":"2026-01-15 13:30:00","country":"US","event":"Retail Sales (MoM)","currency":"USD","impact":"Medium","previous":0.7,"estimate":0.5,"actual":0.6},
{"date":"bad","country":"US","event":"Broken"}
]`)

	cal := NewCalendar(config(base), 0, provider.Deps{}, zerolog.Nop())
	got, err := cal.FetchOne(context.Background(), "2026-01-14")
	if err != nil {
		t.Fatalf("FetchOne returned error: %v", err)
	}
	if got.To != "2026-01-21" {
		t.Fatalf("expected a seven day window, got %s", got.To)
	}
	if len(got.Events) != 2 {
		t.Fatalf("expected 2 usable events, got %d", len(got.Events))
	}
	first, second := got.Events[0], got.Events[1]
	if first.Name != "Retail Sales (MoM)" || first.Impact != "medium" || first.Category != "Consumer Spending" {
		t.Fatalf("unexpected first event %+v", first)
	}
	if !first.Actual.Valid || first.Actual.Decimal.String() != "0.6" {
		t.Fatalf("unexpected actual %v", first.Actual)
	}
	if second.CountryCode != "EU" || second.Currency != "EUR" || second.Category != "Inflation" {
		t.Fatalf("unexpected second event %+v", second)
	}
	if second.Previous.Decimal.String() != "2.4" || second.Actual.Valid {
		t.Fatalf("unexpected values %+v", second)
	}
}

func TestCalendarRejectsBadStart(t *testing.T) {
	cal := NewCalendar(config("http://127.0.0.1:0"), 0, provider.Deps{}, zerolog.Nop())
	if _, err := cal.FetchOne(context.Background(), "next week"); fault.KindOf(err) != fault.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCategoryAndImpact(t *testing.T) {
	cases := map[string]string{
		"Initial Jobless Claims":  "Employment",
		"ECB Interest Rate":       "Central Banks",
		"Building Permits":        "Housing",
		"Consumer Confidence":     "Consumer Spending",
		"Crude Oil Inventories":   "Other",
		"GDP Growth Rate QoQ Adv": "GDP",
	}
	for name, want := range cases {
		if got := Category(name); got != want {
			t.Fatalf("Category(%q) = %q, expected %q", name, got, want)
		}
	}
	if Impact("") != "low" || Impact("HIGH") != "high" {
		t.Fatalf("unexpected impact normalisation")
	}
}
