package fixtures

import (
	"testing"

	"bondfeed/internal/market"
)

func TestDatasetStartsStatic(t *testing.T) {
	ds := Dataset()
	for _, set := range market.Sets() {
		if ds.Len(set) == 0 {
			t.Fatalf("set %s is empty", set)
		}
		for i, p := range ds.Provenances(set) {
			if p != market.ProvenanceVerified {
				t.Fatalf("%s[%d]: expected verified, got %s", set, i, p)
			}
		}
	}
}

func TestEmissionCurrenciesAreKnown(t *testing.T) {
	for _, e := range Emissions() {
		if !market.KnownCurrency(e.Currency) {
			t.Fatalf("emission %s: unknown currency %q", e.ID, e.Currency)
		}
	}
}

func TestEventIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range Events() {
		if seen[e.ID] {
			t.Fatalf("duplicate event id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestFallbacks(t *testing.T) {
	rate, ok := RateFallback("euribor3m")
	if !ok || rate.Value.String() != "3.65" {
		t.Fatalf("unexpected euribor3m fallback: %+v", rate)
	}
	if _, ok := RateFallback("missing"); ok {
		t.Fatalf("expected no fallback for unknown rate")
	}
	quote, ok := QuoteFallback("mc.pa")
	if !ok || quote.Price.String() != "850" {
		t.Fatalf("unexpected LVMH fallback: %+v", quote)
	}
	cpi, ok := IndicatorFallback("cpi")
	if !ok || cpi.Source != StaticSource {
		t.Fatalf("unexpected CPI fallback: %+v", cpi)
	}
}
