package enrich

import (
	"context"
	"strings"
	"time"

	"bondfeed/internal/fault"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

func (m *Manager) runPass(ctx context.Context, set market.Set, ds market.Dataset) (market.Dataset, Summary, error) {
	var (
		sum Summary
		err error
	)
	switch set {
	case market.SetEmissions:
		if m.sources.OnChain == nil {
			return ds, Summary{Skipped: len(ds.Emissions)}, nil
		}
		ds.Emissions, sum, err = EnrichAll(ctx, ds.Emissions, m.sources.OnChain, m.emissionBinding())
	case market.SetStocks:
		if m.sources.Stocks == nil {
			return ds, Summary{Skipped: len(ds.Stocks)}, nil
		}
		ds.Stocks, sum, err = EnrichAll(ctx, ds.Stocks, m.sources.Stocks, m.quoteBinding())
	case market.SetIndices:
		if m.sources.Indices == nil {
			return ds, Summary{Skipped: len(ds.Indices)}, nil
		}
		ds.Indices, sum, err = EnrichAll(ctx, ds.Indices, m.sources.Indices, m.quoteBinding())
	case market.SetRates:
		if m.sources.Rates == nil {
			return ds, Summary{Skipped: len(ds.Rates)}, nil
		}
		ds.Rates, sum, err = EnrichAll(ctx, ds.Rates, m.sources.Rates, m.rateBinding())
	case market.SetEvents:
		ds.Events, sum, err = m.enrichEvents(ctx, ds.Events)
	}
	return ds, sum, err
}

func (m *Manager) emissionBinding() Binding[market.Emission, *market.Holding] {
	return Binding[market.Emission, *market.Holding]{
		Provenance: market.ProvenanceOnChain,
		ID:         func(e *market.Emission) string { return e.ContractAddress },
		Meta:       func(e *market.Emission) *market.Enrichment { return &e.Enrichment },
		HasValue: func(e *market.Emission) bool {
			return e.OnChainBalance.Valid || e.TotalSupply.Valid || e.ExplorerURL != ""
		},
		Merge:  func(e *market.Emission, h *market.Holding) { e.ApplyHolding(*h) },
		Origin: func(h *market.Holding) market.Origin { return h.Origin },
		Clock:  m.clock,
	}
}

func (m *Manager) quoteBinding() Binding[market.Instrument, *market.Quote] {
	return Binding[market.Instrument, *market.Quote]{
		Provenance: market.ProvenanceVerified,
		ID:         func(i *market.Instrument) string { return i.Symbol },
		Meta:       func(i *market.Instrument) *market.Enrichment { return &i.Enrichment },
		HasValue:   func(i *market.Instrument) bool { return !i.Price.IsZero() },
		Merge:      func(i *market.Instrument, q *market.Quote) { i.ApplyQuote(*q) },
		Origin:     func(q *market.Quote) market.Origin { return q.Origin },
		Clock:      m.clock,
	}
}

func (m *Manager) rateBinding() Binding[market.RateTicker, *market.Rate] {
	return Binding[market.RateTicker, *market.Rate]{
		Provenance: market.ProvenanceVerified,
		ID:         func(r *market.RateTicker) string { return r.ID },
		Meta:       func(r *market.RateTicker) *market.Enrichment { return &r.Enrichment },
		HasValue:   func(r *market.RateTicker) bool { return !r.Value.IsZero() },
		Merge:      func(r *market.RateTicker, rate *market.Rate) { r.ApplyRate(*rate) },
		Origin:     func(rate *market.Rate) market.Origin { return rate.Origin },
		Clock:      m.clock,
	}
}

// enrichEvents merges the calendar feed for the coming week into the rows it
// lists, then sets actual values of released US indicators. An indicator
// that fails leaves rows the calendar enriched in this pass as they are.
func (m *Manager) enrichEvents(ctx context.Context, events []market.CalendarEvent) ([]market.CalendarEvent, Summary, error) {
	now := m.clock.Now().UTC()
	out := events
	touched := make([]bool, len(events))
	settled := make(map[string]bool)

	if m.sources.Calendar != nil {
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		lookup := &calendarLookup{source: m.sources.Calendar, from: from.Format(time.DateOnly)}
		lookup.load(ctx)
		if err := ctx.Err(); err != nil {
			return nil, Summary{}, err
		}

		calendarID := func(e *market.CalendarEvent) string {
			key := e.Key()
			if !lookup.selects(key) {
				return ""
			}
			return key
		}
		var err error
		out, _, err = EnrichAll(ctx, out, provider.Adapter[*market.Event](lookup), Binding[market.CalendarEvent, *market.Event]{
			Provenance: market.ProvenanceVerified,
			ID:         calendarID,
			Meta:       func(e *market.CalendarEvent) *market.Enrichment { return &e.Enrichment },
			HasValue:   func(e *market.CalendarEvent) bool { return e.Actual != "" },
			Merge:      func(e *market.CalendarEvent, ev *market.Event) { e.ApplyEvent(*ev) },
			Origin:     func(*market.Event) market.Origin { return lookup.origin },
			Clock:      m.clock,
		})
		if err != nil {
			return nil, Summary{}, err
		}
		for i := range out {
			if calendarID(&out[i]) == "" {
				continue
			}
			touched[i] = true
			if out[i].Enrichment.Stage == market.StageEnriched {
				settled[eventSlot(&out[i])] = true
			}
		}
	}

	if m.sources.Indicators != nil {
		indicatorID := func(e *market.CalendarEvent) string {
			if !strings.EqualFold(e.Country, "US") || e.Date.After(now) {
				return ""
			}
			return IndicatorFor(e.Event)
		}
		var err error
		out, _, err = EnrichAll(ctx, out, m.sources.Indicators, Binding[market.CalendarEvent, *market.Rate]{
			Provenance: market.ProvenanceVerified,
			ID:         indicatorID,
			Meta:       func(e *market.CalendarEvent) *market.Enrichment { return &e.Enrichment },
			HasValue:   func(e *market.CalendarEvent) bool { return e.Actual != "" },
			Merge:      func(e *market.CalendarEvent, r *market.Rate) { e.ApplyIndicator(*r) },
			Origin:     func(r *market.Rate) market.Origin { return r.Origin },
			Settled:    func(e *market.CalendarEvent) bool { return settled[eventSlot(e)] },
			Clock:      m.clock,
		})
		if err != nil {
			return nil, Summary{}, err
		}
		for i := range out {
			if indicatorID(&out[i]) != "" {
				touched[i] = true
			}
		}
	}

	return out, summarize(out, touched), nil
}

// summarize counts each row once by its final tags.
func summarize(events []market.CalendarEvent, touched []bool) Summary {
	var sum Summary
	for i := range events {
		meta := events[i].Enrichment
		switch {
		case !touched[i]:
			sum.Skipped++
		case meta.Stage == market.StageEnriched:
			sum.Enriched++
		case meta.Provenance == market.ProvenanceSimulated:
			sum.Simulated++
		default:
			sum.Fallback++
		}
	}
	return sum
}

func eventSlot(e *market.CalendarEvent) string {
	return e.Key() + "@" + e.Date.UTC().Format(time.RFC3339)
}

var indicatorKeywords = []struct {
	keyword   string
	indicator string
}{
	{"cpi", "CPI"},
	{"inflation", "CPI"},
	{"unemployment", "UNEMPLOYMENT"},
	{"gdp", "REAL_GDP"},
	{"interest rate", "FEDERAL_FUNDS_RATE"},
}

// IndicatorFor maps a calendar event name to the macro indicator that
// carries its actual value, or "" when none does.
func IndicatorFor(event string) string {
	name := strings.ToLower(event)
	for _, k := range indicatorKeywords {
		if strings.Contains(name, k.keyword) {
			return k.indicator
		}
	}
	return ""
}

// calendarLookup serves single events out of one calendar request made on
// first use within a pass. The request covers the coming week from the given
// day; rows of the static calendar match the feed by country and name, so a
// recurring release rolls forward to its next listed date.
type calendarLookup struct {
	source provider.Adapter[*market.Calendar]
	from   string

	loaded bool
	err    error
	events map[string]*market.Event
	origin market.Origin
}

func (l *calendarLookup) Name() string    { return l.source.Name() }
func (l *calendarLookup) Available() bool { return l.source.Available() }

func (l *calendarLookup) FetchOne(ctx context.Context, key string) (*market.Event, error) {
	if !l.loaded {
		l.load(ctx)
	}
	if l.err != nil {
		return nil, l.err
	}
	ev, ok := l.events[key]
	if !ok {
		return nil, fault.Shape(l.source.Name(), "event %q not listed from %s", key, l.from)
	}
	return ev, nil
}

// selects reports whether a row with key takes part in the calendar phase.
// When the feed could not be read every row does, so the failure is tagged.
func (l *calendarLookup) selects(key string) bool {
	if l.err != nil {
		return true
	}
	_, ok := l.events[key]
	return ok
}

func (l *calendarLookup) load(ctx context.Context) {
	cal, err := l.source.FetchOne(ctx, l.from)
	if err != nil {
		l.err = err
		if ctx.Err() == nil {
			l.loaded = true
		}
		return
	}
	l.loaded = true
	l.origin = cal.Origin
	l.events = make(map[string]*market.Event, len(cal.Events))
	for i := range cal.Events {
		ev := &cal.Events[i]
		l.events[market.EventKey(ev.CountryCode, ev.Name)] = ev
	}
}

func (l *calendarLookup) Fallback(string) (*market.Event, bool) { return nil, false }
