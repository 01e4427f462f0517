// Package enrich merges provider data into the dashboard dataset and tags
// every record with where its values came from.
package enrich

import (
	"context"
	"slices"

	"bondfeed/internal/clock"
	"bondfeed/internal/fault"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

// Binding ties a record type R to the normalised type N an adapter returns.
type Binding[R any, N any] struct {
	// Provenance is recorded on success.
	Provenance market.Provenance
	// ID selects the adapter identifier of a record; "" leaves it untouched.
	ID func(*R) string
	// Meta exposes the record's enrichment bookkeeping.
	Meta func(*R) *market.Enrichment
	// HasValue reports whether the record already holds a usable value.
	// Records without one receive the adapter's static fallback.
	HasValue func(*R) bool
	Merge    func(*R, N)
	Origin   func(N) market.Origin
	// Settled is optional. It reports whether a record already took a value
	// earlier in the same pass; a failed fetch then leaves its tags alone.
	Settled func(*R) bool
	Clock   clock.Clock
}

// Summary counts the outcome of one pass over a record set.
type Summary struct {
	Enriched  int `json:"enriched"`
	Fallback  int `json:"fallback"`
	Simulated int `json:"simulated"`
	Skipped   int `json:"skipped"`
}

// Add accumulates other into s.
func (s *Summary) Add(other Summary) {
	s.Enriched += other.Enriched
	s.Fallback += other.Fallback
	s.Simulated += other.Simulated
	s.Skipped += other.Skipped
}

type outcome[N any] struct {
	value N
	err   error
}

// EnrichAll fetches each selected record through adapter and merges the
// result into a copy of records. A failed record keeps its values and is
// tagged simulated (provider unavailable) or fallback (anything else); it
// never stops the others. Identifiers repeated within the pass are fetched
// once. The only error returned is the cancellation of ctx, in which case
// the partial copy must be discarded.
func EnrichAll[R any, N any](ctx context.Context, records []R, adapter provider.Adapter[N], b Binding[R, N]) ([]R, Summary, error) {
	out := slices.Clone(records)
	var sum Summary
	clk := clock.OrReal(b.Clock)

	ids := make([]string, len(out))
	prev := make([]market.Enrichment, len(out))
	for i := range out {
		ids[i] = b.ID(&out[i])
		if ids[i] == "" {
			sum.Skipped++
			continue
		}
		meta := b.Meta(&out[i])
		prev[i] = *meta
		meta.Stage = market.StagePending
	}

	memo := make(map[string]outcome[N])
	for i := range out {
		id := ids[i]
		if id == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, sum, err
		}

		rec := &out[i]
		meta := b.Meta(rec)
		meta.Stage = market.StageFetching

		res, seen := memo[id]
		if !seen {
			res.value, res.err = adapter.FetchOne(ctx, id)
			if res.err != nil && ctx.Err() != nil {
				return nil, sum, ctx.Err()
			}
			memo[id] = res
		}

		now := clk.Now()
		if res.err == nil {
			b.Merge(rec, res.value)
			origin := b.Origin(res.value)
			*meta = market.Enrichment{
				Provenance: b.Provenance,
				Freshness:  origin.Freshness(),
				Stage:      market.StageEnriched,
				Source:     origin.Source,
				UpdatedAt:  now,
			}
			sum.Enriched++
			continue
		}

		if b.Settled != nil && b.Settled(rec) {
			*meta = prev[i]
			sum.Enriched++
			continue
		}

		freshness := market.FreshnessCached
		if meta.Freshness == "" || meta.Freshness == market.FreshnessStatic {
			freshness = market.FreshnessStatic
		}
		if !b.HasValue(rec) {
			if fb, ok := adapter.Fallback(id); ok {
				b.Merge(rec, fb)
				freshness = market.FreshnessStatic
			}
		}

		provenance := market.ProvenanceFallback
		if fault.KindOf(res.err) == fault.KindConfiguration {
			provenance = market.ProvenanceSimulated
			sum.Simulated++
		} else {
			sum.Fallback++
		}
		*meta = market.Enrichment{
			Provenance: provenance,
			Freshness:  freshness,
			Stage:      market.StageFallbackKept,
			Source:     adapter.Name(),
			Reason:     fault.KindOf(res.err).String(),
			UpdatedAt:  now,
		}
	}
	return out, sum, nil
}
