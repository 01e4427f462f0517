// Package market holds the dashboard records the enrichment layer reads and
// writes, and the provider-agnostic shapes adapters normalise into.
package market

import "time"

// Provenance tells where a record's values last came from.
type Provenance string

const (
	ProvenanceOnChain   Provenance = "on_chain"
	ProvenanceVerified  Provenance = "verified"
	ProvenanceSimulated Provenance = "simulated"
	ProvenanceFallback  Provenance = "fallback"
)

// Badge is the short label shown next to a record.
func (p Provenance) Badge() string {
	switch p {
	case ProvenanceOnChain:
		return "Live Data"
	case ProvenanceVerified:
		return "Verified"
	case ProvenanceSimulated:
		return "Simulated"
	case ProvenanceFallback:
		return "Fallback"
	default:
		return string(p)
	}
}

// Freshness distinguishes live, cached and static values.
type Freshness string

const (
	FreshnessLive   Freshness = "live"
	FreshnessCached Freshness = "cached"
	FreshnessStatic Freshness = "static"
)

// Stage is a record's position in the current enrichment pass.
type Stage string

const (
	StagePending      Stage = "pending"
	StageFetching     Stage = "fetching"
	StageEnriched     Stage = "enriched"
	StageFallbackKept Stage = "fallback_kept"
)

// Terminal reports whether the pass is done with the record.
func (s Stage) Terminal() bool {
	return s == StageEnriched || s == StageFallbackKept
}

// Enrichment is the bookkeeping the orchestrator keeps on every record.
type Enrichment struct {
	Provenance Provenance `json:"provenance"`
	Freshness  Freshness  `json:"freshness"`
	Stage      Stage      `json:"stage,omitempty"`
	Source     string     `json:"source,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt,omitempty"`
}

// Static is the state of a record no pass has touched.
func Static() Enrichment {
	return Enrichment{Provenance: ProvenanceVerified, Freshness: FreshnessStatic}
}

// Origin is embedded in normalised records.
type Origin struct {
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
	// Cached is set when the value was served from the cache store.
	Cached bool `json:"-"`
}

// MarkCached flags the value as served from cache.
func (o *Origin) MarkCached() { o.Cached = true }

// Freshness of the value carrying this origin.
func (o Origin) Freshness() Freshness {
	if o.Cached {
		return FreshnessCached
	}
	return FreshnessLive
}
