package market

import "slices"

// Set names a record collection enriched as a unit.
type Set string

const (
	SetEmissions Set = "emissions"
	SetStocks    Set = "stocks"
	SetIndices   Set = "indices"
	SetRates     Set = "rates"
	SetEvents    Set = "events"
)

// Sets lists every record set in refresh order.
func Sets() []Set {
	return []Set{SetEmissions, SetStocks, SetIndices, SetRates, SetEvents}
}

// ParseSet validates a set name.
func ParseSet(name string) (Set, bool) {
	for _, s := range Sets() {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// Dataset is the full record collection the dashboard renders.
type Dataset struct {
	Emissions []Emission      `json:"emissions"`
	Stocks    []Instrument    `json:"stocks"`
	Indices   []Instrument    `json:"indices"`
	Rates     []RateTicker    `json:"rates"`
	Events    []CalendarEvent `json:"events"`
}

// Clone copies every slice so the result shares no backing arrays.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Emissions: slices.Clone(d.Emissions),
		Stocks:    slices.Clone(d.Stocks),
		Indices:   slices.Clone(d.Indices),
		Rates:     slices.Clone(d.Rates),
		Events:    slices.Clone(d.Events),
	}
}

// Len returns the number of records in set.
func (d Dataset) Len(set Set) int {
	switch set {
	case SetEmissions:
		return len(d.Emissions)
	case SetStocks:
		return len(d.Stocks)
	case SetIndices:
		return len(d.Indices)
	case SetRates:
		return len(d.Rates)
	case SetEvents:
		return len(d.Events)
	}
	return 0
}

// Provenances returns the per-record provenance tags of set, in order.
func (d Dataset) Provenances(set Set) []Provenance {
	var out []Provenance
	switch set {
	case SetEmissions:
		for _, r := range d.Emissions {
			out = append(out, r.Enrichment.Provenance)
		}
	case SetStocks:
		for _, r := range d.Stocks {
			out = append(out, r.Enrichment.Provenance)
		}
	case SetIndices:
		for _, r := range d.Indices {
			out = append(out, r.Enrichment.Provenance)
		}
	case SetRates:
		for _, r := range d.Rates {
			out = append(out, r.Enrichment.Provenance)
		}
	case SetEvents:
		for _, r := range d.Events {
			out = append(out, r.Enrichment.Provenance)
		}
	}
	return out
}
