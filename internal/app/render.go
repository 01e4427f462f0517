package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"bondfeed/internal/market"
)

func renderText(out io.Writer, r report, sets []market.Set) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	if len(r.Results) > 0 {
		fmt.Fprintln(writer, "Set\tPublished\tEnriched\tFallback\tSimulated\tSkipped\tElapsed")
		for _, res := range r.Results {
			fmt.Fprintf(writer, "%s\t%t\t%d\t%d\t%d\t%d\t%s\n",
				res.Set, res.Published,
				res.Summary.Enriched, res.Summary.Fallback, res.Summary.Simulated, res.Summary.Skipped,
				res.Elapsed.Round(time.Millisecond))
		}
		fmt.Fprintln(writer)
	}

	if len(r.Statuses) > 0 {
		fmt.Fprintln(writer, "Provider\tState\tKind\tOK\tFailed\tLast error")
		for _, s := range r.Statuses {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%d\t%s\n",
				s.Provider, s.State, s.Kind, s.Successes, s.Failures, sanitizeInline(s.LastError))
		}
		fmt.Fprintln(writer)
	}

	ds := r.Dataset
	for _, set := range sets {
		fmt.Fprintf(writer, "== %s ==\n", set)
		switch set {
		case market.SetEmissions:
			fmt.Fprintln(writer, "ID\tIssuer\tAmount\tCoupon\tMaturity\tChain\tBalance\tBadge\tFreshness")
			for _, e := range ds.Emissions {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s%%\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Issuer, e.AmountLabel(), formatDecimal(e.Coupon, 3), e.Maturity,
					e.Blockchain, formatNull(e.OnChainBalance, 2),
					e.Enrichment.Provenance.Badge(), e.Enrichment.Freshness)
			}
		case market.SetStocks, market.SetIndices:
			rows := ds.Stocks
			if set == market.SetIndices {
				rows = ds.Indices
			}
			fmt.Fprintln(writer, "Symbol\tName\tPrice\tChange%\tSource\tBadge\tFreshness")
			for _, i := range rows {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					i.Symbol, i.Name, formatDecimal(i.Price, 2), formatNull(i.ChangePercent, 2),
					i.Enrichment.Source, i.Enrichment.Provenance.Badge(), i.Enrichment.Freshness)
			}
		case market.SetRates:
			fmt.Fprintln(writer, "ID\tLabel\tValue\tDate\tSource\tBadge\tFreshness")
			for _, rate := range ds.Rates {
				fmt.Fprintf(writer, "%s\t%s\t%s%%\t%s\t%s\t%s\t%s\n",
					rate.ID, rate.Label, formatDecimal(rate.Value, 3), rate.Date,
					rate.Enrichment.Source, rate.Enrichment.Provenance.Badge(), rate.Enrichment.Freshness)
			}
		case market.SetEvents:
			fmt.Fprintln(writer, "Date (UTC)\tCountry\tEvent\tPrevious\tForecast\tActual\tBadge")
			for _, ev := range ds.Events {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					ev.Date.UTC().Format("2006-01-02 15:04"), ev.Country, ev.Event,
					ev.Previous, ev.Forecast, ev.Actual, ev.Enrichment.Provenance.Badge())
			}
		}
		fmt.Fprintln(writer)
	}

	return writer.Flush()
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

func formatNull(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(places)
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
