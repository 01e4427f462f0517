package app

import (
	"context"
	"encoding/json"
	"fmt"

	"bondfeed/internal/enrich"
	"bondfeed/internal/fixtures"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

// ShowOptions configure the show command.
type ShowOptions struct {
	Sets    []market.Set
	Refresh bool
	JSON    bool
}

// RefreshOptions configure the refresh command.
type RefreshOptions struct {
	Sets []market.Set
	JSON bool
}

// report is the JSON form of show and refresh.
type report struct {
	Results  []enrich.Result   `json:"results,omitempty"`
	Statuses []provider.Status `json:"statuses,omitempty"`
	Dataset  market.Dataset    `json:"dataset"`
}

// Show prints the dataset. Without Refresh it is the static dataset as
// shipped; with Refresh every selected set is enriched first.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	sets := orAll(opts.Sets)
	if !opts.Refresh {
		return a.print(report{Dataset: fixtures.Dataset()}, sets, opts.JSON)
	}
	return a.refreshAndPrint(ctx, sets, opts.JSON)
}

// Refresh runs one supersede pass over the selected sets and prints the
// outcome.
func (a *App) Refresh(ctx context.Context, opts RefreshOptions) error {
	return a.refreshAndPrint(ctx, orAll(opts.Sets), opts.JSON)
}

func (a *App) refreshAndPrint(ctx context.Context, sets []market.Set, asJSON bool) error {
	rt, err := a.openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	results, err := rt.manager.RefreshSets(ctx, sets, enrich.ModeSupersede)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		a.Logger.Warn().Err(err).Msg("refresh incomplete")
	}

	return a.print(report{
		Results:  results,
		Statuses: rt.manager.Statuses(),
		Dataset:  rt.manager.Snapshot(),
	}, sets, asJSON)
}

func (a *App) print(r report, sets []market.Set, asJSON bool) error {
	r.Dataset = selectSets(r.Dataset, sets)
	if asJSON {
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	}
	return renderText(a.Out, r, sets)
}

func orAll(sets []market.Set) []market.Set {
	if len(sets) == 0 {
		return market.Sets()
	}
	return sets
}

func selectSets(ds market.Dataset, sets []market.Set) market.Dataset {
	var out market.Dataset
	for _, set := range sets {
		switch set {
		case market.SetEmissions:
			out.Emissions = ds.Emissions
		case market.SetStocks:
			out.Stocks = ds.Stocks
		case market.SetIndices:
			out.Indices = ds.Indices
		case market.SetRates:
			out.Rates = ds.Rates
		case market.SetEvents:
			out.Events = ds.Events
		}
	}
	return out
}
