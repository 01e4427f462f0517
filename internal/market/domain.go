package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Emission is a covered bond issue, traditional or tokenised.
type Emission struct {
	ID              string              `json:"id"`
	Issuer          string              `json:"issuer"`
	Amount          decimal.Decimal     `json:"amount"` // millions
	Currency        string              `json:"currency"`
	Type            string              `json:"type"`
	IssueDate       string              `json:"issueDate"`
	Maturity        string              `json:"maturity"`
	Coupon          decimal.Decimal     `json:"coupon"`
	Status          string              `json:"status"`
	Rating          string              `json:"rating"`
	Country         string              `json:"country"`
	ISIN            string              `json:"isin"`
	Green           bool                `json:"greenBond"`
	Blockchain      string              `json:"blockchain,omitempty"`
	Platform        string              `json:"platform,omitempty"`
	ContractAddress string              `json:"smartContractAddress,omitempty"`
	OnChainBalance  decimal.NullDecimal `json:"onChainBalance"`
	TotalSupply     decimal.NullDecimal `json:"totalSupply"`
	Block           uint64              `json:"block,omitempty"`
	ExplorerURL     string              `json:"explorerUrl,omitempty"`
	Enrichment      Enrichment          `json:"enrichment"`
}

// AmountLabel renders the issue size in its currency.
func (e Emission) AmountLabel() string {
	return FormatAmount(e.Amount.Shift(6), e.Currency)
}

// ApplyHolding merges on-chain state; absent fields keep their value.
func (e *Emission) ApplyHolding(h Holding) {
	if h.Balance.Valid {
		e.OnChainBalance = h.Balance
	}
	if h.TotalSupply.Valid {
		e.TotalSupply = h.TotalSupply
	}
	if h.Block != 0 {
		e.Block = h.Block
	}
	if h.ExplorerURL != "" {
		e.ExplorerURL = h.ExplorerURL
	}
	if e.Blockchain == "" {
		e.Blockchain = h.Network
	}
}

// Instrument is a stock or an index row.
type Instrument struct {
	Symbol        string              `json:"symbol"`
	Name          string              `json:"name"`
	Sector        string              `json:"sector,omitempty"`
	Currency      string              `json:"currency,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"changesPercentage"`
	PreviousClose decimal.NullDecimal `json:"previousClose"`
	DayLow        decimal.NullDecimal `json:"dayLow"`
	DayHigh       decimal.NullDecimal `json:"dayHigh"`
	YearLow       decimal.NullDecimal `json:"yearLow"`
	YearHigh      decimal.NullDecimal `json:"yearHigh"`
	Volume        decimal.NullDecimal `json:"volume"`
	AsOf          time.Time           `json:"asOf,omitempty"`
	Enrichment    Enrichment          `json:"enrichment"`
}

// ApplyQuote merges a quote; fields the quote lacks keep their value.
func (i *Instrument) ApplyQuote(q Quote) {
	i.Price = q.Price
	if i.Name == "" && q.Name != "" {
		i.Name = q.Name
	}
	if q.Currency != "" {
		i.Currency = q.Currency
	}
	mergeNull(&i.Change, q.Change)
	mergeNull(&i.ChangePercent, q.ChangePercent)
	mergeNull(&i.PreviousClose, q.PreviousClose)
	mergeNull(&i.DayLow, q.DayLow)
	mergeNull(&i.DayHigh, q.DayHigh)
	mergeNull(&i.YearLow, q.YearLow)
	mergeNull(&i.YearHigh, q.YearHigh)
	mergeNull(&i.Volume, q.Volume)
	if !q.Timestamp.IsZero() {
		i.AsOf = q.Timestamp
	}
}

// CalendarEvent is an economic calendar row. Previous, forecast and actual
// keep the display text of the source, units included.
type CalendarEvent struct {
	ID          string              `json:"id"`
	Date        time.Time           `json:"date"`
	Country     string              `json:"country"`
	CountryName string              `json:"countryName"`
	Event       string              `json:"event"`
	Importance  string              `json:"importance"`
	Category    string              `json:"category"`
	Previous    string              `json:"previous"`
	Forecast    string              `json:"forecast"`
	Actual      string              `json:"actual,omitempty"`
	ActualValue decimal.NullDecimal `json:"actualValue"`
	Currency    string              `json:"currency"`
	Impact      string              `json:"impact"`
	Enrichment  Enrichment          `json:"enrichment"`
}

// ApplyIndicator sets the actual value from a macro indicator reading.
func (c *CalendarEvent) ApplyIndicator(r Rate) {
	c.ActualValue = decimal.NewNullDecimal(r.Value)
	c.Actual = r.Value.String()
	if strings.EqualFold(r.Unit, "percent") {
		c.Actual += "%"
	}
}

// ApplyEvent merges a calendar feed entry matching this row. A feed date
// other than the row's is the next occurrence of the release, so the old
// actual is dropped.
func (c *CalendarEvent) ApplyEvent(e Event) {
	if !e.Date.IsZero() && !e.Date.Equal(c.Date) {
		c.Date = e.Date
		c.Actual = ""
		c.ActualValue = decimal.NullDecimal{}
	}
	if e.Actual.Valid {
		c.ActualValue = e.Actual
		c.Actual = e.Actual.Decimal.String()
	}
	if e.Forecast.Valid {
		c.Forecast = e.Forecast.Decimal.String()
	}
	if e.Previous.Valid {
		c.Previous = e.Previous.Decimal.String()
	}
	if e.Impact != "" {
		c.Impact = e.Impact
		c.Importance = e.Impact
	}
	if e.Category != "" {
		c.Category = e.Category
	}
	if e.Currency != "" {
		c.Currency = e.Currency
	}
}

// Key identifies the event for calendar matching.
func (c CalendarEvent) Key() string {
	return EventKey(c.Country, c.Event)
}

// EventKey normalises a country code and event name.
func EventKey(country, name string) string {
	return fmt.Sprintf("%s|%s", strings.ToUpper(strings.TrimSpace(country)), strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

// RateTicker is a reference money-market rate or sovereign yield.
type RateTicker struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Value      decimal.Decimal `json:"value"`
	Date       string          `json:"date,omitempty"`
	Enrichment Enrichment      `json:"enrichment"`
}

// ApplyRate merges a rate reading.
func (r *RateTicker) ApplyRate(rate Rate) {
	r.Value = rate.Value
	if rate.Date != "" {
		r.Date = rate.Date
	}
}

func mergeNull(dst *decimal.NullDecimal, src decimal.NullDecimal) {
	if src.Valid {
		*dst = src
	}
}
