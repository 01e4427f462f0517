package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a normalised price snapshot for a stock or an index.
type Quote struct {
	Symbol        string              `json:"symbol"`
	Name          string              `json:"name,omitempty"`
	Currency      string              `json:"currency,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"changePercent"`
	Open          decimal.NullDecimal `json:"open"`
	PreviousClose decimal.NullDecimal `json:"previousClose"`
	DayLow        decimal.NullDecimal `json:"dayLow"`
	DayHigh       decimal.NullDecimal `json:"dayHigh"`
	YearLow       decimal.NullDecimal `json:"yearLow"`
	YearHigh      decimal.NullDecimal `json:"yearHigh"`
	Volume        decimal.NullDecimal `json:"volume"`
	MarketCap     decimal.NullDecimal `json:"marketCap"`
	Timestamp     time.Time           `json:"timestamp"`
	Origin
}

// DeriveChange fills change and change percent from a reference price when
// the provider did not supply them.
func (q *Quote) DeriveChange(reference decimal.NullDecimal) {
	if !reference.Valid || reference.Decimal.IsZero() {
		return
	}
	if !q.Change.Valid {
		q.Change = decimal.NewNullDecimal(q.Price.Sub(reference.Decimal))
	}
	if !q.ChangePercent.Valid {
		pct := q.Change.Decimal.Div(reference.Decimal).Mul(decimal.NewFromInt(100)).Round(4)
		q.ChangePercent = decimal.NewNullDecimal(pct)
	}
}

// Rate is a normalised single-value series point: a money-market rate, a
// bond yield or a macro indicator.
type Rate struct {
	ID    string          `json:"id"`
	Value decimal.Decimal `json:"value"`
	Date  string          `json:"date,omitempty"`
	Unit  string          `json:"unit,omitempty"`
	Origin
}

// Holding is the on-chain state of a tokenised bond contract.
type Holding struct {
	Address     string              `json:"address"`
	Network     string              `json:"network"`
	Balance     decimal.NullDecimal `json:"balance"`
	TotalSupply decimal.NullDecimal `json:"totalSupply"`
	Block       uint64              `json:"block,omitempty"`
	ExplorerURL string              `json:"explorerUrl"`
	Origin
}

// Event is a normalised economic calendar entry.
type Event struct {
	Date        time.Time           `json:"date"`
	CountryCode string              `json:"country"`
	Currency    string              `json:"currency,omitempty"`
	Name        string              `json:"event"`
	Category    string              `json:"category"`
	Impact      string              `json:"impact"`
	Previous    decimal.NullDecimal `json:"previous"`
	Forecast    decimal.NullDecimal `json:"forecast"`
	Actual      decimal.NullDecimal `json:"actual"`
}

// Calendar is a window of events returned by one calendar request.
type Calendar struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Events []Event `json:"events"`
	Origin
}
