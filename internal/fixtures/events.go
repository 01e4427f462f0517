package fixtures

import "bondfeed/internal/market"

// Events returns the scheduled macro releases for the first quarter.
func Events() []market.CalendarEvent {
	return []market.CalendarEvent{
		event("2026-01-15T13:30:00Z", "US", "US Retail Sales (MoM)", "high", "Consumer Spending", "USD", "0.7%", "0.5%"),
		event("2026-01-16T14:15:00Z", "US", "US Industrial Production (MoM)", "medium", "Economic Activity", "USD", "0.3%", "0.2%"),
		event("2026-01-21T13:15:00Z", "EU", "ECB Interest Rate Decision", "high", "Central Banks", "EUR", "3.00%", "2.75%"),
		event("2026-01-22T09:00:00Z", "EU", "Eurozone Flash PMI Manufacturing", "high", "Economic Activity", "EUR", "45.2", "46.0"),
		event("2026-01-28T19:00:00Z", "US", "FOMC Interest Rate Decision", "high", "Central Banks", "USD", "4.50%", "4.25%"),
		event("2026-01-29T13:30:00Z", "US", "US GDP (QoQ) Q4 2025 - Advance", "high", "GDP", "USD", "2.8%", "2.5%"),
		event("2026-01-30T10:00:00Z", "EU", "Eurozone GDP (QoQ) Q4 2025 - Flash", "high", "GDP", "EUR", "0.4%", "0.3%"),
		event("2026-01-30T10:00:00Z", "EU", "Eurozone CPI (YoY) - Flash", "high", "Inflation", "EUR", "2.4%", "2.2%"),
		event("2026-02-05T12:00:00Z", "GB", "BoE Interest Rate Decision", "high", "Central Banks", "GBP", "4.75%", "4.50%"),
		event("2026-02-06T13:30:00Z", "US", "US Nonfarm Payrolls", "high", "Employment", "USD", "256K", "200K"),
		event("2026-02-06T13:30:00Z", "US", "US Unemployment Rate", "high", "Employment", "USD", "4.1%", "4.2%"),
		event("2026-02-12T13:30:00Z", "US", "US CPI (YoY)", "high", "Inflation", "USD", "2.7%", "2.5%"),
		event("2026-02-12T13:30:00Z", "US", "US Core CPI (YoY)", "high", "Inflation", "USD", "3.3%", "3.1%"),
		event("2026-02-13T13:30:00Z", "US", "US PPI (YoY)", "medium", "Inflation", "USD", "3.0%", "2.8%"),
		event("2026-02-18T10:00:00Z", "EU", "Eurozone CPI (YoY) - Final", "medium", "Inflation", "EUR", "2.2%", "2.2%"),
		event("2026-02-20T10:00:00Z", "DE", "German ZEW Economic Sentiment", "medium", "Economic Activity", "EUR", "15.7", "18.0"),
		event("2026-02-21T09:00:00Z", "EU", "Eurozone Flash PMI Services", "high", "Economic Activity", "EUR", "51.4", "52.0"),
		event("2026-02-26T13:30:00Z", "US", "US Durable Goods Orders (MoM)", "medium", "Economic Activity", "USD", "0.8%", "0.5%"),
		event("2026-02-27T13:30:00Z", "US", "US GDP (QoQ) Q4 2025 - Second Estimate", "high", "GDP", "USD", "2.5%", "2.6%"),
	}
}
