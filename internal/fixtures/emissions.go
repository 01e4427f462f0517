package fixtures

import "bondfeed/internal/market"

// Emissions returns the covered bond issues shipped with the dashboard.
// Issues carrying a contract address are enriched on chain.
func Emissions() []market.Emission {
	return []market.Emission{
		{
			ID:              "FR0013516549",
			Issuer:          "Société Générale",
			Amount:          num("100"),
			Currency:        "EUR",
			Type:            "Covered Bond (OFH)",
			IssueDate:       "2019-04-18",
			Maturity:        "2024-04-18",
			Coupon:          num("0.0"),
			Status:          "Mature",
			Rating:          "Aaa/AAA",
			Country:         "France",
			ISIN:            "FR0013516549",
			Blockchain:      "Ethereum",
			Platform:        "SG-FORGE",
			ContractAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		},
		{
			ID:              "FR0013535804",
			Issuer:          "Société Générale",
			Amount:          num("40"),
			Currency:        "EUR",
			Type:            "Covered Bond (OFH)",
			IssueDate:       "2020-05-12",
			Maturity:        "2025-05-12",
			Coupon:          num("0.0"),
			Status:          "Active",
			Rating:          "Aaa/AAA",
			Country:         "France",
			ISIN:            "FR0013535804",
			Blockchain:      "Ethereum",
			Platform:        "SG-FORGE",
			ContractAddress: "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		},
		{
			ID:              "FR0014009YQ3",
			Issuer:          "Société Générale",
			Amount:          num("50"),
			Currency:        "EUR",
			Type:            "Green Covered Bond",
			IssueDate:       "2023-12-05",
			Maturity:        "2028-12-05",
			Coupon:          num("2.5"),
			Status:          "Active",
			Rating:          "Aaa/AAA",
			Country:         "France",
			ISIN:            "FR0014009YQ3",
			Green:           true,
			Blockchain:      "Ethereum",
			Platform:        "SG-FORGE",
			ContractAddress: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		},
		{
			ID:         "US78015K1007",
			Issuer:     "Société Générale",
			Amount:     num("100"),
			Currency:   "USD",
			Type:       "Digital Bond",
			IssueDate:  "2025-11-15",
			Maturity:   "2030-11-15",
			Coupon:     num("3.25"),
			Status:     "Active",
			Rating:     "Aa1/AA",
			Country:    "USA",
			ISIN:       "US78015K1007",
			Blockchain: "Canton Network",
			Platform:   "SG-FORGE",
		},
		{
			ID:              "FR0013412432",
			Issuer:          "BNP Paribas",
			Amount:          num("25"),
			Currency:        "EUR",
			Type:            "Project Finance Bond",
			IssueDate:       "2022-07-20",
			Maturity:        "2032-07-20",
			Coupon:          num("2.75"),
			Status:          "Active",
			Rating:          "Aa3/AA-",
			Country:         "France",
			ISIN:            "FR0013412432",
			Green:           true,
			Blockchain:      "Ethereum",
			Platform:        "AssetFoundry",
			ContractAddress: "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		},
		{
			ID:         "SI0022104922",
			Issuer:     "BNP Paribas",
			Amount:     num("30"),
			Currency:   "EUR",
			Type:       "Sovereign Bond",
			IssueDate:  "2024-07-10",
			Maturity:   "2029-07-10",
			Coupon:     num("2.875"),
			Status:     "Active",
			Rating:     "Aa3/AA-",
			Country:    "Slovenia",
			ISIN:       "SI0022104922",
			Blockchain: "Canton Network",
			Platform:   "Neobonds",
		},
		{
			ID:              "EU000A3K0D81",
			Issuer:          "European Investment Bank",
			Amount:          num("100"),
			Currency:        "EUR",
			Type:            "Digital Bond",
			IssueDate:       "2021-04-28",
			Maturity:        "2023-04-28",
			Coupon:          num("0.0"),
			Status:          "Mature",
			Rating:          "Aaa/AAA",
			Country:         "EU",
			ISIN:            "EU000A3K0D81",
			Blockchain:      "Ethereum",
			Platform:        "EIB Platform",
			ContractAddress: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599",
		},
		{
			ID:              "EU000A3K0JM5",
			Issuer:          "European Investment Bank",
			Amount:          num("100"),
			Currency:        "EUR",
			Type:            "Climate Awareness Bond",
			IssueDate:       "2024-11-19",
			Maturity:        "2027-11-19",
			Coupon:          num("2.5"),
			Status:          "Active",
			Rating:          "Aaa/AAA",
			Country:         "EU",
			ISIN:            "EU000A3K0JM5",
			Green:           true,
			Blockchain:      "Ethereum",
			Platform:        "EIB Platform",
			ContractAddress: "0x514910771AF9Ca656af840dff83E8264EcF986CA",
		},
		{
			ID:              "EU000A3K0JN3",
			Issuer:          "European Investment Bank",
			Amount:          num("100"),
			Currency:        "EUR",
			Type:            "Climate Awareness Bond",
			IssueDate:       "2024-11-22",
			Maturity:        "2029-11-22",
			Coupon:          num("2.625"),
			Status:          "Active",
			Rating:          "Aaa/AAA",
			Country:         "EU",
			ISIN:            "EU000A3K0JN3",
			Green:           true,
			Blockchain:      "Ethereum",
			Platform:        "EIB Platform",
			ContractAddress: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
		},
		{
			ID:              "EU000A3K0F56",
			Issuer:          "European Investment Bank",
			Amount:          num("50"),
			Currency:        "GBP",
			Type:            "Digital Bond",
			IssueDate:       "2023-01-25",
			Maturity:        "2026-01-25",
			Coupon:          num("3.0"),
			Status:          "Active",
			Rating:          "Aaa/AAA",
			Country:         "EU",
			ISIN:            "EU000A3K0F56",
			Blockchain:      "Ethereum",
			Platform:        "EIB Platform",
			ContractAddress: "0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9",
		},
		{
			ID:         "DE000A3H3JF2",
			Issuer:     "Berlin Hyp",
			Amount:     num("50"),
			Currency:   "EUR",
			Type:       "Pfandbrief",
			IssueDate:  "2024-03-15",
			Maturity:   "2029-03-15",
			Coupon:     num("2.375"),
			Status:     "Active",
			Rating:     "Aa1/AA+",
			Country:    "Germany",
			ISIN:       "DE000A3H3JF2",
			Blockchain: "SWIAT",
			Platform:   "SWIAT",
		},
		{
			ID:         "DE000DK0TH75",
			Issuer:     "DekaBank",
			Amount:     num("75"),
			Currency:   "EUR",
			Type:       "Digital Mortgage Pfandbrief",
			IssueDate:  "2025-10-20",
			Maturity:   "2030-10-20",
			Coupon:     num("2.5"),
			Status:     "Active",
			Rating:     "Aa2/AA",
			Country:    "Germany",
			ISIN:       "DE000DK0TH75",
			Blockchain: "SWIAT",
			Platform:   "SWIAT",
		},
		{
			ID:         "DE000A3H3MK8",
			Issuer:     "Natixis Pfandbriefbank",
			Amount:     num("60"),
			Currency:   "EUR",
			Type:       "Digital Registered Covered Bond",
			IssueDate:  "2025-08-12",
			Maturity:   "2030-08-12",
			Coupon:     num("2.625"),
			Status:     "Active",
			Rating:     "Aa3/AA-",
			Country:    "Germany",
			ISIN:       "DE000A3H3MK8",
			Blockchain: "SWIAT",
			Platform:   "SWIAT",
		},
		{
			ID:         "DE000LBW0PF9",
			Issuer:     "LBBW",
			Amount:     num("80"),
			Currency:   "EUR",
			Type:       "Pfandbrief",
			IssueDate:  "2024-09-10",
			Maturity:   "2029-09-10",
			Coupon:     num("2.25"),
			Status:     "Active",
			Rating:     "Aa1/AA+",
			Country:    "Germany",
			ISIN:       "DE000LBW0PF9",
			Blockchain: "SWIAT",
			Platform:   "SWIAT",
		},
		{
			ID:         "GB00BMTQ0K47",
			Issuer:     "Lloyds Banking Group",
			Amount:     num("45"),
			Currency:   "GBP",
			Type:       "Tokenised Gilt",
			IssueDate:  "2026-01-06",
			Maturity:   "2031-01-06",
			Coupon:     num("3.125"),
			Status:     "Active",
			Rating:     "A1/A+",
			Country:    "UK",
			ISIN:       "GB00BMTQ0K47",
			Blockchain: "Ethereum",
			Platform:   "Archax",
		},
		{
			ID:         "GB00BMSK9L34",
			Issuer:     "Barclays",
			Amount:     num("120"),
			Currency:   "GBP",
			Type:       "Digital Bond",
			IssueDate:  "2025-06-18",
			Maturity:   "2030-06-18",
			Coupon:     num("3.25"),
			Status:     "Active",
			Rating:     "A2/A",
			Country:    "UK",
			ISIN:       "GB00BMSK9L34",
			Blockchain: "Ethereum",
			Platform:   "Barclays Digital",
		},
		{
			ID:         "CNE100004BF6",
			Issuer:     "Huaxia Bank",
			Amount:     num("650"),
			Currency:   "CNY",
			Type:       "Financial Bond",
			IssueDate:  "2025-12-15",
			Maturity:   "2028-12-15",
			Coupon:     num("3.5"),
			Status:     "Active",
			Rating:     "A1/A+",
			Country:    "China",
			ISIN:       "CNE100004BF6",
			Blockchain: "BSN",
			Platform:   "BSN China",
		},
		{
			ID:         "ES0413900715",
			Issuer:     "Santander",
			Amount:     num("85"),
			Currency:   "EUR",
			Type:       "Digital Bond",
			IssueDate:  "2023-09-20",
			Maturity:   "2028-09-20",
			Coupon:     num("2.75"),
			Status:     "Active",
			Rating:     "A2/A",
			Country:    "Spain",
			ISIN:       "ES0413900715",
			Blockchain: "Ethereum",
			Platform:   "Santander Digital",
		},
		{
			ID:         "NL0015000YX2",
			Issuer:     "ING Bank",
			Amount:     num("70"),
			Currency:   "EUR",
			Type:       "Green Bond",
			IssueDate:  "2024-05-10",
			Maturity:   "2029-05-10",
			Coupon:     num("2.5"),
			Status:     "Active",
			Rating:     "Aa3/AA-",
			Country:    "Netherlands",
			ISIN:       "NL0015000YX2",
			Green:      true,
			Blockchain: "Ethereum",
			Platform:   "ING Digital",
		},
		{
			ID:         "IT0005514341",
			Issuer:     "UniCredit",
			Amount:     num("55"),
			Currency:   "EUR",
			Type:       "Digital Bond",
			IssueDate:  "2024-11-05",
			Maturity:   "2027-11-05",
			Coupon:     num("2.375"),
			Status:     "Active",
			Rating:     "Baa1/BBB+",
			Country:    "Italy",
			ISIN:       "IT0005514341",
			Blockchain: "Ethereum",
			Platform:   "UniCredit Digital",
		},
	}
}
