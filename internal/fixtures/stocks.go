package fixtures

import "bondfeed/internal/market"

// Stocks returns the CAC 40 constituents with reference prices.
func Stocks() []market.Instrument {
	return []market.Instrument{
		stock("MC.PA", "LVMH", "Luxe", "850.00", "5.20", "0.61", "450000", "845.00", "855.00", "844.80"),
		stock("RMS.PA", "Hermès", "Luxe", "2150.00", "12.00", "0.56", "25000", "2140.00", "2160.00", "2138.00"),
		stock("KER.PA", "Kering", "Luxe", "285.00", "-2.50", "-0.87", "180000", "283.00", "288.00", "287.50"),
		stock("OR.PA", "L'Oréal", "Luxe", "425.00", "3.20", "0.76", "320000", "422.00", "427.00", "421.80"),
		stock("BNP.PA", "BNP Paribas", "Banque & Finance", "65.50", "0.80", "1.24", "2500000", "64.80", "65.80", "64.70"),
		stock("ACA.PA", "Crédit Agricole", "Banque & Finance", "14.20", "0.15", "1.07", "3200000", "14.05", "14.25", "14.05"),
		stock("GLE.PA", "Société Générale", "Banque & Finance", "28.50", "0.40", "1.42", "1800000", "28.10", "28.60", "28.10"),
		stock("CS.PA", "AXA", "Banque & Finance", "32.80", "0.25", "0.77", "1500000", "32.55", "32.90", "32.55"),
		stock("TTE.PA", "TotalEnergies", "Énergie", "68.50", "1.20", "1.78", "3500000", "67.30", "68.80", "67.30"),
		stock("ENGI.PA", "Engie", "Énergie", "16.80", "0.10", "0.60", "2100000", "16.70", "16.90", "16.70"),
		stock("STLAM.MI", "Stellantis", "Automobile", "18.50", "-0.30", "-1.60", "4200000", "18.40", "18.90", "18.80"),
		stock("RNO.PA", "Renault", "Automobile", "45.20", "-0.80", "-1.74", "1600000", "45.00", "46.20", "46.00"),
		stock("AIR.PA", "Airbus", "Aéronautique & Défense", "145.00", "2.50", "1.75", "950000", "143.00", "145.50", "142.50"),
		stock("SAF.PA", "Safran", "Aéronautique & Défense", "195.00", "3.00", "1.56", "680000", "192.50", "195.80", "192.00"),
		stock("HO.PA", "Thales", "Aéronautique & Défense", "142.00", "1.80", "1.28", "420000", "140.50", "142.50", "140.20"),
		stock("AM.PA", "Dassault Aviation", "Aéronautique & Défense", "185.00", "2.20", "1.20", "35000", "183.00", "186.00", "182.80"),
		stock("STM.PA", "STMicroelectronics", "Technologie", "42.50", "0.80", "1.92", "1800000", "41.80", "42.80", "41.70"),
		stock("CAP.PA", "Capgemini", "Technologie", "195.00", "1.50", "0.78", "380000", "193.50", "196.00", "193.50"),
		stock("DSY.PA", "Dassault Systèmes", "Technologie", "38.50", "-0.40", "-1.03", "620000", "38.30", "39.00", "38.90"),
		stock("WLN.PA", "Worldline", "Technologie", "12.80", "-0.20", "-1.54", "1200000", "12.70", "13.10", "13.00"),
		stock("ORA.PA", "Orange", "Télécoms", "10.50", "0.05", "0.48", "5200000", "10.45", "10.55", "10.45"),
		stock("SAN.PA", "Sanofi", "Santé & Pharma", "95.00", "0.60", "0.64", "1400000", "94.50", "95.50", "94.40"),
		stock("EL.PA", "EssilorLuxottica", "Santé & Pharma", "205.00", "1.80", "0.89", "450000", "203.50", "206.00", "203.20"),
		stock("AI.PA", "Air Liquide", "Matériaux", "175.00", "1.20", "0.69", "780000", "174.00", "175.80", "173.80"),
		stock("SGO.PA", "Saint-Gobain", "Matériaux", "72.50", "0.90", "1.26", "1100000", "71.80", "72.80", "71.60"),
		stock("MT.AS", "ArcelorMittal", "Matériaux", "25.80", "-0.40", "-1.53", "2800000", "25.60", "26.30", "26.20"),
		stock("SU.PA", "Schneider Electric", "Industrie", "215.00", "2.50", "1.18", "620000", "213.00", "216.00", "212.50"),
		stock("LR.PA", "Legrand", "Industrie", "95.50", "0.80", "0.85", "480000", "94.80", "95.80", "94.70"),
		stock("DG.PA", "Vinci", "Industrie", "115.00", "1.20", "1.05", "920000", "114.00", "115.50", "113.80"),
		stock("EN.PA", "Bouygues", "Industrie", "35.50", "0.40", "1.14", "850000", "35.20", "35.70", "35.10"),
		stock("FGR.PA", "Eiffage", "Industrie", "98.00", "0.70", "0.72", "320000", "97.50", "98.50", "97.30"),
		stock("BN.PA", "Danone", "Biens de Consommation", "62.50", "0.30", "0.48", "1200000", "62.20", "62.80", "62.20"),
		stock("RI.PA", "Pernod Ricard", "Biens de Consommation", "145.00", "-0.80", "-0.55", "420000", "144.50", "146.20", "145.80"),
		stock("CA.PA", "Carrefour", "Biens de Consommation", "16.20", "0.10", "0.62", "1800000", "16.10", "16.30", "16.10"),
		stock("PUB.PA", "Publicis", "Services", "95.00", "1.20", "1.28", "680000", "94.00", "95.50", "93.80"),
		stock("SW.PA", "Sodexo", "Services", "82.50", "0.60", "0.73", "320000", "82.00", "83.00", "81.90"),
		stock("AC.PA", "Accor", "Services", "42.00", "0.50", "1.20", "580000", "41.60", "42.30", "41.50"),
		stock("URW.AS", "Unibail-Rodamco-Westfield", "Immobilier", "75.00", "-0.50", "-0.66", "420000", "74.50", "75.80", "75.50"),
	}
}

func stock(symbol, name, sector, price, change, pct, volume, low, high, prev string) market.Instrument {
	return market.Instrument{
		Symbol:        symbol,
		Name:          name,
		Sector:        sector,
		Currency:      "EUR",
		Price:         num(price),
		Change:        opt(change),
		ChangePercent: opt(pct),
		PreviousClose: opt(prev),
		DayLow:        opt(low),
		DayHigh:       opt(high),
		Volume:        opt(volume),
		Enrichment:    market.Static(),
	}
}
