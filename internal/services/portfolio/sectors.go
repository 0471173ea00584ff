package portfolio

// sectorMap covers widely held US large caps so sector allocation works
// without an extra upstream call per holding. Unknown symbols land in
// "Other".
var sectorMap = map[string]string{
	"AAPL":  "Technology",
	"MSFT":  "Technology",
	"NVDA":  "Technology",
	"AVGO":  "Technology",
	"ORCL":  "Technology",
	"CRM":   "Technology",
	"ADBE":  "Technology",
	"AMD":   "Technology",
	"INTC":  "Technology",
	"CSCO":  "Technology",
	"IBM":   "Technology",
	"QCOM":  "Technology",
	"TXN":   "Technology",
	"GOOGL": "Communication Services",
	"GOOG":  "Communication Services",
	"META":  "Communication Services",
	"NFLX":  "Communication Services",
	"DIS":   "Communication Services",
	"TMUS":  "Communication Services",
	"VZ":    "Communication Services",
	"T":     "Communication Services",
	"AMZN":  "Consumer Cyclical",
	"TSLA":  "Consumer Cyclical",
	"HD":    "Consumer Cyclical",
	"MCD":   "Consumer Cyclical",
	"NKE":   "Consumer Cyclical",
	"SBUX":  "Consumer Cyclical",
	"LOW":   "Consumer Cyclical",
	"WMT":   "Consumer Defensive",
	"PG":    "Consumer Defensive",
	"KO":    "Consumer Defensive",
	"PEP":   "Consumer Defensive",
	"COST":  "Consumer Defensive",
	"CL":    "Consumer Defensive",
	"JPM":   "Financial Services",
	"V":     "Financial Services",
	"MA":    "Financial Services",
	"BAC":   "Financial Services",
	"WFC":   "Financial Services",
	"GS":    "Financial Services",
	"MS":    "Financial Services",
	"AXP":   "Financial Services",
	"BRK.B": "Financial Services",
	"BRK-B": "Financial Services",
	"JNJ":   "Healthcare",
	"UNH":   "Healthcare",
	"LLY":   "Healthcare",
	"PFE":   "Healthcare",
	"ABBV":  "Healthcare",
	"MRK":   "Healthcare",
	"TMO":   "Healthcare",
	"ABT":   "Healthcare",
	"XOM":   "Energy",
	"CVX":   "Energy",
	"COP":   "Energy",
	"SLB":   "Energy",
	"BA":    "Industrials",
	"CAT":   "Industrials",
	"GE":    "Industrials",
	"HON":   "Industrials",
	"UPS":   "Industrials",
	"RTX":   "Industrials",
	"LIN":   "Basic Materials",
	"SHW":   "Basic Materials",
	"NEE":   "Utilities",
	"DUK":   "Utilities",
	"SO":    "Utilities",
	"AMT":   "Real Estate",
	"PLD":   "Real Estate",
	"SPG":   "Real Estate",
}

// lookupSector returns the sector for a symbol, or empty when unknown so
// the caller can decide the fallback label.
func lookupSector(symbol string) string {
	return sectorMap[symbol]
}
