package etf

import "strings"

// Mapping maps a leveraged ETF to its underlying index.
type Mapping struct {
	LeveragedTicker   string  `json:"leveraged_ticker"`
	UnderlyingTicker  string  `json:"underlying_ticker"`
	Name              string  `json:"name"`
	Leverage          float64 `json:"leverage"`
	DrawdownThreshold float64 `json:"drawdown_threshold"`
	AlertThreshold    float64 `json:"alert_threshold"`
	ProfitTarget      float64 `json:"profit_target"`
}

// Universe is the tracked leveraged-ETF universe.
var Universe = []Mapping{
	{"TQQQ", "QQQ", "Nasdaq-100 3x Bull", 3.0, 0.05, 0.03, 0.10},
	{"UPRO", "SPY", "S&P 500 3x Bull", 3.0, 0.05, 0.03, 0.10},
	{"SOXL", "SOXX", "Semiconductors 3x Bull", 3.0, 0.08, 0.05, 0.10},
	{"TNA", "IWM", "Russell 2000 3x Bull", 3.0, 0.07, 0.04, 0.10},
	{"TECL", "XLK", "Tech 3x Bull", 3.0, 0.07, 0.04, 0.10},
	{"FAS", "XLF", "Financials 3x Bull", 3.0, 0.07, 0.04, 0.10},
	{"LABU", "XBI", "Biotech 3x Bull", 3.0, 0.10, 0.07, 0.10},
	{"UCO", "USO", "Oil 2x Bull", 2.0, 0.10, 0.07, 0.10},
}

// GetMapping looks up a mapping by leveraged ETF ticker.
func GetMapping(leveragedTicker string) (Mapping, bool) {
	t := strings.ToUpper(leveragedTicker)
	for _, m := range Universe {
		if m.LeveragedTicker == t {
			return m, true
		}
	}
	return Mapping{}, false
}

// GetMappingByUnderlying looks up a mapping by underlying index ticker.
func GetMappingByUnderlying(underlyingTicker string) (Mapping, bool) {
	t := strings.ToUpper(underlyingTicker)
	for _, m := range Universe {
		if m.UnderlyingTicker == t {
			return m, true
		}
	}
	return Mapping{}, false
}

// UnderlyingTickers returns the deduplicated underlying tickers, in
// universe order.
func UnderlyingTickers() []string {
	seen := make(map[string]struct{}, len(Universe))
	out := make([]string, 0, len(Universe))
	for _, m := range Universe {
		if _, ok := seen[m.UnderlyingTicker]; ok {
			continue
		}
		seen[m.UnderlyingTicker] = struct{}{}
		out = append(out, m.UnderlyingTicker)
	}
	return out
}
