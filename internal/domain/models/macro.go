package models

import "time"

// Yield curve classifications from the 3M-10Y spread.
const (
	CurveNormal   = "NORMAL"
	CurveFlat     = "FLAT"
	CurveInverted = "INVERTED"
	CurveUnknown  = "UNKNOWN"
)

// YieldCurve is a Treasury yield curve snapshot. Legs are nil when the
// upstream source had no quote.
type YieldCurve struct {
	US3M        *float64  `json:"us_3m"`
	US5Y        *float64  `json:"us_5y"`
	US10Y       *float64  `json:"us_10y"`
	US30Y       *float64  `json:"us_30y"`
	Spread3M10Y *float64  `json:"spread_3m_10y"`
	CurveStatus string    `json:"curve_status"`
	AsOf        time.Time `json:"as_of"`
}
