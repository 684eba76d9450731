package models

import "time"

// SignalSnapshot bundles the concurrently-computed signals for one symbol.
// Each section is nil when its computation failed; the failure reason is
// recorded under Errors keyed by section name.
type SignalSnapshot struct {
	Symbol    string            `json:"symbol"`
	Timestamp time.Time         `json:"timestamp"`
	Regime    *RegimeResult     `json:"regime,omitempty"`
	Recovery  *RecoveryStats    `json:"recovery,omitempty"`
	Yields    *YieldCurve       `json:"yields,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}
