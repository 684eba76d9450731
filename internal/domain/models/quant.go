package models

import "time"

// Regime is a discrete label summarizing the directional character of
// recent price action.
type Regime string

const (
	RegimeBull  Regime = "BULL"
	RegimeBear  Regime = "BEAR"
	RegimeRange Regime = "RANGE"
)

// Methods tagging which code path produced a result.
const (
	MethodInsufficientData   = "insufficient_data"
	MethodTrendAndVolatility = "trend_and_volatility"
	MethodTwoSampleTTest     = "two_sample_t_test"
	MethodEmpirical          = "empirical"
	MethodNoRecoveries       = "no_recoveries"
)

// RegimeResult is an immutable classification snapshot. ConfidencePct is
// 0 only on the insufficient-data path.
type RegimeResult struct {
	Regime        Regime  `json:"regime"`
	ConfidencePct float64 `json:"confidence_pct"`
	Return60      float64 `json:"return_60d"`
	Volatility    float64 `json:"volatility"`
	TrendStrength float64 `json:"trend_strength"`
	Method        string  `json:"method"`
}

// RegimeSignal attaches a symbol and observation time to a RegimeResult
// when it is produced for a stored price series.
type RegimeSignal struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	RegimeResult
}

// RegimeAlert is the queued payload for a regime flip. LeveragedTicker
// is set when the symbol underlies a tracked leveraged ETF.
type RegimeAlert struct {
	Signal          RegimeSignal `json:"signal"`
	Previous        Regime       `json:"previous"`
	LeveragedTicker string       `json:"leveraged_ticker,omitempty"`
}

// SignificanceResult reports a two-sample factor test. SampleSizes
// preserves (len(favorable), len(unfavorable)) for downstream reporting.
type SignificanceResult struct {
	FactorName      string  `json:"factor_name"`
	FavorableMean   float64 `json:"favorable_mean"`
	UnfavorableMean float64 `json:"unfavorable_mean"`
	EffectSize      float64 `json:"effect_size"`
	PValue          float64 `json:"p_value"`
	Significant     bool    `json:"significant"`
	SampleSizes     [2]int  `json:"sample_sizes"`
	Method          string  `json:"method"`
}

// RecoveryStats summarizes the drawdown-recovery distribution of a
// price series for a given drawdown threshold.
type RecoveryStats struct {
	ThresholdPct float64 `json:"threshold_pct"`
	EpisodeCount int     `json:"episode_count"`
	MedianDays   float64 `json:"median_days"`
	MeanDays     float64 `json:"mean_days"`
	CILowDays    float64 `json:"ci_low_days"`
	CIHighDays   float64 `json:"ci_high_days"`
	RecoveryRate float64 `json:"recovery_rate"`
	Method       string  `json:"method"`
}
