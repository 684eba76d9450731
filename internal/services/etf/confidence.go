package etf

import (
	"fmt"

	"QuantPulse/internal/domain/models"
)

// FactorAssessment is the verdict for a single confidence factor.
type FactorAssessment string

const (
	Favorable   FactorAssessment = "FAVORABLE"
	Unfavorable FactorAssessment = "UNFAVORABLE"
	Neutral     FactorAssessment = "NEUTRAL"
)

// ConfidenceLevel is the overall entry-confidence band.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// FactorResult is the assessment of one confidence factor.
type FactorResult struct {
	Name       string           `json:"name"`
	Assessment FactorAssessment `json:"assessment"`
	Reason     string           `json:"reason"`
}

// ConfidenceScore is the overall confidence for a signal.
type ConfidenceScore struct {
	Level          ConfidenceLevel `json:"level"`
	FavorableCount int             `json:"favorable_count"`
	TotalFactors   int             `json:"total_factors"`
	Factors        []FactorResult  `json:"factors"`
}

// AssessDrawdownDepth grades drawdown depth against the mapping's
// threshold: deep enough to mean-revert is favorable, shallow is not.
func AssessDrawdownDepth(drawdownPct, threshold float64) FactorResult {
	absDD := drawdownPct
	if absDD < 0 {
		absDD = -absDD
	}
	switch {
	case absDD >= threshold*1.5:
		return FactorResult{"drawdown_depth", Favorable, fmt.Sprintf("Deep drawdown: %.1f%%", absDD*100)}
	case absDD >= threshold:
		return FactorResult{"drawdown_depth", Neutral, fmt.Sprintf("At threshold: %.1f%%", absDD*100)}
	default:
		return FactorResult{"drawdown_depth", Unfavorable, fmt.Sprintf("Shallow: %.1f%%", absDD*100)}
	}
}

// AssessRegime grades the detected market regime for a mean-reversion
// entry: RANGE is home turf, BULL rides along, BEAR fights the tape.
func AssessRegime(res models.RegimeResult) FactorResult {
	switch res.Regime {
	case models.RegimeBear:
		return FactorResult{"market_regime", Unfavorable, "Bear regime: falling knife risk"}
	case models.RegimeBull:
		return FactorResult{"market_regime", Favorable, "Bull regime: trend support"}
	default:
		if res.Method == models.MethodInsufficientData {
			return FactorResult{"market_regime", Neutral, "Regime unknown: insufficient history"}
		}
		return FactorResult{"market_regime", Favorable, "Range-bound: mean reversion favored"}
	}
}

// AssessYieldCurve grades the yield curve status.
func AssessYieldCurve(curveStatus string) FactorResult {
	switch curveStatus {
	case models.CurveNormal:
		return FactorResult{"yield_curve", Favorable, "Normal yield curve"}
	case models.CurveInverted:
		return FactorResult{"yield_curve", Unfavorable, "Inverted yield curve"}
	default:
		return FactorResult{"yield_curve", Neutral, "Yield curve " + curveStatus}
	}
}

// ComputeConfidence rolls factor assessments into one band. With the
// full factor set: HIGH needs 7+ favorable, MEDIUM 4-6, LOW otherwise;
// thresholds scale when fewer factors are supplied.
func ComputeConfidence(factors []FactorResult) ConfidenceScore {
	favorable := 0
	for _, f := range factors {
		if f.Assessment == Favorable {
			favorable++
		}
	}

	total := len(factors)
	high, medium := 7, 4
	if total > 0 && total < 9 {
		high = (7*total + 8) / 9
		medium = (4*total + 8) / 9
	}

	level := ConfidenceLow
	switch {
	case favorable >= high:
		level = ConfidenceHigh
	case favorable >= medium:
		level = ConfidenceMedium
	}

	return ConfidenceScore{
		Level:          level,
		FavorableCount: favorable,
		TotalFactors:   total,
		Factors:        factors,
	}
}
