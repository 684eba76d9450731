package quant

import (
	"math"

	"QuantPulse/internal/domain/models"
)

// Classification constants. The window is what every signal below is
// computed over; histories shorter than it cannot support the stats.
const (
	regimeWindow = 60

	// Net return must clear one windowed volatility unit, floored so a
	// dead-quiet series does not classify on noise alone.
	returnThresholdFloor = 0.05

	// Minimum share of total path variation explained by the net move.
	// A steady trend sits near 1; an oscillating series near 0.
	minTrendStrength = 0.35

	// Confidence scaling: |return| at or beyond this maps to the full
	// return contribution; RANGE confidence decays over this band.
	fullReturnScale = 0.15
	rangeBand       = 0.10
)

// DetectRegime classifies the prevailing market regime from an ordered
// (oldest to newest) series of positive closing prices.
//
// Direction comes from the trailing 60-period return; persistence from
// trend strength, the net move relative to the path's total variation.
// Separating the two is what distinguishes a steady trend from a noisy
// oscillation with a similar endpoint displacement.
func DetectRegime(closes []float64) models.RegimeResult {
	if len(closes) < regimeWindow {
		return models.RegimeResult{
			Regime: models.RegimeRange,
			Method: models.MethodInsufficientData,
		}
	}

	last := len(closes) - 1
	ret60 := closes[last]/closes[last-regimeWindow+1] - 1

	window := closes[len(closes)-regimeWindow:]
	changes := pctChanges(window)
	vol := sampleStdDev(changes)

	totalVariation := 0.0
	for _, c := range changes {
		totalVariation += math.Abs(c)
	}
	trendStrength := 0.0
	if totalVariation > 0 {
		trendStrength = math.Abs(ret60) / totalVariation
	}
	if trendStrength > 1 {
		trendStrength = 1
	}

	threshold := vol * math.Sqrt(regimeWindow)
	if threshold < returnThresholdFloor {
		threshold = returnThresholdFloor
	}

	var regime models.Regime
	var confidence float64
	switch {
	case ret60 > threshold && trendStrength >= minTrendStrength:
		regime = models.RegimeBull
		confidence = trendConfidence(ret60, trendStrength)
	case ret60 < -threshold && trendStrength >= minTrendStrength:
		regime = models.RegimeBear
		confidence = trendConfidence(ret60, trendStrength)
	default:
		regime = models.RegimeRange
		confidence = rangeConfidence(ret60)
	}

	return models.RegimeResult{
		Regime:        regime,
		ConfidencePct: round1(confidence),
		Return60:      round4(ret60),
		Volatility:    round4(vol),
		TrendStrength: round4(trendStrength),
		Method:        models.MethodTrendAndVolatility,
	}
}

// trendConfidence blends trend strength with return magnitude, capped
// below 100 since a 60-period window never gives certainty.
func trendConfidence(ret, trendStrength float64) float64 {
	retScore := math.Abs(ret) / fullReturnScale
	if retScore > 1 {
		retScore = 1
	}
	conf := 50*trendStrength + 50*retScore
	if conf > 95 {
		conf = 95
	}
	return conf
}

// rangeConfidence is high when the net move is small and decays as the
// endpoints drift apart, floored at 50: RANGE was still the best label.
func rangeConfidence(ret float64) float64 {
	conf := 100 - math.Abs(ret)/rangeBand*100
	if conf < 50 {
		conf = 50
	}
	return conf
}
