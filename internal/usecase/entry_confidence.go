package usecase

import (
	"context"
	"fmt"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
	"QuantPulse/internal/services/etf"
)

// EntryConfidenceResult is the graded entry assessment for a tracked
// leveraged ETF, built from its underlying index's signals.
type EntryConfidenceResult struct {
	LeveragedTicker    string              `json:"leveraged_ticker"`
	UnderlyingTicker   string              `json:"underlying_ticker"`
	CurrentDrawdownPct float64             `json:"current_drawdown_pct"`
	Regime             models.RegimeResult `json:"regime"`
	CurveStatus        string              `json:"curve_status"`
	Confidence         etf.ConfidenceScore `json:"confidence"`
}

// EntryConfidence assesses a leveraged ETF entry by grading the
// underlying index's drawdown depth, regime, and the yield curve.
func (uc *SignalsAggregateUseCase) EntryConfidence(ctx context.Context, ticker string, n int, tf domrepo.Timeframe) (*EntryConfidenceResult, error) {
	mapping, ok := etf.GetMapping(ticker)
	if !ok {
		return nil, fmt.Errorf("unknown leveraged etf: %s", ticker)
	}
	if n <= 0 {
		n = 300
	}

	closes, err := uc.agg.closes(ctx, mapping.UnderlyingTicker, n, tf)
	if err != nil {
		return nil, fmt.Errorf("load closes for %s: %w", mapping.UnderlyingTicker, err)
	}

	regime, err := uc.agg.LatestRegime(ctx, mapping.UnderlyingTicker, n, tf)
	if err != nil {
		return nil, fmt.Errorf("regime for %s: %w", mapping.UnderlyingTicker, err)
	}

	drawdown := currentDrawdown(closes)

	factors := []etf.FactorResult{
		etf.AssessDrawdownDepth(drawdown, mapping.DrawdownThreshold),
		etf.AssessRegime(regime),
	}
	curveStatus := models.CurveUnknown
	if curve, err := uc.yields.FetchYieldCurve(ctx); err == nil {
		curveStatus = curve.CurveStatus
	}
	factors = append(factors, etf.AssessYieldCurve(curveStatus))

	return &EntryConfidenceResult{
		LeveragedTicker:    mapping.LeveragedTicker,
		UnderlyingTicker:   mapping.UnderlyingTicker,
		CurrentDrawdownPct: drawdown,
		Regime:             regime,
		CurveStatus:        curveStatus,
		Confidence:         etf.ComputeConfidence(factors),
	}, nil
}

// currentDrawdown is the fractional decline of the last close from the
// running peak. Zero or negative, e.g. -0.08 for an 8% drawdown.
func currentDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	peak := closes[0]
	for _, c := range closes {
		if c > peak {
			peak = c
		}
	}
	if peak <= 0 {
		return 0
	}
	return (closes[len(closes)-1] - peak) / peak
}
