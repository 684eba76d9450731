package usecase

import (
	"context"
	"fmt"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
	"QuantPulse/internal/services/quant"
)

// SignalAggregator computes quant signals over candles from the feature
// store. The quant routines themselves never touch storage.
type SignalAggregator struct {
	store domrepo.FeatureStore
}

func NewSignalAggregator(store domrepo.FeatureStore) *SignalAggregator {
	return &SignalAggregator{store: store}
}

func (a *SignalAggregator) LatestRegime(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) (models.RegimeResult, error) {
	closes, err := a.closes(ctx, symbol, n, tf)
	if err != nil {
		return models.RegimeResult{}, err
	}
	return quant.DetectRegime(closes), nil
}

func (a *SignalAggregator) Recovery(ctx context.Context, symbol string, n int, tf domrepo.Timeframe, thresholdPct float64) (models.RecoveryStats, error) {
	closes, err := a.closes(ctx, symbol, n, tf)
	if err != nil {
		return models.RecoveryStats{}, err
	}
	return quant.AnalyzeRecovery(closes, thresholdPct), nil
}

// Significance runs the two-sample factor test; it takes its samples
// from the caller rather than the store.
func (a *SignalAggregator) Significance(factorName string, favorable, unfavorable []float64) models.SignificanceResult {
	return quant.CheckFactorSignificance(factorName, favorable, unfavorable)
}

func (a *SignalAggregator) closes(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]float64, error) {
	cs, err := a.store.GetLatestNCandles(ctx, symbol, n, tf)
	if err != nil {
		return nil, fmt.Errorf("load candles for %s: %w", symbol, err)
	}
	closes := make([]float64, 0, len(cs))
	for _, c := range cs {
		closes = append(closes, c.Close)
	}
	return closes, nil
}
