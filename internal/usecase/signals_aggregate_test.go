package usecase

import (
	"context"
	"errors"
	"testing"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
	"QuantPulse/internal/services/etf"
)

type fakeYieldSource struct {
	curve models.YieldCurve
	err   error
}

func (f *fakeYieldSource) FetchYieldCurve(ctx context.Context) (models.YieldCurve, error) {
	return f.curve, f.err
}

func TestGetSnapshotAllSections(t *testing.T) {
	agg := NewSignalAggregator(&fakeFeatureStore{closes: uptrend(300)})
	uc := NewSignalsAggregateUseCase(agg, &fakeYieldSource{
		curve: models.YieldCurve{CurveStatus: models.CurveNormal},
	})

	snap, err := uc.GetSnapshot(context.Background(), GetSnapshotParams{Symbol: "SPY"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Regime == nil || snap.Regime.Regime != models.RegimeBull {
		t.Fatalf("regime section missing or wrong: %+v", snap.Regime)
	}
	if snap.Recovery == nil {
		t.Fatalf("recovery section missing")
	}
	if snap.Yields == nil || snap.Yields.CurveStatus != models.CurveNormal {
		t.Fatalf("yields section missing or wrong: %+v", snap.Yields)
	}
	if snap.Errors != nil {
		t.Fatalf("unexpected errors: %v", snap.Errors)
	}
}

func TestGetSnapshotPartialFailure(t *testing.T) {
	agg := NewSignalAggregator(&fakeFeatureStore{closes: uptrend(300)})
	uc := NewSignalsAggregateUseCase(agg, &fakeYieldSource{err: errors.New("upstream down")})

	snap, err := uc.GetSnapshot(context.Background(), GetSnapshotParams{Symbol: "SPY"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Regime == nil || snap.Recovery == nil {
		t.Fatalf("signal sections should survive a yields failure")
	}
	if snap.Yields != nil {
		t.Fatalf("yields should be absent on fetch error")
	}
	if snap.Errors["yields"] == "" {
		t.Fatalf("expected yields error recorded, got %v", snap.Errors)
	}
}

func TestGetSnapshotRequiresSymbol(t *testing.T) {
	uc := NewSignalsAggregateUseCase(NewSignalAggregator(&fakeFeatureStore{}), &fakeYieldSource{})
	if _, err := uc.GetSnapshot(context.Background(), GetSnapshotParams{}); err == nil {
		t.Fatalf("expected error for missing symbol")
	}
}

func TestEntryConfidenceKnownTicker(t *testing.T) {
	// Uptrend into a late dip: peak then an ~8% decline.
	closes := uptrend(300)
	peak := closes[len(closes)-2]
	closes[len(closes)-1] = peak * 0.92

	agg := NewSignalAggregator(&fakeFeatureStore{closes: closes})
	uc := NewSignalsAggregateUseCase(agg, &fakeYieldSource{
		curve: models.YieldCurve{CurveStatus: models.CurveNormal},
	})

	res, err := uc.EntryConfidence(context.Background(), "tqqq", 300, domrepo.TF1d)
	if err != nil {
		t.Fatalf("entry confidence: %v", err)
	}
	if res.LeveragedTicker != "TQQQ" || res.UnderlyingTicker != "QQQ" {
		t.Fatalf("unexpected mapping: %s -> %s", res.LeveragedTicker, res.UnderlyingTicker)
	}
	if res.CurrentDrawdownPct >= 0 {
		t.Fatalf("expected negative drawdown, got %f", res.CurrentDrawdownPct)
	}
	if res.CurveStatus != models.CurveNormal {
		t.Fatalf("curve status = %s", res.CurveStatus)
	}
	// 8% dip vs TQQQ's 5% threshold: deep drawdown is favorable.
	if res.Confidence.TotalFactors != 3 {
		t.Fatalf("expected 3 factors, got %d", res.Confidence.TotalFactors)
	}
	for _, f := range res.Confidence.Factors {
		if f.Name == "drawdown_depth" && f.Assessment != etf.Favorable {
			t.Fatalf("drawdown_depth = %s, want FAVORABLE", f.Assessment)
		}
	}
}

func TestEntryConfidenceUnknownTicker(t *testing.T) {
	uc := NewSignalsAggregateUseCase(NewSignalAggregator(&fakeFeatureStore{}), &fakeYieldSource{})
	if _, err := uc.EntryConfidence(context.Background(), "NOPE", 300, domrepo.TF1d); err == nil {
		t.Fatalf("expected error for unknown ticker")
	}
}

func TestCurrentDrawdown(t *testing.T) {
	cases := []struct {
		closes []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{100}, 0},
		{[]float64{100, 110, 99}, (99 - 110) / 110.0},
		{[]float64{100, 90, 120}, 0},
	}
	for _, c := range cases {
		if got := currentDrawdown(c.closes); got != c.want {
			t.Fatalf("drawdown(%v) = %f, want %f", c.closes, got, c.want)
		}
	}
}
