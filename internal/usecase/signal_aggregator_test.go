package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
)

type fakeFeatureStore struct {
	closes []float64
	err    error
}

func (f *fakeFeatureStore) GetCandles(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) ([]models.Candle, error) {
	return f.candles(), f.err
}

func (f *fakeFeatureStore) GetLatestNCandles(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles(), nil
}

func (f *fakeFeatureStore) candles() []models.Candle {
	cs := make([]models.Candle, 0, len(f.closes))
	for i, c := range f.closes {
		cs = append(cs, models.Candle{
			Bucket: time.Unix(int64(i)*60, 0),
			Symbol: "SPY",
			Close:  c,
		})
	}
	return cs
}

func uptrend(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = 100 + 0.2*float64(i)
	}
	return xs
}

func TestLatestRegimeFromStore(t *testing.T) {
	agg := NewSignalAggregator(&fakeFeatureStore{closes: uptrend(100)})
	res, err := agg.LatestRegime(context.Background(), "SPY", 100, domrepo.TF1d)
	if err != nil {
		t.Fatalf("latest regime: %v", err)
	}
	if res.Regime != models.RegimeBull {
		t.Fatalf("regime = %s, want BULL", res.Regime)
	}
}

func TestLatestRegimeShortSeries(t *testing.T) {
	agg := NewSignalAggregator(&fakeFeatureStore{closes: uptrend(10)})
	res, err := agg.LatestRegime(context.Background(), "SPY", 10, domrepo.TF1d)
	if err != nil {
		t.Fatalf("latest regime: %v", err)
	}
	if res.Method != models.MethodInsufficientData {
		t.Fatalf("method = %s, want insufficient_data", res.Method)
	}
}

func TestLatestRegimeStoreError(t *testing.T) {
	agg := NewSignalAggregator(&fakeFeatureStore{err: fmt.Errorf("clickhouse down")})
	if _, err := agg.LatestRegime(context.Background(), "SPY", 100, domrepo.TF1d); err == nil {
		t.Fatal("expected store error")
	}
}

func TestRecoveryFromStore(t *testing.T) {
	closes := make([]float64, 0, 40)
	for i := 0; i < 10; i++ {
		closes = append(closes, 100)
	}
	closes = append(closes, 85, 86, 101)
	for i := 0; i < 27; i++ {
		closes = append(closes, 102)
	}
	agg := NewSignalAggregator(&fakeFeatureStore{closes: closes})
	res, err := agg.Recovery(context.Background(), "SPY", len(closes), domrepo.TF1d, 0.10)
	if err != nil {
		t.Fatalf("recovery: %v", err)
	}
	if res.EpisodeCount != 1 {
		t.Fatalf("episodes = %d, want 1", res.EpisodeCount)
	}
}

func TestSignificancePassthrough(t *testing.T) {
	agg := NewSignalAggregator(&fakeFeatureStore{})
	res := agg.Significance("gap_up", []float64{2.1, 2.3, 2.2, 2.4}, []float64{0.1, 0.2, 0.15, 0.12})
	if res.FactorName != "gap_up" {
		t.Fatalf("factor = %q", res.FactorName)
	}
	if res.Method != models.MethodTwoSampleTTest {
		t.Fatalf("method = %q", res.Method)
	}
}
