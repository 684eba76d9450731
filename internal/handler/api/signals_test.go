package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
	icache "QuantPulse/internal/service/cache"
	"QuantPulse/internal/usecase"
)

type fakeFeatureStore struct {
	closes []float64
}

func (f *fakeFeatureStore) GetCandles(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) ([]models.Candle, error) {
	return f.candles(), nil
}

func (f *fakeFeatureStore) GetLatestNCandles(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	cs := f.candles()
	if n < len(cs) {
		cs = cs[len(cs)-n:]
	}
	return cs, nil
}

func (f *fakeFeatureStore) candles() []models.Candle {
	cs := make([]models.Candle, 0, len(f.closes))
	for i, c := range f.closes {
		cs = append(cs, models.Candle{
			Bucket: time.Unix(int64(i)*86400, 0),
			Symbol: "SPY",
			Close:  c,
		})
	}
	return cs
}

// dipSeries holds near 100 with one ~8% drawdown that recovers.
func dipSeries() []float64 {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	closes[20] = 92
	closes[21] = 93
	closes[22] = 101
	return closes
}

func newCachedHandler(closes []float64) *SignalsHandler {
	h := NewSignalsHandler(usecase.NewSignalAggregator(&fakeFeatureStore{closes: closes}))
	h.SetCache(icache.NewTTLCache())
	return h
}

func getRecovery(t *testing.T, h *SignalsHandler, url string) models.RecoveryStats {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.Recovery()(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	var res models.RecoveryStats
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func TestRecoveryCacheKeyedByThreshold(t *testing.T) {
	h := newCachedHandler(dipSeries())

	first := getRecovery(t, h, "/internal/signals/recovery?symbol=SPY&threshold=0.05")
	if first.ThresholdPct != 0.05 || first.EpisodeCount != 1 {
		t.Fatalf("first = %+v, want one episode at 0.05", first)
	}

	// A stricter threshold must not be served the cached 0.05 body.
	second := getRecovery(t, h, "/internal/signals/recovery?symbol=SPY&threshold=0.20")
	if second.ThresholdPct != 0.20 {
		t.Fatalf("threshold_pct = %v, want 0.20", second.ThresholdPct)
	}
	if second.EpisodeCount != 0 {
		t.Fatalf("episode_count = %d, want 0 at 0.20", second.EpisodeCount)
	}
}

func TestRecoveryCacheKeyedByN(t *testing.T) {
	h := newCachedHandler(dipSeries())

	full := getRecovery(t, h, "/internal/signals/recovery?symbol=SPY&threshold=0.05&n=40")
	if full.EpisodeCount != 1 {
		t.Fatalf("full = %+v, want one episode", full)
	}

	short := getRecovery(t, h, "/internal/signals/recovery?symbol=SPY&threshold=0.05&n=10")
	if short.Method != models.MethodInsufficientData {
		t.Fatalf("method = %q, want %q for n=10", short.Method, models.MethodInsufficientData)
	}
}

func TestSetTuningOverridesDefaultThreshold(t *testing.T) {
	h := newCachedHandler(dipSeries())
	h.SetTuning(0.20, 0, 0)

	// No threshold param, so the configured default applies.
	res := getRecovery(t, h, "/internal/signals/recovery?symbol=SPY")
	if res.ThresholdPct != 0.20 {
		t.Fatalf("threshold_pct = %v, want configured default 0.20", res.ThresholdPct)
	}
	if res.EpisodeCount != 0 {
		t.Fatalf("episode_count = %d, want 0 for an 8%% dip at 0.20", res.EpisodeCount)
	}
}

func TestRegimeCacheKeyedByN(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + 0.2*float64(i)
	}
	h := newCachedHandler(closes)

	do := func(url string) models.RegimeResult {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		h.Regime()(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		var res models.RegimeResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return res
	}

	first := do("/internal/signals/regime?symbol=SPY&n=100")
	if first.Regime != models.RegimeBull {
		t.Fatalf("regime = %s, want BULL", first.Regime)
	}

	short := do("/internal/signals/regime?symbol=SPY&n=10")
	if short.Method != models.MethodInsufficientData {
		t.Fatalf("method = %q, want %q for n=10", short.Method, models.MethodInsufficientData)
	}
}
