package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
	"QuantPulse/pkg/logger"
)

type fakeQueue struct {
	published []models.RegimeAlert
}

func (f *fakeQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	f.published = append(f.published, payload.(models.RegimeAlert))
	return nil
}

type fakeHistory struct {
	runs []models.PipelineRun
}

func (f *fakeHistory) Record(ctx context.Context, run models.PipelineRun) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeHistory) Load(ctx context.Context, days int) ([]models.PipelineRun, error) {
	return f.runs, nil
}

type fakeMetrics struct {
	regimes map[string]models.Regime
	errors  int
}

func (f *fakeMetrics) RecordMessageSent(backend, symbol string)    {}
func (f *fakeMetrics) RecordError(kind string)                     { f.errors++ }
func (f *fakeMetrics) RecordLastPrice(symbol string, price float64) {}
func (f *fakeMetrics) RecordLatency(op string, seconds float64)    {}
func (f *fakeMetrics) RecordRegime(symbol string, regime models.Regime, confidence float64) {
	if f.regimes == nil {
		f.regimes = map[string]models.Regime{}
	}
	f.regimes[symbol] = regime
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newWatcher(store domrepo.FeatureStore, q *fakeQueue, h *fakeHistory, m *fakeMetrics, t *testing.T) *RegimeWatcher {
	return NewRegimeWatcher(
		NewSignalAggregator(store),
		q, h, m,
		testLogger(t),
		[]string{"SPY"},
		domrepo.TF1d,
		100,
		time.Minute,
		"premarket",
	)
}

func TestSweepRecordsRun(t *testing.T) {
	q, h, m := &fakeQueue{}, &fakeHistory{}, &fakeMetrics{}
	w := newWatcher(&fakeFeatureStore{closes: uptrend(100)}, q, h, m, t)

	w.Sweep(context.Background())

	if len(h.runs) != 1 {
		t.Fatalf("runs recorded = %d, want 1", len(h.runs))
	}
	run := h.runs[0]
	if run.ModulesOK != 1 || run.ModulesTotal != 1 {
		t.Fatalf("run = %+v, want 1/1 ok", run)
	}
	if !run.ModuleResults["SPY"] {
		t.Fatal("SPY sweep not marked successful")
	}
	if m.regimes["SPY"] != models.RegimeBull {
		t.Fatalf("metrics regime = %s, want BULL", m.regimes["SPY"])
	}
}

func TestSweepNoAlertOnFirstObservation(t *testing.T) {
	q, h, m := &fakeQueue{}, &fakeHistory{}, &fakeMetrics{}
	w := newWatcher(&fakeFeatureStore{closes: uptrend(100)}, q, h, m, t)

	w.Sweep(context.Background())
	if len(q.published) != 0 {
		t.Fatalf("alerts on first sweep = %d, want 0", len(q.published))
	}
}

func TestSweepAlertsOnRegimeFlip(t *testing.T) {
	store := &fakeFeatureStore{closes: uptrend(100)}
	q, h, m := &fakeQueue{}, &fakeHistory{}, &fakeMetrics{}
	w := newWatcher(store, q, h, m, t)

	w.Sweep(context.Background())

	down := make([]float64, 100)
	for i := range down {
		down[i] = 100 - 0.3*float64(i)
	}
	store.closes = down
	w.Sweep(context.Background())

	if len(q.published) != 1 {
		t.Fatalf("alerts = %d, want 1", len(q.published))
	}
	alert := q.published[0]
	if alert.Previous != models.RegimeBull || alert.Signal.Regime != models.RegimeBear {
		t.Fatalf("alert = %+v, want BULL -> BEAR", alert)
	}
	if alert.Signal.Symbol != "SPY" {
		t.Fatalf("alert symbol = %q", alert.Signal.Symbol)
	}
	if alert.LeveragedTicker != "UPRO" {
		t.Fatalf("leveraged ticker = %q, want UPRO", alert.LeveragedTicker)
	}
}

func TestSweepNoAlertWhenRegimeUnchanged(t *testing.T) {
	q, h, m := &fakeQueue{}, &fakeHistory{}, &fakeMetrics{}
	w := newWatcher(&fakeFeatureStore{closes: uptrend(100)}, q, h, m, t)

	w.Sweep(context.Background())
	w.Sweep(context.Background())
	if len(q.published) != 0 {
		t.Fatalf("alerts = %d, want 0", len(q.published))
	}
	if len(h.runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(h.runs))
	}
}

func TestSweepMarksFailures(t *testing.T) {
	q, h, m := &fakeQueue{}, &fakeHistory{}, &fakeMetrics{}
	store := &fakeFeatureStore{}
	store.err = errStore
	w := newWatcher(store, q, h, m, t)

	w.Sweep(context.Background())

	if h.runs[0].ModulesOK != 0 {
		t.Fatalf("modules ok = %d, want 0", h.runs[0].ModulesOK)
	}
	if m.errors == 0 {
		t.Fatal("expected error metric")
	}
}

var errStore = errors.New("feature store unavailable")
