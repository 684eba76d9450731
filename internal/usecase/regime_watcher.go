package usecase

import (
	"context"
	"sync"
	"time"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
	"QuantPulse/internal/services/etf"
	"QuantPulse/pkg/logger"
	"QuantPulse/pkg/queue"
)

// MsgTypeRegimeAlert is the queue message type for regime flips.
const MsgTypeRegimeAlert = "regime_alert"

// RegimeWatcher periodically re-classifies the watched symbols and
// enqueues an alert whenever a symbol's regime flips.
type RegimeWatcher struct {
	agg      *SignalAggregator
	alerts   queue.QueueService
	history  domrepo.RunHistory
	metrics  domrepo.Metrics
	log      *logger.Logger
	symbols  []string
	tf       domrepo.Timeframe
	n        int
	interval time.Duration
	session  string

	mu   sync.Mutex
	prev map[string]models.Regime
}

func NewRegimeWatcher(
	agg *SignalAggregator,
	alerts queue.QueueService,
	history domrepo.RunHistory,
	metrics domrepo.Metrics,
	log *logger.Logger,
	symbols []string,
	tf domrepo.Timeframe,
	n int,
	interval time.Duration,
	session string,
) *RegimeWatcher {
	if n <= 0 {
		n = 300
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &RegimeWatcher{
		agg:      agg,
		alerts:   alerts,
		history:  history,
		metrics:  metrics,
		log:      log,
		symbols:  symbols,
		tf:       tf,
		n:        n,
		interval: interval,
		session:  session,
		prev:     map[string]models.Regime{},
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *RegimeWatcher) Start(ctx context.Context) {
	go func() {
		w.Sweep(ctx)
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				w.Sweep(ctx)
			}
		}
	}()
}

// Sweep classifies every watched symbol once and records the run.
func (w *RegimeWatcher) Sweep(ctx context.Context) {
	start := time.Now()
	results := make(map[string]bool, len(w.symbols))

	for _, sym := range w.symbols {
		err := w.check(ctx, sym)
		results[sym] = err == nil
		if err != nil {
			w.metrics.RecordError("regime_sweep")
			w.log.Warn("regime sweep failed", logger.String("symbol", sym), logger.Error(err))
		}
	}

	w.record(ctx, start, results)
}

func (w *RegimeWatcher) check(ctx context.Context, symbol string) error {
	res, err := w.agg.LatestRegime(ctx, symbol, w.n, w.tf)
	if err != nil {
		return err
	}
	if res.Method == models.MethodInsufficientData {
		return nil
	}
	w.metrics.RecordRegime(symbol, res.Regime, res.ConfidencePct)

	w.mu.Lock()
	prev, seen := w.prev[symbol]
	w.prev[symbol] = res.Regime
	w.mu.Unlock()

	if !seen || prev == res.Regime {
		return nil
	}

	alert := models.RegimeAlert{
		Signal: models.RegimeSignal{
			Symbol:       symbol,
			Timestamp:    time.Now(),
			RegimeResult: res,
		},
		Previous: prev,
	}
	if mapping, ok := etf.GetMappingByUnderlying(symbol); ok {
		alert.LeveragedTicker = mapping.LeveragedTicker
	}
	if err := w.alerts.PublishMessage(ctx, MsgTypeRegimeAlert, alert); err != nil {
		return err
	}
	w.log.Info("regime change detected",
		logger.String("symbol", symbol),
		logger.String("from", string(prev)),
		logger.String("to", string(res.Regime)),
		logger.Any("confidence", res.ConfidencePct))
	return nil
}

func (w *RegimeWatcher) record(ctx context.Context, start time.Time, results map[string]bool) {
	ok := 0
	for _, v := range results {
		if v {
			ok++
		}
	}
	run := models.PipelineRun{
		Date:            start.UTC().Format("2006-01-02"),
		Session:         w.session,
		ModulesOK:       ok,
		ModulesTotal:    len(results),
		DurationSeconds: time.Since(start).Seconds(),
		ModuleResults:   results,
	}
	if err := w.history.Record(ctx, run); err != nil {
		w.log.Warn("record pipeline run", logger.Error(err))
	}
	w.metrics.RecordLatency("regime_sweep_seconds", run.DurationSeconds)
}
