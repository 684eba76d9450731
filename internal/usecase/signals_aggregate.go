package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
	domsvc "QuantPulse/internal/domain/service"
)

// SignalsAggregateUseCase fans out the per-symbol signal computations.
type SignalsAggregateUseCase struct {
	agg     *SignalAggregator
	yields  domsvc.YieldSource
	timeout time.Duration
}

func NewSignalsAggregateUseCase(agg *SignalAggregator, yields domsvc.YieldSource) *SignalsAggregateUseCase {
	return &SignalsAggregateUseCase{agg: agg, yields: yields, timeout: 10 * time.Second}
}

type GetSnapshotParams struct {
	Symbol       string
	N            int
	Timeframe    domrepo.Timeframe
	ThresholdPct float64
}

func (uc *SignalsAggregateUseCase) GetSnapshot(ctx context.Context, p GetSnapshotParams) (*models.SignalSnapshot, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.N <= 0 {
		p.N = 300
	}
	if p.ThresholdPct <= 0 {
		p.ThresholdPct = 0.10
	}

	// Overall timeout
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &models.SignalSnapshot{
		Symbol:    p.Symbol,
		Timestamp: time.Now(),
		Errors:    map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.LatestRegime(ctx, p.Symbol, p.N, p.Timeframe)
		ch <- item{"regime", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Recovery(ctx, p.Symbol, p.N, p.Timeframe, p.ThresholdPct)
		ch <- item{"recovery", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.yields.FetchYieldCurve(ctx)
		ch <- item{"yields", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			continue
		}
		switch it.name {
		case "regime":
			v := it.val.(models.RegimeResult)
			res.Regime = &v
		case "recovery":
			v := it.val.(models.RecoveryStats)
			res.Recovery = &v
		case "yields":
			v := it.val.(models.YieldCurve)
			res.Yields = &v
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}
