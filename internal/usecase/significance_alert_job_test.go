package usecase

import (
	"context"
	"testing"

	"QuantPulse/internal/domain/models"
)

type fakeNotifier struct {
	regime       []models.RegimeAlert
	significance []models.SignificanceResult
}

func (f *fakeNotifier) NotifyRegimeChange(ctx context.Context, alert models.RegimeAlert) error {
	f.regime = append(f.regime, alert)
	return nil
}

func (f *fakeNotifier) NotifySignificance(ctx context.Context, res models.SignificanceResult) error {
	f.significance = append(f.significance, res)
	return nil
}

func TestSignificanceAlertJobNotifies(t *testing.T) {
	n := &fakeNotifier{}
	j := NewSignificanceAlertJob(n)

	res := models.SignificanceResult{
		FactorName:  "vix_regime",
		PValue:      0.01,
		Significant: true,
		SampleSizes: [2]int{40, 35},
		Method:      "welch_t",
	}
	if err := j.Handle(context.Background(), res); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(n.significance) != 1 {
		t.Fatalf("want 1 notification, got %d", len(n.significance))
	}
	if got := n.significance[0]; got.FactorName != "vix_regime" || !got.Significant {
		t.Fatalf("unexpected notification: %+v", got)
	}
}

func TestSignificanceAlertJobParsesMapPayload(t *testing.T) {
	n := &fakeNotifier{}
	j := NewSignificanceAlertJob(n)

	// Payloads arriving through Redis decode to generic maps.
	payload := map[string]interface{}{
		"factor_name": "yield_spread",
		"p_value":     0.03,
		"significant": true,
	}
	if err := j.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(n.significance) != 1 {
		t.Fatalf("want 1 notification, got %d", len(n.significance))
	}
	if n.significance[0].FactorName != "yield_spread" {
		t.Fatalf("factor name not carried: %+v", n.significance[0])
	}
}

func TestSignificanceAlertJobRejectsBadPayload(t *testing.T) {
	j := NewSignificanceAlertJob(&fakeNotifier{})
	if err := j.Handle(context.Background(), 42); err == nil {
		t.Fatal("want error for unparseable payload")
	}
}
