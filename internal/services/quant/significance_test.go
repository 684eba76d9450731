package quant

import (
	"testing"

	"QuantPulse/internal/domain/models"
)

func TestSignificantFactor(t *testing.T) {
	favorable := []float64{0.10, 0.12, 0.08, 0.15, 0.11, 0.09, 0.13, 0.14}
	unfavorable := []float64{-0.05, -0.03, -0.08, -0.02, -0.06, -0.04, -0.07, -0.01}
	res := CheckFactorSignificance("regime_filter", favorable, unfavorable)
	if !res.Significant {
		t.Fatalf("expected significant, got p=%v", res.PValue)
	}
	if res.PValue >= 0.05 {
		t.Fatalf("expected p < 0.05, got %v", res.PValue)
	}
	if res.EffectSize <= 0 {
		t.Fatalf("expected positive effect size, got %v", res.EffectSize)
	}
	if res.SampleSizes != [2]int{8, 8} {
		t.Fatalf("unexpected sample sizes %v", res.SampleSizes)
	}
	if res.Method != models.MethodTwoSampleTTest {
		t.Fatalf("unexpected method %q", res.Method)
	}
}

func TestInsignificantFactor(t *testing.T) {
	favorable := []float64{0.05, 0.06, 0.04, 0.07, 0.03}
	unfavorable := []float64{0.05, 0.04, 0.06, 0.03, 0.07}
	res := CheckFactorSignificance("vix_filter", favorable, unfavorable)
	if res.Significant {
		t.Fatalf("expected not significant, got p=%v", res.PValue)
	}
	if res.PValue <= 0.05 {
		t.Fatalf("expected p > 0.05, got %v", res.PValue)
	}
}

func TestSignificanceInsufficientData(t *testing.T) {
	res := CheckFactorSignificance("tiny", []float64{0.10}, []float64{0.05})
	if res.Significant {
		t.Fatalf("expected not significant")
	}
	if res.PValue != 1.0 {
		t.Fatalf("expected p == 1.0, got %v", res.PValue)
	}
	if res.Method != models.MethodInsufficientData {
		t.Fatalf("unexpected method %q", res.Method)
	}
	if res.EffectSize != 0 {
		t.Fatalf("effect size must not be computed, got %v", res.EffectSize)
	}
	if res.SampleSizes != [2]int{1, 1} {
		t.Fatalf("unexpected sample sizes %v", res.SampleSizes)
	}
}

func TestSignificanceZeroVarianceIdentical(t *testing.T) {
	res := CheckFactorSignificance("flat", []float64{0.02, 0.02, 0.02}, []float64{0.02, 0.02, 0.02})
	if res.Significant {
		t.Fatalf("identical constants carry no evidence")
	}
	if res.PValue != 1.0 {
		t.Fatalf("expected p == 1.0, got %v", res.PValue)
	}
}

func TestSignificanceZeroVarianceSeparated(t *testing.T) {
	res := CheckFactorSignificance("step", []float64{0.05, 0.05, 0.05}, []float64{-0.05, -0.05, -0.05})
	if !res.Significant {
		t.Fatalf("perfect separation must be significant")
	}
	if res.PValue != 0 {
		t.Fatalf("expected p == 0, got %v", res.PValue)
	}
}

func TestSignificanceFactorNameEchoed(t *testing.T) {
	res := CheckFactorSignificance("earnings_window", []float64{0.1, 0.2}, []float64{0.0, 0.1})
	if res.FactorName != "earnings_window" {
		t.Fatalf("factor name not echoed: %q", res.FactorName)
	}
}

func TestSignificanceIdempotent(t *testing.T) {
	fav := []float64{0.08, 0.11, 0.09, 0.12, 0.10}
	unfav := []float64{-0.02, 0.01, -0.01, 0.00, -0.03}
	a := CheckFactorSignificance("f", fav, unfav)
	b := CheckFactorSignificance("f", fav, unfav)
	if a != b {
		t.Fatalf("results differ across calls: %+v vs %+v", a, b)
	}
}
