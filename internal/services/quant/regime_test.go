package quant

import (
	"math"
	"testing"

	"QuantPulse/internal/domain/models"
)

func TestDetectRegimeBull(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100.0 + 0.2*float64(i)
	}
	res := DetectRegime(closes)
	if res.Regime != models.RegimeBull {
		t.Fatalf("expected BULL, got %s", res.Regime)
	}
	if res.ConfidencePct <= 0 {
		t.Fatalf("expected positive confidence, got %v", res.ConfidencePct)
	}
	if res.Return60 <= 0 {
		t.Fatalf("expected positive 60d return, got %v", res.Return60)
	}
	if res.Method != models.MethodTrendAndVolatility {
		t.Fatalf("unexpected method %q", res.Method)
	}
}

func TestDetectRegimeBear(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100.0 - 0.3*float64(i)
	}
	res := DetectRegime(closes)
	if res.Regime != models.RegimeBear {
		t.Fatalf("expected BEAR, got %s", res.Regime)
	}
	if res.Return60 >= 0 {
		t.Fatalf("expected negative 60d return, got %v", res.Return60)
	}
	if res.ConfidencePct <= 0 {
		t.Fatalf("expected positive confidence, got %v", res.ConfidencePct)
	}
}

func TestDetectRegimeRangeOscillation(t *testing.T) {
	// Sinusoid with zero net drift: large path variation, small net move.
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100.0 + 2*math.Sin(float64(i)/5)
	}
	res := DetectRegime(closes)
	if res.Regime != models.RegimeRange {
		t.Fatalf("expected RANGE, got %s", res.Regime)
	}
	if res.Method != models.MethodTrendAndVolatility {
		t.Fatalf("unexpected method %q", res.Method)
	}
	if res.TrendStrength >= minTrendStrength {
		t.Fatalf("oscillation should have low trend strength, got %v", res.TrendStrength)
	}
}

func TestDetectRegimeInsufficientData(t *testing.T) {
	res := DetectRegime([]float64{100, 101, 99})
	if res.Regime != models.RegimeRange {
		t.Fatalf("expected RANGE, got %s", res.Regime)
	}
	if res.ConfidencePct != 0 {
		t.Fatalf("expected zero confidence, got %v", res.ConfidencePct)
	}
	if res.Return60 != 0 {
		t.Fatalf("expected zero return, got %v", res.Return60)
	}
	if res.Method != models.MethodInsufficientData {
		t.Fatalf("unexpected method %q", res.Method)
	}
}

func TestDetectRegimeWindowBoundary(t *testing.T) {
	closes := make([]float64, regimeWindow-1)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if res := DetectRegime(closes); res.Method != models.MethodInsufficientData {
		t.Fatalf("59 closes should be insufficient, got %q", res.Method)
	}
	closes = append(closes, 100+float64(len(closes)))
	if res := DetectRegime(closes); res.Method != models.MethodTrendAndVolatility {
		t.Fatalf("60 closes should classify, got %q", res.Method)
	}
}

func TestDetectRegimeConfidenceBounds(t *testing.T) {
	series := [][]float64{
		make([]float64, 120),
		make([]float64, 120),
		make([]float64, 120),
	}
	for i := 0; i < 120; i++ {
		series[0][i] = 50 + 0.5*float64(i)
		series[1][i] = 500 - 2*float64(i)
		series[2][i] = 100 + 0.4*math.Sin(float64(i)/3)
	}
	for _, closes := range series {
		res := DetectRegime(closes)
		if res.ConfidencePct < 0 || res.ConfidencePct > 100 {
			t.Fatalf("confidence out of bounds: %v", res.ConfidencePct)
		}
		if res.ConfidencePct == 0 {
			t.Fatalf("classified result must have positive confidence")
		}
	}
}

func TestDetectRegimeIdempotent(t *testing.T) {
	closes := make([]float64, 90)
	for i := range closes {
		closes[i] = 100 + 0.25*float64(i)
	}
	a := DetectRegime(closes)
	b := DetectRegime(closes)
	if a != b {
		t.Fatalf("results differ across calls: %+v vs %+v", a, b)
	}
}
