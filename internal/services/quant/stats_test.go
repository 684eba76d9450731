package quant

import (
	"math"
	"testing"
)

func TestPctChanges(t *testing.T) {
	got := pctChanges([]float64{100, 110, 99})
	if len(got) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(got))
	}
	if math.Abs(got[0]-0.10) > 1e-12 {
		t.Fatalf("unexpected first change %v", got[0])
	}
	if math.Abs(got[1]-(-0.10)) > 1e-12 {
		t.Fatalf("unexpected second change %v", got[1])
	}
	if pctChanges([]float64{100}) != nil {
		t.Fatalf("single close should produce nil")
	}
}

func TestSampleStdDev(t *testing.T) {
	if sd := sampleStdDev([]float64{2, 2, 2, 2}); sd != 0 {
		t.Fatalf("constant series stddev should be 0, got %v", sd)
	}
	// Known value: var of {1,2,3,4,5} with n-1 is 2.5.
	sd := sampleStdDev([]float64{1, 2, 3, 4, 5})
	if math.Abs(sd-math.Sqrt(2.5)) > 1e-12 {
		t.Fatalf("unexpected stddev %v", sd)
	}
}

func TestPercentile(t *testing.T) {
	xs := []float64{4, 1, 3, 2}
	if p := percentile(xs, 50); math.Abs(p-2.5) > 1e-12 {
		t.Fatalf("median of 1..4 should be 2.5, got %v", p)
	}
	if p := percentile(xs, 0); p != 1 {
		t.Fatalf("p0 should be min, got %v", p)
	}
	if p := percentile(xs, 100); p != 4 {
		t.Fatalf("p100 should be max, got %v", p)
	}
	// Input must not be reordered.
	if xs[0] != 4 {
		t.Fatalf("percentile mutated its input: %v", xs)
	}
}

func TestTTestPValueCriticalPoints(t *testing.T) {
	// Two-sided critical value for df=10 at alpha=0.05 is t=2.228.
	p := tTestPValue(2.228, 10)
	if p < 0.045 || p > 0.055 {
		t.Fatalf("p-value at df=10 critical point should be ~0.05, got %v", p)
	}
	if p := tTestPValue(0, 10); math.Abs(p-1) > 1e-9 {
		t.Fatalf("t=0 should give p=1, got %v", p)
	}
	if p := tTestPValue(50, 10); p > 1e-6 {
		t.Fatalf("huge t should give vanishing p, got %v", p)
	}
}

func TestRegIncBetaBounds(t *testing.T) {
	if v := regIncBeta(2, 3, 0); v != 0 {
		t.Fatalf("I_0 should be 0, got %v", v)
	}
	if v := regIncBeta(2, 3, 1); v != 1 {
		t.Fatalf("I_1 should be 1, got %v", v)
	}
	// I_x(1,1) is the uniform CDF.
	if v := regIncBeta(1, 1, 0.42); math.Abs(v-0.42) > 1e-9 {
		t.Fatalf("I_x(1,1) should equal x, got %v", v)
	}
}
