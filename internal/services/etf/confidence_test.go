package etf

import (
	"testing"

	"QuantPulse/internal/domain/models"
)

func TestGetMapping(t *testing.T) {
	m, ok := GetMapping("tqqq")
	if !ok {
		t.Fatalf("expected TQQQ in universe")
	}
	if m.UnderlyingTicker != "QQQ" {
		t.Fatalf("unexpected underlying %s", m.UnderlyingTicker)
	}
	if _, ok := GetMapping("NOPE"); ok {
		t.Fatalf("unknown ticker should not resolve")
	}
}

func TestUnderlyingTickersDeduplicated(t *testing.T) {
	ts := UnderlyingTickers()
	seen := map[string]bool{}
	for _, s := range ts {
		if seen[s] {
			t.Fatalf("duplicate underlying %s", s)
		}
		seen[s] = true
	}
}

func TestAssessDrawdownDepth(t *testing.T) {
	if r := AssessDrawdownDepth(-0.09, 0.05); r.Assessment != Favorable {
		t.Fatalf("deep drawdown should be favorable, got %s", r.Assessment)
	}
	if r := AssessDrawdownDepth(-0.05, 0.05); r.Assessment != Neutral {
		t.Fatalf("at-threshold should be neutral, got %s", r.Assessment)
	}
	if r := AssessDrawdownDepth(-0.02, 0.05); r.Assessment != Unfavorable {
		t.Fatalf("shallow should be unfavorable, got %s", r.Assessment)
	}
}

func TestAssessRegime(t *testing.T) {
	bear := models.RegimeResult{Regime: models.RegimeBear, Method: models.MethodTrendAndVolatility}
	if r := AssessRegime(bear); r.Assessment != Unfavorable {
		t.Fatalf("bear should be unfavorable, got %s", r.Assessment)
	}
	unknown := models.RegimeResult{Regime: models.RegimeRange, Method: models.MethodInsufficientData}
	if r := AssessRegime(unknown); r.Assessment != Neutral {
		t.Fatalf("insufficient data should be neutral, got %s", r.Assessment)
	}
}

func TestComputeConfidenceBands(t *testing.T) {
	mk := func(fav, total int) []FactorResult {
		out := make([]FactorResult, 0, total)
		for i := 0; i < total; i++ {
			a := Unfavorable
			if i < fav {
				a = Favorable
			}
			out = append(out, FactorResult{Name: "f", Assessment: a})
		}
		return out
	}

	if s := ComputeConfidence(mk(7, 9)); s.Level != ConfidenceHigh {
		t.Fatalf("7/9 should be HIGH, got %s", s.Level)
	}
	if s := ComputeConfidence(mk(5, 9)); s.Level != ConfidenceMedium {
		t.Fatalf("5/9 should be MEDIUM, got %s", s.Level)
	}
	if s := ComputeConfidence(mk(2, 9)); s.Level != ConfidenceLow {
		t.Fatalf("2/9 should be LOW, got %s", s.Level)
	}
	if s := ComputeConfidence(mk(3, 3)); s.Level != ConfidenceHigh {
		t.Fatalf("3/3 should scale to HIGH, got %s", s.Level)
	}
	if s := ComputeConfidence(nil); s.Level != ConfidenceLow {
		t.Fatalf("no factors should be LOW, got %s", s.Level)
	}
}
