package quant

import (
	"testing"

	"QuantPulse/internal/domain/models"
)

func TestRecoveryInsufficientData(t *testing.T) {
	res := AnalyzeRecovery([]float64{100, 95, 100}, 0.05)
	if res.Method != models.MethodInsufficientData {
		t.Fatalf("unexpected method %q", res.Method)
	}
	if res.EpisodeCount != 0 {
		t.Fatalf("expected no episodes, got %d", res.EpisodeCount)
	}
}

func TestRecoverySingleEpisode(t *testing.T) {
	// Drop below -5% at index 10, reclaim the high at index 15.
	closes := []float64{
		100, 100, 100, 100, 100, 100, 100, 100, 100, 100,
		94, 95, 96, 97, 99, 101, 101, 101, 101, 101,
		101, 101, 101, 101, 101,
	}
	res := AnalyzeRecovery(closes, 0.05)
	if res.Method != models.MethodEmpirical {
		t.Fatalf("unexpected method %q", res.Method)
	}
	if res.EpisodeCount != 1 {
		t.Fatalf("expected 1 episode, got %d", res.EpisodeCount)
	}
	if res.MedianDays != 5 {
		t.Fatalf("expected 5-period recovery, got %v", res.MedianDays)
	}
	if res.RecoveryRate != 1.0 {
		t.Fatalf("expected full recovery rate, got %v", res.RecoveryRate)
	}
}

func TestRecoveryUnrecoveredEpisode(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	// Open-ended drawdown at the tail.
	for i := 20; i < 30; i++ {
		closes[i] = 90
	}
	res := AnalyzeRecovery(closes, 0.05)
	if res.Method != models.MethodNoRecoveries {
		t.Fatalf("unexpected method %q", res.Method)
	}
	if res.EpisodeCount != 1 {
		t.Fatalf("expected the open episode counted, got %d", res.EpisodeCount)
	}
	if res.RecoveryRate != 0 {
		t.Fatalf("expected zero recovery rate, got %v", res.RecoveryRate)
	}
}

func TestRecoveryMixedEpisodes(t *testing.T) {
	closes := []float64{
		100, 90, 100, 110, // fast episode: 2 periods
		99, 95, 100, 111, // second episode: 2 periods
		100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100,
	}
	res := AnalyzeRecovery(closes, 0.05)
	if res.EpisodeCount != 2 {
		t.Fatalf("expected 2 episodes, got %d", res.EpisodeCount)
	}
	if res.RecoveryRate != 1.0 {
		t.Fatalf("expected full recovery, got %v", res.RecoveryRate)
	}
	if res.MeanDays != 2 {
		t.Fatalf("expected mean of 2 periods, got %v", res.MeanDays)
	}
}
