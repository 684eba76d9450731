package health

import (
	"math"
	"testing"
	"time"

	"QuantPulse/internal/domain/models"
)

func run(date string, results map[string]bool, dur float64) models.PipelineRun {
	ok := 0
	for _, v := range results {
		if v {
			ok++
		}
	}
	return models.PipelineRun{
		Date:            date,
		Session:         "premarket",
		ModulesOK:       ok,
		ModulesTotal:    len(results),
		DurationSeconds: dur,
		ModuleResults:   results,
	}
}

func TestScoreRunsEmpty(t *testing.T) {
	got := ScoreRuns(nil, time.Now())
	if got.Status != StatusCritical {
		t.Fatalf("status = %q, want %q", got.Status, StatusCritical)
	}
	if got.Score != 0 {
		t.Fatalf("score = %v, want 0", got.Score)
	}
}

func TestScoreRunsAllHealthyFresh(t *testing.T) {
	now, _ := time.Parse("2006-01-02", "2026-08-30")
	runs := []models.PipelineRun{
		run("2026-08-29", map[string]bool{"regime": true, "yields": true}, 12),
		run("2026-08-30", map[string]bool{"regime": true, "yields": true}, 11),
	}
	got := ScoreRuns(runs, now)
	// pipeline = 1.0, freshness = 1.0, score = 100
	if math.Abs(got.Score-100) > 1e-9 {
		t.Fatalf("score = %v, want 100", got.Score)
	}
	if got.Status != StatusHealthy {
		t.Fatalf("status = %q, want %q", got.Status, StatusHealthy)
	}
	if len(got.Modules) != 2 {
		t.Fatalf("modules = %d, want 2", len(got.Modules))
	}
}

func TestScoreRunsStaleData(t *testing.T) {
	now, _ := time.Parse("2006-01-02", "2026-08-30")
	runs := []models.PipelineRun{
		run("2026-08-20", map[string]bool{"regime": true}, 10),
	}
	got := ScoreRuns(runs, now)
	// pipeline = 1.0, 10 days stale so freshness = 0: score = 70
	if math.Abs(got.Score-70) > 1e-9 {
		t.Fatalf("score = %v, want 70", got.Score)
	}
	if got.Status != StatusDegraded {
		t.Fatalf("status = %q, want %q", got.Status, StatusDegraded)
	}
}

func TestScoreRunsFailingPipeline(t *testing.T) {
	now, _ := time.Parse("2006-01-02", "2026-08-30")
	runs := []models.PipelineRun{
		run("2026-08-30", map[string]bool{"regime": false, "yields": false, "recovery": false, "health": true}, 10),
	}
	got := ScoreRuns(runs, now)
	// pipeline = 0.25, freshness = 1.0: score = 47.5
	if math.Abs(got.Score-47.5) > 1e-9 {
		t.Fatalf("score = %v, want 47.5", got.Score)
	}
	if got.Status != StatusCritical {
		t.Fatalf("status = %q, want %q", got.Status, StatusCritical)
	}
}

func TestModuleHealthUnknown(t *testing.T) {
	got := ModuleHealthFrom(nil, "regime")
	if got.Trend != TrendUnknown || got.RunCount != 0 {
		t.Fatalf("got %+v, want unknown trend and zero runs", got)
	}
}

func TestModuleTrendImproving(t *testing.T) {
	runs := []models.PipelineRun{
		run("2026-08-01", map[string]bool{"regime": false}, 10),
		run("2026-08-02", map[string]bool{"regime": false}, 10),
		run("2026-08-03", map[string]bool{"regime": true}, 10),
		run("2026-08-04", map[string]bool{"regime": true}, 10),
	}
	got := ModuleHealthFrom(runs, "regime")
	if got.Trend != TrendImproving {
		t.Fatalf("trend = %q, want %q", got.Trend, TrendImproving)
	}
	if math.Abs(got.SuccessRate-0.5) > 1e-9 {
		t.Fatalf("success rate = %v, want 0.5", got.SuccessRate)
	}
	if got.RunCount != 4 {
		t.Fatalf("run count = %d, want 4", got.RunCount)
	}
}

func TestModuleTrendDegrading(t *testing.T) {
	runs := []models.PipelineRun{
		run("2026-08-01", map[string]bool{"yields": true}, 5),
		run("2026-08-02", map[string]bool{"yields": true}, 5),
		run("2026-08-03", map[string]bool{"yields": false}, 5),
		run("2026-08-04", map[string]bool{"yields": false}, 5),
	}
	if got := ModuleHealthFrom(runs, "yields").Trend; got != TrendDegrading {
		t.Fatalf("trend = %q, want %q", got, TrendDegrading)
	}
}

func TestModuleTrendStableWithinBand(t *testing.T) {
	runs := []models.PipelineRun{
		run("2026-08-01", map[string]bool{"recovery": true}, 5),
		run("2026-08-02", map[string]bool{"recovery": true}, 5),
	}
	if got := ModuleHealthFrom(runs, "recovery").Trend; got != TrendStable {
		t.Fatalf("trend = %q, want %q", got, TrendStable)
	}
}
