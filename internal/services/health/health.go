package health

import (
	"context"
	"fmt"
	"sort"
	"time"

	"QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
)

// Trend labels for module health.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDegrading = "degrading"
	TrendUnknown   = "unknown"
)

// Status bands for the system score.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusCritical = "critical"
)

// trendBand is the success-rate delta between run halves before a
// module counts as improving or degrading.
const trendBand = 0.1

// Service scores pipeline health from recorded sweep runs.
type Service struct {
	history domrepo.RunHistory
}

func NewService(history domrepo.RunHistory) *Service {
	return &Service{history: history}
}

// SystemScore loads run history for the window and computes the
// aggregate score.
func (s *Service) SystemScore(ctx context.Context, days int) (models.SystemHealthScore, error) {
	runs, err := s.history.Load(ctx, days)
	if err != nil {
		return models.SystemHealthScore{}, fmt.Errorf("load run history: %w", err)
	}
	return ScoreRuns(runs, time.Now().UTC()), nil
}

// ScoreRuns computes the system health score from run records: 70%
// pipeline success rate, 30% freshness (degrading 20% per day since the
// last run), scaled to 0..100.
func ScoreRuns(runs []models.PipelineRun, now time.Time) models.SystemHealthScore {
	if len(runs) == 0 {
		return models.SystemHealthScore{Status: StatusCritical, AsOf: now}
	}

	totalOK, totalModules := 0, 0
	latest := ""
	for _, r := range runs {
		totalOK += r.ModulesOK
		totalModules += r.ModulesTotal
		if r.Date > latest {
			latest = r.Date
		}
	}
	pipeline := 0.0
	if totalModules > 0 {
		pipeline = float64(totalOK) / float64(totalModules)
	}

	freshness := 1.0
	if d, err := time.Parse("2006-01-02", latest); err == nil {
		daysSince := now.Sub(d).Hours() / 24
		freshness = 1 - daysSince*0.2
		if freshness < 0 {
			freshness = 0
		}
		if freshness > 1 {
			freshness = 1
		}
	}

	score := (pipeline*0.7 + freshness*0.3) * 100

	status := StatusCritical
	switch {
	case score >= 80:
		status = StatusHealthy
	case score >= 50:
		status = StatusDegraded
	}

	return models.SystemHealthScore{
		Score:   score,
		Status:  status,
		Modules: allModuleHealth(runs),
		AsOf:    now,
	}
}

// ModuleHealthFrom rolls up one module's record across runs.
func ModuleHealthFrom(runs []models.PipelineRun, name string) models.ModuleHealth {
	var withModule []models.PipelineRun
	for _, r := range runs {
		if _, ok := r.ModuleResults[name]; ok {
			withModule = append(withModule, r)
		}
	}
	if len(withModule) == 0 {
		return models.ModuleHealth{Name: name, Trend: TrendUnknown}
	}
	sort.Slice(withModule, func(i, j int) bool { return withModule[i].Date < withModule[j].Date })

	successes := 0
	var totalDur float64
	for _, r := range withModule {
		if r.ModuleResults[name] {
			successes++
		}
		totalDur += r.DurationSeconds
	}

	return models.ModuleHealth{
		Name:               name,
		SuccessRate:        float64(successes) / float64(len(withModule)),
		AvgDurationSeconds: totalDur / float64(len(withModule)),
		Trend:              moduleTrend(withModule, name),
		RunCount:           len(withModule),
	}
}

// moduleTrend compares first-half vs second-half success rates.
func moduleTrend(runs []models.PipelineRun, name string) string {
	mid := len(runs) / 2
	if mid == 0 {
		return TrendStable
	}
	rate := func(rs []models.PipelineRun) float64 {
		ok := 0
		for _, r := range rs {
			if r.ModuleResults[name] {
				ok++
			}
		}
		return float64(ok) / float64(len(rs))
	}
	first, second := rate(runs[:mid]), rate(runs[mid:])
	switch {
	case second > first+trendBand:
		return TrendImproving
	case second < first-trendBand:
		return TrendDegrading
	default:
		return TrendStable
	}
}

func allModuleHealth(runs []models.PipelineRun) []models.ModuleHealth {
	names := map[string]struct{}{}
	for _, r := range runs {
		for n := range r.ModuleResults {
			names[n] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := make([]models.ModuleHealth, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, ModuleHealthFrom(runs, n))
	}
	return out
}
