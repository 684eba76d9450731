package models

import "time"

// PipelineRun records one scheduled sweep over the configured modules.
type PipelineRun struct {
	Date            string          `json:"date"` // YYYY-MM-DD
	Session         string          `json:"session"`
	ModulesOK       int             `json:"modules_ok"`
	ModulesTotal    int             `json:"modules_total"`
	DurationSeconds float64         `json:"duration_seconds"`
	ModuleResults   map[string]bool `json:"module_results"`
}

// ModuleHealth is the rolled-up health of one module over a window.
type ModuleHealth struct {
	Name               string  `json:"name"`
	SuccessRate        float64 `json:"success_rate"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
	Trend              string  `json:"trend"` // improving, stable, degrading, unknown
	RunCount           int     `json:"run_count"`
}

// SystemHealthScore aggregates module health into one score.
type SystemHealthScore struct {
	Score   float64        `json:"score"` // 0..100
	Status  string         `json:"status"`
	Modules []ModuleHealth `json:"modules"`
	AsOf    time.Time      `json:"as_of"`
}
