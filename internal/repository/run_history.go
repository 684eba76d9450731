package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"QuantPulse/internal/domain/models"
	"QuantPulse/internal/domain/repository"
)

// CHRunHistory persists pipeline run records in ClickHouse.
type CHRunHistory struct {
	db    *sql.DB
	table string
}

func NewCHRunHistory(db *sql.DB, table string) repository.RunHistory {
	return &CHRunHistory{db: db, table: table}
}

func (h *CHRunHistory) Record(ctx context.Context, run models.PipelineRun) error {
	results, err := json.Marshal(run.ModuleResults)
	if err != nil {
		return fmt.Errorf("marshal module results: %w", err)
	}
	q := fmt.Sprintf("INSERT INTO %s (date, session, modules_ok, modules_total, duration_seconds, module_results) VALUES (?, ?, ?, ?, ?, ?)", h.table)
	if _, err := h.db.ExecContext(ctx, q,
		run.Date,
		run.Session,
		run.ModulesOK,
		run.ModulesTotal,
		run.DurationSeconds,
		string(results),
	); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (h *CHRunHistory) Load(ctx context.Context, days int) ([]models.PipelineRun, error) {
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	q := fmt.Sprintf("SELECT date, session, modules_ok, modules_total, duration_seconds, module_results FROM %s WHERE date >= ? ORDER BY date ASC", h.table)
	rows, err := h.db.QueryContext(ctx, q, cutoff)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}
	defer rows.Close()

	var runs []models.PipelineRun
	for rows.Next() {
		var r models.PipelineRun
		var results string
		if err := rows.Scan(&r.Date, &r.Session, &r.ModulesOK, &r.ModulesTotal, &r.DurationSeconds, &results); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if results != "" {
			if err := json.Unmarshal([]byte(results), &r.ModuleResults); err != nil {
				return nil, fmt.Errorf("unmarshal module results: %w", err)
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
