package service

import (
	"context"

	"QuantPulse/internal/domain/models"
)

// Notifier delivers alerts to an external channel.
type Notifier interface {
	NotifyRegimeChange(ctx context.Context, alert models.RegimeAlert) error
	NotifySignificance(ctx context.Context, res models.SignificanceResult) error
}

// YieldSource fetches the current Treasury yield curve.
type YieldSource interface {
	FetchYieldCurve(ctx context.Context) (models.YieldCurve, error)
}
