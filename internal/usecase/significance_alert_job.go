package usecase

import (
	"context"
	"fmt"

	"QuantPulse/internal/domain/models"
	domsvc "QuantPulse/internal/domain/service"
	"QuantPulse/pkg/queue"
)

// MsgTypeSignificanceAlert tags queued significance alerts.
const MsgTypeSignificanceAlert = "significance_alert"

// SignificanceAlertJob delivers significant factor test results to the
// notifier.
type SignificanceAlertJob struct {
	notifier domsvc.Notifier
}

func NewSignificanceAlertJob(notifier domsvc.Notifier) *SignificanceAlertJob {
	return &SignificanceAlertJob{notifier: notifier}
}

func (j *SignificanceAlertJob) Name() string { return "significance_alert_notifier" }
func (j *SignificanceAlertJob) Type() string { return MsgTypeSignificanceAlert }

func (j *SignificanceAlertJob) Handle(ctx context.Context, payload interface{}) error {
	res, err := queue.ParsePayload[models.SignificanceResult](payload)
	if err != nil {
		return fmt.Errorf("parse significance alert: %w", err)
	}
	if err := j.notifier.NotifySignificance(ctx, *res); err != nil {
		return fmt.Errorf("notify significance: %w", err)
	}
	return nil
}

var _ queue.Job = (*SignificanceAlertJob)(nil)
