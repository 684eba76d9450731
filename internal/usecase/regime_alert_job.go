package usecase

import (
	"context"
	"fmt"

	"QuantPulse/internal/domain/models"
	domsvc "QuantPulse/internal/domain/service"
	"QuantPulse/pkg/queue"
)

// RegimeAlertJob drains regime flips off the alert queue and forwards
// them to the notifier.
type RegimeAlertJob struct {
	notifier domsvc.Notifier
}

func NewRegimeAlertJob(notifier domsvc.Notifier) *RegimeAlertJob {
	return &RegimeAlertJob{notifier: notifier}
}

func (j *RegimeAlertJob) Name() string { return "regime_alert_notifier" }
func (j *RegimeAlertJob) Type() string { return MsgTypeRegimeAlert }

func (j *RegimeAlertJob) Handle(ctx context.Context, payload interface{}) error {
	alert, err := queue.ParsePayload[models.RegimeAlert](payload)
	if err != nil {
		return fmt.Errorf("parse regime alert: %w", err)
	}
	if err := j.notifier.NotifyRegimeChange(ctx, *alert); err != nil {
		return fmt.Errorf("notify regime change: %w", err)
	}
	return nil
}

var _ queue.Job = (*RegimeAlertJob)(nil)
