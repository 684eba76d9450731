package notify

import (
	"context"

	"QuantPulse/internal/domain/models"
	"QuantPulse/pkg/logger"
)

// LogNotifier writes alerts to the structured log. Used when no
// Telegram channel is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyRegimeChange(ctx context.Context, alert models.RegimeAlert) error {
	fields := []logger.Field{
		logger.String("symbol", alert.Signal.Symbol),
		logger.String("from", string(alert.Previous)),
		logger.String("to", string(alert.Signal.Regime)),
		logger.Any("confidence_pct", alert.Signal.ConfidencePct),
	}
	if alert.LeveragedTicker != "" {
		fields = append(fields, logger.String("leveraged_ticker", alert.LeveragedTicker))
	}
	n.log.Info("regime change", fields...)
	return nil
}

func (n *LogNotifier) NotifySignificance(ctx context.Context, res models.SignificanceResult) error {
	n.log.Info("factor significance",
		logger.String("factor", res.FactorName),
		logger.Any("p_value", res.PValue),
		logger.Any("effect_size", res.EffectSize),
		logger.Bool("significant", res.Significant))
	return nil
}
