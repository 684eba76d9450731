package repository

import (
	"context"
	"time"

	"QuantPulse/internal/domain/models"
)

// Timeframe represents candle resolution buckets.
type Timeframe string

const (
	TF1m Timeframe = "1m"
	TF5m Timeframe = "5m"
	TF1d Timeframe = "1d"
)

// FeatureStore provides read-only access to candles for the signal
// engine. The engine itself takes plain numeric slices; use cases pull
// candles here and feed closes in.
type FeatureStore interface {
	GetCandles(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) ([]models.Candle, error)
	GetLatestNCandles(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.Candle, error)
}
