package models

// Requests for signal HTTP endpoints. Defined in domain for consistency and reuse.

type RegimeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
}

type SignificanceRequest struct {
	FactorName  string    `json:"factor_name" validate:"required"`
	Favorable   []float64 `json:"favorable" validate:"required"`
	Unfavorable []float64 `json:"unfavorable" validate:"required"`
}

type RecoveryRequest struct {
	Symbol    string  `query:"symbol" json:"symbol" validate:"required"`
	Threshold float64 `query:"threshold" json:"threshold" default:"0.05" validate:"gt=0,lte=0.9"`
	N         int     `query:"n" json:"n" default:"2500" validate:"gte=1,lte=20000"`
	TF        string  `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
}

type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 1d"`
	Limit  int    `query:"limit" json:"limit" default:"10000" validate:"gte=1,lte=50000"`
}

type HealthScoreRequest struct {
	Days int `query:"days" json:"days" default:"7" validate:"gte=1,lte=90"`
}

type SnapshotRequest struct {
	Symbol    string  `query:"symbol" json:"symbol" validate:"required"`
	N         int     `query:"n" json:"n" default:"300" validate:"gte=1,lte=5000"`
	TF        string  `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
	Threshold float64 `query:"threshold" json:"threshold" default:"0.10" validate:"gt=0,lte=0.9"`
}

type ConfidenceRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=60,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
}
