package api

import (
	"time"

	models "QuantPulse/internal/domain/models"
	domrepo "QuantPulse/internal/domain/repository"
	domsvc "QuantPulse/internal/domain/service"
	"QuantPulse/internal/services/health"
	"QuantPulse/internal/usecase"
	xhttp "QuantPulse/pkg/http"
	xlogger "QuantPulse/pkg/logger"
	"QuantPulse/pkg/queue"

	"github.com/labstack/echo/v4"
)

// SignalsEchoHandler implements the Echo-based HTTP API.
type SignalsEchoHandler struct {
	logger   *xlogger.Logger
	agg      *usecase.SignalAggregator
	snapshot *usecase.SignalsAggregateUseCase
	candles  *usecase.CandlesUseCase
	yields   domsvc.YieldSource
	health   *health.Service
	alerts   queue.QueueService
}

// SetAlerts enables notification of significant factor results through
// the alert queue. Nil leaves the path disabled.
func (h *SignalsEchoHandler) SetAlerts(q queue.QueueService) { h.alerts = q }

func NewSignalsEchoHandler(
	logger *xlogger.Logger,
	agg *usecase.SignalAggregator,
	snapshot *usecase.SignalsAggregateUseCase,
	candles *usecase.CandlesUseCase,
	yields domsvc.YieldSource,
	healthSvc *health.Service,
) *SignalsEchoHandler {
	return &SignalsEchoHandler{
		logger:   logger,
		agg:      agg,
		snapshot: snapshot,
		candles:  candles,
		yields:   yields,
		health:   healthSvc,
	}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/regime", h.Regime)
	g.POST("/significance", h.Significance)
	g.GET("/recovery", h.Recovery)
	g.GET("/yields", h.Yields)
	g.GET("/snapshot", h.Snapshot)
	g.GET("/confidence", h.Confidence)
	g.GET("/health/score", h.HealthScore)
	g.GET("/candles", h.Candles)
}

func (h *SignalsEchoHandler) Regime(c echo.Context) error {
	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.agg.LatestRegime(c.Request().Context(), req.Symbol, req.N, tf)
	if err != nil {
		h.logger.Error("regime usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Significance(c echo.Context) error {
	req := &models.SignificanceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res := h.agg.Significance(req.FactorName, req.Favorable, req.Unfavorable)
	if h.alerts != nil && res.Significant {
		if err := h.alerts.PublishMessage(c.Request().Context(), usecase.MsgTypeSignificanceAlert, res); err != nil {
			h.logger.Warn("significance alert publish error", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Recovery(c echo.Context) error {
	req := &models.RecoveryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.agg.Recovery(c.Request().Context(), req.Symbol, req.N, tf, req.Threshold)
	if err != nil {
		h.logger.Error("recovery usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Yields(c echo.Context) error {
	curve, err := h.yields.FetchYieldCurve(c.Request().Context())
	if err != nil {
		h.logger.Error("yields fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, curve)
}

func (h *SignalsEchoHandler) Snapshot(c echo.Context) error {
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.snapshot.GetSnapshot(c.Request().Context(), usecase.GetSnapshotParams{
		Symbol:       req.Symbol,
		N:            req.N,
		Timeframe:    domrepo.NormalizeTimeframe(req.TF),
		ThresholdPct: req.Threshold,
	})
	if err != nil {
		h.logger.Error("snapshot usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Confidence(c echo.Context) error {
	req := &models.ConfidenceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.snapshot.EntryConfidence(c.Request().Context(), req.Ticker, req.N, domrepo.NormalizeTimeframe(req.TF))
	if err != nil {
		h.logger.Error("confidence usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) HealthScore(c echo.Context) error {
	req := &models.HealthScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	score, err := h.health.SystemScore(c.Request().Context(), req.Days)
	if err != nil {
		h.logger.Error("health score error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, score)
}

func (h *SignalsEchoHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(req.To, now)

	res, err := h.candles.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:    req.Symbol,
		From:      from,
		To:        to,
		Timeframe: domrepo.NormalizeTimeframe(req.TF),
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
