package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	domsvc "QuantPulse/internal/domain/service"
	"QuantPulse/internal/handler/api"
	"QuantPulse/internal/services/health"
	"QuantPulse/internal/usecase"
	pkgch "QuantPulse/pkg/clickhouse"
	"QuantPulse/pkg/config"
	xhttp "QuantPulse/pkg/http"
	pkgkafka "QuantPulse/pkg/kafka"
	applogger "QuantPulse/pkg/logger"
	"QuantPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	collector   *usecase.TickCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	TickProc    *usecase.TickProcessor

	agg        *usecase.SignalAggregator
	snapshot   *usecase.SignalsAggregateUseCase
	candles    *usecase.CandlesUseCase
	yields     domsvc.YieldSource
	health     *health.Service
	watcher    *usecase.RegimeWatcher
	alertQueue *queue.RedisQueue
	sigAlerts  queue.QueueService
	edge       *api.SignalsHandler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetEdgeHandler injects the rate-limited plain-http signal handler.
func (a *App) SetEdgeHandler(h *api.SignalsHandler) { a.edge = h }

// SetAlertPublisher routes significant factor results to the alert
// queue from the significance endpoint.
func (a *App) SetAlertPublisher(q queue.QueueService) { a.sigAlerts = q }

// SetSignals injects the signal-serving components.
func (a *App) SetSignals(
	agg *usecase.SignalAggregator,
	snapshot *usecase.SignalsAggregateUseCase,
	candles *usecase.CandlesUseCase,
	yields domsvc.YieldSource,
	healthSvc *health.Service,
	watcher *usecase.RegimeWatcher,
	alertQueue *queue.RedisQueue,
) {
	a.agg = agg
	a.snapshot = snapshot
	a.candles = candles
	a.yields = yields
	a.health = healthSvc
	a.watcher = watcher
	a.alertQueue = alertQueue
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.log

	// Setup Echo HTTP server using pkg/http and register routes via handler
	httpHandler := a.httpHandler
	if httpHandler == nil && a.agg != nil {
		h := api.NewSignalsEchoHandler(l, a.agg, a.snapshot, a.candles, a.yields, a.health)
		h.SetAlerts(a.sigAlerts)
		httpHandler = h
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	a.registerHealthz()

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector error", applogger.Error(err))
		}
	}()
	l.Info("collector started", applogger.Strings("symbols", a.cfg.MarketData.Symbols))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start alert queue consumer
	if a.alertQueue != nil {
		if err := a.alertQueue.Start(); err != nil {
			l.Error("alert queue start error", applogger.Error(err))
		}
	}

	// Start regime watcher
	if a.watcher != nil {
		a.watcher.Start(ctx)
		l.Info("regime watcher started")
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// registerHealthz adds liveness/readiness endpoints on the Echo server.
func (a *App) registerHealthz() {
	e := a.httpServer.Echo()
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/readyz", func(c echo.Context) error {
		if a.chClient != nil {
			if err := a.chClient.Health(c.Request().Context()); err != nil {
				return c.String(http.StatusServiceUnavailable, "clickhouse: "+err.Error())
			}
		}
		return c.String(http.StatusOK, "ready")
	})
	if a.edge != nil {
		e.GET("/internal/signals/regime", echo.WrapHandler(a.edge.Regime()))
		e.GET("/internal/signals/recovery", echo.WrapHandler(a.edge.Recovery()))
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.log
	if l == nil {
		var err error
		l, err = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
		if err != nil {
			log.Printf("failed to create logger: %v", err)
			return err
		}
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop alert queue
	if a.alertQueue != nil {
		if err := a.alertQueue.Stop(shutdownCtx); err != nil {
			l.Warn("alert queue stop error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Close tick processor resources (publisher/storage)
	if a.TickProc != nil {
		a.TickProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
