package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"QuantPulse/internal/domain/repository"
	domsvc "QuantPulse/internal/domain/service"
	"QuantPulse/internal/handler/api"
	mid "QuantPulse/internal/middleware"
	internalrepo "QuantPulse/internal/repository"
	icache "QuantPulse/internal/service/cache"
	"QuantPulse/internal/service/marketdata"
	"QuantPulse/internal/services/health"
	"QuantPulse/internal/services/macro"
	"QuantPulse/internal/services/notify"
	"QuantPulse/internal/usecase"
	pkgcache "QuantPulse/pkg/cache"
	pkgch "QuantPulse/pkg/clickhouse"
	"QuantPulse/pkg/config"
	pkgkafka "QuantPulse/pkg/kafka"
	applogger "QuantPulse/pkg/logger"
	"QuantPulse/pkg/metrics"
	"QuantPulse/pkg/queue"
	"QuantPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return applogger.New(lc)
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".ticks_raw (ts DateTime, symbol String, price Float64, volume Float64, source String, event_id String, seq UInt64) ENGINE=ReplacingMergeTree(seq) ORDER BY (symbol, ts, event_id)",
		"CREATE TABLE IF NOT EXISTS " + db + ".candles_1m (bucket DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)",
		"CREATE TABLE IF NOT EXISTS " + db + ".candles_5m (bucket DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)",
		"CREATE TABLE IF NOT EXISTS " + db + ".candles_1d (bucket DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, vol Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, bucket)",
		"CREATE MATERIALIZED VIEW IF NOT EXISTS " + db + ".mv_candles_1m TO " + db + ".candles_1m AS SELECT toStartOfMinute(ts) AS bucket, symbol, argMin(price, ts) AS open, max(price) AS high, min(price) AS low, argMax(price, ts) AS close, sum(volume) AS vol FROM " + db + ".ticks_raw GROUP BY bucket, symbol",
		"CREATE TABLE IF NOT EXISTS " + db + ".pipeline_runs (date String, session String, modules_ok Int32, modules_total Int32, duration_seconds Float64, module_results String) ENGINE=MergeTree ORDER BY (date, session)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTickStorage creates ClickHouse storage repository.
func ProvideTickStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	source := cfg.MarketData.Source
	if source == "" {
		source = "finnhub"
	}
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".ticks_raw", source)
}

// ProvideTickPublisher creates Kafka publisher repository.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaTicksHandler registers handler for ticks topic.
func ProvideKafkaTicksHandler(store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideMarketStream creates the WebSocket market stream.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	return marketdata.New(
		cfg.MarketData.APIKey,
		cfg.MarketData.WebSocketURL,
		cfg.MarketData.Symbols,
		cfg.MarketData.ReconnectDelay,
		cfg.MarketData.PingInterval,
	)
}

// ProvideTickProcessor creates tick processor use case.
func ProvideTickProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideTickCollector creates tick collector use case.
func ProvideTickCollector(
	stream repository.MarketStream,
	processor *usecase.TickProcessor,
	metrics repository.Metrics,
) *usecase.TickCollector {
	// Build middleware pipeline between WebSocket and Kafka
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, processor, metrics, pipe)
}

// ProvideFeatureStore creates the candle feature store.
func ProvideFeatureStore(chClient *pkgch.Client, l *applogger.Logger) repository.FeatureStore {
	store := internalrepo.NewCHFeatureStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideSignalAggregator creates the quant signal aggregator.
func ProvideSignalAggregator(store repository.FeatureStore) *usecase.SignalAggregator {
	return usecase.NewSignalAggregator(store)
}

// ProvideCandlesUseCase creates the candles query use case.
func ProvideCandlesUseCase(store repository.FeatureStore) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(store)
}

// ProvideYieldSource creates the Treasury yield curve fetcher.
func ProvideYieldSource(cfg *config.Config, l *applogger.Logger) domsvc.YieldSource {
	return macro.NewYieldService(cfg.Macro.BaseURL, cfg.Macro.Timeout,
		macro.WithCurveCache(provideCurveCache(cfg, l)))
}

// provideCurveCache builds the yield curve cache. A layered
// memory+Redis cache when Redis is configured, in-process otherwise.
func provideCurveCache(cfg *config.Config, l *applogger.Logger) pkgcache.Service {
	mem := pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(64))
	if !cfg.Redis.Enabled {
		return mem
	}
	host, port, err := splitHostPort(cfg.Redis.Addr)
	if err != nil {
		l.Warn("invalid redis addr, using memory cache", applogger.Error(err))
		return mem
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		l.Warn("redis cache unavailable, using memory cache", applogger.Error(err))
		return mem
	}
	return pkgcache.NewLayeredCache(rc, pkgcache.WithLayeredMemorySize(64))
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("parse redis port: %w", err)
	}
	return host, port, nil
}

// ProvideRunHistory creates the pipeline run store.
func ProvideRunHistory(chClient *pkgch.Client, cfg *config.Config) repository.RunHistory {
	return internalrepo.NewCHRunHistory(chClient.DB(), cfg.ClickHouse.Database+".pipeline_runs")
}

// ProvideHealthService creates the health scoring service.
func ProvideHealthService(history repository.RunHistory) *health.Service {
	return health.NewService(history)
}

// ProvideRedisClient creates the shared Redis client; nil when disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideSignalsCache creates the response cache. Prefers Redis, falls
// back to in-process TTL cache.
func ProvideSignalsCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideSignalsAggregate creates the fan-out snapshot use case.
func ProvideSignalsAggregate(agg *usecase.SignalAggregator, yields domsvc.YieldSource) *usecase.SignalsAggregateUseCase {
	return usecase.NewSignalsAggregateUseCase(agg, yields)
}

// ProvideEdgeSignalsHandler creates the plain net/http signal handler
// used for internal tooling, with caching and rate limiting attached.
func ProvideEdgeSignalsHandler(cfg *config.Config, agg *usecase.SignalAggregator, c icache.BytesCache, l *applogger.Logger) *api.SignalsHandler {
	h := api.NewSignalsHandler(agg)
	h.SetCache(c)
	h.SetLogger(l)
	h.SetTuning(cfg.Signals.RecoveryThreshold, cfg.Signals.CacheTTL.Regime, cfg.Signals.CacheTTL.Recovery)
	return h
}

// ProvideNotifier creates the alert notifier. Telegram when configured,
// otherwise log-only.
func ProvideNotifier(cfg *config.Config, l *applogger.Logger) (domsvc.Notifier, error) {
	if cfg.Telegram.Enabled {
		return notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, l)
	}
	return notify.NewLogNotifier(l), nil
}

// ProvideAlertQueue creates the Redis-backed alert queue with the regime
// alert job registered; nil when Redis is disabled (alerts then go
// straight to the notifier via the watcher's queue adapter).
func ProvideAlertQueue(cfg *config.Config, l *applogger.Logger, client *redis.Client, notifier domsvc.Notifier) *queue.RedisQueue {
	if client == nil {
		return nil
	}
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    2,
		QueueSize:  1024,
		RetryLimit: 3,
		RetryDelay: 10 * time.Second,
	}, client, queue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewRegimeAlertJob(notifier))
	q.RegisterJob(usecase.NewSignificanceAlertJob(notifier))
	return q
}

// directQueue delivers alert messages to registered jobs in-process.
type directQueue struct {
	jobs map[string]queue.Job
}

func newDirectQueue(jobs ...queue.Job) directQueue {
	m := make(map[string]queue.Job, len(jobs))
	for _, j := range jobs {
		m[j.Type()] = j
	}
	return directQueue{jobs: m}
}

func (d directQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	j, ok := d.jobs[msgType]
	if !ok {
		return fmt.Errorf("no job for message type %s", msgType)
	}
	return j.Handle(ctx, payload)
}

// ProvideAlertPublisher selects the alert transport: the Redis queue
// when available, in-process delivery otherwise.
func ProvideAlertPublisher(alertQueue *queue.RedisQueue, notifier domsvc.Notifier) queue.QueueService {
	if alertQueue != nil {
		return alertQueue
	}
	return newDirectQueue(
		usecase.NewRegimeAlertJob(notifier),
		usecase.NewSignificanceAlertJob(notifier),
	)
}

// ProvideRegimeWatcher creates the periodic regime sweep.
func ProvideRegimeWatcher(
	cfg *config.Config,
	agg *usecase.SignalAggregator,
	alerts queue.QueueService,
	history repository.RunHistory,
	metrics repository.Metrics,
	l *applogger.Logger,
) *usecase.RegimeWatcher {
	symbols := cfg.Signals.WatchSymbols
	if len(symbols) == 0 {
		symbols = cfg.MarketData.Symbols
	}
	return usecase.NewRegimeWatcher(
		agg,
		alerts,
		history,
		metrics,
		l,
		symbols,
		repository.NormalizeTimeframe(cfg.Signals.Timeframe),
		cfg.Signals.LookbackCandles,
		cfg.Signals.WatchInterval,
		cfg.Signals.Session,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	agg *usecase.SignalAggregator,
	snapshot *usecase.SignalsAggregateUseCase,
	candles *usecase.CandlesUseCase,
	yields domsvc.YieldSource,
	healthSvc *health.Service,
	watcher *usecase.RegimeWatcher,
	alertQueue *queue.RedisQueue,
	alerts queue.QueueService,
	edge *api.SignalsHandler,
	producer *pkgkafka.Producer,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if producer != nil && cfg.Backend.Type == "kafka" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".logs",
			Publisher:      kafkaLogSink{producer},
		})
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient)
	app.SetSignals(agg, snapshot, candles, yields, healthSvc, watcher, alertQueue)
	app.SetEdgeHandler(edge)
	if cfg.Signals.AlertOnSignificance {
		app.SetAlertPublisher(alerts)
	}
	if collector != nil {
		app.TickProc = collector.Processor()
	}
	return app
}

// kafkaLogSink adapts the Kafka producer to the log collector's
// publisher interface so aggregated error digests land on a topic.
type kafkaLogSink struct {
	p *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.p.Publish(ctx, topic, nil, payload)
}
