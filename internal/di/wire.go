//go:build wireinject
// +build wireinject

package di

import (
	"QuantPulse/pkg/config"
	"QuantPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,

		// Repositories
		ProvideTickStorage,
		ProvideTickPublisher,
		ProvideMarketStream,
		ProvideFeatureStore,
		ProvideRunHistory,

		// Ingestion use cases
		ProvideTickProcessor,
		ProvideTickCollector,
		ProvideKafkaTicksHandler,

		// Signal services
		ProvideSignalAggregator,
		ProvideSignalsAggregate,
		ProvideCandlesUseCase,
		ProvideYieldSource,
		ProvideHealthService,
		ProvideSignalsCache,
		ProvideEdgeSignalsHandler,
		ProvideNotifier,
		ProvideAlertQueue,
		ProvideAlertPublisher,
		ProvideRegimeWatcher,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
