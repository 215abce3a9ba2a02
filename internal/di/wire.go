//go:build wireinject
// +build wireinject

package di

import (
	"StockScan/pkg/config"
	"StockScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideMarketData,
		ProvideSignalPublisher,
		ProvideBroker,
		ProvideDedupGuard,

		// Use cases
		ProvideScanUseCase,
		ProvideOrderUseCase,
		ProvideCacheAdminUseCase,
		ProvideJobQueue,

		// HTTP surface and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
