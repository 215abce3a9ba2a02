package di

import (
	"context"
	"fmt"
	"time"

	"StockScan/internal/domain/repository"
	"StockScan/internal/handler/api"
	internalrepo "StockScan/internal/repository"
	"StockScan/internal/service/dedup"
	"StockScan/internal/service/dhan"
	"StockScan/internal/strategy"
	"StockScan/internal/usecase"
	"StockScan/pkg/cache"
	pkgch "StockScan/pkg/clickhouse"
	"StockScan/pkg/config"
	xhttp "StockScan/pkg/http"
	pkgkafka "StockScan/pkg/kafka"
	applogger "StockScan/pkg/logger"
	"StockScan/pkg/metrics"
	"StockScan/pkg/queue"
	"StockScan/pkg/server"
)

// ProvideKafkaProducer creates the shared Kafka producer, nil when Kafka
// is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
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

// kafkaLogSink adapts the producer to the log collector's publisher.
type kafkaLogSink struct {
	producer *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}

// ProvideLogger creates the application logger. With Kafka available,
// aggregated error logs also flow to the logs topic.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, err
	}
	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      kafkaLogSink{producer: producer},
		})
	}
	return l, nil
}

// ProvideCache builds the fallback cache. An unreachable Redis degrades to
// the in-memory store instead of failing startup.
func ProvideCache(cfg *config.Config, l *applogger.Logger) cache.Service {
	local := cache.NewMemoryCache(
		cache.WithMemoryNamespace(namespace(cfg)),
	)

	if cfg.Cache.Redis.Addr == "" {
		l.Warn("redis not configured, running on in-memory cache")
		return cache.NewFallbackCache(nil, local)
	}

	redisOpts := []cache.RedisOption{
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisNamespace(namespace(cfg)),
		cache.WithRedisCallTimeout(cfg.Cache.Redis.CallTimeout),
	}
	if cfg.Cache.Redis.PoolSize > 0 {
		redisOpts = append(redisOpts, cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdle, 30*time.Second))
	}
	remote, err := cache.NewRedisCache(redisOpts...)
	if err != nil {
		l.Warn("redis unreachable, degrading to in-memory cache",
			applogger.String("addr", cfg.Cache.Redis.Addr),
			applogger.Error(err),
		)
		return cache.NewFallbackCache(nil, local)
	}
	return cache.NewFallbackCache(remote, local)
}

func namespace(cfg *config.Config) string {
	if cfg.Cache.Namespace != "" {
		return cfg.Cache.Namespace
	}
	return cache.DefaultNamespace
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMarketData selects the candle source from config.
func ProvideMarketData(cfg *config.Config, l *applogger.Logger) (repository.MarketData, error) {
	switch cfg.MarketData.Source {
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		md := internalrepo.NewCHMarketData(client)
		md.SetLogger(l)
		return md, nil
	case "http":
		client := xhttp.NewClient(xhttp.WithTimeout(cfg.MarketData.Timeout))
		return internalrepo.NewHTTPMarketData(client, cfg.MarketData.BaseURL,
			internalrepo.WithRequestsPerSecond(cfg.MarketData.RequestsPerSecond),
			internalrepo.WithMarketDataLogger(l),
		), nil
	default:
		return nil, fmt.Errorf("unknown market data source: %s", cfg.MarketData.Source)
	}
}

// ProvideSignalPublisher creates the Kafka publisher, or a no-op one when
// Kafka is disabled.
func ProvideSignalPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.SignalPublisher {
	if producer == nil {
		return internalrepo.NoopSignalPublisher{}
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

// ProvideBroker creates the Dhan broker client. Without credentials it
// runs in paper mode.
func ProvideBroker(cfg *config.Config, l *applogger.Logger) repository.Broker {
	return dhan.New(
		xhttp.NewClient(),
		cfg.Dhan.BaseURL,
		dhan.WithCredentials(cfg.Dhan.AccessToken, cfg.Dhan.ClientID),
		dhan.WithLogger(l),
	)
}

// ProvideDedupGuard creates the per-day signal guard.
func ProvideDedupGuard(cacheSvc cache.Service, cfg *config.Config, l *applogger.Logger) *dedup.Guard {
	return dedup.NewGuard(cacheSvc, l, cfg.Cache.DedupTTL)
}

// ProvideScanUseCase creates the scan pipeline.
func ProvideScanUseCase(
	market repository.MarketData,
	cacheSvc cache.Service,
	guard *dedup.Guard,
	pub repository.SignalPublisher,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ScanUseCase {
	return usecase.NewScanUseCase(market, cacheSvc, guard, pub, m, l,
		usecase.WithScanWorkers(cfg.Scanner.Workers),
		usecase.WithSeriesTTL(cfg.Cache.SeriesTTL),
		usecase.WithSignalTTL(cfg.Cache.SignalTTL),
		usecase.WithSignalParams(strategy.SignalParams{
			StopATRMultiple:   cfg.Scanner.StopATRMultiple,
			TargetATRMultiple: cfg.Scanner.TargetATRMultiple,
			StopPct:           cfg.Scanner.StopPct,
			TargetPct:         cfg.Scanner.TargetPct,
		}),
	)
}

// ProvideOrderUseCase creates the order pipeline.
func ProvideOrderUseCase(broker repository.Broker, cacheSvc cache.Service, m repository.Metrics, l *applogger.Logger) *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(broker, cacheSvc, m, l)
}

// ProvideCacheAdminUseCase creates the cache admin endpoints' backend.
func ProvideCacheAdminUseCase(cacheSvc cache.Service, l *applogger.Logger) *usecase.CacheAdminUseCase {
	return usecase.NewCacheAdminUseCase(cacheSvc, l)
}

// ProvideJobQueue creates the async scan queue when it can run: it needs
// both queue.enabled and a live Redis connection to share.
func ProvideJobQueue(
	cfg *config.Config,
	cacheSvc cache.Service,
	scanner *usecase.ScanUseCase,
	l *applogger.Logger,
) *queue.RedisQueue {
	if !cfg.Queue.Enabled {
		return nil
	}
	fc, ok := cacheSvc.(*cache.FallbackCache)
	if !ok || fc.Remote() == nil {
		l.Warn("async scanning disabled: no redis connection for the job queue")
		return nil
	}

	// The same process enqueues over HTTP and consumes with its workers.
	q := queue.NewRedisQueue(l,
		&queue.QueueConfig{
			Workers:    cfg.Queue.Workers,
			QueueSize:  cfg.Queue.QueueSize,
			RetryLimit: cfg.Queue.RetryLimit,
			RetryDelay: cfg.Queue.RetryDelay,
		},
		fc.Remote().Client(),
		queue.ModeProducerConsumer,
	)
	q.RegisterJob(usecase.NewScanJob(scanner))
	return q
}

// ProvideHandler creates the HTTP handler with all routes.
func ProvideHandler(
	l *applogger.Logger,
	scanner *usecase.ScanUseCase,
	orders *usecase.OrderUseCase,
	admin *usecase.CacheAdminUseCase,
	jobs *queue.RedisQueue,
) xhttp.Handler {
	var svc queue.QueueService
	if jobs != nil {
		svc = jobs
	}
	return api.NewScannerHandler(l, scanner, orders, admin, svc)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	scanner *usecase.ScanUseCase,
	jobs *queue.RedisQueue,
	cacheSvc cache.Service,
) *server.App {
	app := server.New(cfg, l, handler, scanner, jobs)
	if fc, ok := cacheSvc.(*cache.FallbackCache); ok {
		app.AddCloser(fc.Close)
	}
	app.AddCloser(func() error {
		l.RemoveCollector()
		return nil
	})
	return app
}
