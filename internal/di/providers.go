package di

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"FinSight/internal/domain/models"
	"FinSight/internal/domain/repository"
	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/handler/api"
	mid "FinSight/internal/middleware"
	internalrepo "FinSight/internal/repository"
	"FinSight/internal/service/ratelimit"
	"FinSight/internal/services/dataset"
	"FinSight/internal/services/model"
	"FinSight/internal/services/protocol"
	"FinSight/internal/services/regime"
	"FinSight/internal/usecase"
	"FinSight/pkg/cache"
	pkgch "FinSight/pkg/clickhouse"
	"FinSight/pkg/config"
	xhttp "FinSight/pkg/http"
	pkgkafka "FinSight/pkg/kafka"
	"FinSight/pkg/logger"
	"FinSight/pkg/metrics"
	"FinSight/pkg/server"
)

// ProvideLogger creates the application logger from the logger section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideClassifier builds the model behind the probability source.
func ProvideClassifier(cfg *config.Config) (domsvc.Classifier, error) {
	switch cfg.Model.Type {
	case "http":
		return model.NewHTTPClassifier(cfg.Model.ServiceURL, cfg.Model.Timeout), nil
	default:
		if cfg.Model.Path == "" {
			return model.DefaultLinearClassifier(), nil
		}
		clf, err := model.LoadLinearClassifier(cfg.Model.Path)
		if err != nil {
			return nil, fmt.Errorf("linear model: %w", err)
		}
		return clf, nil
	}
}

// ProvideProbabilitySource wraps the classifier.
func ProvideProbabilitySource(clf domsvc.Classifier) domsvc.ProbabilitySource {
	return model.NewSource(clf)
}

// ProvideOrchestratorConfig maps the pipeline section.
func ProvideOrchestratorConfig(cfg *config.Config) usecase.OrchestratorConfig {
	p := cfg.Pipeline
	return usecase.OrchestratorConfig{
		Thresholds: regime.Thresholds{Low: p.LowThreshold, High: p.HighThreshold},
		AlphaScale: p.AlphaScale,
		Rules: protocol.Rules{
			LowRiskBuy:      p.Rules.LowRiskBuy,
			LowRiskHold:     p.Rules.LowRiskHold,
			HighRiskBuy:     p.Rules.HighRiskBuy,
			ExposureLimit:   p.Rules.ExposureLimit,
			HighExposureBuy: p.Rules.HighExposureBuy,
			VolatileSell:    p.Rules.VolatileSell,
		},
		SyntheticMean:   p.Synthetic.Mean,
		SyntheticStd:    p.Synthetic.Std,
		SyntheticLength: p.Synthetic.Length,
		Seed:            p.Seed,
	}
}

// ProvideSessionRegistry creates the per-session orchestrators. The default
// session uses the configured seed; other sessions derive theirs from the ID
// so their synthetic windows differ.
func ProvideSessionRegistry(src domsvc.ProbabilitySource, ocfg usecase.OrchestratorConfig, l *logger.Logger) *usecase.SessionRegistry {
	return usecase.NewSessionRegistry(func(id string, prior models.Distribution) *usecase.Orchestrator {
		c := ocfg
		c.Seed = SessionSeed(ocfg.Seed, id)
		return usecase.NewOrchestrator(src, c,
			usecase.WithPrior(prior),
			usecase.WithLogger(l.With(logger.String("session", id))),
		)
	})
}

// SessionSeed derives the synthetic-window seed of a session.
func SessionSeed(base int64, sessionID string) int64 {
	if sessionID == usecase.DefaultSessionID {
		return base
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(sessionID))
	return base ^ int64(h.Sum64()>>1)
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
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.AssetsSchema(cfg.Dataset.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideAssetSource opens the reference dataset. A missing CSV file falls
// back to a dataset generated in memory with the configured size and seed.
func ProvideAssetSource(cfg *config.Config, l *logger.Logger) (repository.AssetSource, func(), error) {
	if cfg.Dataset.Source == "clickhouse" {
		client, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				l.Warn("clickhouse close error", logger.Error(err))
			}
		}
		return internalrepo.NewCHAssetSource(client.DB(), cfg.Dataset.Table, l), cleanup, nil
	}

	src, err := internalrepo.NewCSVAssetSource(cfg.Dataset.Path, cfg.Dataset.Seed)
	if errors.Is(err, fs.ErrNotExist) {
		l.Warn("dataset file missing, generating in memory",
			logger.String("path", cfg.Dataset.Path),
			logger.Int("size", cfg.Dataset.Size),
		)
		rows := dataset.Generate(cfg.Dataset.Size, cfg.Dataset.Seed)
		return internalrepo.NewMemoryAssetSource(rows, cfg.Dataset.Seed), func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	l.Info("dataset loaded", logger.String("path", cfg.Dataset.Path), logger.Int("rows", src.Len()))
	return src, func() {}, nil
}

// ProvideCache creates the recommendation cache: memory only, or memory in
// front of Redis.
func ProvideCache(cfg *config.Config, l *logger.Logger) (cache.Service, func(), error) {
	var svc cache.Service
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
			cache.WithLayeredMemoryTTL(cfg.Cache.MemoryTTL),
			cache.WithLayeredMemoryCleanup(cfg.Cache.MemoryCleanup),
		)
	} else {
		svc = cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryCleanup(cfg.Cache.MemoryCleanup),
		)
	}
	cleanup := func() {
		if err := svc.Close(); err != nil {
			l.Warn("cache close error", logger.Error(err))
		}
	}
	return svc, cleanup, nil
}

// ProvideExportStore keeps the latest export per ticker.
func ProvideExportStore(c cache.Service, cfg *config.Config) repository.ExportStore {
	return internalrepo.NewCacheExportStore(c, cfg.Cache.TTL)
}

// ProvideExportPublisher publishes exports to Kafka when enabled.
func ProvideExportPublisher(cfg *config.Config, reg *prometheus.Registry, l *logger.Logger) (repository.ExportPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopExportPublisher{}, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithMetrics(reg),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaExportPublisher(producer, cfg.Kafka.Topic)
	l.Info("kafka export enabled",
		logger.Strings("brokers", cfg.Kafka.Brokers),
		logger.String("topic", cfg.Kafka.Topic),
	)
	cleanup := func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", logger.Error(err))
		}
	}
	return pub, cleanup, nil
}

// ProvideHandler creates the decision HTTP handler.
func ProvideHandler(l *logger.Logger, svc *usecase.DecisionService) xhttp.Handler {
	return api.NewDecisionHandler(l, svc)
}

// ProvideHTTPServer creates the Echo server with the configured middleware.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *logger.Logger, reg *prometheus.Registry) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, reg))
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		opts = append(opts, xhttp.WithMiddleware(mid.RateLimit(ratelimit.New(rl.Burst, rl.PerSecond), l)))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, l *logger.Logger) *server.App {
	return server.New(cfg, srv, l)
}
