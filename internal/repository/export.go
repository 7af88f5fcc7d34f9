package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	"FinSight/pkg/cache"
)

// messagePublisher is the part of pkg/kafka.Producer the export publisher
// needs.
type messagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaExportPublisher publishes recommendations keyed by ticker.
type KafkaExportPublisher struct {
	producer messagePublisher
	topic    string
}

func NewKafkaExportPublisher(producer messagePublisher, topic string) *KafkaExportPublisher {
	return &KafkaExportPublisher{producer: producer, topic: topic}
}

var _ domrepo.ExportPublisher = (*KafkaExportPublisher)(nil)

func (p *KafkaExportPublisher) Publish(ctx context.Context, e *models.Export) error {
	if e == nil {
		return fmt.Errorf("%w: nil export", models.ErrInvalidInput)
	}
	return p.producer.Publish(ctx, p.topic, []byte(e.Ticker), e)
}

func (p *KafkaExportPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopExportPublisher drops exports; used when Kafka is disabled.
type NoopExportPublisher struct{}

func (NoopExportPublisher) Publish(context.Context, *models.Export) error { return nil }
func (NoopExportPublisher) Close() error                                 { return nil }

const exportKeyPrefix = "export"

// CacheExportStore keeps the latest export per ticker in a cache.Service.
type CacheExportStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheExportStore(c cache.Service, ttl time.Duration) *CacheExportStore {
	return &CacheExportStore{cache: c, ttl: ttl}
}

var _ domrepo.ExportStore = (*CacheExportStore)(nil)

func (s *CacheExportStore) Put(ctx context.Context, e *models.Export) error {
	if e == nil || e.Ticker == "" {
		return fmt.Errorf("%w: export needs a ticker", models.ErrInvalidInput)
	}
	return s.cache.Set(ctx, cache.GenerateKey(exportKeyPrefix, e.Ticker), e, s.ttl)
}

func (s *CacheExportStore) Get(ctx context.Context, ticker string) (*models.Export, error) {
	e, err := cache.GetTyped[models.Export](ctx, s.cache, cache.GenerateKey(exportKeyPrefix, ticker))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("%w: no recommendation for %q", models.ErrNotFound, ticker)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
