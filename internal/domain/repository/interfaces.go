package repository

import (
	"context"

	"FinSight/internal/domain/models"
)

// AssetSource supplies reference samples; the pipeline treats it as an
// opaque input source.
type AssetSource interface {
	Sample(ctx context.Context) (models.AssetSample, error)
	Lookup(ctx context.Context, ticker string) (models.AssetSample, error)
}

// ExportPublisher hands finished recommendations to downstream consumers.
type ExportPublisher interface {
	Publish(ctx context.Context, e *models.Export) error
	Close() error
}

// ExportStore keeps the latest recommendation per ticker for the
// presentation layer.
type ExportStore interface {
	Put(ctx context.Context, e *models.Export) error
	Get(ctx context.Context, ticker string) (*models.Export, error)
}

type Metrics interface {
	RecordDecision(mode, action, regime string)
	RecordRegimeDistance(distance float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
