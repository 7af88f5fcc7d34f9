package service

import (
	"context"

	"FinSight/internal/domain/models"
)

// Classifier is the trained model capability: five features in classifier
// order, three class scores out in canonical order (hold, buy, sell).
type Classifier interface {
	PredictProba(ctx context.Context, x [5]float64) ([3]float64, error)
}

// ProbabilitySource turns asset features into a labelled distribution.
type ProbabilitySource interface {
	Predict(ctx context.Context, f models.FeatureVector) (models.Distribution, error)
}

// Runner executes the regime-aware pipeline for one session.
type Runner interface {
	Run(ctx context.Context, f models.FeatureVector, c models.Context, window []float64) (models.Result, error)
}
