package model

import (
	"context"
	"fmt"
	"math"

	"FinSight/internal/domain/models"
	domsvc "FinSight/internal/domain/service"
)

// Source adapts a Classifier into a labelled, normalised distribution.
type Source struct {
	clf domsvc.Classifier
}

func NewSource(clf domsvc.Classifier) *Source {
	return &Source{clf: clf}
}

// Predict returns a distribution defining all three labels and summing to 1.
func (s *Source) Predict(ctx context.Context, f models.FeatureVector) (models.Distribution, error) {
	var d models.Distribution
	scores, err := s.clf.PredictProba(ctx, f.Array())
	if err != nil {
		return d, fmt.Errorf("%w: %w", models.ErrClassifier, err)
	}
	total := 0.0
	for i, p := range scores {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return d, fmt.Errorf("%w: score %d is %v", models.ErrClassifier, i, p)
		}
		total += p
	}
	if total == 0 {
		return d, fmt.Errorf("%w: all scores are zero", models.ErrClassifier)
	}
	for _, a := range models.Actions {
		d[a] = scores[a] / total
	}
	return d, nil
}

var _ domsvc.ProbabilitySource = (*Source)(nil)
