package model

import (
	"context"
	"fmt"
	"time"

	domsvc "FinSight/internal/domain/service"
	xhttp "FinSight/pkg/http"
)

// HTTPClassifier calls an external model service that owns the trained
// classifier.
type HTTPClassifier struct {
	baseURL string
	client  *xhttp.Client
}

func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPClassifier{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type predictRequest struct {
	Features [5]float64 `json:"features"`
}

type predictResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// PredictProba posts the feature tuple and expects scores in
// (hold, buy, sell) order. No retry: a failed call fails the decision.
func (c *HTTPClassifier) PredictProba(ctx context.Context, x [5]float64) ([3]float64, error) {
	var out [3]float64
	if c.baseURL == "" {
		return out, fmt.Errorf("model service url not configured")
	}
	var pr predictResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     c.baseURL + "/model/predict_proba",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    predictRequest{Features: x},
	}, &pr)
	if err != nil {
		return out, fmt.Errorf("post predict_proba: %w", err)
	}
	if len(pr.Probabilities) != len(out) {
		return out, fmt.Errorf("model returned %d scores, want %d", len(pr.Probabilities), len(out))
	}
	copy(out[:], pr.Probabilities)
	return out, nil
}

var _ domsvc.Classifier = (*HTTPClassifier)(nil)
