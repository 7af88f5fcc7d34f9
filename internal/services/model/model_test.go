package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
)

type stubClassifier struct {
	scores [3]float64
	err    error
	seen   [5]float64
}

func (s *stubClassifier) PredictProba(_ context.Context, x [5]float64) ([3]float64, error) {
	s.seen = x
	return s.scores, s.err
}

func TestSource_NormalizesAndLabels(t *testing.T) {
	clf := &stubClassifier{scores: [3]float64{2, 1, 1}}
	src := NewSource(clf)

	f := models.FeatureVector{Momentum: 0.1, Volatility: 0.02, PERatio: 12, SectorSignal: 1, Liquidity: 0.9}
	d, err := src.Predict(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, [5]float64{0.1, 0.02, 12, 1, 0.9}, clf.seen)
	assert.InDelta(t, 0.5, d.Get(models.ActionHold), 1e-12)
	assert.InDelta(t, 0.25, d.Get(models.ActionBuy), 1e-12)
	assert.InDelta(t, 0.25, d.Get(models.ActionSell), 1e-12)
}

func TestSource_ZeroClassKeepsLabel(t *testing.T) {
	src := NewSource(&stubClassifier{scores: [3]float64{0.4, 0.6, 0}})
	d, err := src.Predict(context.Background(), models.FeatureInput{}.Vector())
	require.NoError(t, err)
	assert.Zero(t, d.Get(models.ActionSell))
	assert.InDelta(t, 1.0, d.Sum(), 1e-12)
	assert.Contains(t, d.Map(), "sell")
}

func TestSource_ClassifierFailures(t *testing.T) {
	boom := errors.New("model unavailable")
	testCases := []struct {
		name string
		clf  *stubClassifier
	}{
		{name: "error", clf: &stubClassifier{err: boom}},
		{name: "all_zero", clf: &stubClassifier{}},
		{name: "negative", clf: &stubClassifier{scores: [3]float64{0.5, -0.1, 0.6}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSource(tc.clf).Predict(context.Background(), models.FeatureInput{}.Vector())
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrClassifier)
		})
	}

	_, err := NewSource(&stubClassifier{err: boom}).Predict(context.Background(), models.FeatureInput{}.Vector())
	assert.ErrorIs(t, err, boom)
}

func TestDefaultLinearClassifier(t *testing.T) {
	m := DefaultLinearClassifier()
	ctx := context.Background()

	bullish := models.FeatureVector{Momentum: 0.1, Volatility: 0.02, PERatio: 12, SectorSignal: 1, Liquidity: 0.9}
	p, err := m.PredictProba(ctx, bullish.Array())
	require.NoError(t, err)
	assert.Greater(t, p[models.ActionBuy], 0.9)

	bearish := models.FeatureVector{Momentum: -0.15, Volatility: 0.12, PERatio: 40, SectorSignal: -1, Liquidity: 0.1}
	p, err = m.PredictProba(ctx, bearish.Array())
	require.NoError(t, err)
	assert.Greater(t, p[models.ActionSell], 0.9)

	neutral := models.FeatureVector{Momentum: 0.02, Volatility: 0.05, PERatio: 18, SectorSignal: 0, Liquidity: 0.1}
	p, err = m.PredictProba(ctx, neutral.Array())
	require.NoError(t, err)
	assert.Equal(t, models.ActionHold, models.Distribution(p).ArgMax())
	assert.InDelta(t, 1.0, p[0]+p[1]+p[2], 1e-12)
}

func TestLoadLinearClassifier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
weights:
  hold: [0, 0, 0, 0, 0]
  buy: [1, 0, 0, 0, 0]
  sell: [-1, 0, 0, 0, 0]
bias:
  hold: 0.5
`), 0o644))

	m, err := LoadLinearClassifier(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Weights[models.ActionBuy][0])
	assert.Equal(t, -1.0, m.Weights[models.ActionSell][0])
	assert.Equal(t, 0.5, m.Bias[models.ActionHold])

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
weights:
  hold: [0, 0, 0, 0, 0]
  long: [1, 0, 0, 0, 0]
  sell: [-1, 0, 0, 0, 0]
`), 0o644))
	_, err = LoadLinearClassifier(bad)
	assert.ErrorIs(t, err, models.ErrLabelMismatch)

	_, err = LoadLinearClassifier(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestHTTPClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/model/predict_proba", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 12.0, req.Features[2])
		_ = json.NewEncoder(w).Encode(predictResponse{Probabilities: []float64{0.2, 0.7, 0.1}})
	}))
	defer srv.Close()

	clf := NewHTTPClassifier(srv.URL, time.Second)
	p, err := clf.PredictProba(context.Background(), [5]float64{0.1, 0.02, 12, 1, 0.9})
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0.2, 0.7, 0.1}, p)
}

func TestHTTPClassifier_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPClassifier(srv.URL, time.Second).PredictProba(context.Background(), [5]float64{})
	assert.Error(t, err)

	_, err = NewHTTPClassifier("", time.Second).PredictProba(context.Background(), [5]float64{})
	assert.Error(t, err)

	_, err = NewSource(NewHTTPClassifier(srv.URL, time.Second)).Predict(context.Background(), models.FeatureInput{}.Vector())
	assert.ErrorIs(t, err, models.ErrClassifier)
}
