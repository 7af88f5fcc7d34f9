package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/model"
	applogger "FinSight/pkg/logger"
)

type stubSource struct {
	mu    sync.Mutex
	probs models.Distribution
	err   error
	calls int
}

func (s *stubSource) Predict(context.Context, models.FeatureVector) (models.Distribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.probs, s.err
}

func defaultContext() models.Context {
	return models.ContextInput{}.Context()
}

// shiftedWindow has a previous window of zeros and a current window whose
// newest five returns jump to 1, which saturates alpha.
func shiftedWindow() []float64 {
	w := make([]float64, 15)
	for i := 10; i < 15; i++ {
		w[i] = 1
	}
	return w
}

func TestOrchestrator_Run(t *testing.T) {
	src := &stubSource{probs: models.Distribution{0.2, 0.5, 0.3}}
	o := NewOrchestrator(src, DefaultOrchestratorConfig())

	res, err := o.Run(context.Background(), models.FeatureInput{}.Vector(), defaultContext(), shiftedWindow())
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3.0, res.Distance, 1e-12)
	assert.Equal(t, models.RegimeVolatile, res.Regime)
	assert.Equal(t, 1.0, res.Alpha)
	assert.Equal(t, src.probs, res.SmoothedProbs)
	assert.Equal(t, models.ActionBuy, res.Decision.Action)
	assert.InDelta(t, 0.459, res.Decision.Confidence, 1e-9)
	assert.InDelta(t, 1.0, res.Decision.FinalProbs.Sum(), 1e-9)

	assert.Equal(t, []string{
		"Detected market regime: volatile",
		"Risk tolerance: medium",
		"Policy smoothed using diffusion (alpha=1.00)",
		"Final decision: buy",
	}, res.Explanation)
	assert.Equal(t, res.Explanation, res.Decision.Reasons)

	assert.Equal(t, src.probs, o.Previous())
}

func TestOrchestrator_FlatWindowKeepsPrior(t *testing.T) {
	src := &stubSource{probs: models.Distribution{0.1, 0.1, 0.8}}
	o := NewOrchestrator(src, DefaultOrchestratorConfig())

	window := []float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01}
	res, err := o.Run(context.Background(), models.FeatureInput{}.Vector(), defaultContext(), window)
	require.NoError(t, err)

	assert.Zero(t, res.Distance)
	assert.Equal(t, models.RegimeStable, res.Regime)
	assert.Zero(t, res.Alpha)
	assert.Equal(t, models.PriorDistribution, res.SmoothedProbs)
	assert.Equal(t, models.ActionHold, res.Decision.Action)
	assert.Equal(t, models.PriorDistribution, o.Previous())
}

func TestOrchestrator_SyntheticFallback(t *testing.T) {
	for _, window := range [][]float64{nil, {0.01, 0.02, 0.03}} {
		o := NewOrchestrator(&stubSource{probs: models.Distribution{0.3, 0.4, 0.3}}, DefaultOrchestratorConfig())
		res, err := o.Run(context.Background(), models.FeatureInput{}.Vector(), defaultContext(), window)
		require.NoError(t, err)
		assert.Len(t, res.Explanation, 4)
		assert.GreaterOrEqual(t, res.Alpha, 0.0)
		assert.LessOrEqual(t, res.Alpha, 1.0)
	}
}

func TestOrchestrator_FailedRunLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{probs: models.Distribution{0.2, 0.5, 0.3}}
	o := NewOrchestrator(src, DefaultOrchestratorConfig())

	_, err := o.Run(ctx, models.FeatureInput{}.Vector(), defaultContext(), shiftedWindow())
	require.NoError(t, err)
	before := o.Previous()

	src.err = errors.Join(models.ErrClassifier, errors.New("model offline"))
	_, err = o.Run(ctx, models.FeatureInput{}.Vector(), defaultContext(), shiftedWindow())
	assert.ErrorIs(t, err, models.ErrClassifier)
	assert.Equal(t, before, o.Previous())

	src.err = nil
	_, err = o.Run(ctx, models.FeatureInput{}.Vector(), defaultContext(), []float64{0.1, 0.2, 0.3, 0.4, 0.5})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, before, o.Previous())

	bad := models.FeatureInput{}.Vector()
	bad.PERatio = -1
	_, err = o.Run(ctx, bad, defaultContext(), shiftedWindow())
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	c := defaultContext()
	c.RiskTolerance = "reckless"
	_, err = o.Run(ctx, models.FeatureInput{}.Vector(), c, shiftedWindow())
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	assert.Equal(t, before, o.Previous())
}

func TestOrchestrator_InstancesAreIsolated(t *testing.T) {
	a := NewOrchestrator(&stubSource{probs: models.Distribution{0, 1, 0}}, DefaultOrchestratorConfig())
	b := NewOrchestrator(&stubSource{probs: models.Distribution{0, 0, 1}}, DefaultOrchestratorConfig())

	_, err := a.Run(context.Background(), models.FeatureInput{}.Vector(), defaultContext(), shiftedWindow())
	require.NoError(t, err)

	assert.Equal(t, models.Distribution{0, 1, 0}, a.Previous())
	assert.Equal(t, models.PriorDistribution, b.Previous())
}

func TestOrchestrator_IdenticalInstancesAgree(t *testing.T) {
	ctx := context.Background()
	src := model.NewSource(model.DefaultLinearClassifier())
	a := NewOrchestrator(src, DefaultOrchestratorConfig())
	b := NewOrchestrator(src, DefaultOrchestratorConfig())

	f := models.FeatureInput{}.Vector()
	f.Momentum = 0.04
	c := defaultContext()

	windows := [][]float64{
		nil,
		shiftedWindow(),
		nil,
		{0.01, -0.02, 0.03, 0.0, 0.015, -0.01, 0.02, 0.05},
		{0.01, 0.02},
	}
	for i, w := range windows {
		ra, err := a.Run(ctx, f, c, w)
		require.NoError(t, err, "run %d", i)
		rb, err := b.Run(ctx, f, c, w)
		require.NoError(t, err, "run %d", i)

		require.Equal(t, ra, rb, "run %d", i)
		require.Equal(t, a.Previous(), b.Previous(), "run %d", i)
	}
}

func TestOrchestrator_WithPrior(t *testing.T) {
	prior := models.Distribution{0.6, 0.2, 0.2}
	o := NewOrchestrator(&stubSource{}, DefaultOrchestratorConfig(), WithPrior(prior))
	assert.Equal(t, prior, o.Previous())
}

func TestOrchestrator_ConcurrentRuns(t *testing.T) {
	src := &stubSource{probs: models.Distribution{0.3, 0.4, 0.3}}
	o := NewOrchestrator(src, DefaultOrchestratorConfig())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.Run(context.Background(), models.FeatureInput{}.Vector(), defaultContext(), nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, src.calls)
	assert.InDelta(t, 1.0, o.Previous().Sum(), 1e-9)
}

func TestOrchestrator_LogsRun(t *testing.T) {
	var buf bytes.Buffer
	src := &stubSource{probs: models.Distribution{0.2, 0.5, 0.3}}
	o := NewOrchestrator(src, DefaultOrchestratorConfig(), WithLogger(applogger.NewWriter(&buf, zerolog.DebugLevel)))

	_, err := o.Run(context.Background(), models.FeatureInput{}.Vector(), defaultContext(), shiftedWindow())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"regime":"volatile"`)
	assert.Contains(t, out, `"action":"buy"`)
	assert.Contains(t, out, `"final_probs":{"buy":`)
}
