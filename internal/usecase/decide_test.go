package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
	"FinSight/internal/repository"
	"FinSight/internal/services/dataset"
	"FinSight/pkg/cache"
)

type stubMetrics struct {
	mu        sync.Mutex
	decisions []string
	errors    []string
	distances int
}

func (m *stubMetrics) RecordDecision(mode, action, regime string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, mode+"/"+action+"/"+regime)
}

func (m *stubMetrics) RecordRegimeDistance(float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.distances++
}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

func (m *stubMetrics) RecordLatency(string, float64) {}

type stubPublisher struct {
	exports []*models.Export
	err     error
}

func (p *stubPublisher) Publish(_ context.Context, e *models.Export) error {
	if p.err != nil {
		return p.err
	}
	p.exports = append(p.exports, e)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

type fixture struct {
	svc       *DecisionService
	source    *stubSource
	metrics   *stubMetrics
	publisher *stubPublisher
	rows      []models.LabeledAsset
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	src := &stubSource{probs: models.Distribution{0.2, 0.6, 0.2}}
	sessions := NewSessionRegistry(func(_ string, prior models.Distribution) *Orchestrator {
		return NewOrchestrator(src, DefaultOrchestratorConfig(), WithPrior(prior))
	})
	rows := dataset.Generate(10, dataset.DefaultSeed)
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	f := &fixture{
		source:    src,
		metrics:   &stubMetrics{},
		publisher: &stubPublisher{},
		rows:      rows,
	}
	f.svc = NewDecisionService(
		sessions,
		src,
		repository.NewMemoryAssetSource(rows, 1),
		repository.NewCacheExportStore(mc, time.Minute),
		f.publisher,
		f.metrics,
		nil,
	)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestDecisionService_DecideWithSample(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := f.rows[3]

	out, err := f.svc.Decide(ctx, &models.DecideRequest{
		Ticker:   base.Ticker,
		Sample:   true,
		Features: models.FeatureInput{Momentum: ptr(0.25)},
		Context:  models.ContextInput{RiskTolerance: "high", TimeHorizon: "long"},
		Returns:  shiftedWindow(),
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultSessionID, out.SessionID)
	require.NotNil(t, out.Result)
	assert.Equal(t, base.Ticker, out.Export.Ticker)
	assert.Equal(t, 0.25, out.Export.Features.Momentum)
	assert.Equal(t, base.Features.PERatio, out.Export.Features.PERatio)
	assert.Equal(t, models.RiskHigh, out.Export.Context.RiskTolerance)
	assert.Equal(t, models.RegimeVolatile, out.Export.Regime)
	assert.Equal(t, out.Result.Decision, out.Export.Decision)

	stored, err := f.svc.Recommendation(ctx, base.Ticker)
	require.NoError(t, err)
	assert.Equal(t, out.Export, *stored)
	assert.Len(t, f.publisher.exports, 1)
	assert.Equal(t, []string{"regime/buy/volatile"}, f.metrics.decisions)
	assert.Equal(t, 1, f.metrics.distances)
}

func TestDecisionService_DecideFromPrices(t *testing.T) {
	f := newFixture(t)
	prices := []float64{100, 100, 100, 100, 100, 100, 100, 100}

	out, err := f.svc.Decide(context.Background(), &models.DecideRequest{Prices: prices})
	require.NoError(t, err)
	assert.Equal(t, CustomTicker, out.Export.Ticker)
	assert.Equal(t, models.RegimeStable, out.Result.Regime)
	assert.Zero(t, out.Result.Alpha)

	_, err = f.svc.Decide(context.Background(), &models.DecideRequest{Prices: []float64{100, -1, 3}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Contains(t, f.metrics.errors, "invalid_input")

	before := f.source.calls
	_, err = f.svc.Decide(context.Background(), &models.DecideRequest{Prices: prices, Returns: shiftedWindow()})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, before, f.source.calls)
}

func TestDecisionService_SessionsAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.svc.CreateSession(nil)
	require.NoError(t, err)
	assert.Equal(t, models.PriorDistribution, info.Previous)

	_, err = f.svc.Decide(ctx, &models.DecideRequest{SessionID: info.ID, Returns: shiftedWindow()})
	require.NoError(t, err)

	got, err := f.svc.Session(info.ID)
	require.NoError(t, err)
	assert.Equal(t, f.source.probs, got.Previous)

	def, err := f.svc.Session("")
	require.NoError(t, err)
	assert.Equal(t, models.PriorDistribution, def.Previous)

	require.NoError(t, f.svc.DeleteSession(info.ID))
	_, err = f.svc.Decide(ctx, &models.DecideRequest{SessionID: info.ID})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, f.metrics.errors, "not_found")
}

func TestDecisionService_CreateSessionWithPrior(t *testing.T) {
	f := newFixture(t)

	info, err := f.svc.CreateSession(map[string]float64{"hold": 2, "buy": 1, "sell": 1})
	require.NoError(t, err)
	assert.Equal(t, models.Distribution{0.5, 0.25, 0.25}, info.Previous)

	_, err = f.svc.CreateSession(map[string]float64{"hold": 1, "buy": 1, "short": 1})
	assert.ErrorIs(t, err, models.ErrLabelMismatch)

	_, err = f.svc.CreateSession(map[string]float64{"hold": 0, "buy": 0, "sell": 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	assert.ErrorIs(t, f.svc.DeleteSession(DefaultSessionID), models.ErrInvalidInput)
	assert.ErrorIs(t, f.svc.DeleteSession("9b2f6a55-6b1e-4a43-9e0c-000000000000"), models.ErrNotFound)
}

func TestDecisionService_DecideSimple(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.DecideSimple(context.Background(), &models.SimpleDecideRequest{
		Ticker: "ACME",
	})
	require.NoError(t, err)
	assert.Nil(t, out.Result)
	assert.Empty(t, out.Export.Regime)
	assert.Equal(t, "ACME", out.Export.Ticker)
	assert.Equal(t, models.ActionBuy, out.Export.Decision.Action)
	assert.Equal(t, []string{"Model + context strongly favors buying"}, out.Export.Decision.Reasons)
	assert.Equal(t, []string{"simple/buy/"}, f.metrics.decisions)

	// simple mode never touches session state
	def, err := f.svc.Session(DefaultSessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PriorDistribution, def.Previous)
}

func TestDecisionService_ClassifierFailure(t *testing.T) {
	f := newFixture(t)
	f.source.err = errors.Join(models.ErrClassifier, errors.New("timeout"))

	_, err := f.svc.Decide(context.Background(), &models.DecideRequest{})
	assert.ErrorIs(t, err, models.ErrClassifier)
	_, err = f.svc.DecideSimple(context.Background(), &models.SimpleDecideRequest{})
	assert.ErrorIs(t, err, models.ErrClassifier)
	assert.Equal(t, []string{"classifier", "classifier"}, f.metrics.errors)
	assert.Empty(t, f.publisher.exports)
}

func TestDecisionService_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	out, err := f.svc.Decide(context.Background(), &models.DecideRequest{Ticker: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "ACME", out.Export.Ticker)
	assert.Equal(t, []string{"export_publish"}, f.metrics.errors)

	_, err = f.svc.Recommendation(context.Background(), "ACME")
	assert.NoError(t, err)
}

func TestDecisionService_SampleLookup(t *testing.T) {
	f := newFixture(t)
	s, err := f.svc.Sample(context.Background(), f.rows[0].Ticker)
	require.NoError(t, err)
	assert.Equal(t, f.rows[0].AssetSample, s)

	_, err = f.svc.Sample(context.Background(), "NOPE")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.Decide(context.Background(), &models.DecideRequest{Ticker: "NOPE", Sample: true})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "invalid_input", ErrorKind(models.ErrInvalidInput))
	assert.Equal(t, "label_mismatch", ErrorKind(models.ErrLabelMismatch))
	assert.Equal(t, "classifier", ErrorKind(models.ErrClassifier))
	assert.Equal(t, "not_found", ErrorKind(models.ErrNotFound))
	assert.Equal(t, "internal", ErrorKind(errors.New("x")))
}
