package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
	"FinSight/internal/usecase"
	"FinSight/pkg/config"
	"FinSight/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.csv")
	cfg.Dataset.Size = 50
	cfg.Logger.Level = "error"
	return cfg
}

func TestSessionSeed(t *testing.T) {
	assert.Equal(t, int64(42), SessionSeed(42, usecase.DefaultSessionID))
	a := SessionSeed(42, "2b7c2c3e-0d3a-4f5e-9a51-1f1d1b1e1a01")
	b := SessionSeed(42, "2b7c2c3e-0d3a-4f5e-9a51-1f1d1b1e1a02")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, SessionSeed(42, "2b7c2c3e-0d3a-4f5e-9a51-1f1d1b1e1a01"))
}

func TestProvideClassifier(t *testing.T) {
	cfg := testConfig(t)
	clf, err := ProvideClassifier(cfg)
	require.NoError(t, err)
	assert.NotNil(t, clf)

	cfg.Model.Path = filepath.Join(t.TempDir(), "nope.yaml")
	_, err = ProvideClassifier(cfg)
	assert.Error(t, err)
}

func TestInitializeDecisionService_GeneratedDataset(t *testing.T) {
	cfg := testConfig(t)
	svc, cleanup, err := InitializeDecisionService(cfg, logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	s, err := svc.Sample(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.Ticker, "ASSET"))

	out, err := svc.Decide(context.Background(), &models.DecideRequest{Ticker: s.Ticker, Sample: true})
	require.NoError(t, err)
	assert.Equal(t, s.Ticker, out.Export.Ticker)
	assert.InDelta(t, 1.0, out.Export.Decision.FinalProbs.Sum(), 1e-9)
}

func TestInitializeApp_ServesAPI(t *testing.T) {
	cfg := testConfig(t)
	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/decide/simple", strings.NewReader(`{"sample": true}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Server().Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Server().Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "finsight_decisions_total")
}
