package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/services/features"
	"FinSight/internal/services/protocol"
	applogger "FinSight/pkg/logger"
)

const (
	ModeRegime = "regime"
	ModeSimple = "simple"

	// CustomTicker labels decisions on hand-entered features.
	CustomTicker = "CUSTOM"
)

// DecisionService is the entry point of both decision modes. It resolves
// request inputs, runs the pipeline, and hands the export to the store and
// the publisher.
type DecisionService struct {
	sessions  *SessionRegistry
	source    domsvc.ProbabilitySource
	simple    *protocol.SimpleEngine
	assets    domrepo.AssetSource
	store     domrepo.ExportStore
	publisher domrepo.ExportPublisher
	metrics   domrepo.Metrics
	log       *applogger.Logger
}

func NewDecisionService(
	sessions *SessionRegistry,
	source domsvc.ProbabilitySource,
	assets domrepo.AssetSource,
	store domrepo.ExportStore,
	publisher domrepo.ExportPublisher,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *DecisionService {
	if log == nil {
		log = applogger.Nop()
	}
	return &DecisionService{
		sessions:  sessions,
		source:    source,
		simple:    protocol.NewSimpleEngine(),
		assets:    assets,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

// Decide runs the regime-aware pipeline for the request's session.
func (s *DecisionService) Decide(ctx context.Context, req *models.DecideRequest) (*models.Outcome, error) {
	start := time.Now()
	out, err := s.decide(ctx, req)
	s.observe("decide", start, err)
	return out, err
}

func (s *DecisionService) decide(ctx context.Context, req *models.DecideRequest) (*models.Outcome, error) {
	ticker, f, err := s.resolveFeatures(ctx, req.Ticker, req.Features, req.Sample)
	if err != nil {
		return nil, err
	}
	c := req.Context.Context()

	if len(req.Returns) > 0 && len(req.Prices) > 0 {
		return nil, fmt.Errorf("%w: returns and prices are mutually exclusive", models.ErrInvalidInput)
	}
	window := req.Returns
	if len(req.Prices) > 0 {
		if window, err = features.ComputeLogReturns(req.Prices); err != nil {
			return nil, err
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	orch, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := orch.Run(ctx, f, c, window)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRegimeDistance(res.Distance)
	s.metrics.RecordDecision(ModeRegime, res.Decision.Action.String(), string(res.Regime))

	export := models.Export{
		Ticker:   ticker,
		Features: f,
		Context:  c,
		Regime:   res.Regime,
		Decision: res.Decision,
	}
	s.deliver(ctx, &export)

	return &models.Outcome{SessionID: sessionID, Export: export, Result: &res}, nil
}

// DecideSimple runs the single-stage mode: contextual adjustment of the raw
// model output with threshold reasons. No regime, no session state.
func (s *DecisionService) DecideSimple(ctx context.Context, req *models.SimpleDecideRequest) (*models.Outcome, error) {
	start := time.Now()
	out, err := s.decideSimple(ctx, req)
	s.observe("decide_simple", start, err)
	return out, err
}

func (s *DecisionService) decideSimple(ctx context.Context, req *models.SimpleDecideRequest) (*models.Outcome, error) {
	ticker, f, err := s.resolveFeatures(ctx, req.Ticker, req.Features, req.Sample)
	if err != nil {
		return nil, err
	}
	c := req.Context.Context()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.source.Predict(ctx, f)
	if err != nil {
		return nil, err
	}
	decision := s.simple.Decide(raw, c)
	s.metrics.RecordDecision(ModeSimple, decision.Action.String(), "")

	export := models.Export{Ticker: ticker, Features: f, Context: c, Decision: decision}
	s.deliver(ctx, &export)
	return &models.Outcome{Export: export}, nil
}

// Sample draws a reference asset, or looks one up when ticker is set.
func (s *DecisionService) Sample(ctx context.Context, ticker string) (models.AssetSample, error) {
	if ticker != "" {
		return s.assets.Lookup(ctx, ticker)
	}
	return s.assets.Sample(ctx)
}

// Recommendation returns the latest export stored for ticker.
func (s *DecisionService) Recommendation(ctx context.Context, ticker string) (*models.Export, error) {
	return s.store.Get(ctx, ticker)
}

// CreateSession starts a session with an optional custom prior.
func (s *DecisionService) CreateSession(prior map[string]float64) (*models.SessionInfo, error) {
	id, err := s.sessions.Create(prior)
	if err != nil {
		return nil, err
	}
	return s.Session(id)
}

// Session describes a live session.
func (s *DecisionService) Session(id string) (*models.SessionInfo, error) {
	if id == "" {
		id = DefaultSessionID
	}
	o, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return &models.SessionInfo{ID: id, Previous: o.Previous()}, nil
}

// DeleteSession drops a session.
func (s *DecisionService) DeleteSession(id string) error {
	return s.sessions.Delete(id)
}

func (s *DecisionService) resolveFeatures(ctx context.Context, ticker string, in models.FeatureInput, sample bool) (string, models.FeatureVector, error) {
	if !sample {
		if ticker == "" {
			ticker = CustomTicker
		}
		return ticker, in.Vector(), nil
	}
	base, err := s.Sample(ctx, ticker)
	if err != nil {
		return "", models.FeatureVector{}, err
	}
	return base.Ticker, in.Override(base.Features), nil
}

// deliver stores and publishes an export. Failures are logged and counted
// but do not fail the decision.
func (s *DecisionService) deliver(ctx context.Context, e *models.Export) {
	if err := s.store.Put(ctx, e); err != nil {
		s.metrics.RecordError("export_store")
		s.log.Warn("store export failed", applogger.String("ticker", e.Ticker), applogger.Error(err))
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.metrics.RecordError("export_publish")
		s.log.Warn("publish export failed", applogger.String("ticker", e.Ticker), applogger.Error(err))
	}
}

func (s *DecisionService) observe(op string, start time.Time, err error) {
	s.metrics.RecordLatency(op, time.Since(start).Seconds())
	if err == nil {
		return
	}
	kind := ErrorKind(err)
	s.metrics.RecordError(kind)
	if kind == "internal" || kind == "classifier" {
		s.log.Error(fmt.Sprintf("%s failed", op), applogger.String("kind", kind), applogger.Error(err))
	}
}

// ErrorKind maps an error to its metrics label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, models.ErrLabelMismatch):
		return "label_mismatch"
	case errors.Is(err, models.ErrClassifier):
		return "classifier"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
