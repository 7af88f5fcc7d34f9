package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"FinSight/internal/domain/models"
	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/services/explain"
	"FinSight/internal/services/features"
	"FinSight/internal/services/policy"
	"FinSight/internal/services/protocol"
	"FinSight/internal/services/regime"
	applogger "FinSight/pkg/logger"
)

// WindowLag is how many trailing returns the previous window drops.
const WindowLag = 5

// OrchestratorConfig tunes one pipeline instance.
type OrchestratorConfig struct {
	Thresholds regime.Thresholds
	AlphaScale float64
	Rules      protocol.Rules

	// Synthetic window drawn when the caller supplies fewer than WindowLag
	// returns. Demo fallback, not a market estimate.
	SyntheticMean   float64
	SyntheticStd    float64
	SyntheticLength int
	Seed            int64
}

// DefaultOrchestratorConfig returns the stock pipeline settings.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Thresholds:      regime.DefaultThresholds(),
		AlphaScale:      policy.DefaultAlphaScale,
		Rules:           protocol.DefaultRules(),
		SyntheticMean:   features.SyntheticMean,
		SyntheticStd:    features.SyntheticStd,
		SyntheticLength: features.SyntheticLength,
		Seed:            42,
	}
}

// Orchestrator runs the regime-aware pipeline and owns the smoothing state
// of one session. Runs on the same instance are serialised.
type Orchestrator struct {
	source domsvc.ProbabilitySource
	engine *protocol.Engine
	cfg    OrchestratorConfig
	log    *applogger.Logger

	mu    sync.Mutex
	rng   *rand.Rand
	state models.Distribution
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithPrior replaces the initial smoothing state.
func WithPrior(prior models.Distribution) OrchestratorOption {
	return func(o *Orchestrator) {
		o.state = prior
	}
}

// WithLogger sets the run logger.
func WithLogger(l *applogger.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

func NewOrchestrator(source domsvc.ProbabilitySource, cfg OrchestratorConfig, opts ...OrchestratorOption) *Orchestrator {
	if cfg.SyntheticLength <= WindowLag {
		cfg.SyntheticLength = features.SyntheticLength
	}
	o := &Orchestrator{
		source: source,
		engine: protocol.NewEngine(cfg.Rules),
		cfg:    cfg,
		log:    applogger.Nop(),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		state:  models.PriorDistribution,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var _ domsvc.Runner = (*Orchestrator)(nil)

// Run executes one decision. The smoothing state advances only when every
// step succeeds.
func (o *Orchestrator) Run(ctx context.Context, f models.FeatureVector, c models.Context, window []float64) (models.Result, error) {
	if err := f.Validate(); err != nil {
		return models.Result{}, err
	}
	if err := c.Validate(); err != nil {
		return models.Result{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	synthetic := len(window) < WindowLag
	if synthetic {
		window = features.SyntheticReturns(o.rng, o.cfg.SyntheticLength, o.cfg.SyntheticMean, o.cfg.SyntheticStd)
	}

	// The previous window is the current one minus its newest returns.
	current := window
	previous := window[:len(window)-WindowLag]

	distance, err := regime.Distance(current, previous)
	if err != nil {
		return models.Result{}, fmt.Errorf("regime distance: %w", err)
	}
	rg := o.cfg.Thresholds.Classify(distance)

	raw, err := o.source.Predict(ctx, f)
	if err != nil {
		return models.Result{}, err
	}

	alpha := policy.Alpha(distance, o.cfg.AlphaScale)
	smoothed := policy.Smooth(o.state, raw, alpha)

	decision := o.engine.Apply(smoothed, c, rg)
	explanation := explain.Explain(decision.Action, rg, c, alpha)
	decision.Reasons = append([]string(nil), explanation...)

	o.state = smoothed

	o.log.Debug("pipeline run",
		applogger.String("regime", string(rg)),
		applogger.Float64("distance", distance),
		applogger.Float64("alpha", alpha),
		applogger.Float64("window_std", features.StdDev(window)),
		applogger.Int("window", len(window)),
		applogger.Bool("synthetic", synthetic),
		applogger.String("action", decision.Action.String()),
		applogger.Float64("confidence", decision.Confidence),
		applogger.Any("final_probs", decision.FinalProbs),
	)

	return models.Result{
		Regime:        rg,
		Distance:      distance,
		Alpha:         alpha,
		RawProbs:      raw,
		SmoothedProbs: smoothed,
		Decision:      decision,
		Explanation:   explanation,
	}, nil
}

// Previous returns a copy of the current smoothing state.
func (o *Orchestrator) Previous() models.Distribution {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}
