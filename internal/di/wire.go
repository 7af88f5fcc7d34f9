//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"FinSight/internal/usecase"
	"FinSight/pkg/config"
	"FinSight/pkg/logger"
	"FinSight/pkg/server"
)

// PipelineSet builds the decision service without the HTTP surface.
var PipelineSet = wire.NewSet(
	ProvideRegistry,
	ProvideMetrics,
	ProvideClassifier,
	ProvideProbabilitySource,
	ProvideOrchestratorConfig,
	ProvideSessionRegistry,
	ProvideAssetSource,
	ProvideCache,
	ProvideExportStore,
	ProvideExportPublisher,
	usecase.NewDecisionService,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		PipelineSet,
		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeDecisionService builds the decision service for the CLI.
func InitializeDecisionService(cfg *config.Config, l *logger.Logger) (*usecase.DecisionService, func(), error) {
	wire.Build(PipelineSet)
	return nil, nil, nil
}
