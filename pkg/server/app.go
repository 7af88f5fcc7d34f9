package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"FinSight/pkg/config"
	xhttp "FinSight/pkg/http"
	applogger "FinSight/pkg/logger"
)

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	log        *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, srv *xhttp.Server, l *applogger.Logger) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, httpServer: srv, log: l}
}

// Server returns the HTTP server.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the HTTP server and blocks until ctx is done, an interrupt
// arrives or the server fails.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("starting",
		applogger.String("model", a.cfg.Model.Type),
		applogger.String("dataset", a.cfg.Dataset.Source),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
		applogger.Bool("redis", a.cfg.Cache.Redis.Enabled),
	)

	errCh := a.httpServer.Start()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			runErr = err
		}
	}

	return a.shutdown(runErr)
}

// shutdown stops the HTTP server. Infrastructure clients are closed by the
// injector cleanup.
func (a *App) shutdown(runErr error) error {
	a.log.Info("shutting down...")

	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		if runErr == nil {
			runErr = err
		}
	}

	a.log.Info("shutdown complete")
	return runErr
}
