// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/feedhub/internal/logging"
	"github.com/dmitrijs2005/feedhub/internal/server/config"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/memory"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/feedhub/internal/server/rest"
	"github.com/dmitrijs2005/feedhub/internal/server/services"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	store           *repomanager.Store
	server          *rest.Server
	shutdownTracing func(context.Context) error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	shutdownTracing, err := setupTracing(ctx, c.TraceEndpoint)
	if err != nil {
		return nil, fmt.Errorf("tracing init error: %w", err)
	}

	store, err := openStore(ctx, c)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}

	verifier := services.NewIdentityVerifier(store, c, logger)
	ledger := services.NewNotificationLedger(store, c, logger)
	users := services.NewUserService(store, ledger, c, logger)

	return &App{
		config:          c,
		logger:          logger,
		store:           store,
		server:          rest.NewServer(c, logger, verifier, ledger, users),
		shutdownTracing: shutdownTracing,
	}, nil
}

func openStore(ctx context.Context, c *config.Config) (*repomanager.Store, error) {
	switch c.Storage {
	case config.StorageMemory:
		return memory.Open(), nil
	case config.StoragePostgres:
		return repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or ctx is cancelled, then
// releases the store and flushes traces.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err.Error())
	}
	if err := app.shutdownTracing(context.Background()); err != nil {
		app.logger.Error(ctx, "trace flush failed", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
