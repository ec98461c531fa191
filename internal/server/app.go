// Package server initializes and runs the main application server.
// It wires the storage backend, the provider client, and the sync pipeline,
// handles graceful shutdown, and starts the HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/stravastats/internal/logging"
	"github.com/dmitrijs2005/stravastats/internal/server/config"
	"github.com/dmitrijs2005/stravastats/internal/server/httpapi"
	"github.com/dmitrijs2005/stravastats/internal/server/storage"
	syncpkg "github.com/dmitrijs2005/stravastats/internal/server/sync"
	"github.com/dmitrijs2005/stravastats/internal/server/tokens"
	"github.com/dmitrijs2005/stravastats/internal/strava"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repos        storage.RepositoryManager
	provider     *strava.Client
	orchestrator *syncpkg.Orchestrator
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	repos, err := storage.NewRepositoryManager(ctx, cfg.StorageBackend, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	provider := strava.NewClient(strava.Config{
		ClientID:     cfg.StravaClientID,
		ClientSecret: cfg.StravaClientSecret,
		RedirectURL:  cfg.StravaRedirectURL,
	})

	tokenService := tokens.NewService(repos.Credentials(), provider, logger)
	fetcher := syncpkg.NewFetcher(tokenService, provider, cfg.SyncPageSize)
	orchestrator := syncpkg.NewOrchestrator(fetcher, repos.Activities(), logger)

	return &App{
		config:       cfg,
		logger:       logger,
		repos:        repos,
		provider:     provider,
		orchestrator: orchestrator,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.provider, app.orchestrator, app.repos.Credentials(), app.repos.Activities(),
		app.config.SecretKey, app.config.SessionTokenValidityDuration, app.config.SyncMaxPages)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if conn := app.repos.Conn(); conn != nil {
		if err := conn.Close(); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}
}
