// Package httpapi exposes the service over HTTP: the OAuth login flow,
// the sync trigger, and the activity/statistics endpoints.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/stravastats/internal/logging"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
	"github.com/dmitrijs2005/stravastats/internal/server/repositories/activities"
	"github.com/dmitrijs2005/stravastats/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/stravastats/internal/server/sync"
)

// Authorizer covers the provider's OAuth surface used by the login flow.
type Authorizer interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*models.Credential, error)
}

// Syncer runs a full sync for one user.
type Syncer interface {
	Sync(ctx context.Context, userID int64, maxPages int) (sync.Report, error)
}

type HTTPServer struct {
	address      string
	logger       logging.Logger
	jwtSecret    []byte
	jwtValidity  time.Duration
	provider     Authorizer
	syncer       Syncer
	creds        credentials.Repository
	acts         activities.Repository
	states       *stateStore
	syncMaxPages int
}

func NewHTTPServer(a string, l logging.Logger, provider Authorizer, syncer Syncer,
	creds credentials.Repository, acts activities.Repository,
	secretKey string, jwtValidity time.Duration, syncMaxPages int) (*HTTPServer, error) {
	return &HTTPServer{
		address:      a,
		logger:       l.With("module", "http_server"),
		jwtSecret:    []byte(secretKey),
		jwtValidity:  jwtValidity,
		provider:     provider,
		syncer:       syncer,
		creds:        creds,
		acts:         acts,
		states:       newStateStore(stateTTL),
		syncMaxPages: syncMaxPages,
	}, nil
}

func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/ping", s.handlePing)
	r.Get("/api/auth/login", s.handleLogin)
	r.Get("/api/auth/callback", s.handleCallback)
	// open so a UI can offer the account picker before any session exists
	r.Get("/api/users", s.handleUsers)

	r.Group(func(r chi.Router) {
		r.Use(s.accessTokenMiddleware)
		r.Post("/api/sync", s.handleSync)
		r.Get("/api/activities", s.handleActivities)
		r.Get("/api/stats/summary", s.handleStatsSummary)
		r.Get("/api/stats/weekly", s.handleStatsWeekly)
		r.Get("/api/stats/monthly", s.handleStatsMonthly)
		r.Get("/api/stats/types", s.handleStatsTypes)
		r.Get("/api/stats/weekdays", s.handleStatsWeekdays)
	})

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
