// Package server serves now-playing cards over HTTP.
//
// # Endpoints
//
//   - GET /health - Simple health check, returns "ok"
//   - GET /api/card?user_id=&url= - Card as JSON
//   - GET /card?user_id=&url= - Card as plain text
//   - GET /metrics - Prometheus metrics
//
// The configured user is kept up to date over the live feed. Other users are
// fetched on demand and cached for the configured TTL.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/hay-kot/nowcard/internal/core/card"
	"github.com/hay-kot/nowcard/internal/core/config"
	"github.com/hay-kot/nowcard/internal/core/feed"
	"github.com/hay-kot/nowcard/internal/metrics"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Server is the HTTP server for nowcard.
type Server struct {
	cfg     *config.Config
	fetcher feed.Fetcher
	source  feed.Source
	metrics *metrics.Registry
	logger  zerolog.Logger
	cache   *gocache.Cache
	live    atomic.Pointer[feed.Snapshot]

	// now is the clock used for elapsed counters.
	now func() time.Time
}

// New creates a Server. source may be nil to disable the live feed.
func New(cfg *config.Config, fetcher feed.Fetcher, source feed.Source, reg *metrics.Registry, logger zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		fetcher: fetcher,
		source:  source,
		metrics: reg,
		logger:  logger,
		cache:   gocache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL),
		now:     time.Now,
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/card", s.handleCardJSON)
	mux.HandleFunc("GET /card", s.handleCardText)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return s.logRequests(mux)
}

// Run starts the live feed for the configured user and the HTTP server, and
// blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.source != nil && s.cfg.UserID != "" {
		snaps, err := s.source.Subscribe(ctx, s.cfg.UserID)
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", s.cfg.UserID, err)
		}
		go s.watch(snaps)
	}

	httpServer := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Server.Addr).Str("user_id", s.cfg.UserID).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// watch stores every snapshot of the configured user until snaps closes.
func (s *Server) watch(snaps <-chan feed.Snapshot) {
	for snap := range snaps {
		s.live.Store(&snap)
		s.metrics.ObserveSnapshot(card.New(snap, s.now(), s.cfg.CardOptions()))
	}
}

// snapshot returns the latest snapshot for userID, preferring the live feed,
// then the cache, then an on-demand fetch.
func (s *Server) snapshot(ctx context.Context, userID string) (feed.Snapshot, error) {
	if userID == s.cfg.UserID {
		if live := s.live.Load(); live != nil {
			return *live, nil
		}
	}

	if cached, ok := s.cache.Get(userID); ok {
		return cached.(feed.Snapshot), nil
	}

	snap, err := s.fetcher.Fetch(ctx, userID)
	s.metrics.ObserveFetch(err)
	if err != nil {
		return feed.Snapshot{}, err
	}

	s.cache.SetDefault(userID, snap)
	return snap, nil
}
