package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/patrickmn/go-cache"
	"github.com/shafwanhasyim/sikad-gg/internal/config"
	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/server/handlers"
	"github.com/shafwanhasyim/sikad-gg/internal/server/middleware"
	"github.com/shafwanhasyim/sikad-gg/internal/server/ratelimit"
	"github.com/shafwanhasyim/sikad-gg/internal/server/router"
)

const (
	apiKeyCacheTTL       = 5 * time.Minute
	apiKeyCacheCleanup   = 10 * time.Minute
	rateLimitCleanupTick = 1 * time.Minute
)

// NewServer connects to Firestore, makes sure an admin key exists and
// returns the configured HTTP server. ctx bounds background cleanup.
func NewServer(ctx context.Context, cfg *config.Config, logger log.Logger) (*http.Server, error) {
	app, err := firebase.NewApp(ctx, cfg.FirebaseConfig, cfg.StorageBucket)
	if err != nil {
		return nil, err
	}

	db, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		return nil, err
	}

	adminKey, created, err := db.EnsureAdminKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare admin key: %w", err)
	}
	if created {
		level.Info(logger).Log("msg", "admin key generated", "key", adminKey)
	}
	if !cfg.AuthEnabled {
		level.Warn(logger).Log("msg", "API key auth is disabled, data routes are public")
	}

	limiter := ratelimit.NewLimiter()
	limiter.StartCleanup(ctx, rateLimitCleanupTick)

	return New(db, adminKey, cfg, logger, limiter), nil
}

// Store is everything the HTTP layer reads and writes.
type Store interface {
	handlers.Store
	middleware.KeyStore
}

// New assembles the HTTP server around an already opened store.
func New(db Store, adminKey string, cfg *config.Config, logger log.Logger, limiter *ratelimit.Limiter) *http.Server {
	mw := middleware.NewManager(
		db,
		cache.New(apiKeyCacheTTL, apiKeyCacheCleanup),
		limiter,
		logger,
		middleware.Options{
			AdminKey:    adminKey,
			AuthEnabled: cfg.AuthEnabled,
			FrontendURL: cfg.FrontendURL,
		},
	)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.New(handlers.New(db, logger), mw, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
