package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nutricare/nutrikit/api"
	"github.com/nutricare/nutrikit/auth"
	bboltstore "github.com/nutricare/nutrikit/storage/bbolt"
)

var verbose bool

func cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// clientSet bundles the durable store, the session manager, the REST client,
// and the refresh coordinator that CLI commands share.
type clientSet struct {
	cfg     Config
	store   *bboltstore.Store
	manager *auth.Manager
	client  *api.Client
	refresh *auth.RefreshCoordinator
}

func openClientSet() (*clientSet, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	store, err := bboltstore.NewStoreFromFile(filepath.Join(cfg.DataDir, "session.db"), nil)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	logger := cliLogger()
	manager := auth.NewManager(store, auth.WithLogger(logger))
	client := api.New(cfg.BaseURL, manager,
		api.WithLogger(logger),
		api.WithRefreshTokenSource(store),
	)

	refreshOpts := []auth.RefreshOption{auth.WithRefreshLogger(logger)}
	if cfg.DegradedAuth {
		refreshOpts = append(refreshOpts, auth.WithDegradedFallback())
	}
	refresh := auth.NewRefreshCoordinator(manager, client.RefreshGrant, refreshOpts...)

	return &clientSet{
		cfg:     cfg,
		store:   store,
		manager: manager,
		client:  client,
		refresh: refresh,
	}, nil
}

func (c *clientSet) Close() error {
	return c.store.Close()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
