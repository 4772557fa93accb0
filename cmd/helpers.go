package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lunar-antiques/lunar/internal/auth"
	"github.com/lunar-antiques/lunar/internal/collection"
	"github.com/lunar-antiques/lunar/internal/config"
	"github.com/lunar-antiques/lunar/internal/db"
	"github.com/lunar-antiques/lunar/internal/viewer"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `lunar init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openDatabase opens the shared SQLite database.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// openCollectionStore returns the catalog store for the configured backend.
func openCollectionStore(cfg *config.Config, database *db.DB) (collection.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageFile:
		return collection.OpenFileStore(cfg.StoragePath())
	default:
		return collection.NewSQLStore(database), nil
	}
}

// sessionStore builds the admin session store. A Redis store is pinged so a
// bad address fails at startup.
func sessionStore(ctx context.Context, cfg *config.Config) (auth.SessionStore, func(), error) {
	if cfg.Admin.SessionBackend != config.SessionRedis {
		return auth.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Admin.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Admin.RedisAddr, err)
	}

	var opts []auth.RedisOption
	if cfg.Admin.RedisPrefix != "" {
		opts = append(opts, auth.WithPrefix(cfg.Admin.RedisPrefix))
	}
	return auth.NewRedisStore(client, opts...), func() { client.Close() }, nil
}

// viewerOptions maps the viewer config section onto viewer.Options.
func viewerOptions(cfg *config.Config) viewer.Options {
	opts := viewer.DefaultOptions()
	v := cfg.Viewer
	if v.AutoRotateIntervalMS > 0 {
		opts.Interval = time.Duration(v.AutoRotateIntervalMS) * time.Millisecond
	}
	if v.PointerSensitivity > 0 {
		opts.PointerSensitivity = v.PointerSensitivity
	}
	if v.TouchSensitivity > 0 {
		opts.TouchSensitivity = v.TouchSensitivity
	}
	if v.ZoomStep > 0 {
		opts.ZoomStep = v.ZoomStep
	}
	if v.MinZoom > 0 {
		opts.MinZoom = v.MinZoom
	}
	if v.MaxZoom > 0 {
		opts.MaxZoom = v.MaxZoom
	}
	return opts
}
