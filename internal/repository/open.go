package repository

import (
	"context"
	"fmt"

	"github.com/card-builder/internal/config"
	"github.com/card-builder/internal/database"
	"github.com/rs/zerolog"
)

// Open builds the slot repository selected by cfg.Storage.Backend.
// The postgres backend connects and applies pending migrations before returning.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory storage; cards are lost on restart")
		return New(config.BackendMemory, NewMemorySlotRepo()), nil

	case config.BackendPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(cfg.Storage.MigrationsPath); err != nil {
			db.Close()
			return nil, err
		}
		repos := New(config.BackendPostgres, NewPostgresSlotRepo(db))
		repos.DB = db
		return repos, nil

	case config.BackendS3:
		client, err := NewS3Client(ctx, cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("bucket", cfg.S3.Bucket).
			Str("prefix", cfg.S3.Prefix).
			Msg("Using S3 storage")
		return New(config.BackendS3, NewS3SlotRepo(client, cfg.S3.Bucket, cfg.S3.Prefix)), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// Close releases the database connection, if the backend holds one
func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// HealthCheck pings the database for the postgres backend. Other backends report healthy.
func (r *Repositories) HealthCheck(ctx context.Context) error {
	if r.DB == nil {
		return nil
	}
	return r.DB.HealthCheck(ctx)
}
