package main

import (
	"context"
	"fmt"

	"github.com/dtroode/codemap-billing/internal/config"
	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/model"
	"github.com/dtroode/codemap-billing/internal/repository/memory"
	"github.com/dtroode/codemap-billing/internal/repository/postgres"
	storage "github.com/dtroode/codemap-billing/internal/storage/minio"
)

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat), nil
}

// openUserStore returns the configured record store and a function releasing it.
func openUserStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (model.UserStore, func(), error) {
	if cfg.Database.InMemory {
		log.Warn("using in-memory user store, data is lost on restart")
		return memory.NewUserRepository(), func() {}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return postgres.NewUserRepository(db), func() { _ = db.Close() }, nil
}

func dialStorage(ctx context.Context, cfg *config.Config) (*storage.Client, error) {
	client, err := storage.Dial(ctx, storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	return client, nil
}
