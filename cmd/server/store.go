package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/VitaminP8/blogql/internal/config"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/storage/badgerdb"
	"github.com/VitaminP8/blogql/internal/storage/memory"
	"github.com/VitaminP8/blogql/internal/storage/mongo"
	"github.com/VitaminP8/blogql/internal/storage/postgres"
)

// openStore opens the backend named by cfg.Storage. The caller closes it.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.New(), nil

	case config.StoragePostgres, config.StorageSQLite:
		db, err := postgres.Open(cfg.Storage, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return postgres.New(db), nil

	case config.StorageMongo:
		client, err := mongo.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return mongo.New(client, cfg.DatabaseName), nil

	case config.StorageBadger:
		db, err := badgerdb.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return badgerdb.New(db), nil

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage)
	}
}
