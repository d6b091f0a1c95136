package storage

import (
	"context"
	"fmt"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/config"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/crypto"
)

// Open builds the backend named by cfg.SessionStore, sealed when a secret is configured.
func Open(ctx context.Context, cfg config.Config) (Storage, error) {
	var (
		backend Storage
		err     error
	)
	switch cfg.SessionStore {
	case config.StoreMemory:
		backend = NewMemory()
	case config.StoreSQLite:
		backend, err = OpenSQLite(ctx, cfg.SQLiteDSN)
	case config.StorePostgres:
		backend, err = OpenPostgres(ctx, cfg.DatabaseURL)
	case config.StoreMongo:
		backend, err = OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
	if err != nil {
		return nil, err
	}

	svc, err := crypto.New(cfg.SessionSecret)
	if err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}
	if !svc.Configured() {
		return backend, nil
	}
	return NewSealed(backend, svc), nil
}
