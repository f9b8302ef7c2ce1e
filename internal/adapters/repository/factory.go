package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/afero"

	"github.com/ecoloop/core/internal/infrastructure/config"
	"github.com/ecoloop/core/internal/infrastructure/database"
	"github.com/ecoloop/core/internal/ports"
)

// pooledSQLStore is a SQL store that owns its connection pool
type pooledSQLStore struct {
	*SQLDocumentStore
	db *database.DB
}

func (s *pooledSQLStore) Close() error { return s.db.Close() }

func (s *pooledSQLStore) HealthCheck() error { return s.db.HealthCheck() }

func (s *pooledSQLStore) GetConnectionInfo() map[string]interface{} { return s.db.GetConnectionInfo() }

// NewDocumentStore opens the backend selected in cfg.Store.Backend
func NewDocumentStore(cfg *config.Config) (ports.DocumentStore, error) {
	switch cfg.Store.Backend {
	case config.BackendJSON:
		return NewJSONDocumentStore(afero.NewOsFs(), cfg.Store.Path), nil

	case config.BackendMemory:
		return NewMemoryDocumentStore(), nil

	case config.BackendPostgres, config.BackendSQLite:
		db, err := database.New(cfg.Store.Backend, cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Store.AutoMigrate {
			if err := db.Migrate(); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &pooledSQLStore{
			SQLDocumentStore: NewSQLDocumentStore(db.DB, db.Driver(), cfg.Store.DocumentName),
			db:               db,
		}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.GetAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
		}
		return NewRedisDocumentStore(client, cfg.Redis.Key), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
