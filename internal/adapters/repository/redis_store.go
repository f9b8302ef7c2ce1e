package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-redis/redis/v8"

	"github.com/ecoloop/core/internal/domain/entities"
)

// RedisDocumentStore keeps the document JSON under a single key
type RedisDocumentStore struct {
	client *redis.Client
	key    string
}

// NewRedisDocumentStore creates a store on an existing client
func NewRedisDocumentStore(client *redis.Client, key string) *RedisDocumentStore {
	return &RedisDocumentStore{client: client, key: key}
}

func (s *RedisDocumentStore) Name() string { return "redis" }

func (s *RedisDocumentStore) Load(ctx context.Context) (*entities.Document, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entities.NewDocument(), fmt.Errorf("%w: key %s: %w", entities.ErrStoreRead, s.key, fs.ErrNotExist)
		}
		return entities.NewDocument(), fmt.Errorf("%w: get %s: %w", entities.ErrStoreRead, s.key, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return entities.NewDocument(), fmt.Errorf("%w: key %s: %w", entities.ErrStoreRead, s.key, err)
	}

	return doc, nil
}

func (s *RedisDocumentStore) Save(ctx context.Context, doc *entities.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrStoreWrite, err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", entities.ErrStoreWrite, s.key, err)
	}

	return nil
}

func (s *RedisDocumentStore) Close() error {
	return s.client.Close()
}
