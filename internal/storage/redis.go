package storage

import (
	"context"
	"fmt"
)

// blobClient is the subset of the redis client the store needs.
type blobClient interface {
	LedgerKey(collection string) string
	MGet(ctx context.Context, keys ...string) (map[string][]byte, error)
	SetAll(ctx context.Context, values map[string][]byte) error
}

// RedisStore keeps each collection under a namespaced redis key.
type RedisStore struct {
	client blobClient
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client blobClient) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Load(ctx context.Context, keys []string) (map[string][]byte, error) {
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = s.client.LedgerKey(k)
	}
	raw, err := s.client.MGet(ctx, namespaced...)
	if err != nil {
		return nil, fmt.Errorf("load ledger blobs: %w", err)
	}
	out := make(map[string][]byte, len(raw))
	for i, k := range keys {
		if v, ok := raw[namespaced[i]]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *RedisStore) Save(ctx context.Context, blobs map[string][]byte) error {
	namespaced := make(map[string][]byte, len(blobs))
	for k, v := range blobs {
		namespaced[s.client.LedgerKey(k)] = v
	}
	if err := s.client.SetAll(ctx, namespaced); err != nil {
		return fmt.Errorf("save ledger blobs: %w", err)
	}
	return nil
}
