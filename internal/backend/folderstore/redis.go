package folderstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisFolderStore struct {
	client *redis.Client
}

// NewRedisFolderStore connects using a redis URL such as redis://localhost:6379/0
func NewRedisFolderStore(connectionString string) (*RedisFolderStore, error) {
	options, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis connection string: %w", err)
	}
	return &RedisFolderStore{client: redis.NewClient(options)}, nil
}

func (r *RedisFolderStore) GetFolderName(ctx context.Context) (string, error) {
	name, err := r.client.Get(ctx, FolderNameKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read folder name: %w", err)
	}
	return name, nil
}

func (r *RedisFolderStore) SetFolderName(ctx context.Context, name string) error {
	if err := r.client.Set(ctx, FolderNameKey, name, 0).Err(); err != nil {
		return fmt.Errorf("failed to store folder name: %w", err)
	}
	return nil
}

func (r *RedisFolderStore) Close() error {
	return r.client.Close()
}
