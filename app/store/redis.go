package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/drophunt/drophunt/app/giveaway"
)

var _ SnapshotStore = (*RedisStore)(nil)

const redisSnapshotKey = "drophunt:snapshot"

// RedisStore keeps the snapshot as a JSON document under a single key.
// A SET of the whole document is atomic on the server side, which gives
// the same no-partial-reads guarantee as the file backend's rename.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, now: time.Now}, nil
}

func (s *RedisStore) Load(ctx context.Context) giveaway.Snapshot {
	data, err := s.client.Get(ctx, redisSnapshotKey).Bytes()
	if err == redis.Nil {
		return giveaway.EmptySnapshot()
	}
	if err != nil {
		slog.Warn("Failed to read snapshot from Redis, starting empty", "error", err)
		return giveaway.EmptySnapshot()
	}

	var snapshot giveaway.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.Warn("Stored snapshot document is corrupt, starting empty", "error", err)
		return giveaway.EmptySnapshot()
	}

	return normalize(snapshot)
}

func (s *RedisStore) Save(ctx context.Context, snapshot giveaway.Snapshot) error {
	now := s.now().UTC()
	snapshot.LastUpdate = &now

	data, err := json.Marshal(normalize(snapshot))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, redisSnapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
