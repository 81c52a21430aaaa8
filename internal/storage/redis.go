package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
)

// Compile-time interface check.
var _ domain.HistoryStore = (*RedisStore)(nil)

// RedisStore keeps each entry as a JSON string and a per-user sorted set of
// entry IDs scored by creation time.
type RedisStore struct {
	rdb *redis.Client
	log *logger.Logger
}

// NewRedisStore connects to the Redis URL and pings it.
func NewRedisStore(ctx context.Context, rawURL string, log *logger.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("storage: connect to redis: %w", err)
	}

	log.Info("history store: redis at %s", opts.Addr)
	return &RedisStore{rdb: rdb, log: log}, nil
}

// Key helpers
func indexKey(userID string) string {
	return fmt.Sprintf("aichef:history:%s", userID)
}

func entryKey(userID, id string) string {
	return fmt.Sprintf("aichef:history:%s:%s", userID, id)
}

// Save writes the entry and indexes it atomically.
func (s *RedisStore) Save(ctx context.Context, userID string, entry *domain.HistoryEntry) error {
	prepare(userID, entry)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("storage: marshal entry: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryKey(userID, entry.ID), data, 0)
		pipe.ZAdd(ctx, indexKey(userID), redis.Z{
			Score:  float64(entry.CreatedAt.UnixMilli()),
			Member: entry.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: save entry: %w", err)
	}
	s.log.Debug("saved history entry %s (user=%s)", entry.ID, userID)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *RedisStore) Recent(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	limit = normalizeLimit(limit)

	ids, err := s.rdb.ZRevRange(ctx, indexKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: zrevrange failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entryKey(userID, id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: mget failed: %w", err)
	}

	out := make([]domain.HistoryEntry, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Index points at a missing entry; skip it.
			s.log.Warn("history index references missing entry %s", ids[i])
			continue
		}
		var e domain.HistoryEntry
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, fmt.Errorf("storage: decode entry %s: %w", ids[i], err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Get retrieves one entry by ID.
func (s *RedisStore) Get(ctx context.Context, userID, id string) (*domain.HistoryEntry, error) {
	data, err := s.rdb.Get(ctx, entryKey(userID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get entry: %w", err)
	}

	var e domain.HistoryEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("storage: decode entry %s: %w", id, err)
	}
	return &e, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
