package rangebook

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultGridTTL = time.Hour

// RedisStore keeps binned grids in Redis so repeated drill sessions skip
// re-parsing chart files. Entries expire; the Book is the source of truth.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultGridTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) keyGrid(name string) string { return "range:grid:" + strings.TrimSpace(name) }
func (s *RedisStore) keyIndex() string           { return "range:index" }

func (s *RedisStore) SaveGrid(ctx context.Context, name string, grid *Grid) error {
	if grid == nil || strings.TrimSpace(name) == "" {
		return nil
	}
	raw, err := json.Marshal(grid)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.keyGrid(name), raw, s.ttl).Err(); err != nil {
		return err
	}
	// index of cached names, refreshed alongside the payload
	if err := s.rdb.SAdd(ctx, s.keyIndex(), name).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, s.keyIndex(), s.ttl).Err()
}

func (s *RedisStore) LoadGrid(ctx context.Context, name string) (*Grid, error) {
	raw, err := s.rdb.Get(ctx, s.keyGrid(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var g Grid
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// CachedNames lists ranges currently held in the cache.
func (s *RedisStore) CachedNames(ctx context.Context) ([]string, error) {
	return s.rdb.SMembers(ctx, s.keyIndex()).Result()
}
