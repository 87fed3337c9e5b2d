package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "reflekt:selection:"

// RedisStore keeps selection state in Redis for server deployments where
// several processes serve the same users. Each state is one JSON value; a
// sorted set indexed by update time backs Prune.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore wraps an existing client. An empty prefix uses the default.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisStore) key(user string) string {
	return r.prefix + "user:" + user
}

func (r *RedisStore) indexKey() string {
	return r.prefix + "index"
}

func (r *RedisStore) Get(ctx context.Context, user string) (*SelectionState, error) {
	raw, err := r.client.Get(ctx, r.key(user)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("selection state %s: %w", user, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading selection state: %w", err)
	}
	state := NewSelectionState()
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("decoding selection state: %w", err)
	}
	state.ensure()
	return state, nil
}

func (r *RedisStore) Set(ctx context.Context, user string, state *SelectionState) error {
	updated := state.UpdatedAt
	if updated.IsZero() {
		updated = r.now()
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding selection state: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(user), raw, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(updated.UnixMilli()), Member: user})
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing selection state: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, user string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key(user))
		pipe.ZRem(ctx, r.indexKey(), user)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting selection state: %w", err)
	}
	return nil
}

func (r *RedisStore) Prune(ctx context.Context, ttl time.Duration, maxKeys int) (int, error) {
	var victims []string
	if ttl > 0 {
		cutoff := r.now().Add(-ttl).UnixMilli()
		stale, err := r.client.ZRangeByScore(ctx, r.indexKey(), &redis.ZRangeBy{
			Min: "-inf",
			Max: "(" + strconv.FormatInt(cutoff, 10),
		}).Result()
		if err != nil {
			return 0, fmt.Errorf("listing stale users: %w", err)
		}
		victims = append(victims, stale...)
	}
	if maxKeys > 0 {
		total, err := r.client.ZCard(ctx, r.indexKey()).Result()
		if err != nil {
			return 0, fmt.Errorf("counting users: %w", err)
		}
		if excess := int(total) - len(victims) - maxKeys; excess > 0 {
			oldest, err := r.client.ZRange(ctx, r.indexKey(), int64(len(victims)), int64(len(victims)+excess-1)).Result()
			if err != nil {
				return 0, fmt.Errorf("listing oldest users: %w", err)
			}
			victims = append(victims, oldest...)
		}
	}
	for _, user := range victims {
		if err := r.Delete(ctx, user); err != nil {
			return 0, err
		}
	}
	return len(victims), nil
}
