package blob

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps payloads as plain string values under <prefix><id>. Values never expire.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Put(ctx context.Context, key int64, data []byte) error {
	if err := s.client.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", s.key(key), err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key int64) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.key(key), err)
	}
	return data, nil
}

func (s *RedisStore) key(id int64) string {
	return s.prefix + strconv.FormatInt(id, 10)
}
