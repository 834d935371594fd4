package auth

import (
	"context"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/redis/go-redis/v9"
)

// RedisProvider stores each entry under prefix+key without expiry.
type RedisProvider struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisProvider(client redis.UniversalClient, prefix string) *RedisProvider {
	return &RedisProvider{client: client, prefix: prefix}
}

func (p *RedisProvider) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := p.client.Get(ctx, p.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, xerrors.New(err)
	}
	return value, true, nil
}

func (p *RedisProvider) Set(ctx context.Context, key, value string) error {
	if err := p.client.Set(ctx, p.prefix+key, value, 0).Err(); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (p *RedisProvider) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = p.prefix + key
	}
	if err := p.client.Del(ctx, prefixed...).Err(); err != nil {
		return xerrors.New(err)
	}
	return nil
}
