package repository

import (
	"context"

	"github.com/redis/rueidis"
)

type RedisKeyValueStore struct {
	client rueidis.Client
	prefix string
}

func NewRedisKeyValueStore(client rueidis.Client, keyPrefix string) *RedisKeyValueStore {
	return &RedisKeyValueStore{
		client: client,
		prefix: keyPrefix,
	}
}

func (r *RedisKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := r.client.B().Get().Key(r.prefix + key).Build()
	value, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *RedisKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	cmd := r.client.B().Set().Key(r.prefix + key).Value(rueidis.BinaryString(value)).Build()
	return r.client.Do(ctx, cmd).Error()
}
