package repository

import (
	"context"
	"errors"
)

// KeyValueStore is the durable backend for named blobs.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

var ErrKeyNotFound = errors.New("key not found")
