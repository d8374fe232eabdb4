package config

import (
	"fmt"
	"log"

	repository "todo-list.com/todo-list/internal/repositories"
)

// NewKeyValueStore opens the backend selected by STORAGE_DRIVER. The returned
// close func releases the underlying connection.
func NewKeyValueStore(cfg Config) (repository.KeyValueStore, func(), error) {
	switch cfg.StorageDriver {
	case StorageSQLite:
		db, err := NewDatabaseClient(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewSQLiteKeyValueStore(db), closeFn, nil
	case StorageRedis:
		client, err := NewRedisClient(cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("using redis storage at %s", cfg.RedisAddr)
		return repository.NewRedisKeyValueStore(client, cfg.RedisKeyPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
