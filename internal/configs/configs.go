package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

type Config struct {
	AppURL                 string
	StorageDriver          string
	DatabaseDSN            string
	RedisAddr              string
	RedisKeyPrefix         string
	TodosURL               string
	ImportTimeoutSeconds   int
	RateLimit              int
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		StorageDriver:          getEnv("STORAGE_DRIVER", StorageSQLite),
		DatabaseDSN:            getEnv("DATABASE_DSN", "todo.db"),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisKeyPrefix:         getEnv("REDIS_KEY_PREFIX", "todo:"),
		TodosURL:               getEnv("TODOS_URL", "https://dummyjson.com/todos"),
		ImportTimeoutSeconds:   getEnvAsInt("IMPORT_TIMEOUT_SECONDS", 15),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
	}

	if err := validate(cfg); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func validate(cfg Config) error {
	if cfg.AppURL == "" {
		return fmt.Errorf("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	switch cfg.StorageDriver {
	case StorageSQLite:
		if cfg.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN must not be empty")
		}
	case StorageRedis:
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_HOST must not be empty")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageSQLite, StorageRedis, cfg.StorageDriver)
	}
	if cfg.TodosURL == "" {
		return fmt.Errorf("TODOS_URL must not be empty")
	}
	if cfg.ImportTimeoutSeconds <= 0 {
		return fmt.Errorf("IMPORT_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
