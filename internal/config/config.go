package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageJSON     = "json"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Storage            string
	DataPath           string
	DatabaseURL        string
	SnapshotRetention  int
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	CacheTTLSeconds    int
	SessionSecret      string
	SessionTTLMinutes  int
	SeedAdminPassword  string
	HistoryLimit       int
	SaveTimeoutSeconds int
	LogLevel           string
	LogEncoding        string
}

// LoadEnvFile reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Storage:            strings.ToLower(getEnv("STOCKBOOK_STORAGE", StorageJSON)),
		DataPath:           getEnv("STOCKBOOK_DATA_PATH", "data/stockbook.json"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SnapshotRetention:  getEnvInt("STOCKBOOK_SNAPSHOT_RETENTION", 50, 0),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0, 0),
		CacheTTLSeconds:    getEnvInt("STOCKBOOK_CACHE_TTL_SECONDS", 3600, 1),
		SessionSecret:      strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTLMinutes:  getEnvInt("SESSION_TTL_MINUTES", 480, 1),
		SeedAdminPassword:  os.Getenv("SEED_ADMIN_PASSWORD"),
		HistoryLimit:       getEnvInt("STOCKBOOK_HISTORY_LIMIT", 0, 0),
		SaveTimeoutSeconds: getEnvInt("STOCKBOOK_SAVE_TIMEOUT_SECONDS", 5, 1),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogEncoding:        getEnv("LOG_ENCODING", "console"),
	}

	// A database URL on its own is enough to pick postgres.
	if os.Getenv("STOCKBOOK_STORAGE") == "" && cfg.DatabaseURL != "" {
		cfg.Storage = StoragePostgres
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageJSON:
		if c.DataPath == "" {
			return fmt.Errorf("STOCKBOOK_DATA_PATH must be set for json storage")
		}
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for postgres storage")
		}
	default:
		return fmt.Errorf("unknown STOCKBOOK_STORAGE %q (want json, memory or postgres)", c.Storage)
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters when set")
	}
	return nil
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c Config) SaveTimeout() time.Duration {
	return time.Duration(c.SaveTimeoutSeconds) * time.Second
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

// getEnvInt falls back when the value is missing, malformed or below floor.
func getEnvInt(key string, fallback int, floor int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || n < floor {
		return fallback
	}
	return n
}
