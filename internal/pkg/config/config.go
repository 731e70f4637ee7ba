package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBaseURL string        `env:"CONSOLE_API_URL, default=http://localhost:8000"`
	Timeout    time.Duration `env:"CONSOLE_TIMEOUT, default=30s"`
	LogLevel   string        `env:"LOG_LEVEL,       default=info"`
	LogJSON    bool          `env:"LOG_JSON,        default=false"`

	CacheTTL  time.Duration `env:"CONSOLE_CACHE_TTL,  default=5m"`
	CacheSize int           `env:"CONSOLE_CACHE_SIZE, default=100"`

	// OpsAddr enables the local /health + /metrics listener when set,
	// e.g. ":9310". Empty disables it.
	OpsAddr string `env:"CONSOLE_OPS_ADDR"`

	Storage StorageConfig
}

type StorageConfig struct {
	// Backend selects where session/tenant keys persist: file, redis or
	// memory (nothing survives the process).
	Backend string `env:"CONSOLE_STORAGE,      default=file"`
	Path    string `env:"CONSOLE_STORAGE_PATH"`
	// SealingKey, when set (64 hex chars), encrypts file-store values at
	// rest with nacl/secretbox.
	SealingKey string `env:"CONSOLE_SEALING_KEY"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=console"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStatePath()
	}
	return &cfg, nil
}

// defaultStatePath places the state file under the user's home directory,
// falling back to the working directory when home is unknown.
func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".auditax-state.json"
	}
	return filepath.Join(home, ".auditax", "state.json")
}
