package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers understood by the feed store daemon.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds the settings shared by the MCP server and the store daemon.
type Config struct {
	FeedURL        string        `env:"FEED_MCP_FEED_URL"`
	StoreSocket    string        `env:"FEED_MCP_STORE_SOCK"`
	StoreDB        string        `env:"FEED_MCP_STORE_DB"`
	StoreDriver    string        `env:"FEED_MCP_STORE_DRIVER" envDefault:"bolt"`
	RequestTimeout time.Duration `env:"FEED_MCP_REQUEST_TIMEOUT" envDefault:"20s"`
}

// Load reads Config from the environment and fills in path defaults under
// the user's home cache directory.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.StoreSocket == "" {
		cfg.StoreSocket = defaultPath("store.sock")
	}
	if cfg.StoreDB == "" {
		cfg.StoreDB = defaultPath(dbFileName(cfg.StoreDriver))
	}
	switch cfg.StoreDriver {
	case DriverBolt, DriverSQLite, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	return cfg, nil
}

// RequireFeedURL reports an error when no feed endpoint is configured.
func (c Config) RequireFeedURL() error {
	if c.FeedURL == "" {
		return fmt.Errorf("FEED_MCP_FEED_URL is required")
	}
	return nil
}

func dbFileName(driver string) string {
	if driver == DriverSQLite {
		return "feed.sqlite"
	}
	return "feed.bbolt"
}

func defaultPath(name string) string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "feed-mcp", name)
}
