package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/meikuraledutech/skilltree"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config is the server configuration.
type Config struct {
	Addr          string            `yaml:"addr"`
	LogLevel      string            `yaml:"log_level"`
	TreeID        string            `yaml:"tree_id"`
	CommitTimeout time.Duration     `yaml:"commit_timeout"`
	Palette       skilltree.Palette `yaml:"palette"`
	Store         StoreConfig       `yaml:"store"`
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Kind     string      `yaml:"kind"`
	Path     string      `yaml:"path"`
	Postgres string      `yaml:"postgres_dsn"`
	Redis    RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:          ":3000",
		LogLevel:      "info",
		TreeID:        "skill-tree-data",
		CommitTimeout: 5 * time.Second,
		Palette:       skilltree.DefaultPalette(),
		Store: StoreConfig{
			Kind: StoreFile,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "skilltree:",
			},
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SKILLTREE_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Store.Postgres = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Store.Redis.DB = db
	}
	return nil
}

// Validate checks that the selected store has what it needs.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	case StorePostgres:
		if c.Store.Postgres == "" {
			return errors.New("postgres store needs postgres_dsn or DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if c.CommitTimeout <= 0 {
		return errors.New("commit_timeout must be positive")
	}
	return nil
}
