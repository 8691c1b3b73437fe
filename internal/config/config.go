// Package config loads runtime settings from an optional YAML file overlaid
// with CAREERPLAN_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/careerplan/internal/llm"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type PostgresConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

// DSN renders the connection string for pgx.
func (c PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type StoreConfig struct {
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// Addr serves metrics on a dedicated listener when set; otherwise they
	// share the API router.
	Addr string `yaml:"addr"`
}

// Config is the full application configuration.
type Config struct {
	// Env selects the logger mode: "development" or "production".
	Env     string        `yaml:"env"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`
	LLM     llm.LLMConfig `yaml:"llm"`
}

// Default returns a Config that runs locally against SQLite.
func Default() Config {
	return Config{
		Env: "development",
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    180 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:     DriverSQLite,
			SQLitePath: defaultSQLitePath(),
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "careerplan",
				Name:     "careerplan",
				SSLMode:  "disable",
				MaxConns: 10,
				MinConns: 2,
			},
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  10 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		LLM: llm.DefaultConfig(),
	}
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "careerplan.db"
	}
	return filepath.Join(home, ".careerplan", "careerplan.db")
}

// Load builds the configuration. path may be empty, in which case
// CAREERPLAN_CONFIG is consulted; a missing file is not an error unless it
// was named explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CAREERPLAN_CONFIG")
		explicit = path != ""
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate fails fast on settings the process cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Store.Postgres.URL == "" && c.Store.Postgres.Host == "" {
			return fmt.Errorf("store.postgres.url or store.postgres.host is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("cache.addr is required when the cache is enabled")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderStub:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "CAREERPLAN_ENV")
	setString(&cfg.Server.Addr, "CAREERPLAN_HTTP_ADDR")

	setString(&cfg.Store.Driver, "CAREERPLAN_STORE_DRIVER")
	setString(&cfg.Store.SQLitePath, "CAREERPLAN_DB")
	setString(&cfg.Store.Postgres.URL, "CAREERPLAN_DATABASE_URL")
	setString(&cfg.Store.Postgres.Host, "CAREERPLAN_PG_HOST")
	setInt(&cfg.Store.Postgres.Port, "CAREERPLAN_PG_PORT")
	setString(&cfg.Store.Postgres.User, "CAREERPLAN_PG_USER")
	setString(&cfg.Store.Postgres.Password, "CAREERPLAN_PG_PASSWORD")
	setString(&cfg.Store.Postgres.Name, "CAREERPLAN_PG_NAME")
	setString(&cfg.Store.Postgres.SSLMode, "CAREERPLAN_PG_SSLMODE")

	if v := os.Getenv("CAREERPLAN_REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
		cfg.Cache.Enabled = true
	}
	setString(&cfg.Cache.Password, "CAREERPLAN_REDIS_PASSWORD")
	setInt(&cfg.Cache.DB, "CAREERPLAN_REDIS_DB")
	if v := os.Getenv("CAREERPLAN_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Cache.TTL = d
		}
	}
	setString(&cfg.Metrics.Addr, "CAREERPLAN_METRICS_ADDR")
	if v := os.Getenv("CAREERPLAN_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled, _ = strconv.ParseBool(v)
	}

	llm.ApplyEnv(&cfg.LLM)
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
