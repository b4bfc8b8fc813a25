package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "taskboard/pkg/config"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type StoreConfig struct {
	Driver string `yaml:"driver"` // memory | postgres
}

type SeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Value   uint64 `yaml:"value"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server pkgconfig.ServerConfig `yaml:"server"`
	Store  StoreConfig            `yaml:"store"`
	DB     pkgconfig.DBConfig     `yaml:"db"`
	Redis  pkgconfig.RedisConfig  `yaml:"redis"`
	MQ     pkgconfig.MQConfig     `yaml:"mq"`
	JWT    pkgconfig.JWTConfig    `yaml:"jwt"`
	Seed   SeedConfig             `yaml:"seed"`
	Log    LogConfig              `yaml:"log"`
}

// Default is the configuration used when no file is present: in-memory
// stores seeded with a fixed value, matching the demo behaviour.
func Default() *Config {
	return &Config{
		Server: pkgconfig.ServerConfig{Port: "8080"},
		Store:  StoreConfig{Driver: StoreMemory},
		JWT:    pkgconfig.JWTConfig{Secret: "taskboard-dev-secret", TTL: "24h"},
		Seed:   SeedConfig{Enabled: true, Value: 42},
		Log:    LogConfig{Level: "info"},
	}
}

// Load uses the layered files in CONFIG_DIR when set, otherwise the single
// file at CONFIG_PATH (default config.yaml). It exits on a malformed config.
func Load() *Config {
	var (
		cfg *Config
		err error
	)
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		cfg, err = LoadLayered(dir)
	} else {
		cfg, err = LoadFile(pkgconfig.GetEnv("CONFIG_PATH", "config.yaml"))
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// LoadFile decodes path over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("no config file at %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadLayered builds the config from base.yaml plus the CONFIG_ENV overlay in dir.
func LoadLayered(dir string) (*Config, error) {
	m, err := pkgconfig.LoadConfig(pkgconfig.GetConfigEnv(), dir)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := pkgconfig.Decode(m, cfg); err != nil {
		return nil, err
	}
	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if !c.DB.Enabled() {
			return errors.New("store.driver is postgres but db.host is empty")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	return nil
}

// TokenTTL parses JWT.TTL, defaulting to 24h.
func (c *Config) TokenTTL() (time.Duration, error) {
	if c.JWT.TTL == "" {
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(c.JWT.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid jwt.ttl %q: %w", c.JWT.TTL, err)
	}
	return d, nil
}

func overrideFromEnv(cfg *Config) error {
	pkgconfig.OverrideDBFromEnv(&cfg.DB)
	pkgconfig.OverrideRedisFromEnv(&cfg.Redis)
	pkgconfig.OverrideMQFromEnv(&cfg.MQ)
	pkgconfig.OverrideJWTFromEnv(&cfg.JWT)
	pkgconfig.OverrideServerFromEnv(&cfg.Server)

	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if seed := os.Getenv("SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SEED %q: %w", seed, err)
		}
		cfg.Seed.Value = v
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	return nil
}
