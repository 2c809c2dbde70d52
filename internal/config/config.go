// Package config loads service configuration from an optional YAML file with
// environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddr           = ":8080"
	defaultAccessTTLSecs  = 900
	defaultRefreshTTLDays = 30
	defaultDBDriver       = "sqlite"
	defaultDBDSN          = "data/sultan.db"
	defaultIssuer         = "sultan"
)

// Config holds all runtime configuration. Immutable after Load.
type Config struct {
	Addr string     `yaml:"addr"`
	Auth AuthConfig `yaml:"auth"`
	DB   DBConfig   `yaml:"db"`
}

// AuthConfig configures token issuance. Secret has no default.
type AuthConfig struct {
	Secret         string `yaml:"secret"`
	Issuer         string `yaml:"issuer"`
	AccessTTLSecs  int    `yaml:"access_ttl_secs"`
	RefreshTTLDays int    `yaml:"refresh_ttl_days"`
}

// DBConfig selects the storage backend: "sqlite" or "postgres".
type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// AccessTTL returns the access token lifetime.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.Auth.AccessTTLSecs) * time.Second
}

// RefreshTTL returns the refresh token lifetime.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTTLDays) * 24 * time.Hour
}

// Load reads the file named by SULTAN_CONFIG (if set), overlays environment
// variables and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Addr: defaultAddr,
		Auth: AuthConfig{
			Issuer:         defaultIssuer,
			AccessTTLSecs:  defaultAccessTTLSecs,
			RefreshTTLDays: defaultRefreshTTLDays,
		},
		DB: DBConfig{Driver: defaultDBDriver, DSN: defaultDBDSN},
	}

	if path := strings.TrimSpace(os.Getenv("SULTAN_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	overlayString(&cfg.Addr, "SULTAN_ADDR")
	overlayString(&cfg.Auth.Secret, "SULTAN_AUTH_SECRET")
	overlayString(&cfg.Auth.Issuer, "SULTAN_AUTH_ISSUER")
	overlayString(&cfg.DB.Driver, "SULTAN_DB_DRIVER")
	overlayString(&cfg.DB.DSN, "SULTAN_DB_DSN")
	if err := overlayInt(&cfg.Auth.AccessTTLSecs, "SULTAN_ACCESS_TTL_SECS"); err != nil {
		return Config{}, err
	}
	if err := overlayInt(&cfg.Auth.RefreshTTLDays, "SULTAN_REFRESH_TTL_DAYS"); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("config: auth secret is required (SULTAN_AUTH_SECRET)")
	}
	if c.Auth.AccessTTLSecs <= 0 {
		return errors.New("config: access token ttl must be positive")
	}
	if c.Auth.RefreshTTLDays <= 0 {
		return errors.New("config: refresh token ttl must be positive")
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported db driver %q", c.DB.Driver)
	}
	return nil
}

func overlayString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s must be a number: %w", key, err)
	}
	*dst = n
	return nil
}
