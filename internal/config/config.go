// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Backend names the storage engine selected at startup.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Config holds everything the service reads at startup.
type Config struct {
	Port int `env:"PORT" envDefault:"3000"`
	// DatabaseURL, when set, selects PostgreSQL; otherwise SQLitePath is used.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"PRAYERS_SQLITE_PATH" envDefault:"prayers.db"`
	PublicDir   string `env:"PRAYERS_PUBLIC_DIR" envDefault:"public"`
	PeopleFile  string `env:"PRAYERS_PEOPLE_FILE"`
	PGMaxConns  int32  `env:"PRAYERS_PG_MAX_CONNS" envDefault:"10"`
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides is Load with overrides replacing environment variables of
// the same name before parsing, so an overridden variable is never parsed
// from the process environment.
func LoadWithOverrides(overrides map[string]string) (Config, error) {
	vars := env.ToMap(os.Environ())
	for k, v := range overrides {
		vars[k] = v
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Backend() == BackendSQLite && strings.TrimSpace(c.SQLitePath) == "" {
		return fmt.Errorf("sqlite path is required when DATABASE_URL is unset")
	}
	return nil
}

// Backend reports which storage engine the configuration selects.
func (c Config) Backend() Backend {
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return BackendPostgres
	}
	return BackendSQLite
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
