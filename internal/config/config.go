// Package config loads and persists plan configuration.
//
// Configuration lives at .plan/config.yaml inside the plan directory.
// Environment variables prefixed PLAN_ override file values
// (PLAN_DATABASE_DIALECT, PLAN_OWNER, ...).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	planerrors "github.com/Greenjacket-nomad/personal-plan/internal/errors"
)

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	// Dialect is "sqlite" or "postgres".
	Dialect string `yaml:"dialect" mapstructure:"dialect"`
	// DSN is the connection string for postgres. Ignored for sqlite, which
	// always uses .plan/plan.db in the plan directory.
	DSN string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// Config is the plan configuration.
type Config struct {
	// Owner identifies whose items the CLI operates on. Single-user setups
	// keep the default.
	Owner    string         `yaml:"owner" mapstructure:"owner"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
}

// DefaultOwner is used when no owner is configured.
const DefaultOwner = "me"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Owner: DefaultOwner,
		Database: DatabaseConfig{
			Dialect: "sqlite",
		},
	}
}

// Load reads configuration from {dir}/.plan/config.yaml, applying defaults
// and PLAN_ environment overrides. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(dir, ".plan"))

	v.SetDefault("owner", DefaultOwner)
	v.SetDefault("database.dialect", "sqlite")

	v.SetEnvPrefix("PLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Read keys individually: Unmarshal does not consult AutomaticEnv.
	cfg := &Config{
		Owner: v.GetString("owner"),
		Database: DatabaseConfig{
			Dialect: v.GetString("database.dialect"),
			DSN:     v.GetString("database.dsn"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Database.Dialect {
	case "sqlite", "postgres":
	default:
		return planerrors.ErrConfigInvalid("database.dialect",
			fmt.Sprintf("unknown dialect %q (want sqlite or postgres)", c.Database.Dialect))
	}
	if c.Database.Dialect == "postgres" && c.Database.DSN == "" {
		return planerrors.ErrConfigInvalid("database.dsn", "postgres requires a connection string")
	}
	if c.Owner == "" {
		return planerrors.ErrConfigInvalid("owner", "owner must not be empty")
	}
	return nil
}

// Save writes the configuration to {dir}/.plan/config.yaml.
func (c *Config) Save(dir string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	planDir := filepath.Join(dir, ".plan")
	if err := os.MkdirAll(planDir, 0755); err != nil {
		return fmt.Errorf("create plan directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := filepath.Join(planDir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
