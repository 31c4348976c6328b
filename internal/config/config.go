// Package config loads and validates the settings shared by the panel
// binaries. Values come from an optional yaml file with environment-variable
// overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mschlachter/ocis-app-tokens/internal/expiry"
)

// ErrInvalidConfig marks a configuration that fails schema validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ServerConfig holds the development backend's listen settings.
type ServerConfig struct {
	Host      string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port      string `yaml:"port" env:"SERVER_PORT" env-default:"9200"`
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL" env-default:"http://localhost:9200"`
	UserName  string `yaml:"user_name" env:"USER_NAME" env-default:"Admin"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DatabaseConfig holds the sqlite settings of the development backend.
type DatabaseConfig struct {
	Path            string        `yaml:"path" env:"DATABASE_PATH" env-default:"./data/app-tokens.db"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"DATABASE_AUTO_MIGRATE" env-default:"true"`
}

// PanelConfig holds the host-supplied panel settings.
type PanelConfig struct {
	TokenAPIURL         string `yaml:"token_api_url" env:"TOKEN_API_URL" env-default:"http://localhost:9200/auth-app/tokens"`
	DrivesURL           string `yaml:"drives_url" env:"DRIVES_URL" env-default:"http://localhost:9200/graph/v1.0/me/drives"`
	EnableCustomLabels  bool   `yaml:"enable_custom_labels" env:"ENABLE_CUSTOM_LABELS" env-default:"false"`
	DefaultExpiryAmount int    `yaml:"default_expiry_amount" env:"DEFAULT_EXPIRY_AMOUNT" env-default:"72"`
	DefaultExpiryUnit   string `yaml:"default_expiry_unit" env:"DEFAULT_EXPIRY_UNIT" env-default:"Hours"`
}

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Panel    PanelConfig    `yaml:"panel"`
}

// Load reads configuration from path if given, else from CONFIG_PATH, else
// from the environment alone, and validates it against the fixed schema.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against the fixed schema before use.
func (c *Config) Validate() error {
	if c.Panel.TokenAPIURL == "" {
		return fmt.Errorf("%w: panel.token_api_url must not be empty", ErrInvalidConfig)
	}
	if c.Panel.DrivesURL == "" {
		return fmt.Errorf("%w: panel.drives_url must not be empty", ErrInvalidConfig)
	}
	if c.Panel.DefaultExpiryAmount < 0 {
		return fmt.Errorf("%w: panel.default_expiry_amount must not be negative", ErrInvalidConfig)
	}
	if _, err := expiry.ParseUnit(c.Panel.DefaultExpiryUnit); err != nil {
		return fmt.Errorf("%w: panel.default_expiry_unit: %v", ErrInvalidConfig, err)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path must not be empty", ErrInvalidConfig)
	}
	return nil
}

// DefaultExpiry returns the validated default expiry of the creation form.
func (c *Config) DefaultExpiry() (int, expiry.Unit) {
	unit, err := expiry.ParseUnit(c.Panel.DefaultExpiryUnit)
	if err != nil {
		// Validate rejects unknown units, so this only covers a Config
		// built without Load.
		unit = expiry.Hours
	}
	return c.Panel.DefaultExpiryAmount, unit
}
