package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	// Required fields
	SessionSecret string `mapstructure:"session_secret"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Database settings
	DatabaseDriver       string `mapstructure:"database_driver"` // "sqlite" or "postgres"
	DatabaseDSN          string `mapstructure:"database_dsn"`
	DatabaseMaxOpenConns int    `mapstructure:"database_max_open_conns"`

	// Session settings
	SessionAlgorithm    string        `mapstructure:"session_algorithm"`
	SessionLifetime     time.Duration `mapstructure:"session_lifetime"`
	SessionCookie       string        `mapstructure:"session_cookie"`
	SessionCookieSecure bool          `mapstructure:"session_cookie_secure"`

	BcryptCost int `mapstructure:"bcrypt_cost"`

	// Optional logging settings
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "text" or "json"

	ConfigPath string
}

const (
	DefaultConfigPath       = "/etc/quill/config.yml"
	DefaultAPIHost          = "0.0.0.0"
	DefaultAPIPort          = 8080
	DefaultDatabaseDriver   = "sqlite"
	DefaultDatabaseDSN      = "/var/lib/quill/quill.sqlite3"
	DefaultMaxOpenConns     = 10
	DefaultSessionAlgorithm = "HS256"
	DefaultSessionLifetime  = 24 * time.Hour
	DefaultSessionCookie    = "session"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"

	envPrefix = "QUILL"
)

var keys = []string{
	"session_secret",
	"api_host",
	"api_port",
	"ssl_cert",
	"ssl_key",
	"database_driver",
	"database_dsn",
	"database_max_open_conns",
	"session_algorithm",
	"session_lifetime",
	"session_cookie",
	"session_cookie_secure",
	"bcrypt_cost",
	"log_level",
	"log_format",
}

// Load reads the YAML file at configPath, applies QUILL_* environment
// overrides and validates the result. A missing file is only an error when
// the path was given explicitly.
func Load(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("database_driver", DefaultDatabaseDriver)
	v.SetDefault("database_dsn", DefaultDatabaseDSN)
	v.SetDefault("database_max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("session_algorithm", DefaultSessionAlgorithm)
	v.SetDefault("session_lifetime", DefaultSessionLifetime)
	v.SetDefault("session_cookie", DefaultSessionCookie)
	v.SetDefault("session_cookie_secure", false)
	v.SetDefault("bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)

	// Allow environment variable overrides
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigPath = configPath

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret is required")
	}

	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres" {
		return fmt.Errorf("database_driver must be 'sqlite' or 'postgres'")
	}

	if c.DatabaseDSN == "" {
		return fmt.Errorf("database_dsn is required")
	}

	switch c.SessionAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("session_algorithm must be one of HS256, HS384, HS512")
	}

	if c.SessionLifetime <= 0 {
		return fmt.Errorf("session_lifetime must be positive")
	}

	if c.SessionCookie == "" {
		return fmt.Errorf("session_cookie is required")
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'text' or 'json'")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("QUILL_DEV_MODE") == "1"
}
