package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top level configuration, matching config/config.yaml.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Matching MatchingConfig `mapstructure:"matching"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"` // listen port
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

// DatabaseConfig holds settings for the embedded SQLite store.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`            // database file path, e.g. data/changmatch.db
	BusyTimeoutMS   int           `mapstructure:"busy_timeout_ms"` // SQLite busy_timeout pragma
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// MatchingConfig tunes auto-match generation and listing defaults.
type MatchingConfig struct {
	AutoMatchLimit     int     `mapstructure:"auto_match_limit"`     // providers to pair per new customer
	AutoScoreThreshold float64 `mapstructure:"auto_score_threshold"` // minimum score for the auto-match listing
	DefaultPageSize    int     `mapstructure:"default_page_size"`    // list endpoints default limit
	ProgressPageSize   int     `mapstructure:"progress_page_size"`   // job-progress listing default limit
}

// DSN builds the SQLite DSN with the pragmas the service relies on.
func (d *DatabaseConfig) DSN() string {
	busy := d.BusyTimeoutMS
	if busy <= 0 {
		busy = 5000
	}
	return fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", d.Path, busy)
}

// LoadConfig reads config/config.yaml; a .env file (if present) and process
// environment override deploy-specific values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv applies environment overrides (priority env > yaml).
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/changmatch.db"
	}
	if cfg.Matching.AutoMatchLimit <= 0 {
		cfg.Matching.AutoMatchLimit = 5
	}
	if cfg.Matching.AutoScoreThreshold <= 0 {
		cfg.Matching.AutoScoreThreshold = 0.5
	}
	if cfg.Matching.DefaultPageSize <= 0 {
		cfg.Matching.DefaultPageSize = 10
	}
	if cfg.Matching.ProgressPageSize <= 0 {
		cfg.Matching.ProgressPageSize = 20
	}
}
