package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/models"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Sync      SyncConfig      `yaml:"sync"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Mappings  MappingsConfig  `yaml:"mappings"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// SyncConfig configures the remote workout sync. An empty Token disables it.
type SyncConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Token    string        `yaml:"token"`
	StateDir string        `yaml:"state_dir"`
	Timeout  time.Duration `yaml:"timeout"`
}

// IngestConfig tunes CSV imports.
type IngestConfig struct {
	// IncludeWarmups keeps Alpha Progression warmup sets.
	IncludeWarmups bool `yaml:"include_warmups"`
}

// MappingsConfig locates the exercise mapping overlay. An empty Path
// resolves to the user config directory.
type MappingsConfig struct {
	Path string `yaml:"path"`
}

type AnalysisConfig struct {
	Formula string `yaml:"formula"`
	Unit    string `yaml:"unit"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// OneRMFormula returns the configured one-rep-max formula.
func (a AnalysisConfig) OneRMFormula() (analysis.Formula, error) {
	return analysis.ParseFormula(a.Formula)
}

// WeightUnit returns the configured presentation unit.
func (a AnalysisConfig) WeightUnit() (models.WeightUnit, error) {
	return models.ParseWeightUnit(a.Unit)
}

// SlogLevel returns the configured log level, Info when unset.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database: DatabaseConfig{
			Host: "localhost",
			Port: 5432,
			Name: "liftlog",
			User: "liftlog",
		},
		Tailscale: TailscaleConfig{Hostname: "liftlog", StateDir: "tsnet-state"},
		Sync:      SyncConfig{StateDir: "sync-state", Timeout: 30 * time.Second},
		Analysis:  AnalysisConfig{Formula: "epley", Unit: "kg"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads config from a YAML file on top of Default, loads a .env file
// from the working directory if present, then applies environment variable
// overrides. Env vars use the prefix LIFTLOG_ and underscore-separated paths:
//
//	LIFTLOG_SERVER_HOST, LIFTLOG_SERVER_PORT,
//	LIFTLOG_DB_HOST, LIFTLOG_DB_PORT, LIFTLOG_DB_NAME,
//	LIFTLOG_DB_USER, LIFTLOG_DB_PASSWORD, LIFTLOG_DB_SSLMODE, LIFTLOG_DB_MAX_CONNS,
//	LIFTLOG_AUTH_API_KEY, LIFTLOG_TAILSCALE_ENABLED,
//	LIFTLOG_SYNC_BASE_URL, LIFTLOG_SYNC_TOKEN (or HEVY_API_KEY),
//	LIFTLOG_SYNC_STATE_DIR, LIFTLOG_SYNC_TIMEOUT,
//	LIFTLOG_INGEST_INCLUDE_WARMUPS, LIFTLOG_MAPPINGS_PATH,
//	LIFTLOG_ANALYSIS_FORMULA, LIFTLOG_ANALYSIS_UNIT, LIFTLOG_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	ApplyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv exports the variables of a dotenv file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies LIFTLOG_ environment overrides to cfg.
func ApplyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("LIFTLOG_SERVER_HOST", &cfg.Server.Host)
	num("LIFTLOG_SERVER_PORT", &cfg.Server.Port)
	str("LIFTLOG_DB_HOST", &cfg.Database.Host)
	num("LIFTLOG_DB_PORT", &cfg.Database.Port)
	str("LIFTLOG_DB_NAME", &cfg.Database.Name)
	str("LIFTLOG_DB_USER", &cfg.Database.User)
	str("LIFTLOG_DB_PASSWORD", &cfg.Database.Password)
	str("LIFTLOG_DB_SSLMODE", &cfg.Database.SSLMode)
	if v := os.Getenv("LIFTLOG_DB_MAX_CONNS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.Database.MaxConns = int32(n)
		}
	}
	str("LIFTLOG_AUTH_API_KEY", &cfg.Auth.APIKey)
	if v := os.Getenv("LIFTLOG_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	str("LIFTLOG_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	str("LIFTLOG_SYNC_BASE_URL", &cfg.Sync.BaseURL)
	str("HEVY_API_KEY", &cfg.Sync.Token)
	str("LIFTLOG_SYNC_TOKEN", &cfg.Sync.Token)
	str("LIFTLOG_SYNC_STATE_DIR", &cfg.Sync.StateDir)
	if v := os.Getenv("LIFTLOG_SYNC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sync.Timeout = d
		}
	}
	if v := os.Getenv("LIFTLOG_INGEST_INCLUDE_WARMUPS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Ingest.IncludeWarmups = b
		}
	}
	str("LIFTLOG_MAPPINGS_PATH", &cfg.Mappings.Path)
	str("LIFTLOG_ANALYSIS_FORMULA", &cfg.Analysis.Formula)
	str("LIFTLOG_ANALYSIS_UNIT", &cfg.Analysis.Unit)
	str("LIFTLOG_LOG_LEVEL", &cfg.Log.Level)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if _, err := c.Analysis.OneRMFormula(); err != nil {
		return fmt.Errorf("analysis.formula: %w", err)
	}
	if _, err := c.Analysis.WeightUnit(); err != nil {
		return fmt.Errorf("analysis.unit: %w", err)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
