package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/claude/liftlog/internal/chart"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/storage"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Chart     ChartConfig     `yaml:"chart"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
	Backup    BackupConfig    `yaml:"backup"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// StorageConfig selects where the workout history blob lives. Path is used
// by the file and sqlite drivers, Database by postgres.
type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	BlobName string         `yaml:"blob_name"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// ChartConfig overrides the default chart viewport. Zero values keep the
// defaults.
type ChartConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	PadLeft   float64 `yaml:"pad_left"`
	PadRight  float64 `yaml:"pad_right"`
	PadTop    float64 `yaml:"pad_top"`
	PadBottom float64 `yaml:"pad_bottom"`
	Timezone  string  `yaml:"timezone"`
}

type CatalogConfig struct {
	Language string `yaml:"language"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	Stdout    bool   `yaml:"stdout"`
}

// BackupConfig enables scheduled backups when Schedule is set. Schedule is
// a cron expression with seconds or a descriptor such as "@daily".
type BackupConfig struct {
	Schedule string `yaml:"schedule"`
	Dir      string `yaml:"dir"`
}

// Options converts the log section for logging.New.
func (l LogConfig) Options() logging.Options {
	return logging.Options{
		Level:     l.Level,
		File:      l.File,
		MaxSizeMB: l.MaxSizeMB,
		Stdout:    l.Stdout,
	}
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

// Options converts the storage section for storage.OpenBlob.
func (s StorageConfig) Options() storage.Options {
	opts := storage.Options{
		Driver:   s.Driver,
		Path:     s.Path,
		BlobName: s.BlobName,
	}
	if s.Driver == "postgres" {
		opts.DSN = s.Database.DSN()
	}
	return opts
}

// Location returns the configured chart time zone, UTC when unset.
func (c ChartConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Viewport returns the chart viewport with configured overrides applied.
// Negative sizes and paddings that leave no plotting area are rejected.
func (c ChartConfig) Viewport() (chart.Viewport, error) {
	vp := chart.DefaultViewport()
	for _, o := range []struct {
		key string
		dst *float64
		v   float64
	}{
		{"width", &vp.Width, c.Width},
		{"height", &vp.Height, c.Height},
		{"pad_left", &vp.PadLeft, c.PadLeft},
		{"pad_right", &vp.PadRight, c.PadRight},
		{"pad_top", &vp.PadTop, c.PadTop},
		{"pad_bottom", &vp.PadBottom, c.PadBottom},
	} {
		if o.v < 0 {
			return chart.Viewport{}, fmt.Errorf("chart.%s must not be negative, got %v", o.key, o.v)
		}
		if o.v != 0 {
			*o.dst = o.v
		}
	}
	if vp.Width-vp.PadLeft-vp.PadRight <= 0 {
		return chart.Viewport{}, fmt.Errorf("chart.width %v leaves no room between pad_left %v and pad_right %v",
			vp.Width, vp.PadLeft, vp.PadRight)
	}
	if vp.Height-vp.PadTop-vp.PadBottom <= 0 {
		return chart.Viewport{}, fmt.Errorf("chart.height %v leaves no room between pad_top %v and pad_bottom %v",
			vp.Height, vp.PadTop, vp.PadBottom)
	}

	loc, err := c.Location()
	if err != nil {
		return chart.Viewport{}, err
	}
	vp.Location = loc
	return vp, nil
}

// Tag returns the collation language for the exercise catalog.
func (c CatalogConfig) Tag() (language.Tag, error) {
	if c.Language == "" {
		return language.English, nil
	}
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Und, fmt.Errorf("parsing catalog language %q: %w", c.Language, err)
	}
	return tag, nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTLOG_ and underscore-separated paths:
//
//	LIFTLOG_SERVER_HOST, LIFTLOG_SERVER_PORT, LIFTLOG_AUTH_API_KEY,
//	LIFTLOG_STORAGE_DRIVER, LIFTLOG_STORAGE_PATH,
//	LIFTLOG_DB_HOST, LIFTLOG_DB_PORT, LIFTLOG_DB_NAME,
//	LIFTLOG_DB_USER, LIFTLOG_DB_PASSWORD, LIFTLOG_DB_SSLMODE,
//	LIFTLOG_CHART_TIMEZONE, LIFTLOG_TAILSCALE_ENABLED,
//	LIFTLOG_LOG_LEVEL, LIFTLOG_LOG_FILE, LIFTLOG_BACKUP_SCHEDULE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LIFTLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIFTLOG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("LIFTLOG_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("LIFTLOG_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("LIFTLOG_DB_HOST"); v != "" {
		cfg.Storage.Database.Host = v
	}
	if v := os.Getenv("LIFTLOG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Database.Port = port
		}
	}
	if v := os.Getenv("LIFTLOG_DB_NAME"); v != "" {
		cfg.Storage.Database.Name = v
	}
	if v := os.Getenv("LIFTLOG_DB_USER"); v != "" {
		cfg.Storage.Database.User = v
	}
	if v := os.Getenv("LIFTLOG_DB_PASSWORD"); v != "" {
		cfg.Storage.Database.Password = v
	}
	if v := os.Getenv("LIFTLOG_DB_SSLMODE"); v != "" {
		cfg.Storage.Database.SSLMode = v
	}
	if v := os.Getenv("LIFTLOG_CHART_TIMEZONE"); v != "" {
		cfg.Chart.Timezone = v
	}
	if v := os.Getenv("LIFTLOG_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("LIFTLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LIFTLOG_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("LIFTLOG_BACKUP_SCHEDULE"); v != "" {
		cfg.Backup.Schedule = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.BlobName == "" {
		cfg.Storage.BlobName = storage.DefaultBlobName
	}
	if cfg.Storage.Path == "" {
		switch cfg.Storage.Driver {
		case "file":
			cfg.Storage.Path = storage.DefaultBlobName + ".json"
		case "sqlite":
			cfg.Storage.Path = "liftlog.db"
		}
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "liftlog"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Backup.Schedule != "" && cfg.Backup.Dir == "" {
		cfg.Backup.Dir = "backups"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Storage.Driver {
	case "file", "sqlite":
	case "postgres":
		d := c.Storage.Database
		if d.Host == "" {
			return fmt.Errorf("storage.database.host is required")
		}
		if d.Port == 0 {
			return fmt.Errorf("storage.database.port is required")
		}
		if d.Name == "" {
			return fmt.Errorf("storage.database.name is required")
		}
		if d.User == "" {
			return fmt.Errorf("storage.database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of file, sqlite, postgres", c.Storage.Driver)
	}
	if _, err := c.Chart.Viewport(); err != nil {
		return err
	}
	if _, err := c.Catalog.Tag(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
