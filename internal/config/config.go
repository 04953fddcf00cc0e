package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the agent's full configuration
type Config struct {
	DeviceID      string         `mapstructure:"device_id"`
	SubjectPrefix string         `mapstructure:"subject_prefix"`
	NATS          NATSConfig     `mapstructure:"nats"`
	Provider      ProviderConfig `mapstructure:"provider"`
	Tasks         TasksConfig    `mapstructure:"tasks"`
	Limits        LimitsConfig   `mapstructure:"limits"`
	Logging       LoggingConfig  `mapstructure:"logging"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	URLs          []string      `mapstructure:"urls"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	DrainTimeout  time.Duration `mapstructure:"drain_timeout"`
	Auth          AuthConfig    `mapstructure:"auth"`
	TLS           TLSConfig     `mapstructure:"tls"`
}

// AuthConfig configures NATS authentication
type AuthConfig struct {
	Type      string `mapstructure:"type"` // "none", "token", "userpass", "creds"
	Token     string `mapstructure:"token"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	CredsFile string `mapstructure:"creds_file"`
}

// TLSConfig configures NATS TLS
type TLSConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	CertFile           string `mapstructure:"cert_file"`
	KeyFile            string `mapstructure:"key_file"`
	CAFile             string `mapstructure:"ca_file"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// ProviderConfig selects the device metadata source
type ProviderConfig struct {
	// Source is "native" (gopsutil) or "exporter" (node_exporter scrape)
	Source      string `mapstructure:"source"`
	ExporterURL string `mapstructure:"exporter_url"`

	// CallTimeout bounds a single provider call
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	// BatchTimeout bounds a concurrent fan-out of provider calls
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

// TasksConfig configures scheduled tasks
type TasksConfig struct {
	Snapshot SnapshotTaskConfig `mapstructure:"snapshot"`
}

// SnapshotTaskConfig configures the periodic snapshot publish
type SnapshotTaskConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// LimitsConfig holds thresholds for the minimum-requirements check
type LimitsConfig struct {
	MinMemoryGB int `mapstructure:"min_memory_gb"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Load reads the configuration file, applies defaults, and validates
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigFile(GetDefaultConfigPath())
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for everything optional
func setDefaults(v *viper.Viper) {
	v.SetDefault("subject_prefix", "devices")

	v.SetDefault("nats.urls", []string{"nats://localhost:4222"})
	v.SetDefault("nats.max_reconnects", -1) // retry forever
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("nats.drain_timeout", 10*time.Second)
	v.SetDefault("nats.auth.type", "none")

	v.SetDefault("provider.source", "native")
	v.SetDefault("provider.call_timeout", time.Second)
	v.SetDefault("provider.batch_timeout", 2*time.Second)

	v.SetDefault("tasks.snapshot.enabled", true)
	v.SetDefault("tasks.snapshot.interval", time.Hour)

	v.SetDefault("limits.min_memory_gb", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)

	UpdateConfigDefaults(v)
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validate checks the configuration for consistency
func validate(cfg *Config) error {
	if cfg.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}
	if !identifierPattern.MatchString(cfg.DeviceID) {
		return fmt.Errorf("device_id must contain only alphanumeric characters, dashes, and underscores")
	}

	if cfg.SubjectPrefix == "" {
		return fmt.Errorf("subject_prefix is required")
	}
	for _, token := range strings.Split(cfg.SubjectPrefix, ".") {
		if token == "" || !identifierPattern.MatchString(token) {
			return fmt.Errorf("subject_prefix must be dot-separated tokens of alphanumeric characters, dashes, and underscores")
		}
	}

	if len(cfg.NATS.URLs) == 0 {
		return fmt.Errorf("at least one NATS URL is required")
	}

	switch cfg.NATS.Auth.Type {
	case "none":
	case "token":
		if cfg.NATS.Auth.Token == "" {
			return fmt.Errorf("token auth requires nats.auth.token")
		}
	case "userpass":
		if cfg.NATS.Auth.Username == "" || cfg.NATS.Auth.Password == "" {
			return fmt.Errorf("userpass auth requires nats.auth.username and nats.auth.password")
		}
	case "creds":
		if cfg.NATS.Auth.CredsFile == "" {
			return fmt.Errorf("creds auth requires nats.auth.creds_file")
		}
	default:
		return fmt.Errorf("invalid auth type: %s", cfg.NATS.Auth.Type)
	}

	switch cfg.Provider.Source {
	case "", "native":
	case "exporter":
		if cfg.Provider.ExporterURL == "" {
			return fmt.Errorf("exporter source requires provider.exporter_url")
		}
	default:
		return fmt.Errorf("invalid provider source: %s", cfg.Provider.Source)
	}

	if cfg.Provider.CallTimeout < 0 || cfg.Provider.BatchTimeout < 0 {
		return fmt.Errorf("provider timeouts must be non-negative")
	}

	if cfg.Tasks.Snapshot.Enabled && cfg.Tasks.Snapshot.Interval < time.Second {
		return fmt.Errorf("tasks.snapshot.interval must be at least 1s")
	}

	if cfg.Limits.MinMemoryGB < 0 {
		return fmt.Errorf("limits.min_memory_gb must be non-negative")
	}

	if cfg.Logging.Level != "" {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
		}
	}

	return nil
}
