// Package config loads and validates the soy-cli session configuration.
//
// Settings resolve in three layers: an environment-selected YAML file
// (soy.<env>.yaml), then DATABRICKS_* / SOY_* environment variables, then
// defaults. Validation happens before any network I/O; a bad configuration
// never reaches the workspace API.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environments recognised by SOY_ENV.
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Defaults applied when neither file nor environment provides a value.
const (
	DefaultTimeout      = 3 * time.Minute
	DefaultPollInterval = 10 * time.Second
)

// ConfigError reports a missing or malformed configuration value. It is
// always produced before any connection attempt.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Config is the validated, immutable session configuration. It is
// constructed once per process invocation by Load.
type Config struct {
	Environment  string
	Host         string
	ClusterID    string
	Token        string
	Profile      string
	Timeout      time.Duration
	PollInterval time.Duration
	LogLevel     string
	LogFormat    string
}

// fileConfig is the on-disk YAML shape. Durations are strings so the file
// can say "3m" rather than nanoseconds.
type fileConfig struct {
	Host         string `yaml:"host"`
	ClusterID    string `yaml:"cluster_id"`
	Token        string `yaml:"token"`
	Profile      string `yaml:"profile"`
	Timeout      string `yaml:"timeout"`
	PollInterval string `yaml:"poll_interval"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

// Loader resolves configuration from a directory and an environment source.
// The zero value is not usable; construct with NewLoader.
type Loader struct {
	dir    string
	getenv func(string) string
}

// NewLoader creates a Loader reading config files from dir and environment
// variables through getenv. Passing nil getenv uses os.Getenv.
func NewLoader(dir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Loader{dir: dir, getenv: getenv}
}

// Load resolves configuration with the default loader rooted at dir.
func Load(dir string) (*Config, error) {
	return NewLoader(dir, nil).Load()
}

// Load reads, layers, and validates the configuration. It fails with a
// *ConfigError on any missing or malformed value and performs no I/O other
// than reading local files.
func (l *Loader) Load() (*Config, error) {
	env := l.getenv("SOY_ENV")
	if env == "" {
		env = EnvDev
	}
	switch env {
	case EnvDev, EnvStaging, EnvProd:
	default:
		return nil, &ConfigError{Field: "SOY_ENV", Reason: fmt.Sprintf(
			"invalid environment %q (must be one of %s, %s, %s)", env, EnvDev, EnvStaging, EnvProd)}
	}

	cfg := &Config{
		Environment:  env,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		LogLevel:     "info",
		LogFormat:    "text",
	}

	if err := l.applyFile(cfg, env); err != nil {
		return nil, err
	}
	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := l.applyProfile(cfg); err != nil {
		return nil, err
	}

	// Secret references resolve last so both file and profile values may
	// use them.
	token, err := resolveSecret(cfg.Token, l.getenv)
	if err != nil {
		return nil, err
	}
	cfg.Token = token

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyFile(cfg *Config, env string) error {
	path := filepath.Join(l.dir, fmt.Sprintf("soy.%s.yaml", env))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &ConfigError{Field: path, Reason: err.Error()}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return &ConfigError{Field: path, Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}

	setString(&cfg.Host, fc.Host)
	setString(&cfg.ClusterID, fc.ClusterID)
	setString(&cfg.Token, fc.Token)
	setString(&cfg.Profile, fc.Profile)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	if err := setDuration(&cfg.Timeout, "timeout", fc.Timeout); err != nil {
		return err
	}
	return setDuration(&cfg.PollInterval, "poll_interval", fc.PollInterval)
}

func (l *Loader) applyEnv(cfg *Config) error {
	setString(&cfg.Host, l.getenv("DATABRICKS_HOST"))
	setString(&cfg.ClusterID, l.getenv("DATABRICKS_CLUSTER_ID"))
	setString(&cfg.Token, l.getenv("DATABRICKS_TOKEN"))
	setString(&cfg.Profile, l.getenv("DATABRICKS_PROFILE"))
	setString(&cfg.LogLevel, l.getenv("SOY_LOG_LEVEL"))
	setString(&cfg.LogFormat, l.getenv("SOY_LOG_FORMAT"))
	if err := setDuration(&cfg.Timeout, "SOY_TIMEOUT", l.getenv("SOY_TIMEOUT")); err != nil {
		return err
	}
	return setDuration(&cfg.PollInterval, "SOY_POLL_INTERVAL", l.getenv("SOY_POLL_INTERVAL"))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, field, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("invalid duration %q", v)}
	}
	*dst = d
	return nil
}

func validate(cfg *Config) error {
	if cfg.Host == "" {
		return &ConfigError{Field: "host", Reason: "workspace host is required"}
	}
	u, err := url.Parse(cfg.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "host", Reason: fmt.Sprintf(
			"%q is not a valid http(s) URL", cfg.Host)}
	}
	if cfg.ClusterID == "" {
		return &ConfigError{Field: "cluster_id", Reason: "cluster identifier is required"}
	}
	if cfg.Token == "" {
		return &ConfigError{Field: "token", Reason: "authentication token is required (set token, DATABRICKS_TOKEN, or a profile)"}
	}
	if cfg.Timeout < 0 {
		return &ConfigError{Field: "timeout", Reason: fmt.Sprintf(
			"must not be negative, got %s", cfg.Timeout)}
	}
	if cfg.PollInterval < 0 {
		return &ConfigError{Field: "poll_interval", Reason: fmt.Sprintf(
			"must not be negative, got %s", cfg.PollInterval)}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return nil
}
