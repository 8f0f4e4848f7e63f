// Package config loads the cubegym configuration file.
//
// Configuration comes from a YAML file, with defaults applied for anything
// unset and CUBEGYM_* environment variables taking precedence over the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	// DBPath is the episode database location. Empty means the default
	// path under the user's home directory.
	DBPath string `yaml:"db_path"`

	Log       LogConfig       `yaml:"log"`
	Run       RunConfig       `yaml:"run"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Retention RetentionConfig `yaml:"retention"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RunConfig holds the defaults for the run command.
type RunConfig struct {
	Episodes      int    `yaml:"episodes"`
	ScrambleMoves int    `yaml:"scramble_moves"`
	StepBudget    int    `yaml:"step_budget"`
	Seed          int64  `yaml:"seed"`
	Policy        string `yaml:"policy"`
	Record        bool   `yaml:"record"`
}

// MetricsConfig controls the Prometheus endpoint of the run command.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address"`
	Path          string `yaml:"path"`
}

// RetentionConfig controls episode pruning. Zero values disable the
// corresponding limit; an empty schedule means pruning only runs when
// invoked by hand.
type RetentionConfig struct {
	MaxAgeDays  int    `yaml:"max_age_days"`
	MaxEpisodes int    `yaml:"max_episodes"`
	Schedule    string `yaml:"schedule"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Run: RunConfig{
			Episodes:      1,
			ScrambleMoves: 20,
			StepBudget:    100,
			Policy:        "random",
			Record:        true,
		},
		Metrics: MetricsConfig{
			ListenAddress: ":9351",
			Path:          "/metrics",
		},
	}
}

// Load reads a YAML configuration file, applies defaults for unset fields,
// and validates the result. Environment variables are not consulted; use
// LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithEnvOverrides loads a configuration file and applies CUBEGYM_*
// environment variable overrides on top. Variables always win over the file.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// FromEnv returns the defaults with CUBEGYM_* overrides applied, for when
// no configuration file exists.
func FromEnv() (*Config, error) {
	cfg := Default()
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CUBEGYM_DB_PATH"); val != "" {
		cfg.DBPath = val
	}

	if val := os.Getenv("CUBEGYM_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("CUBEGYM_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}

	if val := os.Getenv("CUBEGYM_RUN_EPISODES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Run.Episodes = i
		}
	}
	if val := os.Getenv("CUBEGYM_RUN_SCRAMBLE_MOVES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Run.ScrambleMoves = i
		}
	}
	if val := os.Getenv("CUBEGYM_RUN_STEP_BUDGET"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Run.StepBudget = i
		}
	}
	if val := os.Getenv("CUBEGYM_RUN_SEED"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Run.Seed = i
		}
	}
	if val := os.Getenv("CUBEGYM_RUN_POLICY"); val != "" {
		cfg.Run.Policy = val
	}
	if val := os.Getenv("CUBEGYM_RUN_RECORD"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Run.Record = b
		}
	}

	if val := os.Getenv("CUBEGYM_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CUBEGYM_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}
	if val := os.Getenv("CUBEGYM_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}

	if val := os.Getenv("CUBEGYM_RETENTION_MAX_AGE_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.MaxAgeDays = i
		}
	}
	if val := os.Getenv("CUBEGYM_RETENTION_MAX_EPISODES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.MaxEpisodes = i
		}
	}
	if val := os.Getenv("CUBEGYM_RETENTION_SCHEDULE"); val != "" {
		cfg.Retention.Schedule = val
	}
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "warning": true, "error": true,
}

// Validate checks the configuration and returns the first problem found.
func Validate(cfg *Config) error {
	if !logLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("log.format: must be text or json, got %q", cfg.Log.Format)
	}

	if cfg.Run.Episodes < 1 {
		return fmt.Errorf("run.episodes: must be at least 1, got %d", cfg.Run.Episodes)
	}
	if cfg.Run.ScrambleMoves < 0 {
		return fmt.Errorf("run.scramble_moves: must not be negative, got %d", cfg.Run.ScrambleMoves)
	}
	if cfg.Run.StepBudget < 1 {
		return fmt.Errorf("run.step_budget: must be at least 1, got %d", cfg.Run.StepBudget)
	}
	if cfg.Run.Policy == "" {
		return fmt.Errorf("run.policy: must not be empty")
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			return fmt.Errorf("metrics.listen_address: required when metrics are enabled")
		}
		if cfg.Metrics.Path == "" || cfg.Metrics.Path[0] != '/' {
			return fmt.Errorf("metrics.path: must start with /, got %q", cfg.Metrics.Path)
		}
	}

	if cfg.Retention.MaxAgeDays < 0 {
		return fmt.Errorf("retention.max_age_days: must not be negative, got %d", cfg.Retention.MaxAgeDays)
	}
	if cfg.Retention.MaxEpisodes < 0 {
		return fmt.Errorf("retention.max_episodes: must not be negative, got %d", cfg.Retention.MaxEpisodes)
	}

	return nil
}
