// Package config provides configuration management for the solver.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/g2dcsp/solver/pkg/geometry"
)

// Config holds all configuration for a solver run.
type Config struct {
	Solver    SolverConfig    `mapstructure:"solver"`
	Log       LogConfig       `mapstructure:"log"`
	History   HistoryConfig   `mapstructure:"history"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// SolverConfig holds the R&R search parameters (spec.md §6 "Input — Config").
type SolverConfig struct {
	MaxRunTimeS      int64   `mapstructure:"max_run_time_s"`
	NThreads         int     `mapstructure:"n_threads"`
	RotationAllowed  bool    `mapstructure:"rotation_allowed"`
	RuinFractionMin  float64 `mapstructure:"ruin_fraction_min"`
	RuinFractionMax  float64 `mapstructure:"ruin_fraction_max"`
	CostComparator   string  `mapstructure:"cost_comparator"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// HistoryConfig holds run-history persistence configuration.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"` // sqlite | postgres | mysql
	DSN     string `mapstructure:"dsn"`
}

// TelemetryConfig holds OpenTelemetry tracing configuration.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds object-storage upload configuration for the output
// plan. Currently only Tencent Cloud COS is supported.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Load reads configuration from the specified file path, falling back to
// defaults if no file is present.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("solver")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/g2dcsp-solver")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SOLVER")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.max_run_time_s", 30)
	v.SetDefault("solver.n_threads", 4)
	v.SetDefault("solver.rotation_allowed", true)
	v.SetDefault("solver.ruin_fraction_min", 0.1)
	v.SetDefault("solver.ruin_fraction_max", 0.3)
	v.SetDefault("solver.cost_comparator", string(geometry.MatThenArea))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.dsn", "./solver_history.db")

	v.SetDefault("telemetry.enabled", false)

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.scheme", "https")
	v.SetDefault("storage.domain", "myqcloud.com")
}

// Validate checks the structural invariants a malformed config would
// violate (spec.md §7 "Input malformed" at the config layer).
func (c *Config) Validate() error {
	if c.Solver.NThreads < 1 {
		return fmt.Errorf("solver.n_threads must be at least 1")
	}
	if c.Solver.MaxRunTimeS < 1 {
		return fmt.Errorf("solver.max_run_time_s must be at least 1")
	}
	if c.Solver.RuinFractionMin < 0 || c.Solver.RuinFractionMin > 1 {
		return fmt.Errorf("solver.ruin_fraction_min must be in [0,1]")
	}
	if c.Solver.RuinFractionMax < 0 || c.Solver.RuinFractionMax > 1 {
		return fmt.Errorf("solver.ruin_fraction_max must be in [0,1]")
	}
	if c.Solver.RuinFractionMin > c.Solver.RuinFractionMax {
		return fmt.Errorf("solver.ruin_fraction_min must be <= ruin_fraction_max")
	}
	if _, err := geometry.ComparatorKind(c.Solver.CostComparator).Resolve(); err != nil {
		return fmt.Errorf("solver.cost_comparator: %w", err)
	}
	if c.History.Enabled {
		switch c.History.Driver {
		case "sqlite", "postgres", "mysql":
		default:
			return fmt.Errorf("history.driver must be one of sqlite, postgres, mysql")
		}
	}
	if c.Storage.Enabled {
		if c.Storage.Bucket == "" || c.Storage.Region == "" {
			return fmt.Errorf("storage.bucket and storage.region are required when storage.enabled is true")
		}
		if c.Storage.SecretID == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("storage.secret_id and storage.secret_key are required when storage.enabled is true")
		}
	}
	return nil
}
