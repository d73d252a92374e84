package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of the simulator.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	WFO        WFOConfig        `yaml:"wfo"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig controls the backtest engine.
type SimulationConfig struct {
	InitialCapital float64  `yaml:"initial_capital"`
	Workers        int      `yaml:"workers"`
	Symbols        []string `yaml:"symbols"`
	StartDate      string   `yaml:"start_date"` // 2006-01-02
	EndDate        string   `yaml:"end_date"`
}

// WFOConfig controls the walk-forward window geometry.
type WFOConfig struct {
	TrainDays int `yaml:"train_days"`
	TestDays  int `yaml:"test_days"`
	StepDays  int `yaml:"step_days"`
}

// DatabaseConfig points at the market-data store.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// StorageConfig controls where run results are persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // sqlite file path, or ":memory:"
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config file and the .env file if present. Environment
// values override the YAML for the keys they cover.
func Load(path string) (*Config, error) {
	// Load .env if present (missing file is not an error)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Simulation.InitialCapital <= 0 {
		cfg.Simulation.InitialCapital = 10_000_000
	}
	if cfg.Simulation.Workers <= 0 {
		cfg.Simulation.Workers = 8
	}
	if cfg.WFO.TrainDays <= 0 {
		cfg.WFO.TrainDays = 252
	}
	if cfg.WFO.TestDays <= 0 {
		cfg.WFO.TestDays = 63
	}
	if cfg.WFO.StepDays <= 0 {
		cfg.WFO.StepDays = 21
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "stocksim.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
