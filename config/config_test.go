package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("should parse yaml values", func(t *testing.T) {
		path := writeConfig(t, `
simulation:
  initial_capital: 500000
  workers: 4
  symbols: [AAPL, MSFT]
  start_date: "2020-01-01"
  end_date: "2023-12-31"
wfo:
  train_days: 126
database:
  url: postgres://localhost/market
log:
  level: debug
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Simulation.InitialCapital != 500_000 || cfg.Simulation.Workers != 4 {
			t.Errorf("simulation = %+v", cfg.Simulation)
		}
		if len(cfg.Simulation.Symbols) != 2 {
			t.Errorf("Symbols = %v, want 2 entries", cfg.Simulation.Symbols)
		}
		if cfg.WFO.TrainDays != 126 {
			t.Errorf("TrainDays = %d, want 126", cfg.WFO.TrainDays)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Level = %q, want debug", cfg.Log.Level)
		}
	})

	t.Run("should apply defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "{}"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Simulation.InitialCapital != 10_000_000 {
			t.Errorf("InitialCapital = %v, want 10000000", cfg.Simulation.InitialCapital)
		}
		if cfg.Simulation.Workers != 8 {
			t.Errorf("Workers = %d, want 8", cfg.Simulation.Workers)
		}
		if cfg.WFO.TrainDays != 252 || cfg.WFO.TestDays != 63 || cfg.WFO.StepDays != 21 {
			t.Errorf("wfo = %+v, want 252/63/21", cfg.WFO)
		}
		if cfg.Storage.DSN != "stocksim.db" || cfg.Log.Level != "info" || cfg.Log.Format != "text" {
			t.Errorf("defaults = %+v / %+v", cfg.Storage, cfg.Log)
		}
	})

	t.Run("should let environment override yaml", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://override/market")
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := Load(writeConfig(t, `
database:
  url: postgres://yaml/market
log:
  level: debug
`))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Database.URL != "postgres://override/market" {
			t.Errorf("URL = %q, want env override", cfg.Database.URL)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Level = %q, want warn", cfg.Log.Level)
		}
	})

	t.Run("should fail on missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("Load() error = nil, want error")
		}
	})
}
