package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stocksim/config"
	"stocksim/internal/engine"
	"stocksim/internal/optimizer"
	"stocksim/internal/repository"
	"stocksim/internal/storage"
	"stocksim/strategies/longterm"
	"stocksim/strategies/swing"
)

const dateLayout = "2006-01-02"

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	mode := flag.String("mode", "backtest", "run mode: backtest|parallel|wfo")
	strategy := flag.String("strategy", "swing", "strategy: swing|longterm|all")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Error().Err(err).Str("path", *configPath).Msg("failed to load config")
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	log := setupLogger(cfg.Log)

	start, err := time.Parse(dateLayout, cfg.Simulation.StartDate)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid start_date")
	}
	end, err := time.Parse(dateLayout, cfg.Simulation.EndDate)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid end_date")
	}

	rules, err := selectStrategies(*strategy)
	if err != nil {
		log.Fatal().Err(err).Msg("unknown strategy")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := repository.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to market-data store")
	}
	defer db.Close()

	store, err := storage.NewStore(cfg.Storage.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.Storage.DSN).Msg("failed to open results store")
	}
	defer store.Close()

	engineCfg := engine.Config{
		InitialCapital: decimal.NewFromFloat(cfg.Simulation.InitialCapital),
		Workers:        cfg.Simulation.Workers,
	}
	symbols := cfg.Simulation.Symbols

	switch *mode {
	case "backtest", "parallel":
		for _, rs := range rules {
			eng := engine.NewEngine(db, rs, engineCfg, log)

			run := eng.Run
			if *mode == "parallel" {
				run = eng.RunParallel
			}
			result, err := run(ctx, symbols, start, end)
			if err != nil {
				log.Error().Err(err).Str("strategy", rs.Name()).Msg("run failed")
				continue
			}

			id, err := store.SaveRun(ctx, result)
			if err != nil {
				log.Warn().Err(err).Msg("result not persisted")
			} else {
				log.Info().Str("runId", id).Msg("result persisted")
			}
			printResult(os.Stdout, result)
		}

	case "wfo":
		wfoCfg := optimizer.Config{
			TrainDays:    cfg.WFO.TrainDays,
			TestDays:     cfg.WFO.TestDays,
			StepDays:     cfg.WFO.StepDays,
			ShowProgress: len(rules) == 1,
		}
		if len(rules) == 1 {
			opt := optimizer.New(db, rules[0], engineCfg, wfoCfg, log)
			result, err := opt.Run(ctx, symbols, start, end)
			if err != nil {
				log.Fatal().Err(err).Msg("optimization failed")
			}
			printWFOResult(os.Stdout, result)
			break
		}
		results := optimizer.RunStrategies(ctx, db, rules, engineCfg, wfoCfg, log, symbols, start, end)
		for _, rs := range rules {
			if result, ok := results[rs.Name()]; ok {
				printWFOResult(os.Stdout, result)
			}
		}

	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func selectStrategies(name string) ([]engine.RuleSet, error) {
	switch name {
	case "swing":
		return []engine.RuleSet{swing.New()}, nil
	case "longterm":
		return []engine.RuleSet{longterm.New()}, nil
	case "all":
		return []engine.RuleSet{swing.New(), longterm.New()}, nil
	}
	return nil, fmt.Errorf("no strategy named %q", name)
}

func setupLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.Format == "json" {
		log = zerolog.New(os.Stderr)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return log.Level(level).With().Timestamp().Logger()
}
