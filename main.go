package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"othello/config"
	"othello/engine"
	"othello/experiments"
	"othello/experiments/metrics"
	"othello/master"
)

const usage = `usage: othello <command> [flags]

commands:
  local       play a game with in-process workers
  master      play a game with remote workers
  worker      serve a master as a remote worker
  experiment  time every algorithm over a range of worker counts
`

type options struct {
	configPath   string
	algorithm    string
	workers      int
	depth        int
	logLevel     string
	profile      string
	listen       string
	master       string
	name         string
	workerCounts string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	var opts options
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.algorithm, "algorithm", "", "SERIAL_MINIMAX, SERIAL_ALPHABETA, BATCH_MINIMAX, BATCH_ALPHABETA, JOBPOOL_MINIMAX or JOBPOOL_ALPHABETA")
	fs.IntVar(&opts.workers, "workers", 0, "processes taking part in a search, master included")
	fs.IntVar(&opts.depth, "depth", 0, "search depth")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&opts.profile, "profile", "", "write a cpu or mem profile")
	fs.StringVar(&opts.listen, "listen", ":8080", "master: address workers connect to")
	fs.StringVar(&opts.master, "master", "ws://localhost:8080/worker", "worker: master endpoint")
	fs.StringVar(&opts.name, "name", "scaling", "experiment: name of the results directory")
	fs.StringVar(&opts.workerCounts, "worker-counts", "1,2,4", "experiment: comma separated worker counts")
	fs.Parse(os.Args[2:])

	if err := run(command, opts); err != nil {
		log.Fatal().Err(err).Msgf("%s failed", command)
	}
}

func run(command string, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		return err
	}

	switch opts.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile).Stop()
	default:
		return fmt.Errorf("unknown profile %q", opts.profile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case "local":
		log.Info().Msgf("config: %s", cfg)
		solver, closer, err := engine.LocalSolver(ctx, cfg, master.WithMetrics(metrics.NewCollector()))
		if err != nil {
			return err
		}
		return playGame(ctx, cfg, solver, closer)
	case "master":
		log.Info().Msgf("config: %s", cfg)
		solver, closer, err := engine.RemoteSolver(ctx, cfg, opts.listen, master.WithMetrics(metrics.NewCollector()))
		if err != nil {
			return err
		}
		return playGame(ctx, cfg, solver, closer)
	case "worker":
		return engine.RunWorker(ctx, opts.master, cfg.Distribution.Compress)
	case "experiment":
		counts, err := parseCounts(opts.workerCounts)
		if err != nil {
			return err
		}
		_, err = experiments.Run(ctx, cfg, experiments.ResultsDir, opts.name, counts)
		return err
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func playGame(ctx context.Context, cfg config.Config, solver *master.Solver, closer func() error) error {
	defer func() {
		if err := closer(); err != nil {
			log.Error().Err(err).Msg("Shutting down workers")
		}
	}()

	board, err := cfg.NewBoard()
	if err != nil {
		return err
	}
	_, _, err = engine.NewEngine(board, cfg.Search.MaxDepth, solver, engine.WithMaxTurns(cfg.Game.MaxTurns)).Run(ctx)
	return err
}

// loadConfig reads the configuration file, if any, and applies flag overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	if opts.algorithm != "" {
		algorithm, err := config.ParseAlgorithm(opts.algorithm)
		if err != nil {
			return cfg, err
		}
		cfg.Distribution.Algorithm = algorithm
	}
	if opts.workers > 0 {
		cfg.Distribution.Workers = opts.workers
	}
	if opts.depth > 0 {
		cfg.Search.MaxDepth = opts.depth
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func setupLogging(level string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if level == "" {
		level = "info"
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

func parseCounts(s string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid worker count %q", field)
		}
		counts = append(counts, n)
	}
	return counts, nil
}
