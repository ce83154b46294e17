package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"othello/config"
	"othello/engine"
	"othello/experiments/metrics"
	"othello/master"
)

// ResultsDir is where experiment runs are written, one directory per run.
const ResultsDir = "experiments"

// Grid pairs every algorithm with every worker count. Serial algorithms only
// run once, on a single worker.
func Grid(cfg config.Config, workerCounts []int) []metrics.RunConfig {
	var configs []metrics.RunConfig
	for _, algorithm := range config.Algorithms {
		counts := workerCounts
		if algorithm.IsSerial() {
			counts = []int{1}
		}
		for _, workers := range counts {
			configs = append(configs, metrics.RunConfig{
				ID:           len(configs) + 1,
				Algorithm:    string(algorithm),
				Workers:      workers,
				Depth:        cfg.Search.MaxDepth,
				Distribution: string(cfg.Distribution.JobDistribution),
			})
		}
	}
	return configs
}

// Run plays one game per grid cell with in-process workers and writes the
// records under root/name. It returns the directory written to.
func Run(ctx context.Context, cfg config.Config, root, name string, workerCounts []int) (string, error) {
	configs := Grid(cfg, workerCounts)
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment with %d configurations...", name, len(configs))
	for i, rc := range configs {
		log.Info().Msgf("starting configuration %d of %d: %s on %d workers", i+1, len(configs), rc.Algorithm, rc.Workers)

		gameMetric, moveMetrics, err := runGame(ctx, cfg, rc)
		if err != nil {
			return "", fmt.Errorf("configuration %d: %w", rc.ID, err)
		}
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         len(gameRecords) + 1,
			Config:     rc.ID,
			GameMetric: gameMetric,
		})
		for _, mm := range moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{
				Game:       len(gameRecords),
				MoveMetric: mm,
			})
		}

		log.Info().Msgf("completed configuration %d of %d with winner: %q", i+1, len(configs), gameMetric.Winner)
	}
	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteRunConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store run configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame plays a full game with the configuration's algorithm and worker count.
func runGame(ctx context.Context, cfg config.Config, rc metrics.RunConfig) (metrics.GameMetric, []metrics.MoveMetric, error) {
	cfg.Distribution.Algorithm = config.Algorithm(rc.Algorithm)
	cfg.Distribution.Workers = rc.Workers

	solver, closer, err := engine.LocalSolver(ctx, cfg, master.WithMetrics(metrics.NewCollector()))
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	defer closer()

	board, err := cfg.NewBoard()
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	e := engine.NewEngine(board, cfg.Search.MaxDepth, solver, engine.WithMaxTurns(cfg.Game.MaxTurns))
	return e.Run(ctx)
}
