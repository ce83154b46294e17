package master

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"othello/communication"
	"othello/config"
	"othello/experiments/metrics"
	"othello/game"
	"othello/jobs"
	"othello/searcher"
)

// Solver picks moves with one of the configured algorithms. Distributed
// algorithms run on the master plus every worker behind the hub.
type Solver struct {
	algorithm     config.Algorithm
	limits        searcher.Limits
	jobsPerWorker int
	hub           communication.Hub
	scheduler     Scheduler
	metrics       metrics.Collector
}

type Option func(*Solver)

func WithMetrics(collector metrics.Collector) Option {
	return func(s *Solver) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// NewSolver builds a solver for dist.Algorithm. hub may be nil, in which case
// distributed algorithms run every job on the master.
func NewSolver(dist config.DistributionConfig, limits searcher.Limits, hub communication.Hub, options ...Option) *Solver {
	s := &Solver{
		algorithm:     dist.Algorithm,
		limits:        limits,
		jobsPerWorker: dist.JobsPerWorker,
		hub:           hub,
		metrics:       metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}

	switch {
	case s.algorithm.IsBatch():
		s.scheduler = NewBatch(hub, distributionRand(dist), s.metrics)
	case s.algorithm.IsJobPool():
		s.scheduler = NewPool(hub, dist.SendSize, s.metrics)
	}
	return s
}

// distributionRand returns the generator for random batch shares, or nil for
// sequential ones.
func distributionRand(dist config.DistributionConfig) *rand.Rand {
	if dist.JobDistribution == config.Random {
		return jobs.NewRand(dist.Seed)
	}
	return nil
}

func (s *Solver) Algorithm() config.Algorithm {
	return s.algorithm
}

// Workers is the number of processes a distributed search runs on, master included.
func (s *Solver) Workers() int {
	return remote(s.hub) + 1
}

// Search returns every best move for player on board. An empty move set means
// player has to pass.
func (s *Solver) Search(ctx context.Context, board *game.Board, player game.Disk, depth int) (searcher.Result, error) {
	if s.algorithm.IsSerial() {
		result := searcher.Serial(board, player, depth, s.limits,
			searcher.WithAlphaBeta(s.algorithm.AlphaBeta()), searcher.WithMetrics(s.metrics))
		s.report(player, result)
		return result, nil
	}

	moves := board.LegalMoves(player)
	if result, ok := searcher.Shortcut(moves); ok {
		return result, nil
	}

	workers := s.Workers()
	s.metrics.Start(workers, depth)

	stop := s.metrics.Time(metrics.Setup)
	queue, table := jobs.Initialize(board, player, depth, s.limits)
	before := queue.Len()
	jobs.Split(queue, table, jobs.Target(workers, s.jobsPerWorker))
	s.metrics.SetJobs(before, queue.Len())
	stop()
	log.Debug().Int("roots", before).Int("jobs", queue.Len()).Int("workers", workers).Msgf("Distributing with %s", s.algorithm)

	if err := s.scheduler.Distribute(ctx, queue, table, s.algorithm.AlphaBeta()); err != nil {
		return searcher.Result{}, err
	}

	stop = s.metrics.Time(metrics.Collate)
	jobs.Rewind(table)
	result := jobs.SelectRoots(table.Roots(), moves, player)
	stop()
	result.Metrics = s.metrics.Complete(result.BoardsAssessed, result.Exhaustive)

	s.report(player, result)
	return result, nil
}

func (s *Solver) report(player game.Disk, result searcher.Result) {
	log.Info().
		Str("algorithm", string(s.algorithm)).
		Strs("moves", lo.Map(result.Moves, func(p game.Position, _ int) string { return p.String() })).
		Int("value", result.Value).
		Int("boards", result.BoardsAssessed).
		Bool("exhaustive", result.Exhaustive).
		Dur("took", result.Metrics.Duration).
		Msgf("%s searched", player)
}

// Close tells the workers to exit. The hub itself belongs to the caller.
func (s *Solver) Close(ctx context.Context) error {
	return Shutdown(ctx, s.hub)
}
