package master

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"othello/communication"
	"othello/communication/local"
	"othello/communication/wire"
	"othello/config"
	"othello/experiments/metrics"
	"othello/game"
	"othello/jobs"
	"othello/meta"
	"othello/searcher"
	"othello/worker"
)

var limits = searcher.Limits{Width: 8, Height: 8, MaxBoards: meta.UNLIMITED_BOARDS, CornerValue: 4, EdgeValue: 2}

func distribution(algorithm config.Algorithm) config.DistributionConfig {
	return config.DistributionConfig{
		Algorithm:       algorithm,
		JobDistribution: config.Sequential,
		JobsPerWorker:   meta.JOBS_PER_WORKER,
		SendSize:        meta.SEND_SIZE,
	}
}

// cluster starts workers-1 in-process workers; the master is the remaining process.
func cluster(t *testing.T, workers int) *local.Hub {
	t.Helper()
	codec, err := wire.NewCodec(workers%2 == 0)
	require.NoError(t, err)

	ctx := context.Background()
	hub := local.NewHub(workers-1, codec)
	hub.Start(ctx, func(ctx context.Context, rank int, link communication.Link) error {
		return worker.NewWorker(rank, link).Run(ctx)
	})
	t.Cleanup(func() {
		require.NoError(t, Shutdown(ctx, hub))
		require.NoError(t, hub.Close())
		codec.Close()
	})
	return hub
}

func TestDistributedMatchesSerial(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	board := game.Standard(8, 8)
	const depth = 4
	serial := map[bool]searcher.Result{
		false: searcher.Serial(board, game.Black, depth, limits),
		true:  searcher.Serial(board, game.Black, depth, limits, searcher.WithAlphaBeta(true)),
	}
	require.NotEmpty(t, serial[false].Moves)

	for workers := 1; workers <= 4; workers++ {
		hub := cluster(t, workers)
		for _, algorithm := range []config.Algorithm{config.BatchMinimax, config.BatchAlphaBeta, config.JobPoolMinimax, config.JobPoolAlphaBeta} {
			solver := NewSolver(distribution(algorithm), limits, hub)
			require.Equal(t, workers, solver.Workers())

			got, err := solver.Search(ctx, board, game.Black, depth)
			require.NoError(t, err)

			want := serial[algorithm.AlphaBeta()]
			require.Equal(t, want.Moves, got.Moves, "%s on %d workers", algorithm, workers)
			require.Equal(t, want.Value, got.Value, "%s on %d workers", algorithm, workers)
			require.Equal(t, want.Exhaustive, got.Exhaustive)
			if !algorithm.AlphaBeta() {
				require.Equal(t, want.BoardsAssessed, got.BoardsAssessed, "%s on %d workers", algorithm, workers)
			}
		}
	}
}

func TestSearchVariants(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	hub := cluster(t, 3)
	board := game.Standard(6, 6)
	board.Play(game.Black, game.MustParsePosition("c2"))
	want := searcher.Serial(board, game.White, 4, limits)

	t.Run("random batch shares", func(t *testing.T) {
		dist := distribution(config.BatchMinimax)
		dist.JobDistribution = config.Random
		dist.Seed = 7

		got, err := NewSolver(dist, limits, hub).Search(ctx, board, game.White, 4)

		require.NoError(t, err)
		require.Equal(t, want.Moves, got.Moves)
		require.Equal(t, want.BoardsAssessed, got.BoardsAssessed)
	})

	t.Run("single-job pool requests", func(t *testing.T) {
		dist := distribution(config.JobPoolMinimax)
		dist.SendSize = 1
		dist.JobsPerWorker = 50

		got, err := NewSolver(dist, limits, hub).Search(ctx, board, game.White, 4)

		require.NoError(t, err)
		require.Equal(t, want.Moves, got.Moves)
		require.Equal(t, want.Value, got.Value)
	})

	t.Run("serial algorithms ignore the hub", func(t *testing.T) {
		got, err := NewSolver(distribution(config.SerialMinimax), limits, hub).Search(ctx, board, game.White, 4)

		require.NoError(t, err)
		require.Equal(t, want.Moves, got.Moves)
		require.Equal(t, want.BoardsAssessed, got.BoardsAssessed)
	})

	t.Run("repeated searches on the same workers", func(t *testing.T) {
		solver := NewSolver(distribution(config.JobPoolAlphaBeta), limits, hub)
		for i := 0; i < 3; i++ {
			got, err := solver.Search(ctx, board, game.White, 4)
			require.NoError(t, err)
			require.Equal(t, want.Moves, got.Moves)
		}
	})

	t.Run("no hub runs every job on the master", func(t *testing.T) {
		for _, algorithm := range []config.Algorithm{config.BatchMinimax, config.JobPoolMinimax} {
			got, err := NewSolver(distribution(algorithm), limits, nil).Search(ctx, board, game.White, 4)

			require.NoError(t, err)
			require.Equal(t, want.Moves, got.Moves)
			require.Equal(t, want.BoardsAssessed, got.BoardsAssessed)
		}
	})
}

func TestSearchMetrics(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	hub := cluster(t, 2)

	dist := distribution(config.BatchMinimax)
	dist.JobsPerWorker = 5
	got, err := NewSolver(dist, limits, hub, WithMetrics(metrics.NewCollector())).Search(ctx, game.Standard(8, 8), game.Black, 3)
	require.NoError(t, err)

	m := got.Metrics
	require.Equal(t, 2, m.Workers)
	require.Equal(t, 3, m.Depth)
	require.Equal(t, 4, m.JobsBeforeSplit)
	require.GreaterOrEqual(t, m.JobsAfterSplit, jobs.Target(2, 5))
	require.Equal(t, got.BoardsAssessed, m.BoardsAssessed)
	require.Positive(t, m.Duration)
}

// refusingHub fails every call, proving a search never touched the transport.
type refusingHub struct{}

var errRefused = errors.New("refused")

func (refusingHub) Workers() int { return 3 }
func (refusingHub) Send(ctx context.Context, to int, msg communication.Message) error {
	return errRefused
}
func (refusingHub) Receive(ctx context.Context) (int, communication.Message, error) {
	return 0, communication.Message{}, errRefused
}
func (refusingHub) Close() error { return nil }

func TestSearchShortcuts(t *testing.T) {
	ctx := context.Background()

	for _, algorithm := range []config.Algorithm{config.BatchAlphaBeta, config.JobPoolMinimax} {
		solver := NewSolver(distribution(algorithm), limits, refusingHub{})

		t.Run("nobody can move", func(t *testing.T) {
			b := game.NewBoard(4, 4)
			b.Init(nil, []game.Position{{X: 1, Y: 1}})

			got, err := solver.Search(ctx, b, game.White, 4)

			require.NoError(t, err)
			require.True(t, got.Pass())
		})

		t.Run("only one move", func(t *testing.T) {
			b := game.NewBoard(3, 3)
			b.Init([]game.Position{{X: 0, Y: 1}}, []game.Position{{X: 0, Y: 0}})

			got, err := solver.Search(ctx, b, game.Black, 4)

			require.NoError(t, err)
			require.Equal(t, []game.Position{{X: 0, Y: 2}}, got.Moves)
			require.True(t, got.Forced)
		})

		t.Run("transport failures surface", func(t *testing.T) {
			_, err := solver.Search(ctx, game.Standard(8, 8), game.Black, 3)

			require.ErrorIs(t, err, errRefused)
		})
	}
}
