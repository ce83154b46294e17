package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"othello/config"
	"othello/experiments/metrics"
	"othello/game"
	"othello/master"
	"othello/searcher"
)

func smallConfig(algorithm config.Algorithm, workers int) config.Config {
	cfg := config.Default()
	cfg.Board.Width, cfg.Board.Height = 6, 6
	cfg.Board.White = []string{"c3", "d4"}
	cfg.Board.Black = []string{"c4", "d3"}
	cfg.Search.MaxDepth = 2
	cfg.Distribution.Algorithm = algorithm
	cfg.Distribution.Workers = workers
	return cfg
}

func play(t *testing.T, ctx context.Context, cfg config.Config, options ...Option) (metrics.GameMetric, []metrics.MoveMetric) {
	t.Helper()
	solver, closer, err := LocalSolver(ctx, cfg, master.WithMetrics(metrics.NewCollector()))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, closer())
	}()

	board, err := cfg.NewBoard()
	require.NoError(t, err)
	gameMetric, moveMetrics, err := NewEngine(board, cfg.Search.MaxDepth, solver, options...).Run(ctx)
	require.NoError(t, err)
	return gameMetric, moveMetrics
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	t.Run("plays until nobody can move", func(t *testing.T) {
		gameMetric, moveMetrics := play(t, ctx, smallConfig(config.SerialAlphaBeta, 1))

		require.Equal(t, game.Black.String(), gameMetric.StartingPlayer)
		require.NotEmpty(t, moveMetrics)
		require.Equal(t, game.Black.String(), moveMetrics[0].Player)
		require.LessOrEqual(t, gameMetric.TotalMoves, 36-4)
		require.Positive(t, gameMetric.BoardsAssessed)
		switch {
		case gameMetric.Score > 0:
			require.Equal(t, "BLACK", gameMetric.Winner)
		case gameMetric.Score < 0:
			require.Equal(t, "WHITE", gameMetric.Winner)
		default:
			require.Empty(t, gameMetric.Winner)
		}

		played := 0
		for i, mm := range moveMetrics {
			require.Equal(t, i+1, mm.Step)
			if mm.Move != "" {
				played++
			}
		}
		require.Equal(t, gameMetric.TotalMoves, played)
	})

	t.Run("stops at the turn limit", func(t *testing.T) {
		gameMetric, moveMetrics := play(t, ctx, smallConfig(config.SerialMinimax, 1), WithMaxTurns(3))

		require.Len(t, moveMetrics, 3)
		require.Equal(t, 3, gameMetric.TotalMoves)
		require.Equal(t, []string{"BLACK", "WHITE", "BLACK"}, []string{moveMetrics[0].Player, moveMetrics[1].Player, moveMetrics[2].Player})
	})

	t.Run("distributed games match the serial game", func(t *testing.T) {
		want, wantMoves := play(t, ctx, smallConfig(config.SerialMinimax, 1))

		for _, algorithm := range []config.Algorithm{config.BatchMinimax, config.JobPoolMinimax} {
			got, gotMoves := play(t, ctx, smallConfig(algorithm, 3))

			require.Equal(t, want.Score, got.Score, algorithm)
			require.Equal(t, want.BoardsAssessed, got.BoardsAssessed, algorithm)
			require.Equal(t, len(wantMoves), len(gotMoves), algorithm)
			for i := range wantMoves {
				require.Equal(t, wantMoves[i].Move, gotMoves[i].Move, "%s turn %d", algorithm, i+1)
			}
		}
	})
}

// scriptedSearcher passes on its first turn, then fails.
type scriptedSearcher struct {
	calls int
}

var errSearch = errors.New("search failed")

func (s *scriptedSearcher) Search(ctx context.Context, board *game.Board, player game.Disk, depth int) (searcher.Result, error) {
	s.calls++
	if s.calls == 1 {
		return searcher.Result{Exhaustive: true}, nil
	}
	return searcher.Result{}, errSearch
}

func TestRunPassAndError(t *testing.T) {
	board := game.Standard(8, 8)
	e := NewEngine(board, 2, &scriptedSearcher{})

	_, moveMetrics, err := e.Run(context.Background())

	require.ErrorIs(t, err, errSearch)
	require.Len(t, moveMetrics, 1)
	require.Empty(t, moveMetrics[0].Move)
	require.Equal(t, game.White, e.Player, "A pass still hands the turn over")
	require.Equal(t, game.Standard(8, 8), board)
}
