package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
)

// Searcher picks the best moves for the player to move.
type Searcher interface {
	Search(ctx context.Context, board *game.Board, player game.Disk, depth int) (searcher.Result, error)
}

// Engine plays a whole game, asking the searcher for every move of both players.
type Engine struct {
	Board    *game.Board
	Player   game.Disk // To move next
	Depth    int
	MaxTurns int // 0 plays until the game is over

	searcher Searcher
}

type Option func(*Engine)

func WithMaxTurns(turns int) Option {
	return func(e *Engine) {
		e.MaxTurns = turns
	}
}

func WithStartingPlayer(player game.Disk) Option {
	return func(e *Engine) {
		e.Player = player
	}
}

// NewEngine plays from board, which it takes ownership of. Black moves first
// unless told otherwise.
func NewEngine(board *game.Board, depth int, s Searcher, options ...Option) *Engine {
	e := &Engine{
		Board:    board,
		Player:   game.Black,
		Depth:    depth,
		searcher: s,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run plays until neither player can move or the turn limit is reached. Each
// turn plays the first of the tied best moves, or passes.
func (e *Engine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.Player.String(),
		StartTime:      time.Now(),
		Exhaustive:     true,
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s is starting", e.Player)
	for turn := 1; !e.Board.IsTerminal() && (e.MaxTurns == 0 || turn <= e.MaxTurns); turn++ {
		log.Debug().Msgf("Turn %d\n%s", turn, e.Board.Render(e.Player))

		result, err := e.searcher.Search(ctx, e.Board, e.Player, e.Depth)
		if err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("turn %d: %w", turn, err)
		}

		mm := metrics.MoveMetric{Step: turn, Player: e.Player.String(), SearchMetric: result.Metrics}
		if result.Pass() {
			log.Info().Msgf("%s passes", e.Player)
		} else {
			move := result.Moves[0]
			e.Board.Play(e.Player, move)
			mm.Move = move.String()
			gameMetric.TotalMoves++
		}
		moveMetrics = append(moveMetrics, mm)
		gameMetric.BoardsAssessed += result.BoardsAssessed
		gameMetric.Exhaustive = gameMetric.Exhaustive && result.Exhaustive

		e.Player = game.Opponent(e.Player)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Score = e.Board.Count(game.Black) - e.Board.Count(game.White)
	switch {
	case gameMetric.Score > 0:
		gameMetric.Winner = game.Black.String()
	case gameMetric.Score < 0:
		gameMetric.Winner = game.White.String()
	}

	log.Info().
		Str("winner", gameMetric.Winner).
		Int("score", gameMetric.Score).
		Int("boards", gameMetric.BoardsAssessed).
		Bool("exhaustive", gameMetric.Exhaustive).
		Dur("took", gameMetric.Duration).
		Msgf("Game over after %d moves\n%s", gameMetric.TotalMoves, e.Board)
	return gameMetric, moveMetrics, nil
}
