package searcher

import (
	"othello/experiments/metrics"
	"othello/game"
)

// Result is the outcome of one search call.
type Result struct {
	Moves          []game.Position // Every move tied on the best value, in legal-move order
	Value          int             // Best value; meaningless when Forced or when Moves is empty
	Forced         bool            // Exactly one legal move, returned without searching
	BoardsAssessed int
	Exhaustive     bool // False if any node was scored by the heuristic
	Metrics        metrics.SearchMetric
}

// Pass reports whether the player to move has no legal move and must pass.
func (r Result) Pass() bool {
	return len(r.Moves) == 0
}

// Shortcut handles the positions that need no search: no legal move (pass) or
// exactly one. ok is false when a real search is required.
func Shortcut(moves []game.Position) (Result, bool) {
	switch len(moves) {
	case 0:
		return Result{Exhaustive: true}, true
	case 1:
		return Result{Moves: moves, Forced: true, Exhaustive: true}, true
	default:
		return Result{}, false
	}
}
