package searcher

import (
	"othello/experiments/metrics"
	"othello/game"
)

type Option func(s *serial)

type serial struct {
	alphaBeta bool
	metrics   metrics.Collector
}

// WithAlphaBeta prunes the search with alpha-beta.
func WithAlphaBeta(enabled bool) Option {
	return func(s *serial) {
		s.alphaBeta = enabled
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *serial) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// Serial searches every root move of board for player on the calling goroutine.
// One kernel is shared by all root moves, so the board budget is global to the call.
func Serial(board *game.Board, player game.Disk, depth int, limits Limits, options ...Option) Result {
	s := &serial{metrics: metrics.NewDummyCollector()}
	for _, option := range options {
		option(s)
	}

	moves := board.LegalMoves(player)
	if result, ok := Shortcut(moves); ok {
		return result
	}

	s.metrics.Start(1, depth)
	s.metrics.SetJobs(len(moves), len(moves))

	kernel := NewKernel(limits)
	selector := NewSelector(player)
	stop := s.metrics.Time(metrics.Computation)
	for _, move := range moves {
		child := board.Copy()
		child.Play(player, move)
		selector.Offer(move, kernel.Search(child, game.Opponent(player), depth-1, s.alphaBeta))
	}
	stop()

	return Result{
		Moves:          selector.Moves(),
		Value:          selector.Value(),
		BoardsAssessed: kernel.BoardsAssessed(),
		Exhaustive:     kernel.Exhaustive(),
		Metrics:        s.metrics.Complete(kernel.BoardsAssessed(), kernel.Exhaustive()),
	}
}
