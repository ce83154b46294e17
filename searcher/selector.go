package searcher

import "othello/game"

// Selector tracks the best value seen among root moves and every move tied on it.
type Selector struct {
	maximizer bool
	best      int
	moves     []game.Position
	seen      bool
}

func NewSelector(player game.Disk) *Selector {
	return &Selector{maximizer: game.IsMaximizer(player), best: Sentinel(game.IsMaximizer(player))}
}

// Offer records a root move with its value. A strictly better value resets the
// tie set; an equal one joins it.
func (s *Selector) Offer(move game.Position, value int) {
	better := value > s.best
	if !s.maximizer {
		better = value < s.best
	}
	switch {
	case !s.seen || better:
		s.best = value
		s.moves = []game.Position{move}
		s.seen = true
	case value == s.best:
		s.moves = append(s.moves, move)
	}
}

func (s *Selector) Moves() []game.Position {
	return s.moves
}

func (s *Selector) Value() int {
	return s.best
}
