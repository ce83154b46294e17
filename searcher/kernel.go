package searcher

import "othello/game"

// Kernel runs depth-limited minimax for one search, one job or one worker call.
// It owns the boards-assessed counter and the exhaustive flag for that scope, so
// kernels are never shared between goroutines.
type Kernel struct {
	limits     Limits
	boards     int
	exhaustive bool
}

func NewKernel(limits Limits) *Kernel {
	return &Kernel{limits: limits, exhaustive: true}
}

// BoardsAssessed counts every non-root node expanded by this kernel.
func (k *Kernel) BoardsAssessed() int {
	return k.boards
}

// Exhaustive is false once any node fell back to the heuristic evaluation.
func (k *Kernel) Exhaustive() bool {
	return k.exhaustive
}

// leaf evaluates b if it ends the search, reporting whether it did.
func (k *Kernel) leaf(b *game.Board, depth int) (int, bool) {
	if b.IsTerminal() {
		return k.EvaluateExact(b), true
	}
	if depth <= 0 || k.boards >= k.limits.MaxBoards {
		return k.EvaluateHeuristic(b), true
	}
	return 0, false
}

// Value is the minimax value of b with player to move.
func (k *Kernel) Value(b *game.Board, player game.Disk, depth int) int {
	if game.IsMaximizer(player) {
		return k.MaxValue(b, player, depth)
	}
	return k.MinValue(b, player, depth)
}

func (k *Kernel) MaxValue(b *game.Board, player game.Disk, depth int) int {
	if v, ok := k.leaf(b, depth); ok {
		return v
	}

	moves := b.LegalMoves(player)
	if len(moves) == 0 {
		// A pass hands the turn over without consuming depth
		return k.MinValue(b, game.Opponent(player), depth)
	}

	value := NegInf
	for _, move := range moves {
		k.boards++
		child := b.Copy()
		child.Play(player, move)
		value = max(value, k.MinValue(child, game.Opponent(player), depth-1))
	}
	return value
}

func (k *Kernel) MinValue(b *game.Board, player game.Disk, depth int) int {
	if v, ok := k.leaf(b, depth); ok {
		return v
	}

	moves := b.LegalMoves(player)
	if len(moves) == 0 {
		return k.MaxValue(b, game.Opponent(player), depth)
	}

	value := PosInf
	for _, move := range moves {
		k.boards++
		child := b.Copy()
		child.Play(player, move)
		value = min(value, k.MaxValue(child, game.Opponent(player), depth-1))
	}
	return value
}

// AlphaBetaValue is Value with alpha-beta pruning inside the (alpha, beta) window.
func (k *Kernel) AlphaBetaValue(alpha, beta int, b *game.Board, player game.Disk, depth int) int {
	if game.IsMaximizer(player) {
		return k.AlphaBetaMaxValue(alpha, beta, b, player, depth)
	}
	return k.AlphaBetaMinValue(alpha, beta, b, player, depth)
}

func (k *Kernel) AlphaBetaMaxValue(alpha, beta int, b *game.Board, player game.Disk, depth int) int {
	if v, ok := k.leaf(b, depth); ok {
		return v
	}

	moves := b.LegalMoves(player)
	if len(moves) == 0 {
		return k.AlphaBetaMinValue(alpha, beta, b, game.Opponent(player), depth)
	}

	value := NegInf
	for _, move := range moves {
		k.boards++
		child := b.Copy()
		child.Play(player, move)
		value = max(value, k.AlphaBetaMinValue(alpha, beta, child, game.Opponent(player), depth-1))
		if value >= beta {
			return value
		}
		alpha = max(alpha, value)
	}
	return value
}

func (k *Kernel) AlphaBetaMinValue(alpha, beta int, b *game.Board, player game.Disk, depth int) int {
	if v, ok := k.leaf(b, depth); ok {
		return v
	}

	moves := b.LegalMoves(player)
	if len(moves) == 0 {
		return k.AlphaBetaMaxValue(alpha, beta, b, game.Opponent(player), depth)
	}

	value := PosInf
	for _, move := range moves {
		k.boards++
		child := b.Copy()
		child.Play(player, move)
		value = min(value, k.AlphaBetaMaxValue(alpha, beta, child, game.Opponent(player), depth-1))
		if value <= alpha {
			return value
		}
		beta = min(beta, value)
	}
	return value
}

// Search returns the value of b for player using the chosen algorithm with a full window.
func (k *Kernel) Search(b *game.Board, player game.Disk, depth int, alphaBeta bool) int {
	if alphaBeta {
		return k.AlphaBetaValue(NegInf, PosInf, b, player, depth)
	}
	return k.Value(b, player, depth)
}
