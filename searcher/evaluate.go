package searcher

import "othello/game"

// EvaluateExact scores a finished board: black disks minus white disks.
func (k *Kernel) EvaluateExact(b *game.Board) int {
	return b.Count(game.Black) - b.Count(game.White)
}

// EvaluateHeuristic scores a board the search could not finish, weighting
// corners and edges. Using it marks the search as not exhaustive.
func (k *Kernel) EvaluateHeuristic(b *game.Board) int {
	k.exhaustive = false

	score := 0
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			weight := k.weight(b, x, y)
			switch b.Get(game.Position{X: x, Y: y}) {
			case game.Black:
				score += weight
			case game.White:
				score -= weight
			}
		}
	}
	return score
}

func (k *Kernel) weight(b *game.Board, x, y int) int {
	xEdge := x == 0 || x == b.Width-1
	yEdge := y == 0 || y == b.Height-1
	switch {
	case xEdge && yEdge:
		return k.limits.CornerValue
	case xEdge || yEdge:
		return k.limits.EdgeValue
	default:
		return 1
	}
}
