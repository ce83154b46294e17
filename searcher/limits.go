package searcher

import "math"

// Infinities used as sentinels and as the initial alpha-beta window.
const (
	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// Limits is the immutable per-run search configuration.
type Limits struct {
	Width       int
	Height      int
	MaxBoards   int // Boards assessed before deeper nodes fall back to the heuristic
	CornerValue int
	EdgeValue   int
}

// Sentinel is the value a result slot holds before any child is folded into it:
// the worst possible value for the player to move.
func Sentinel(maximizer bool) int {
	if maximizer {
		return NegInf
	}
	return PosInf
}
