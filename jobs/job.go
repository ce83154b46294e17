package jobs

import (
	"fmt"

	"othello/game"
	"othello/searcher"
)

// Job is one unit of distributable search work: evaluate Board for Player with
// Depth plies left. Once dispatched the receiver owns Board exclusively.
type Job struct {
	ID             int
	ParentID       int // meta.ROOT_PARENT for a root move
	Player         game.Disk
	Depth          int
	BoardsAssessed int // Nodes this job accounts for before it is searched
	Limits         searcher.Limits
	Board          *game.Board
}

func (j Job) String() string {
	return fmt.Sprintf("job %d (parent %d, %s, depth %d)", j.ID, j.ParentID, j.Player, j.Depth)
}

// Completed is the result of a job, or the running value of a job whose
// children are still being folded into it.
type Completed struct {
	ID             int
	ParentID       int
	Player         game.Disk
	Value          int
	BoardsAssessed int
	Exhaustive     bool
}

// placeholder is the waiting entry for j before any result for it is known.
func placeholder(j Job) Completed {
	return Completed{
		ID:             j.ID,
		ParentID:       j.ParentID,
		Player:         j.Player,
		Value:          searcher.Sentinel(game.IsMaximizer(j.Player)),
		BoardsAssessed: j.BoardsAssessed,
		Exhaustive:     true,
	}
}
