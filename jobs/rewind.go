package jobs

import (
	"github.com/rs/zerolog/log"

	"othello/game"
	"othello/meta"
	"othello/searcher"
)

// Rewind folds every entry into its parent, newest first. A parent is always
// created before its children, so each child is final by the time it is folded.
func Rewind(table *Table) {
	for id := table.Len() - 1; id >= 0; id-- {
		child := table.entries[id]
		if child.ParentID == meta.ROOT_PARENT {
			continue
		}

		parent := &table.entries[child.ParentID]
		if game.IsMaximizer(parent.Player) {
			parent.Value = max(parent.Value, child.Value)
		} else {
			parent.Value = min(parent.Value, child.Value)
		}
		parent.BoardsAssessed += child.BoardsAssessed
		parent.Exhaustive = parent.Exhaustive && child.Exhaustive
	}
	log.Debug().Msgf("Rewound %d jobs", table.Len())
}

// SelectRoots picks the best root moves for player. roots and moves are
// parallel: root i is the job created from moves[i].
func SelectRoots(roots []Completed, moves []game.Position, player game.Disk) searcher.Result {
	if len(roots) != len(moves) {
		panic("root results do not match the legal moves")
	}

	selector := searcher.NewSelector(player)
	result := searcher.Result{Exhaustive: true}
	for i, root := range roots {
		selector.Offer(moves[i], root.Value)
		result.BoardsAssessed += root.BoardsAssessed
		result.Exhaustive = result.Exhaustive && root.Exhaustive
	}
	result.Moves = selector.Moves()
	result.Value = selector.Value()
	return result
}
