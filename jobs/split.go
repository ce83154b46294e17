package jobs

import (
	"github.com/rs/zerolog/log"

	"othello/game"
	"othello/meta"
	"othello/searcher"
)

// Initialize creates one root job per legal move of player, in legal-move order,
// along with the matching placeholders. Root job ids start at 0.
func Initialize(board *game.Board, player game.Disk, depth int, limits searcher.Limits) (*Queue, *Table) {
	queue, table := NewQueue(), NewTable()
	for i, move := range board.LegalMoves(player) {
		child := board.Copy()
		child.Play(player, move)
		j := Job{
			ID:       i,
			ParentID: meta.ROOT_PARENT,
			Player:   game.Opponent(player),
			Depth:    depth - 1,
			Limits:   limits,
			Board:    child,
		}
		queue.Push(j)
		table.Placeholder(j)
	}
	return queue, table
}

// Target is the queue size splitting aims for.
func Target(workers, jobsPerWorker int) int {
	return min(meta.MAX_JOBS_PER_WORKER, jobsPerWorker) * workers
}

// Split expands jobs from the front of the queue until it holds at least
// target jobs or nothing is left to expand. Jobs that need no search are
// resolved in the table instead of being requeued.
func Split(queue *Queue, table *Table, target int) {
	for queue.Len() > 0 && queue.Len() < target {
		j, _ := queue.PopFront()
		expand(queue, table, j)
	}
	log.Debug().Int("jobs", queue.Len()).Int("created", table.Len()).Msgf("Split to target %d", target)
}

func expand(queue *Queue, table *Table, j Job) {
	if j.Board.IsTerminal() {
		k := searcher.NewKernel(j.Limits)
		table.Resolve(j.ID, k.EvaluateExact(j.Board), true)
		return
	}
	if j.Depth <= 0 {
		k := searcher.NewKernel(j.Limits)
		table.Resolve(j.ID, k.EvaluateHeuristic(j.Board), k.Exhaustive())
		return
	}

	moves := j.Board.LegalMoves(j.Player)
	if len(moves) == 0 {
		// The mover passes: same board and depth, nothing new assessed
		push(queue, table, Job{
			ParentID: j.ID,
			Player:   game.Opponent(j.Player),
			Depth:    j.Depth,
			Limits:   j.Limits,
			Board:    j.Board,
		})
		return
	}

	for _, move := range moves {
		child := j.Board.Copy()
		child.Play(j.Player, move)
		push(queue, table, Job{
			ParentID:       j.ID,
			Player:         game.Opponent(j.Player),
			Depth:          j.Depth - 1,
			BoardsAssessed: 1,
			Limits:         j.Limits,
			Board:          child,
		})
	}
}

func push(queue *Queue, table *Table, j Job) {
	j.ID = table.Len()
	table.Placeholder(j)
	queue.Push(j)
}
