package jobs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"othello/game"
	"othello/meta"
	"othello/searcher"
)

// node is a hand-built game tree; leaves carry their value.
type node struct {
	value    int
	children []*node
}

func leaf(v int) *node { return &node{value: v} }

func branch(children ...*node) *node { return &node{children: children} }

func minimax(n *node, player game.Disk) int {
	if len(n.children) == 0 {
		return n.value
	}
	best := searcher.Sentinel(game.IsMaximizer(player))
	for _, c := range n.children {
		v := minimax(c, game.Opponent(player))
		if game.IsMaximizer(player) {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

// flatten registers the tree breadth first, like the splitter does, and
// returns the leaf results a worker would send back.
func flatten(roots []*node, player game.Disk, table *Table) []Completed {
	type queued struct {
		n *node
		j Job
	}
	var pending []queued
	for _, r := range roots {
		j := Job{ID: table.Len(), ParentID: meta.ROOT_PARENT, Player: player}
		table.Placeholder(j)
		pending = append(pending, queued{r, j})
	}

	var results []Completed
	for len(pending) > 0 {
		q := pending[0]
		pending = pending[1:]
		if len(q.n.children) == 0 {
			results = append(results, Completed{ID: q.j.ID, ParentID: q.j.ParentID, Player: q.j.Player, Value: q.n.value, BoardsAssessed: 2, Exhaustive: true})
			continue
		}
		for _, c := range q.n.children {
			j := Job{ID: table.Len(), ParentID: q.j.ID, Player: game.Opponent(q.j.Player), BoardsAssessed: 1}
			table.Placeholder(j)
			pending = append(pending, queued{c, j})
		}
	}
	return results
}

func TestRewind(t *testing.T) {
	t.Run("matches recursive minimax on a depth three tree", func(t *testing.T) {
		roots := []*node{
			branch(
				branch(leaf(3), leaf(12), leaf(8)),
				branch(leaf(2), leaf(4)),
			),
			branch(
				branch(leaf(14), leaf(5)),
				branch(leaf(-2), leaf(1), leaf(6)),
				branch(leaf(9)),
			),
			branch(
				branch(leaf(-7)),
			),
		}
		table := NewTable()
		results := flatten(roots, game.White, table)

		table.Merge(results)
		Rewind(table)

		got := table.Roots()
		require.Len(t, got, 3)
		for i, r := range roots {
			require.Equal(t, minimax(r, game.White), got[i].Value, "root %d", i)
		}
		require.Equal(t, []int{4, 6, -7}, []int{got[0].Value, got[1].Value, got[2].Value})
	})

	t.Run("results may arrive in any order", func(t *testing.T) {
		roots := []*node{branch(branch(leaf(1), leaf(-1)), branch(leaf(5))), branch(leaf(4), leaf(0))}
		ordered, shuffled := NewTable(), NewTable()
		results := flatten(roots, game.Black, ordered)
		flatten(roots, game.Black, shuffled)

		ordered.Merge(results)
		for i := len(results) - 1; i >= 0; i-- {
			shuffled.Merge(results[i : i+1])
		}
		Rewind(ordered)
		Rewind(shuffled)

		require.Equal(t, ordered.Roots(), shuffled.Roots())
	})

	t.Run("boards and exhaustiveness accumulate up the tree", func(t *testing.T) {
		table := NewTable()
		results := flatten([]*node{branch(leaf(1), leaf(2)), leaf(7)}, game.Black, table)
		for i := range results {
			if results[i].ID == 2 {
				results[i].Exhaustive = false
			}
		}

		table.Merge(results)
		Rewind(table)

		roots := table.Roots()
		// Root 0: two children seeded with one board each, each leaf search assessing two.
		require.Equal(t, 2*(1+2), roots[0].BoardsAssessed)
		require.False(t, roots[0].Exhaustive)
		require.Equal(t, 2, roots[1].BoardsAssessed)
		require.True(t, roots[1].Exhaustive)
	})
}

func TestSelectRoots(t *testing.T) {
	moves := []game.Position{{X: 2, Y: 3}, {X: 3, Y: 2}, {X: 4, Y: 5}}
	roots := []Completed{
		{ID: 0, ParentID: meta.ROOT_PARENT, Value: 2, BoardsAssessed: 10, Exhaustive: true},
		{ID: 1, ParentID: meta.ROOT_PARENT, Value: -1, BoardsAssessed: 5, Exhaustive: false},
		{ID: 2, ParentID: meta.ROOT_PARENT, Value: 2, BoardsAssessed: 1, Exhaustive: true},
	}

	black := SelectRoots(roots, moves, game.Black)
	require.Equal(t, []game.Position{moves[0], moves[2]}, black.Moves)
	require.Equal(t, 2, black.Value)
	require.Equal(t, 16, black.BoardsAssessed)
	require.False(t, black.Exhaustive)

	white := SelectRoots(roots, moves, game.White)
	require.Equal(t, []game.Position{moves[1]}, white.Moves)
	require.Equal(t, -1, white.Value)
}

func TestQueueTake(t *testing.T) {
	newQueue := func() *Queue {
		q := NewQueue()
		for i := 0; i < 10; i++ {
			q.Push(Job{ID: i})
		}
		return q
	}
	ids := func(js []Job) []int {
		out := make([]int, len(js))
		for i, j := range js {
			out[i] = j.ID
		}
		return out
	}

	t.Run("sequential takes from the front", func(t *testing.T) {
		q := newQueue()

		require.Equal(t, []int{0, 1, 2}, ids(q.Take(3, nil)))
		require.Equal(t, 7, q.Len())
		require.Len(t, q.Take(20, nil), 7)
		require.Nil(t, q.Take(1, nil))
	})

	t.Run("random picks distinct jobs reproducibly", func(t *testing.T) {
		a, b := newQueue(), newQueue()

		first := ids(a.Take(6, NewRand(42)))
		second := ids(b.Take(6, NewRand(42)))

		require.Equal(t, first, second)
		require.Len(t, first, 6)
		require.Equal(t, 4, a.Len())
		seen := map[int]bool{}
		for _, id := range append(first, ids(a.Take(4, nil))...) {
			require.False(t, seen[id], "job %d taken twice", id)
			seen[id] = true
		}
		require.Len(t, seen, 10)
	})
}
