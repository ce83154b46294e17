package jobs

import (
	"fmt"

	"othello/meta"
)

// Table is the waiting-results table, indexed by job id. It holds one entry per
// job created during a search.
type Table struct {
	entries []Completed
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Placeholder registers j with its sentinel value. Ids must be registered in
// creation order.
func (t *Table) Placeholder(j Job) {
	if j.ID != len(t.entries) {
		panic(fmt.Sprintf("job %d registered out of order, expected id %d", j.ID, len(t.entries)))
	}
	t.entries = append(t.entries, placeholder(j))
}

// Get returns the current entry for id.
func (t *Table) Get(id int) Completed {
	return t.entries[id]
}

// Resolve stores the final value of a job that was not dispatched.
func (t *Table) Resolve(id, value int, exhaustive bool) {
	t.entries[id].Value = value
	t.entries[id].Exhaustive = exhaustive
}

// Merge stores results returned by a worker. A result replaces the
// placeholder's value and adds the boards its search assessed.
func (t *Table) Merge(results []Completed) {
	for _, r := range results {
		if r.ID < 0 || r.ID >= len(t.entries) {
			panic(fmt.Sprintf("result for unknown job %d", r.ID))
		}
		e := &t.entries[r.ID]
		e.Value = r.Value
		e.BoardsAssessed += r.BoardsAssessed
		e.Exhaustive = e.Exhaustive && r.Exhaustive
	}
}

// Roots returns the entries of the root moves in creation order.
func (t *Table) Roots() []Completed {
	var roots []Completed
	for _, e := range t.entries {
		if e.ParentID == meta.ROOT_PARENT {
			roots = append(roots, e)
		}
	}
	return roots
}
