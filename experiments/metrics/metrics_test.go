package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(3, 5)
	c.SetJobs(4, 31)
	c.Add(Setup, time.Millisecond)
	c.Add(Communication, 2*time.Millisecond)
	c.Add(Communication, 3*time.Millisecond)
	stop := c.Time(Collate)
	stop()

	m := c.Complete(1234, true)

	require.Equal(t, 3, m.Workers)
	require.Equal(t, 5, m.Depth)
	require.Equal(t, 4, m.JobsBeforeSplit)
	require.Equal(t, 31, m.JobsAfterSplit)
	require.Equal(t, time.Millisecond, m.Setup)
	require.Equal(t, 5*time.Millisecond, m.Communication)
	require.Zero(t, m.Computation)
	require.Equal(t, 1234, m.BoardsAssessed)
	require.True(t, m.Exhaustive)

	t.Run("start resets the previous search", func(t *testing.T) {
		c.Start(1, 2)

		m := c.Complete(0, false)

		require.Zero(t, m.Communication)
		require.Zero(t, m.JobsAfterSplit)
	})

	t.Run("dummy collector keeps only the counters", func(t *testing.T) {
		d := NewDummyCollector()
		d.Start(4, 4)
		d.Add(Setup, time.Second)

		require.Equal(t, SearchMetric{BoardsAssessed: 7}, d.Complete(7, false))
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "scaling")
	require.NoError(t, err)

	require.NoError(t, w.WriteRunConfigs([]RunConfig{
		{ID: 1, Algorithm: "BATCH_MINIMAX", Workers: 4, Depth: 5, Distribution: "random"},
	}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{
		{ID: 1, Config: 1, GameMetric: GameMetric{StartingPlayer: "BLACK", Winner: "WHITE", Score: -6, TotalMoves: 58}},
	}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{
		{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: "BLACK", Move: "d3", SearchMetric: SearchMetric{Workers: 4, BoardsAssessed: 99}}},
		{Game: 1, MoveMetric: MoveMetric{Step: 2, Player: "WHITE"}},
	}))

	configs := readCSV(t, filepath.Join(w.Dir(), "run_configs.csv"))
	require.Equal(t, [][]string{
		{"id", "algorithm", "workers", "depth", "distribution"},
		{"1", "BATCH_MINIMAX", "4", "5", "random"},
	}, configs)

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2)
	require.Equal(t, []string{"1", "1", "BLACK", "WHITE", "-6", "58"}, games[1][:6])

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Len(t, moves, 3)
	require.Equal(t, "d3", moves[1][3])
	require.Equal(t, "99", moves[1][12])
	require.Empty(t, moves[2][3], "A pass has no move")
}
