package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// RunConfig is one cell of an experiment grid.
type RunConfig struct {
	ID           int
	Algorithm    string
	Workers      int
	Depth        int
	Distribution string
}

type GameRecord struct {
	ID     int
	Config int // RunConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<run id> for the files of one experiment run.
func NewWriter(root, name string) (*Writer, error) {
	baseDir := filepath.Join(root, name, uuid.NewString())
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteRunConfigs(configs []RunConfig) error {
	header := []string{"id", "algorithm", "workers", "depth", "distribution"}
	rows := lo.Map(configs, func(c RunConfig, _ int) []string {
		return []string{
			strconv.Itoa(c.ID),
			c.Algorithm,
			strconv.Itoa(c.Workers),
			strconv.Itoa(c.Depth),
			c.Distribution,
		}
	})
	return w.write("run_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "config", "starting_player", "winner", "score", "total_moves", "boards_assessed", "exhaustive", "start_time", "end_time", "duration"}
	rows := lo.Map(records, func(r GameRecord, _ int) []string {
		return []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.Config),
			r.StartingPlayer,
			r.Winner,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.TotalMoves),
			strconv.Itoa(r.BoardsAssessed),
			strconv.FormatBool(r.Exhaustive),
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.Duration.String(),
		}
	})
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{
		"game", "step", "player", "move", "workers", "jobs_before_split", "jobs_after_split",
		"setup", "communication", "computation", "collate", "duration", "boards_assessed", "exhaustive",
	}
	rows := lo.Map(records, func(r MoveRecord, _ int) []string {
		return []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Step),
			r.Player,
			r.Move,
			strconv.Itoa(r.Workers),
			strconv.Itoa(r.JobsBeforeSplit),
			strconv.Itoa(r.JobsAfterSplit),
			r.Setup.String(),
			r.Communication.String(),
			r.Computation.String(),
			r.Collate.String(),
			r.Duration.String(),
			strconv.Itoa(r.BoardsAssessed),
			strconv.FormatBool(r.Exhaustive),
		}
	})
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
