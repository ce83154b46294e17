package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/jobs"
	"othello/searcher"
)

// Execute searches every job with a kernel of its own. The boards in each
// result are only those the search assessed; the job's own share is already
// in the master's table.
func Execute(js []jobs.Job, alphaBeta bool) []jobs.Completed {
	results := make([]jobs.Completed, 0, len(js))
	for _, j := range js {
		k := searcher.NewKernel(j.Limits)
		value := k.Search(j.Board, j.Player, j.Depth, alphaBeta)
		results = append(results, jobs.Completed{
			ID:             j.ID,
			ParentID:       j.ParentID,
			Player:         j.Player,
			Value:          value,
			BoardsAssessed: k.BoardsAssessed(),
			Exhaustive:     k.Exhaustive(),
		})
	}
	return results
}

// Worker executes the jobs the master sends over its link until told to shut down.
type Worker struct {
	Rank int
	Link communication.Link

	executed int
	boards   int
}

func NewWorker(rank int, link communication.Link) *Worker {
	return &Worker{Rank: rank, Link: link}
}

// Run serves the master until a Shutdown message or a closed link.
func (w *Worker) Run(ctx context.Context) error {
	defer func() {
		log.Debug().Int("worker", w.Rank).Int("jobs", w.executed).Int("boards", w.boards).Msg("Worker stopped")
	}()

	for {
		msg, err := w.Link.Receive(ctx)
		if errors.Is(err, communication.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		switch msg.Tag {
		case communication.HaveWork:
			if err := w.work(ctx, msg); err != nil {
				return err
			}
		case communication.PoolOpen:
			if err := w.pull(ctx); err != nil {
				return err
			}
		case communication.Shutdown:
			return nil
		default:
			return fmt.Errorf("worker %d: %w: %s", w.Rank, communication.ErrUnexpectedMessage, msg.Tag)
		}
	}
}

// pull requests slices of the job pool until the master has none left.
func (w *Worker) pull(ctx context.Context) error {
	for {
		if err := w.Link.Send(ctx, communication.Message{Tag: communication.WantWork}); err != nil {
			return err
		}
		msg, err := w.Link.Receive(ctx)
		if err != nil {
			return err
		}

		switch msg.Tag {
		case communication.HaveWork:
			if err := w.work(ctx, msg); err != nil {
				return err
			}
		case communication.NoWork:
			return nil
		default:
			return fmt.Errorf("worker %d pulling: %w: %s", w.Rank, communication.ErrUnexpectedMessage, msg.Tag)
		}
	}
}

func (w *Worker) work(ctx context.Context, msg communication.Message) error {
	start := time.Now()
	results := Execute(msg.Jobs, msg.AlphaBeta)

	boards := 0
	for _, r := range results {
		boards += r.BoardsAssessed
	}
	w.executed += len(results)
	w.boards += boards
	log.Debug().Int("worker", w.Rank).Int("jobs", len(results)).Int("boards", boards).
		Dur("took", time.Since(start)).Msg("Executed jobs")

	return w.Link.Send(ctx, communication.Message{Tag: communication.SendingResults, Results: results})
}
