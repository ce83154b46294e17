package master

import (
	"context"
	"fmt"

	"othello/communication"
	"othello/jobs"
)

// Scheduler moves every queued job to an executor and merges the results into
// the table. When it returns without error every job has its result.
type Scheduler interface {
	Distribute(ctx context.Context, queue *jobs.Queue, table *jobs.Table, alphaBeta bool) error
}

// remote is the number of workers behind hub, not counting the master.
func remote(hub communication.Hub) int {
	if hub == nil {
		return 0
	}
	return hub.Workers()
}

// Shutdown tells every worker behind hub to exit.
func Shutdown(ctx context.Context, hub communication.Hub) error {
	for k := 1; k <= remote(hub); k++ {
		if err := hub.Send(ctx, k, communication.Message{Tag: communication.Shutdown}); err != nil {
			return fmt.Errorf("shutting down worker %d: %w", k, err)
		}
	}
	return nil
}

func unexpected(from int, tag communication.Tag) error {
	return fmt.Errorf("%w: %s from worker %d", communication.ErrUnexpectedMessage, tag, from)
}
