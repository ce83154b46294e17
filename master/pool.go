package master

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/experiments/metrics"
	"othello/jobs"
	"othello/worker"
)

// Pool opens the queue to the workers, who pull sendSize jobs at a time until
// it is empty. The master only schedules, unless there are no workers at all.
type Pool struct {
	hub      communication.Hub
	sendSize int
	metrics  metrics.Collector
}

func NewPool(hub communication.Hub, sendSize int, collector metrics.Collector) *Pool {
	return &Pool{hub: hub, sendSize: max(1, sendSize), metrics: collector}
}

func (p *Pool) Distribute(ctx context.Context, queue *jobs.Queue, table *jobs.Table, alphaBeta bool) error {
	n := remote(p.hub)
	if n == 0 {
		defer p.metrics.Time(metrics.Computation)()
		table.Merge(worker.Execute(queue.Take(queue.Len(), nil), alphaBeta))
		return nil
	}

	defer p.metrics.Time(metrics.Communication)()
	for k := 1; k <= n; k++ {
		if err := p.hub.Send(ctx, k, communication.Message{Tag: communication.PoolOpen}); err != nil {
			return fmt.Errorf("opening pool to worker %d: %w", k, err)
		}
	}

	// A worker leaves the pool when it is told there is no work, which only
	// happens after its last results have been merged.
	open, inFlight := n, 0
	for open > 0 || inFlight > 0 {
		from, msg, err := p.hub.Receive(ctx)
		if err != nil {
			return fmt.Errorf("job pool: %w", err)
		}

		switch msg.Tag {
		case communication.WantWork:
			reply := communication.Message{Tag: communication.NoWork}
			if queue.Len() > 0 {
				reply = communication.Message{Tag: communication.HaveWork, AlphaBeta: alphaBeta, Jobs: queue.Take(p.sendSize, nil)}
				inFlight++
			} else {
				open--
			}
			log.Debug().Int("worker", from).Int("jobs", len(reply.Jobs)).Int("left", queue.Len()).Msgf("Replying %s", reply.Tag)
			if err := p.hub.Send(ctx, from, reply); err != nil {
				return fmt.Errorf("replying to worker %d: %w", from, err)
			}
		case communication.SendingResults:
			table.Merge(msg.Results)
			inFlight--
		default:
			return unexpected(from, msg.Tag)
		}
	}
	return nil
}
