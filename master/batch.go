package master

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"othello/communication"
	"othello/experiments/metrics"
	"othello/jobs"
	"othello/worker"
)

// Batch splits the queue once into one share per process, pushes the shares,
// executes its own and then gathers every worker's results.
type Batch struct {
	hub     communication.Hub
	rng     *rand.Rand // nil takes each share from the front of the queue
	metrics metrics.Collector
}

func NewBatch(hub communication.Hub, rng *rand.Rand, collector metrics.Collector) *Batch {
	return &Batch{hub: hub, rng: rng, metrics: collector}
}

// Share is the number of jobs worker k of workers gets out of total.
func Share(total, workers, k int) int {
	return total*(k+1)/workers - total*k/workers
}

func (b *Batch) Distribute(ctx context.Context, queue *jobs.Queue, table *jobs.Table, alphaBeta bool) error {
	n := remote(b.hub)
	workers := n + 1
	total := queue.Len()

	stop := b.metrics.Time(metrics.Communication)
	for k := 1; k < workers; k++ {
		share := queue.Take(Share(total, workers, k), b.rng)
		log.Debug().Int("worker", k).Msgf("Sending %d jobs", len(share))
		// Empty shares are still sent so every worker answers exactly once.
		msg := communication.Message{Tag: communication.HaveWork, AlphaBeta: alphaBeta, Jobs: share}
		if err := b.hub.Send(ctx, k, msg); err != nil {
			stop()
			return fmt.Errorf("sending jobs to worker %d: %w", k, err)
		}
	}
	stop()

	own := queue.Take(queue.Len(), b.rng)
	log.Debug().Int("worker", 0).Msgf("Keeping %d jobs", len(own))

	var local, gathered []jobs.Completed
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer b.metrics.Time(metrics.Computation)()
		local = worker.Execute(own, alphaBeta)
		return nil
	})
	g.Go(func() error {
		defer b.metrics.Time(metrics.Communication)()
		for pending := n; pending > 0; pending-- {
			from, msg, err := b.hub.Receive(gctx)
			if err != nil {
				return fmt.Errorf("gathering results: %w", err)
			}
			if msg.Tag != communication.SendingResults {
				return unexpected(from, msg.Tag)
			}
			log.Debug().Int("worker", from).Msgf("Received %d results", len(msg.Results))
			gathered = append(gathered, msg.Results...)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	table.Merge(local)
	table.Merge(gathered)
	return nil
}
