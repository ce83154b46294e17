package engine

import (
	"context"
	"errors"

	"othello/communication"
	"othello/communication/local"
	"othello/communication/wire"
	"othello/config"
	"othello/master"
	"othello/worker"
)

// LocalSolver runs the configured number of workers as goroutines in this
// process. The returned function shuts them down.
func LocalSolver(ctx context.Context, cfg config.Config, options ...master.Option) (*master.Solver, func() error, error) {
	codec, err := wire.NewCodec(cfg.Distribution.Compress)
	if err != nil {
		return nil, nil, err
	}

	workers := 0
	if !cfg.Distribution.Algorithm.IsSerial() {
		workers = cfg.Distribution.Workers - 1
	}
	hub := local.NewHub(workers, codec)
	hub.Start(ctx, func(ctx context.Context, rank int, link communication.Link) error {
		return worker.NewWorker(rank, link).Run(ctx)
	})

	solver := master.NewSolver(cfg.Distribution, cfg.Limits(), hub, options...)
	closer := func() error {
		defer codec.Close()
		return errors.Join(solver.Close(ctx), hub.Close())
	}
	return solver, closer, nil
}
