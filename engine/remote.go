package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"othello/communication/client"
	"othello/communication/server"
	"othello/communication/wire"
	"othello/config"
	"othello/master"
	"othello/worker"
)

// RemoteSolver listens on addr and waits until the configured number of
// worker processes have connected. The returned function shuts them down.
func RemoteSolver(ctx context.Context, cfg config.Config, addr string, options ...master.Option) (*master.Solver, func() error, error) {
	codec, err := wire.NewCodec(cfg.Distribution.Compress)
	if err != nil {
		return nil, nil, err
	}
	hub := server.NewHub(codec)
	srv := &http.Server{Addr: addr, Handler: hub.Router()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Master endpoint stopped")
		}
	}()

	closer := func() error {
		defer codec.Close()
		return errors.Join(hub.Close(), srv.Shutdown(context.Background()))
	}

	want := cfg.Distribution.Workers - 1
	log.Info().Msgf("Waiting for %d workers on %s", want, addr)
	if err := hub.WaitForWorkers(ctx, want); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("waiting for workers: %w", err), closer())
	}

	solver := master.NewSolver(cfg.Distribution, cfg.Limits(), hub, options...)
	return solver, func() error {
		return errors.Join(solver.Close(ctx), closer())
	}, nil
}

// RunWorker connects to the master at url and serves it until shut down.
func RunWorker(ctx context.Context, url string, compress bool) error {
	codec, err := wire.NewCodec(compress)
	if err != nil {
		return err
	}
	defer codec.Close()

	link, err := client.Dial(ctx, url, codec)
	if err != nil {
		return err
	}
	defer link.Close()

	log.Info().Msgf("Connected to %s", url)
	return worker.NewWorker(0, link).Run(ctx)
}
