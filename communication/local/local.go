// Package local runs workers as goroutines in the master's process. Every
// message is encoded to a wire frame, so master and workers never share a board.
package local

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"othello/communication"
	"othello/communication/wire"
)

type envelope struct {
	from  int
	frame []byte
}

type Hub struct {
	codec  *wire.Codec
	inbox  chan envelope
	outbox []chan []byte // Indexed by rank - 1
	done   chan struct{}
	once   sync.Once
	group  *errgroup.Group
}

// NewHub connects the master to in-process workers ranked 1..workers.
func NewHub(workers int, codec *wire.Codec) *Hub {
	h := &Hub{
		codec:  codec,
		inbox:  make(chan envelope, workers+1),
		outbox: make([]chan []byte, workers),
		done:   make(chan struct{}),
	}
	for i := range h.outbox {
		h.outbox[i] = make(chan []byte, 4)
	}
	return h
}

func (h *Hub) Workers() int {
	return len(h.outbox)
}

// Start runs fn for every worker rank on its own goroutine. Close waits for them.
func (h *Hub) Start(ctx context.Context, fn func(ctx context.Context, rank int, link communication.Link) error) {
	h.group, ctx = errgroup.WithContext(ctx)
	for rank := 1; rank <= h.Workers(); rank++ {
		link := h.Link(rank)
		h.group.Go(func() error {
			return fn(ctx, rank, link)
		})
	}
}

func (h *Hub) Send(ctx context.Context, to int, msg communication.Message) error {
	if to < 1 || to > h.Workers() {
		return fmt.Errorf("local: no worker with rank %d", to)
	}
	select {
	case <-h.done:
		return communication.ErrClosed
	default:
	}
	frame, err := h.codec.Encode(msg)
	if err != nil {
		return err
	}
	select {
	case h.outbox[to-1] <- frame:
		return nil
	case <-h.done:
		return communication.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) Receive(ctx context.Context) (int, communication.Message, error) {
	select {
	case e := <-h.inbox:
		msg, err := h.codec.Decode(e.frame)
		return e.from, msg, err
	case <-h.done:
		return 0, communication.Message{}, communication.ErrClosed
	case <-ctx.Done():
		return 0, communication.Message{}, ctx.Err()
	}
}

// Close disconnects every worker and waits for the goroutines started by Start.
func (h *Hub) Close() error {
	h.once.Do(func() {
		close(h.done)
	})
	if h.group != nil {
		return h.group.Wait()
	}
	return nil
}

// Link returns the worker end for rank.
func (h *Hub) Link(rank int) communication.Link {
	return &link{hub: h, rank: rank}
}

type link struct {
	hub  *Hub
	rank int
}

func (l *link) Send(ctx context.Context, msg communication.Message) error {
	frame, err := l.hub.codec.Encode(msg)
	if err != nil {
		return err
	}
	select {
	case l.hub.inbox <- envelope{from: l.rank, frame: frame}:
		return nil
	case <-l.hub.done:
		return communication.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *link) Receive(ctx context.Context) (communication.Message, error) {
	select {
	case frame := <-l.hub.outbox[l.rank-1]:
		return l.hub.codec.Decode(frame)
	case <-l.hub.done:
		return communication.Message{}, communication.ErrClosed
	case <-ctx.Done():
		return communication.Message{}, ctx.Err()
	}
}

func (l *link) Close() error {
	return nil
}
