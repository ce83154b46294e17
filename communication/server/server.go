// Package server is the master's websocket endpoint for remote workers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/communication/wire"
)

type envelope struct {
	from  int
	frame []byte
}

type conn struct {
	id   string
	rank int
	ws   *websocket.Conn
	send chan []byte
}

// Hub ranks workers in the order they connect, starting at 1.
type Hub struct {
	codec    *wire.Codec
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  []*conn
	joined chan struct{}

	inbox chan envelope
	done  chan struct{}
	once  sync.Once
}

func NewHub(codec *wire.Codec) *Hub {
	return &Hub{
		codec:    codec,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		joined:   make(chan struct{}, 1),
		inbox:    make(chan envelope, 64),
		done:     make(chan struct{}),
	}
}

// Router serves /worker for worker connections and /status for a summary.
func (h *Hub) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/worker", h.serveWorker)
	r.Get("/status", h.serveStatus)
	return r
}

func (h *Hub) serveWorker(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Worker upgrade failed")
		return
	}

	h.mu.Lock()
	c := &conn{id: uuid.NewString(), rank: len(h.conns) + 1, ws: ws, send: make(chan []byte, 16)}
	h.conns = append(h.conns, c)
	h.mu.Unlock()
	select {
	case h.joined <- struct{}{}:
	default:
	}
	log.Info().Str("id", c.id).Str("remote", r.RemoteAddr).Msgf("Worker %d connected", c.rank)

	go h.write(c)
	go h.read(c)
}

func (h *Hub) write(c *conn) {
	defer c.ws.Close()
	for {
		select {
		case frame := <-c.send:
			if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				log.Error().Err(err).Msgf("Writing to worker %d", c.rank)
				return
			}
		case <-h.done:
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (h *Hub) read(c *conn) {
	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-h.done:
			default:
				log.Error().Err(err).Msgf("Worker %d disconnected", c.rank)
			}
			return
		}
		header, err := wire.Probe(frame)
		if err != nil {
			log.Error().Err(err).Msgf("Dropping frame from worker %d", c.rank)
			continue
		}
		log.Debug().Stringer("tag", header.Tag).Uint32("records", header.Count).Msgf("Frame from worker %d", c.rank)

		select {
		case h.inbox <- envelope{from: c.rank, frame: frame}:
		case <-h.done:
			return
		}
	}
}

type status struct {
	Workers     int          `json:"workers"`
	Connections []connStatus `json:"connections"`
}

type connStatus struct {
	ID     string `json:"id"`
	Rank   int    `json:"rank"`
	Remote string `json:"remote"`
}

func (h *Hub) serveStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	s := status{Workers: len(h.conns), Connections: make([]connStatus, 0, len(h.conns))}
	for _, c := range h.conns {
		s.Connections = append(s.Connections, connStatus{ID: c.id, Rank: c.rank, Remote: c.ws.RemoteAddr().String()})
	}
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

// WaitForWorkers blocks until at least n workers are connected.
func (h *Hub) WaitForWorkers(ctx context.Context, n int) error {
	for {
		if h.Workers() >= n {
			return nil
		}
		select {
		case <-h.joined:
		case <-h.done:
			return communication.ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Hub) Workers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) Send(ctx context.Context, to int, msg communication.Message) error {
	h.mu.Lock()
	if to < 1 || to > len(h.conns) {
		h.mu.Unlock()
		return fmt.Errorf("server: no worker with rank %d", to)
	}
	c := h.conns[to-1]
	h.mu.Unlock()

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
	case c.send <- frame:
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

// Close disconnects every worker.
func (h *Hub) Close() error {
	h.once.Do(func() {
		close(h.done)
	})
	return nil
}
