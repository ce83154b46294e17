// Package client connects a worker process to a master's websocket endpoint.
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"othello/communication"
	"othello/communication/wire"
)

type Link struct {
	codec *wire.Codec
	ws    *websocket.Conn

	writeMu sync.Mutex
	frames  chan []byte
	done    chan struct{}
	once    sync.Once
}

// Dial connects to the master at url, for example ws://localhost:8080/worker.
func Dial(ctx context.Context, url string, codec *wire.Codec) (*Link, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", url, err)
	}
	l := &Link{
		codec:  codec,
		ws:     ws,
		frames: make(chan []byte, 4),
		done:   make(chan struct{}),
	}
	go l.read()
	return l, nil
}

func (l *Link) read() {
	defer l.Close()
	for {
		_, frame, err := l.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("Master connection closed")
			}
			return
		}
		select {
		case l.frames <- frame:
		case <-l.done:
			return
		}
	}
}

func (l *Link) Send(ctx context.Context, msg communication.Message) error {
	frame, err := l.codec.Encode(msg)
	if err != nil {
		return err
	}
	select {
	case <-l.done:
		return communication.ErrClosed
	default:
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if err := l.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("%w: %v", communication.ErrClosed, err)
	}
	return nil
}

func (l *Link) Receive(ctx context.Context) (communication.Message, error) {
	select {
	case frame := <-l.frames:
		return l.codec.Decode(frame)
	case <-l.done:
		return communication.Message{}, communication.ErrClosed
	case <-ctx.Done():
		return communication.Message{}, ctx.Err()
	}
}

func (l *Link) Close() error {
	var err error
	l.once.Do(func() {
		close(l.done)
		err = l.ws.Close()
	})
	return err
}
