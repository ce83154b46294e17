package communication

import (
	"context"
	"errors"

	"othello/jobs"
)

var (
	// ErrClosed is returned by a Hub or Link once its connection is gone.
	ErrClosed = errors.New("communication: connection closed")
	// ErrUnexpectedMessage is a message whose tag breaks the protocol at that point.
	ErrUnexpectedMessage = errors.New("communication: unexpected message")
)

// Tag is the kind of a message between the master and a worker.
type Tag uint8

const (
	WantWork       Tag = iota + 1 // worker -> master: ready for another slice of the pool
	HaveWork                      // master -> worker: jobs to execute
	NoWork                        // master -> worker: the pool is empty, stop requesting
	SendingResults                // worker -> master: completed jobs
	PoolOpen                      // master -> worker: start requesting from the pool
	Shutdown                      // master -> worker: exit
)

func (t Tag) String() string {
	switch t {
	case WantWork:
		return "WANT_WORK"
	case HaveWork:
		return "HAVE_WORK"
	case NoWork:
		return "NO_WORK"
	case SendingResults:
		return "SENDING_RESULTS"
	case PoolOpen:
		return "POOL_OPEN"
	case Shutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// Message is one tagged point-to-point message. Only HaveWork carries Jobs and
// only SendingResults carries Results.
type Message struct {
	Tag       Tag
	AlphaBeta bool // Search the jobs with alpha-beta pruning
	Jobs      []jobs.Job
	Results   []jobs.Completed
}

// Hub is the master's end of the transport. Workers are ranked 1..Workers();
// rank 0 is the master itself.
type Hub interface {
	Workers() int
	Send(ctx context.Context, to int, msg Message) error
	// Receive blocks for the next message from any worker.
	Receive(ctx context.Context) (from int, msg Message, err error)
	Close() error
}

// Link is a worker's end of the transport.
type Link interface {
	Send(ctx context.Context, msg Message) error
	Receive(ctx context.Context) (Message, error)
	Close() error
}
