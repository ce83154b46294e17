package local

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"othello/communication"
	"othello/communication/wire"
	"othello/game"
	"othello/jobs"
)

func newHub(t *testing.T, workers int) *Hub {
	t.Helper()
	codec, err := wire.NewCodec(false)
	require.NoError(t, err)
	t.Cleanup(codec.Close)
	return NewHub(workers, codec)
}

func TestHub(t *testing.T) {
	ctx := context.Background()

	t.Run("messages reach the right rank and come back tagged with it", func(t *testing.T) {
		hub := newHub(t, 3)
		echo := func(ctx context.Context, rank int, link communication.Link) error {
			for {
				msg, err := link.Receive(ctx)
				if err != nil {
					return nil
				}
				results := make([]jobs.Completed, len(msg.Jobs))
				for i, j := range msg.Jobs {
					results[i] = jobs.Completed{ID: j.ID, ParentID: j.ParentID, Player: j.Player}
				}
				if err := link.Send(ctx, communication.Message{Tag: communication.SendingResults, Results: results}); err != nil {
					return err
				}
			}
		}
		hub.Start(ctx, echo)

		board := game.Standard(8, 8)
		require.NoError(t, hub.Send(ctx, 2, communication.Message{
			Tag:  communication.HaveWork,
			Jobs: []jobs.Job{{ID: 5, ParentID: 1, Player: game.White, Board: board}},
		}))

		from, msg, err := hub.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, from)
		require.Equal(t, communication.SendingResults, msg.Tag)
		require.Equal(t, []jobs.Completed{{ID: 5, ParentID: 1, Player: game.White}}, msg.Results)

		require.NoError(t, hub.Close())
	})

	t.Run("unknown rank", func(t *testing.T) {
		hub := newHub(t, 1)

		require.Error(t, hub.Send(ctx, 2, communication.Message{Tag: communication.NoWork}))
		require.Error(t, hub.Send(ctx, 0, communication.Message{Tag: communication.NoWork}))
	})

	t.Run("closed hub", func(t *testing.T) {
		hub := newHub(t, 1)
		require.NoError(t, hub.Close())

		_, _, err := hub.Receive(ctx)
		require.ErrorIs(t, err, communication.ErrClosed)
		_, err = hub.Link(1).Receive(ctx)
		require.ErrorIs(t, err, communication.ErrClosed)
	})

	t.Run("worker errors surface on close", func(t *testing.T) {
		hub := newHub(t, 2)
		boom := errors.New("boom")
		hub.Start(ctx, func(ctx context.Context, rank int, link communication.Link) error {
			return boom
		})

		require.ErrorIs(t, hub.Close(), boom)
	})
}
