package sink

import (
	"context"
	"testing"
	"time"

	natstest "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func runNATS(t *testing.T) *nats.Conn {
	t.Helper()
	opts := natstest.DefaultTestOptions
	opts.Port = -1
	srv := natstest.RunServer(&opts)
	t.Cleanup(srv.Shutdown)

	conn, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

func TestNATSSink_Publish(t *testing.T) {
	conn := runNATS(t)
	sub, err := conn.SubscribeSync("attention.signals.room_1")
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	sink := NewNATSSink(conn, "attention.signals")
	sink.now = func() time.Time { return frameTime }
	require.NoError(t, sink.Publish(context.Background(), "room.1", frameSignals()))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var got SignalMessage
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	require.Equal(t, "room.1", got.Subject)
	require.True(t, frameTime.Equal(got.At))
	require.Equal(t, map[string]int{"in_seat": 1, "tilted": 1, "face_closer": 0, "frown": -1}, got.Signals)
}

func TestNATSSink_CancelledContext(t *testing.T) {
	conn := runNATS(t)
	sink := NewNATSSink(conn, "attention.signals")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sink.Publish(ctx, "minsu", frameSignals()), context.Canceled)
}

func TestNATSSink_ClosedConnection(t *testing.T) {
	conn := runNATS(t)
	sink := NewNATSSink(conn, "attention.signals")

	conn.Close()
	require.Error(t, sink.Publish(context.Background(), "minsu", frameSignals()))
}
