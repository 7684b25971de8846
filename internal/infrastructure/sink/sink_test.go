package sink

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"attention-monitor/internal/domain/entity"
)

var frameTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func TestSignalSubject(t *testing.T) {
	require.Equal(t, "attention.signals.minsu", SignalSubject("attention.signals", "minsu"))
	require.Equal(t, "attention.signals.room_1_seat_3", SignalSubject("attention.signals", "room.1 seat*3"))
}

func TestLogSink_Levels(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	sink := NewLogSink(logger)
	ctx := context.Background()

	require.NoError(t, sink.Publish(ctx, "minsu", frameSignals()))
	require.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	require.Equal(t, -1, hook.LastEntry().Data["frown"])

	calm := []entity.Signal{
		{Kind: entity.SignalInSeat, Value: entity.ValueOn},
		{Kind: entity.SignalTilted, Value: entity.ValueOff},
	}
	require.NoError(t, sink.Publish(ctx, "minsu", calm))
	require.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}

func TestEncodeSignals(t *testing.T) {
	data, err := encodeSignals("minsu", frameSignals(), frameTime)
	require.NoError(t, err)

	var got SignalMessage
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, map[string]int{"in_seat": 1, "tilted": 1, "face_closer": 0, "frown": -1}, got.Signals)
	require.True(t, frameTime.Equal(got.At))
}
