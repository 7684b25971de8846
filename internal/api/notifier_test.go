package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"attention-monitor/internal/domain/entity"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func tilted(on bool) []entity.Signal {
	return []entity.Signal{
		entity.NewBoolSignal(entity.SignalInSeat, true),
		entity.NewBoolSignal(entity.SignalTilted, on),
	}
}

func newTestNotifier(api sender, cooldown time.Duration, chats ...int64) (*Notifier, *time.Time) {
	log, _ := test.NewNullLogger()
	n := NewNotifier(api, chats, cooldown, log)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }
	return n, &now
}

func TestNotifier_AlertsOnTransitionOnly(t *testing.T) {
	api := &fakeSender{}
	n, _ := newTestNotifier(api, 0, 42)
	ctx := context.Background()

	require.NoError(t, n.Publish(ctx, "desk-1", tilted(false)))
	require.Empty(t, api.sent)

	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.Len(t, api.sent, 1)
	require.Equal(t, int64(42), api.sent[0].ChatID)
	require.Contains(t, api.sent[0].Text, "desk-1")

	require.NoError(t, n.Publish(ctx, "desk-1", tilted(false)))
	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.Len(t, api.sent, 2)
}

func TestNotifier_Cooldown(t *testing.T) {
	api := &fakeSender{}
	n, now := newTestNotifier(api, time.Minute, 42)
	ctx := context.Background()

	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.NoError(t, n.Publish(ctx, "desk-1", tilted(false)))
	*now = now.Add(30 * time.Second)
	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.Len(t, api.sent, 1)

	require.NoError(t, n.Publish(ctx, "desk-1", tilted(false)))
	*now = now.Add(time.Minute)
	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.Len(t, api.sent, 2)
}

func TestNotifier_SubjectsTrackedSeparately(t *testing.T) {
	api := &fakeSender{}
	n, _ := newTestNotifier(api, time.Hour, 42)
	ctx := context.Background()

	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.NoError(t, n.Publish(ctx, "desk-2", tilted(true)))
	require.Len(t, api.sent, 2)
}

func TestNotifier_LeftSeatAndFrown(t *testing.T) {
	api := &fakeSender{}
	n, _ := newTestNotifier(api, 0, 42)

	require.NoError(t, n.Publish(context.Background(), "desk-1", []entity.Signal{
		{Kind: entity.SignalInSeat, Value: entity.ValueOff},
	}))
	require.NoError(t, n.Publish(context.Background(), "desk-1", []entity.Signal{
		{Kind: entity.SignalInSeat, Value: entity.ValueOn},
		{Kind: entity.SignalFrown, Value: entity.ValueFrown},
	}))
	require.Len(t, api.sent, 2)
	require.Contains(t, api.sent[0].Text, "покинул место")
	require.Contains(t, api.sent[1].Text, "нахмурился")
}

func TestNotifier_WatchUnwatch(t *testing.T) {
	api := &fakeSender{}
	n, _ := newTestNotifier(api, 0)

	require.NoError(t, n.Publish(context.Background(), "desk-1", tilted(true)))
	require.Empty(t, api.sent)

	n.Watch(7)
	n.Watch(3)
	require.Equal(t, []int64{3, 7}, n.Chats())

	n.Unwatch(7)
	require.Equal(t, []int64{3}, n.Chats())
}

func TestNotifier_WatchDuringActiveAlert(t *testing.T) {
	api := &fakeSender{}
	n, _ := newTestNotifier(api, time.Minute)
	ctx := context.Background()

	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.Empty(t, api.sent)

	n.Watch(42)
	require.NoError(t, n.Publish(ctx, "desk-1", tilted(true)))
	require.Len(t, api.sent, 1)
	require.Equal(t, int64(42), api.sent[0].ChatID)
}

func TestNotifier_SendError(t *testing.T) {
	api := &fakeSender{err: errors.New("flood")}
	n, _ := newTestNotifier(api, 0, 42)

	err := n.Publish(context.Background(), "desk-1", tilted(true))
	require.Error(t, err)
	require.Contains(t, err.Error(), "flood")
}
