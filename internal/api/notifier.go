package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

// sender часть tgbotapi.BotAPI, нужная для отправки сообщений
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var alertText = map[entity.SignalKind]string{
	entity.SignalInSeat:     "🪑 %s покинул место",
	entity.SignalTilted:     "↪️ %s наклонил голову",
	entity.SignalFaceCloser: "🔍 %s приблизил лицо к экрану",
	entity.SignalFrown:      "😣 %s нахмурился",
}

type alertKey struct {
	subject string
	kind    entity.SignalKind
}

// Notifier отправляет оповещение, когда сигнал переходит в тревожное состояние.
// Повтор для того же субъекта и сигнала не чаще cooldown.
type Notifier struct {
	api      sender
	cooldown time.Duration
	log      logrus.FieldLogger
	now      func() time.Time

	mu       sync.Mutex
	chats    map[int64]struct{}
	alerting map[alertKey]bool
	lastSent map[alertKey]time.Time
}

// NewNotifier создаёт получателя сигналов для Telegram
func NewNotifier(api sender, chatIDs []int64, cooldown time.Duration, log logrus.FieldLogger) *Notifier {
	n := &Notifier{
		api:      api,
		cooldown: cooldown,
		log:      log,
		now:      time.Now,
		chats:    make(map[int64]struct{}),
		alerting: make(map[alertKey]bool),
		lastSent: make(map[alertKey]time.Time),
	}
	for _, id := range chatIDs {
		n.chats[id] = struct{}{}
	}
	return n
}

// Watch подписывает чат на оповещения
func (n *Notifier) Watch(chatID int64) {
	n.mu.Lock()
	n.chats[chatID] = struct{}{}
	n.mu.Unlock()
}

// Unwatch отписывает чат
func (n *Notifier) Unwatch(chatID int64) {
	n.mu.Lock()
	delete(n.chats, chatID)
	n.mu.Unlock()
}

// Chats возвращает подписанные чаты
func (n *Notifier) Chats() []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	ids := make([]int64, 0, len(n.chats))
	for id := range n.chats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Publish реализует port.SignalSink
func (n *Notifier) Publish(ctx context.Context, subjectID string, signals []entity.Signal) error {
	lines := n.collect(subjectID, signals)
	if len(lines) == 0 {
		return nil
	}
	text := strings.Join(lines, "\n")

	var firstErr error
	for _, chatID := range n.Chats() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := n.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.log.WithError(err).WithField("chat_id", chatID).Warn("telegram send failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("telegram send to %d: %w", chatID, err)
			}
		}
	}
	return firstErr
}

// collect отбирает сигналы, которые только что стали тревожными
func (n *Notifier) collect(subjectID string, signals []entity.Signal) []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	// без подписчиков состояние тревог не меняется
	if len(n.chats) == 0 {
		return nil
	}

	now := n.now()
	lines := make([]string, 0)
	for _, sig := range signals {
		key := alertKey{subject: subjectID, kind: sig.Kind}
		alert := sig.Alert()
		was := n.alerting[key]
		n.alerting[key] = alert
		if !alert || was {
			continue
		}
		if last, ok := n.lastSent[key]; ok && now.Sub(last) < n.cooldown {
			continue
		}
		n.lastSent[key] = now
		if format, ok := alertText[sig.Kind]; ok {
			lines = append(lines, fmt.Sprintf(format, subjectID))
		}
	}
	return lines
}

var _ port.SignalSink = (*Notifier)(nil)
