package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "attention-monitor/internal/application"
	"attention-monitor/internal/container"
	"attention-monitor/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я слежу за вниманием субъектов перед камерой.

🔔 Оповещения приходят, когда субъект наклоняет голову, приближается к экрану, хмурится или уходит с места.

📋 Команды:
/watch — подписаться на оповещения
/status — состояние сессий
/help — справка`

	msgHelp = `ℹ️ Команды:

/watch — подписаться на оповещения
/unwatch — отписаться
/status [субъект] — сигналы последнего кадра
/reset [субъект] — перезапустить сессию и заново снять базовую линию
/stop [субъект] — остановить обработку кадров субъекта

💡 Без имени субъекта используется субъект по умолчанию.`

	msgWatching       = "🔔 Оповещения включены."
	msgUnwatched      = "🔕 Оповещения отключены."
	msgNoSessions     = "📭 Сессий пока нет."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgSessionMissing = "🤷 Сессия %q не найдена."
	msgCommandError   = "⚠️ Не удалось выполнить команду."
	msgReset          = "🔄 Сессия %q перезапущена, базовая линия будет снята по следующему кадру."
	msgStopped        = "⏹ Сессия %q остановлена. /reset %s возобновит наблюдение."
)

// Bot представляет Telegram-бота наблюдателя
type Bot struct {
	api            *tgbotapi.BotAPI
	sessions       *app.SessionService
	notifier       *Notifier
	defaultSubject string
	log            logrus.FieldLogger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, chatIDs []int64, cooldown time.Duration, defaultSubject string, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	log.WithField("account", api.Self.UserName).Info("telegram bot authorized")

	return &Bot{
		api:            api,
		sessions:       c.SessionService,
		notifier:       NewNotifier(api, chatIDs, cooldown, log),
		defaultSubject: defaultSubject,
		log:            log,
	}, nil
}

// Notifier получатель сигналов, разделяющий подписки с ботом
func (b *Bot) Notifier() *Notifier {
	return b.notifier
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
		return
	}
	b.sendMessage(msg.Chat.ID, b.handleCommand(ctx, msg.Chat.ID, msg.Command(), msg.CommandArguments()))
}

// handleCommand выполняет команду и возвращает текст ответа
func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) string {
	subject := strings.TrimSpace(args)
	if subject == "" {
		subject = b.defaultSubject
	}

	switch command {
	case "start":
		return msgStart

	case "help":
		return msgHelp

	case "watch":
		b.notifier.Watch(chatID)
		return msgWatching

	case "unwatch":
		b.notifier.Unwatch(chatID)
		return msgUnwatched

	case "status":
		if strings.TrimSpace(args) == "" {
			return b.statusAll(ctx)
		}
		session, err := b.sessions.Status(ctx, subject)
		if err != nil {
			return b.commandError(err, subject)
		}
		return formatSession(session)

	case "reset":
		if _, err := b.sessions.Reset(ctx, subject); err != nil {
			return b.commandError(err, subject)
		}
		return fmt.Sprintf(msgReset, subject)

	case "stop":
		if _, err := b.sessions.Stop(ctx, subject); err != nil {
			return b.commandError(err, subject)
		}
		return fmt.Sprintf(msgStopped, subject, subject)

	default:
		return msgUnknownCommand
	}
}

func (b *Bot) statusAll(ctx context.Context) string {
	subjects, err := b.sessions.Subjects(ctx)
	if err != nil {
		return b.commandError(err, "")
	}
	if len(subjects) == 0 {
		return msgNoSessions
	}

	parts := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		session, err := b.sessions.Status(ctx, subject)
		if err != nil {
			return b.commandError(err, subject)
		}
		parts = append(parts, formatSession(session))
	}
	return strings.Join(parts, "\n\n")
}

func (b *Bot) commandError(err error, subject string) string {
	if errors.Is(err, app.ErrSessionNotFound) {
		return fmt.Sprintf(msgSessionMissing, subject)
	}
	b.log.WithError(err).WithField("subject", subject).Error("telegram command failed")
	return msgCommandError
}

// formatSession краткая сводка сессии
func formatSession(s entity.Session) string {
	var sb strings.Builder
	state := "▶️"
	if !s.Active() {
		state = "⏹"
	}
	fmt.Fprintf(&sb, "%s %s: кадров %d", state, s.SubjectID, s.Frames)

	kinds := make([]string, 0, len(s.Last))
	for kind := range s.Last {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(&sb, "\n• %s = %d", kind, s.Last[entity.SignalKind(kind)])
	}
	return sb.String()
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Warn("telegram send failed")
	}
}
