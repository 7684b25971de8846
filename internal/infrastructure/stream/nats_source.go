package stream

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

// ConnOptions параметры подключения к NATS
type ConnOptions struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// Connect подключается к NATS с логированием переподключений
func Connect(opts ConnOptions, log logrus.FieldLogger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("attention-monitor"),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.Timeout(opts.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(opts.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}
	return nc, nil
}

// NATSSource получает кадры из темы NATS.
// Сообщения буферизуются, но в цикл отдаются строго по одному.
type NATSSource struct {
	sub            *nats.Subscription
	msgs           chan *nats.Msg
	defaultSubject string
	log            logrus.FieldLogger
}

// NewNATSSource подписывается на тему с кадрами
func NewNATSSource(conn *nats.Conn, subject string, buffer int, defaultSubject string, log logrus.FieldLogger) (*NATSSource, error) {
	if buffer <= 0 {
		buffer = 64
	}
	msgs := make(chan *nats.Msg, buffer)
	sub, err := conn.ChanSubscribe(subject, msgs)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return &NATSSource{
		sub:            sub,
		msgs:           msgs,
		defaultSubject: defaultSubject,
		log:            log,
	}, nil
}

// Next ждёт следующее корректное сообщение
func (s *NATSSource) Next(ctx context.Context) (*entity.Frame, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-s.msgs:
			if !ok {
				return nil, io.EOF
			}
			frame, err := DecodeFrame(msg.Data, s.defaultSubject)
			if err != nil {
				s.log.WithError(err).WithField("nats_subject", msg.Subject).Warn("skipping malformed frame")
				continue
			}
			return frame, nil
		}
	}
}

// Close отписывается от темы
func (s *NATSSource) Close() error {
	if err := s.sub.Unsubscribe(); err != nil && err != nats.ErrConnectionClosed {
		return err
	}
	return nil
}

var _ port.FrameSource = (*NATSSource)(nil)
