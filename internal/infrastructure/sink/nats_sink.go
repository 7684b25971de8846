package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

// NATSSink публикует сигналы в тему <base>.<subject>
type NATSSink struct {
	conn *nats.Conn
	base string
	now  func() time.Time
}

// NewNATSSink создаёт получателя поверх открытого соединения
func NewNATSSink(conn *nats.Conn, baseSubject string) *NATSSink {
	return &NATSSink{conn: conn, base: baseSubject, now: time.Now}
}

// Publish отправляет сигналы кадра одним сообщением
func (s *NATSSink) Publish(ctx context.Context, subjectID string, signals []entity.Signal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := encodeSignals(subjectID, signals, s.now().UTC())
	if err != nil {
		return fmt.Errorf("encode signals: %w", err)
	}
	if err := s.conn.Publish(SignalSubject(s.base, subjectID), payload); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

var subjectReplacer = strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_", "\t", "_")

// SignalSubject тема NATS для субъекта; символы-разделители NATS заменяются на "_"
func SignalSubject(base, subjectID string) string {
	return base + "." + subjectReplacer.Replace(subjectID)
}

var _ port.SignalSink = (*NATSSink)(nil)
