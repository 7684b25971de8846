package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"attention-monitor/internal/domain/port"
)

// MonitorService цикл: кадр -> сигналы -> получатели. Кадры обрабатываются строго по одному.
type MonitorService struct {
	source   port.FrameSource
	sessions *SessionService
	sinks    []port.SignalSink
	log      logrus.FieldLogger
}

// NewMonitorService создаёт цикл наблюдения
func NewMonitorService(source port.FrameSource, sessions *SessionService, sinks []port.SignalSink, log logrus.FieldLogger) *MonitorService {
	return &MonitorService{
		source:   source,
		sessions: sessions,
		sinks:    sinks,
		log:      log,
	}
}

// Run обрабатывает кадры, пока источник не закончится или не отменён контекст
func (m *MonitorService) Run(ctx context.Context) error {
	m.log.Info("monitor started")
	defer m.log.Info("monitor stopped")

	for {
		err := m.Step(ctx)
		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return nil
		default:
			return err
		}
	}
}

// Step обрабатывает ровно один кадр
func (m *MonitorService) Step(ctx context.Context) error {
	if m.source == nil {
		return errors.New("frame source is not configured")
	}

	frame, err := m.source.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return fmt.Errorf("next frame: %w", err)
	}

	signals, err := m.sessions.Observe(ctx, frame)
	if errors.Is(err, ErrSessionStopped) {
		m.log.WithField("subject", frame.SubjectID).Debug("frame skipped: session stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("observe %s: %w", frame.SubjectID, err)
	}

	fields := logrus.Fields{"subject": frame.SubjectID}
	for _, sig := range signals {
		fields[string(sig.Kind)] = sig.Value
	}
	m.log.WithFields(fields).Debug("signals derived")

	for _, sink := range m.sinks {
		if err := sink.Publish(ctx, frame.SubjectID, signals); err != nil {
			m.log.WithError(err).WithField("subject", frame.SubjectID).Warn("sink publish failed")
		}
	}
	return nil
}
