package sink

import (
	"context"

	"github.com/sirupsen/logrus"

	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

// LogSink пишет сигналы в лог: тревожные на уровне Info, остальные на Debug
type LogSink struct {
	log logrus.FieldLogger
}

func NewLogSink(log logrus.FieldLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(ctx context.Context, subjectID string, signals []entity.Signal) error {
	fields := logrus.Fields{"subject": subjectID}
	alert := false
	for _, sig := range signals {
		fields[string(sig.Kind)] = sig.Value
		alert = alert || sig.Alert()
	}

	entry := s.log.WithFields(fields)
	if alert {
		entry.Info("attention alert")
	} else {
		entry.Debug("attention ok")
	}
	return nil
}

var _ port.SignalSink = (*LogSink)(nil)
