package container

import (
	"github.com/sirupsen/logrus"

	app "attention-monitor/internal/application"
	"attention-monitor/internal/domain/attention"
	"attention-monitor/internal/domain/port"
)

type Container struct {
	SessionService *app.SessionService
	log            logrus.FieldLogger
}

func New(sessionRepo port.SessionRepository, cfg attention.Config, log logrus.FieldLogger) (*Container, error) {
	sessionService, err := app.NewSessionService(sessionRepo, cfg)
	if err != nil {
		return nil, err
	}

	return &Container{
		SessionService: sessionService,
		log:            log,
	}, nil
}

// Monitor собирает цикл наблюдения поверх общего сервиса сессий
func (c *Container) Monitor(source port.FrameSource, sinks ...port.SignalSink) *app.MonitorService {
	return app.NewMonitorService(source, c.SessionService, sinks, c.log)
}
