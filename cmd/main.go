package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"attention-monitor/config"
	telegram "attention-monitor/internal/api"
	"attention-monitor/internal/container"
	"attention-monitor/internal/domain/port"
	"attention-monitor/internal/infrastructure/logger"
	"attention-monitor/internal/infrastructure/sink"
	"attention-monitor/internal/infrastructure/storage"
	"attention-monitor/internal/infrastructure/stream"
	"attention-monitor/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("monitor failed")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var conn *nats.Conn
	if cfg.NATS.URL != "" {
		c, err := stream.Connect(stream.ConnOptions{
			URL:            cfg.NATS.URL,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectTimeout: cfg.NATS.ConnectTimeout,
		}, log)
		if err != nil {
			return err
		}
		conn = c
		defer conn.Close()
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.WithError(err).Warn("close failed")
			}
		}
	}()

	source, err := openSource(cfg, conn, log)
	if err != nil {
		return err
	}
	closers = append(closers, source)

	// Собираем сервисы приложения
	appContainer, err := container.New(storage.NewMemorySessionRepository(), cfg.Session, log)
	if err != nil {
		return err
	}

	sinks := []port.SignalSink{sink.NewLogSink(log)}

	if cfg.Redis.Enabled {
		redisSink, err := sink.NewRedisSink(ctx, sink.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Channel:  cfg.Redis.Channel,
		}, log)
		if err != nil {
			return err
		}
		closers = append(closers, redisSink)
		sinks = append(sinks, redisSink)
	}

	if conn != nil && cfg.NATS.SignalSubject != "" {
		sinks = append(sinks, sink.NewNATSSink(conn, cfg.NATS.SignalSubject))
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if cfg.Telegram.Token != "" {
		bot, err := telegram.NewBot(cfg.Telegram.Token, appContainer, cfg.Telegram.ChatIDs, cfg.Telegram.Cooldown, cfg.Source.SubjectID, log)
		if err != nil {
			return err
		}
		sinks = append(sinks, bot.Notifier())
		group.Go(func() error {
			return bot.Run(groupCtx)
		})
	}

	monitor := appContainer.Monitor(source, sinks...)
	group.Go(func() error {
		defer stop()
		return monitor.Run(groupCtx)
	})

	log.WithFields(logrus.Fields{
		"source": cfg.Source.Kind,
		"sinks":  len(sinks),
	}).Info("attention monitor is running")

	return group.Wait()
}

func openSource(cfg *config.Config, conn *nats.Conn, log logrus.FieldLogger) (port.FrameSource, error) {
	switch cfg.Source.Kind {
	case config.SourceJSONL:
		return stream.OpenJSONLSource(cfg.Source.Path, cfg.Source.SubjectID, log)
	case config.SourceNATS:
		if conn == nil {
			return nil, fmt.Errorf("nats source requires NATS_URL")
		}
		return stream.NewNATSSource(conn, cfg.Source.Subject, cfg.Source.Buffer, cfg.Source.SubjectID, log)
	case config.SourceCamera:
		return vision.NewCameraSource(vision.CameraOptions{
			Device:        cfg.Source.Device,
			SubjectID:     cfg.Source.SubjectID,
			FaceConfig:    cfg.Source.FaceConfig,
			FaceModel:     cfg.Source.FaceModel,
			LandmarkModel: cfg.Source.LandmarkModel,
			MinConfidence: cfg.Source.MinConfidence,
			PollInterval:  cfg.Source.PollInterval,
		}, log)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
