package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

// RedisOptions параметры подключения
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string // префикс ключа хэша субъекта
	Channel  string // канал pub/sub, пустой отключает публикацию
}

// RedisSink пишет последние значения сигналов в хэш субъекта: HSET attention:<subject> tilted 1 ...
type RedisSink struct {
	client  *redis.Client
	prefix  string
	channel string
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewRedisSink подключается к Redis и проверяет соединение
func NewRedisSink(ctx context.Context, opts RedisOptions, log logrus.FieldLogger) (*RedisSink, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	log.WithField("addr", opts.Addr).Info("connected to Redis")

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "attention:"
	}
	return &RedisSink{
		client:  client,
		prefix:  prefix,
		channel: opts.Channel,
		log:     log,
		now:     time.Now,
	}, nil
}

// Key ключ хэша субъекта
func (s *RedisSink) Key(subjectID string) string {
	return s.prefix + subjectID
}

// Publish обновляет поля хэша и, если задан канал, публикует кадр целиком
func (s *RedisSink) Publish(ctx context.Context, subjectID string, signals []entity.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	at := s.now().UTC()

	fields := make(map[string]interface{}, len(signals)+1)
	for _, sig := range signals {
		fields[string(sig.Kind)] = sig.Value
	}
	fields["updated_at"] = at.Format(time.RFC3339Nano)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.Key(subjectID), fields)
	if s.channel != "" {
		payload, err := encodeSignals(subjectID, signals, at)
		if err != nil {
			return fmt.Errorf("encode signals: %w", err)
		}
		pipe.Publish(ctx, s.channel, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish %s: %w", subjectID, err)
	}
	return nil
}

// Close закрывает соединение
func (s *RedisSink) Close() error {
	return s.client.Close()
}

var _ port.SignalSink = (*RedisSink)(nil)
