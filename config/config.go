package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"attention-monitor/internal/domain/attention"
	"attention-monitor/internal/infrastructure/logger"
)

// Источники кадров
const (
	SourceJSONL  = "jsonl"
	SourceNATS   = "nats"
	SourceCamera = "camera"
)

type Config struct {
	Session  attention.Config `yaml:"session"`
	Log      logger.Config    `yaml:"log"`
	Source   SourceConfig     `yaml:"source"`
	Redis    RedisConfig      `yaml:"redis"`
	NATS     NATSConfig       `yaml:"nats"`
	Telegram TelegramConfig   `yaml:"telegram"`
}

// SourceConfig откуда берутся ключевые точки
type SourceConfig struct {
	Kind          string        `yaml:"kind" validate:"oneof=jsonl nats camera"`
	SubjectID     string        `yaml:"subject_id" validate:"required"`
	Path          string        `yaml:"path" validate:"required_if=Kind jsonl"`
	Subject       string        `yaml:"subject" validate:"required_if=Kind nats"`
	Buffer        int           `yaml:"buffer" validate:"gte=0"`
	Device        int           `yaml:"device" validate:"gte=0"`
	FaceModel     string        `yaml:"face_model" validate:"required_if=Kind camera"`
	FaceConfig    string        `yaml:"face_config" validate:"required_if=Kind camera"`
	LandmarkModel string        `yaml:"landmark_model" validate:"required_if=Kind camera"`
	MinConfidence float64       `yaml:"min_confidence" validate:"gte=0,lte=1"`
	PollInterval  time.Duration `yaml:"poll_interval" validate:"gte=0"`
}

// RedisConfig получатель сигналов в Redis
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" validate:"required_if=Enabled true"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix"`
	Channel  string `yaml:"channel"`
}

// NATSConfig подключение к NATS для кадров и сигналов
type NATSConfig struct {
	URL            string        `yaml:"url"`
	MaxReconnects  int           `yaml:"max_reconnects"`
	ReconnectWait  time.Duration `yaml:"reconnect_wait"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SignalSubject  string        `yaml:"signal_subject"`
}

// TelegramConfig оповещения в Telegram
type TelegramConfig struct {
	Token    string        `yaml:"token"`
	ChatIDs  []int64       `yaml:"chat_ids"`
	Cooldown time.Duration `yaml:"cooldown" validate:"gte=0"`
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Session: attention.DefaultConfig(),
		Log: logger.Config{
			Level: "info",
		},
		Source: SourceConfig{
			Kind:          SourceJSONL,
			SubjectID:     "default",
			Path:          "-",
			Subject:       "perception.frames",
			Buffer:        64,
			MinConfidence: 0.5,
			PollInterval:  3 * time.Second,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "attention:",
		},
		NATS: NATSConfig{
			MaxReconnects:  10,
			ReconnectWait:  time.Second,
			ConnectTimeout: 2 * time.Second,
			SignalSubject:  "attention.signals",
		},
		Telegram: TelegramConfig{
			Cooldown: time.Minute,
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, YAML-файл из CONFIG_FILE, переменные окружения
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Session.ThresholdDegrees = getEnvAsFloat("TILT_THRESHOLD_DEGREES", c.Session.ThresholdDegrees)
	c.Session.WindowCapacity = getEnvAsInt("TILT_WINDOW_CAPACITY", c.Session.WindowCapacity)
	c.Session.CloserEpsilon = getEnvAsFloat("CLOSER_EPSILON", c.Session.CloserEpsilon)
	c.Session.TiltAxis = attention.TiltAxis(getEnv("TILT_AXIS", string(c.Session.TiltAxis)))

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)

	c.Source.Kind = getEnv("SOURCE_KIND", c.Source.Kind)
	c.Source.SubjectID = getEnv("SOURCE_SUBJECT_ID", c.Source.SubjectID)
	c.Source.Path = getEnv("SOURCE_PATH", c.Source.Path)
	c.Source.Subject = getEnv("SOURCE_NATS_SUBJECT", c.Source.Subject)
	c.Source.Device = getEnvAsInt("CAMERA_DEVICE", c.Source.Device)
	c.Source.FaceModel = getEnv("FACE_MODEL", c.Source.FaceModel)
	c.Source.FaceConfig = getEnv("FACE_CONFIG", c.Source.FaceConfig)
	c.Source.LandmarkModel = getEnv("LANDMARK_MODEL", c.Source.LandmarkModel)
	c.Source.PollInterval = getEnvAsDuration("CAMERA_POLL_INTERVAL", c.Source.PollInterval)

	c.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Addr = getEnv("REDIS_ADDRESS", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)
	c.Redis.Channel = getEnv("REDIS_CHANNEL", c.Redis.Channel)

	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.NATS.SignalSubject = getEnv("NATS_SIGNAL_SUBJECT", c.NATS.SignalSubject)

	c.Telegram.Token = getEnv("TELEGRAM_TOKEN", c.Telegram.Token)
	c.Telegram.ChatIDs = getEnvAsInt64Slice("TELEGRAM_CHAT_IDS", c.Telegram.ChatIDs)
	c.Telegram.Cooldown = getEnvAsDuration("TELEGRAM_ALERT_COOLDOWN", c.Telegram.Cooldown)
}

var validate = validator.New()

// Validate проверяет конфигурацию целиком
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Source.Kind == SourceNATS && c.NATS.URL == "" {
		return fmt.Errorf("invalid config: NATS_URL is required for nats source")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64Slice(key string, defaultValue []int64) []int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	out := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
