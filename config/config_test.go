package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"attention-monitor/internal/domain/attention"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, attention.DefaultConfig(), cfg.Session)
	require.Equal(t, SourceJSONL, cfg.Source.Kind)
	require.Equal(t, "-", cfg.Source.Path)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
session:
  threshold_degrees: 30
  window_capacity: 5
  closer_epsilon: 2
  tilt_axis: pose
source:
  kind: nats
  subject_id: minsu
  subject: frames.minsu
nats:
  url: nats://localhost:4222
telegram:
  chat_ids: [10, 20]
  cooldown: 30s
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TILT_WINDOW_CAPACITY", "12")
	t.Setenv("TELEGRAM_CHAT_IDS", "7, 8,bad")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30.0, cfg.Session.ThresholdDegrees)
	require.Equal(t, 12, cfg.Session.WindowCapacity)
	require.Equal(t, attention.AxisPose, cfg.Session.TiltAxis)
	require.Equal(t, SourceNATS, cfg.Source.Kind)
	require.Equal(t, "frames.minsu", cfg.Source.Subject)
	require.Equal(t, 30*time.Second, cfg.Telegram.Cooldown)
	require.Equal(t, []int64{7, 8}, cfg.Telegram.ChatIDs)
}

func TestValidate_CameraNeedsModels(t *testing.T) {
	cfg := Default()
	cfg.Source.Kind = SourceCamera
	require.Error(t, cfg.Validate())

	cfg.Source.FaceModel = "models/res10_300x300_ssd_iter_140000.caffemodel"
	cfg.Source.FaceConfig = "models/deploy.prototxt"
	cfg.Source.LandmarkModel = "models/pose_model.pb"
	require.NoError(t, cfg.Validate())
}

func TestValidate_NATSSourceNeedsURL(t *testing.T) {
	cfg := Default()
	cfg.Source.Kind = SourceNATS
	require.Error(t, cfg.Validate())

	cfg.NATS.URL = "nats://localhost:4222"
	require.NoError(t, cfg.Validate())
}

func TestValidate_BadSession(t *testing.T) {
	cfg := Default()
	cfg.Session.WindowCapacity = 0
	require.Error(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
}
