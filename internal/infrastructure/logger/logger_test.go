package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	log, err := New(Config{Level: "debug", NoColors: true})
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log, err = New(Config{})
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}

func TestNew_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "monitor.log")
	log, err := New(Config{Level: "info", File: file, NoColors: true})
	require.NoError(t, err)

	log.WithField("subject", "minsu").Info("signals derived")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "signals derived")
	require.Contains(t, string(data), "minsu")
}
