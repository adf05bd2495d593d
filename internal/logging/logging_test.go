package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToOutputAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Output: &buf})
	require.NoError(t, err)
	defer logger.Close()

	logger.WithFields(logrus.Fields{"port": 1337}).Info("listener bound")
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "port=1337")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewDefaultsToWarnAndDiscard(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.NoError(t, logger.Close())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func TestNewAppendsToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "share.log")

	for _, msg := range []string{"first", "second"} {
		logger, err := New(Options{Level: "warn", File: path, Output: &buf})
		require.NoError(t, err)
		logger.Warn(msg)
		require.NoError(t, logger.Close())
		require.NoError(t, logger.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=first")
	assert.Contains(t, string(data), "msg=second")
	assert.Empty(t, buf.String())
}
