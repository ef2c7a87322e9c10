package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artikelin/api/internal/config"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithOutput(config.ServerConfig{Env: "production", LogLevel: "info"}, &buf)

	logger.WithField("job_id", "abc").Info("job started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "job started", entry["msg"])
	assert.Equal(t, "abc", entry["job_id"])
}

func TestNew_Level(t *testing.T) {
	logger := newWithOutput(config.ServerConfig{LogLevel: "debug"}, &bytes.Buffer{})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger = newWithOutput(config.ServerConfig{LogLevel: "nonsense"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
