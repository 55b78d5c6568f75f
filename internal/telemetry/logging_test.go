package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetCorrelationID(ctx))

	ctx = WithCorrelationID(ctx, "req-42")
	assert.Equal(t, "req-42", GetCorrelationID(ctx))
}

func TestNewCorrelationID_Unique(t *testing.T) {
	a := NewCorrelationID()
	b := NewCorrelationID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	config := DefaultLogConfig()
	config.Level = "chatty"

	logger, err := NewLogger(config)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLogger_UnwritableFileOutput(t *testing.T) {
	config := DefaultLogConfig()
	config.Output = "/nonexistent-dir/homescout.log"

	_, err := NewLogger(config)
	assert.Error(t, err)
}

func TestContextualLogger_IncludesCorrelationID(t *testing.T) {
	logger, err := NewLogger(DefaultLogConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx := WithCorrelationID(context.Background(), "req-42")
	logger.WithContext(ctx).WithField("operation", "test").Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry["correlation_id"])
	assert.Equal(t, "test", entry["operation"])
	assert.Equal(t, "hello", entry["msg"])
}
