package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/pkg/logger"
)

func TestInit_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter("production", &buf)
	t.Cleanup(func() { logger.Init("development") })

	logger.LoggerWrapper().Debug("hidden")
	logger.LoggerWrapper().Info("plan built", "employee_id", "e1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "plan built", line["msg"])
	assert.Equal(t, "e1", line["employee_id"])
}

func TestFrom_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter("development", &buf)
	t.Cleanup(func() { logger.Init("development") })

	ctx := logger.With(context.Background(), "request_id", "abc")
	logger.From(ctx).Info("commit")

	assert.Contains(t, buf.String(), "request_id=abc")
	assert.Contains(t, buf.String(), "msg=commit")
}
