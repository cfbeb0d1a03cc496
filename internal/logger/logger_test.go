package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwis/gatehouse/internal/logger"
)

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Debug("hidden")
	log.Info("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestNew_JSONWithAppAttr(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithProduction("gatehouse"), logger.WithOutput(&buf))

	log.Info("started")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "gatehouse", record["app"])
	assert.Equal(t, "started", record["msg"])
}

func TestNew_DevelopmentEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithDevelopment("gatehouse"), logger.WithOutput(&buf))

	log.Debug("debug line")

	assert.Contains(t, buf.String(), "debug line")
}

func TestError_NilSafety(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
}

func TestUserID_ZeroIsEmpty(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.UserID(0))
	assert.Equal(t, "user_id", logger.UserID(42).Key)
}
