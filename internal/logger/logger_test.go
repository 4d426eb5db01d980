package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		environment string
		wantLevel   logrus.Level
		wantJSON    bool
	}{
		{name: "Should use text formatter in development", level: "debug", environment: "development", wantLevel: logrus.DebugLevel},
		{name: "Should use JSON formatter in production", level: "warn", environment: "production", wantLevel: logrus.WarnLevel, wantJSON: true},
		{name: "Should use JSON formatter in staging", level: "INFO", environment: "Staging", wantLevel: logrus.InfoLevel, wantJSON: true},
		{name: "Should default to info on invalid level", level: "loud", environment: "", wantLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewWithOutput(&bytes.Buffer{}, tt.level, tt.environment)

			assert.Equal(t, tt.wantLevel, log.GetLevel())
			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "info", "production")

	Component(log, "scheduler").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "scheduler", line["component"])
	assert.Equal(t, "hello", line["msg"])
}
