package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level uint32, jsonFormat bool) *bytes.Buffer {
	t.Helper()
	SetLogger(level, jsonFormat, false)
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetLogger(uint32(logrus.InfoLevel), false, false) })
	return &buf
}

func TestLoggerJSON(t *testing.T) {
	buf := capture(t, uint32(logrus.DebugLevel), true)

	Info("derived address", "policy", "pk", "height", 10)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "derived address", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "pk", entry["policy"])
	assert.Equal(t, float64(10), entry["height"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}$`, entry["time"])
}

func TestLoggerLevel(t *testing.T) {
	buf := capture(t, uint32(logrus.WarnLevel), false)
	assert.Equal(t, logrus.WarnLevel, GetLevel())

	Debug("hidden")
	Info("hidden")
	assert.Empty(t, buf.String())

	Warn("shown", "key", "value")
	assert.Contains(t, buf.String(), `msg="shown"`)
	assert.Contains(t, buf.String(), `key="value"`)
}

func TestWithFieldsOddAndBadKeys(t *testing.T) {
	capture(t, uint32(logrus.TraceLevel), true)

	entry := WithFields("a", 1, 2, "b", "dangling")
	assert.Equal(t, logrus.Fields{"a": 1}, entry.Data)
	assert.Empty(t, WithFields().Data)
}
