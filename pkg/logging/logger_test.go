package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Format: "json", Component: "api"}, &buf)

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-9")
	l.WithContext(ctx).Info("hello")

	m := decode(t, &buf)
	assert.Equal(t, "api", m["component"])
	assert.Equal(t, "req-1", m["request_id"])
	assert.Equal(t, "user-9", m["user_id"])
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestHTTPRequestLog_ErrorLevelFor5xx(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Format: "json"}, &buf)

	l.HTTPRequestLog("GET", "/api/courses", 503, 12*time.Millisecond, "10.0.0.1")
	m := decode(t, &buf)
	assert.Equal(t, "ERROR", m["level"])
	assert.EqualValues(t, 503, m["status"])
}

func TestAuthLog(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Format: "json"}, &buf)

	l.AuthLog("login", "a@example.com", "10.0.0.1", errors.New("invalid email or password"))
	m := decode(t, &buf)
	assert.Equal(t, "WARN", m["level"])
	assert.Equal(t, "login", m["event"])
	assert.Equal(t, "invalid email or password", m["error"])
}
