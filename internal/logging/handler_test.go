// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "not JSON: %s", buf.String())
	return entry
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{Service: "petvida", Version: "1.0.0", Writer: &buf})

	logger.Info("test message", "event", "login")

	entry := decode(t, &buf)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "petvida", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "login", entry["event"])
	assert.Contains(t, entry, "time")
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	Setup(Options{Service: "petvida", Format: "text", Writer: &buf}).Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "service=petvida")
}

func TestSetup_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{Level: slog.LevelWarn, Writer: &buf})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{Service: "petvida", Writer: &buf})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "traced message")

	entry := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestHandler_NoTraceContext(t *testing.T) {
	var buf bytes.Buffer
	Setup(Options{Writer: &buf}).Info("plain")

	entry := decode(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{Service: "petvida", Writer: &buf}).
		With("session_id", "01J").
		WithGroup("req")

	logger.Info("grouped", "handle", "ana")

	entry := decode(t, &buf)
	assert.Equal(t, "01J", entry["session_id"])
	group, ok := entry["req"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ana", group["handle"])
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	t.Run("explicit path appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		for range 2 {
			w, err := OpenFile(path)
			require.NoError(t, err)
			_, err = w.Write([]byte("line\n"))
			require.NoError(t, err)
			require.NoError(t, w.Close())
		}
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "line\nline\n", string(data))
	})

	t.Run("default lives in the state directory", func(t *testing.T) {
		state := t.TempDir()
		t.Setenv("XDG_STATE_HOME", state)
		w, err := OpenFile("")
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.FileExists(t, filepath.Join(state, "petvida", DefaultFileName))
	})

	t.Run("stderr", func(t *testing.T) {
		w, err := OpenFile(Stderr)
		require.NoError(t, err)
		assert.NoError(t, w.Close())
	})
}
