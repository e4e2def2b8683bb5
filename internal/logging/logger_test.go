package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogPut(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, slog.LevelDebug)

	l.LogPut(context.Background(), 3, 7, true, 12)
	assert.Contains(t, buf.String(), "hyperlink stored")
	assert.Contains(t, buf.String(), "registry=3")
	assert.Contains(t, buf.String(), "handle=7")
	assert.Contains(t, buf.String(), "live=12")

	buf.Reset()
	l.LogPut(context.Background(), 3, 7, false, 12)
	assert.Contains(t, buf.String(), "hyperlink reused")
	assert.NotContains(t, buf.String(), "live=")
}

func TestNoopLogger(t *testing.T) {
	l := New(nil)
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
