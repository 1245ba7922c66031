package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recomp/internal/adapters/logger"
)

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, nil)
	lg := slog.New(h).With("unit", "a.ui").WithGroup("cache")

	lg.Info("hit", "entries", 3)

	assert.Equal(t, "hit cache.unit=a.ui cache.entries=3\n", buf.String())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	level := &slog.LevelVar{}
	h := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: level})

	ctx := context.Background()
	assert.True(t, h.Enabled(ctx, slog.LevelInfo))
	assert.False(t, h.Enabled(ctx, slog.LevelDebug))

	level.Set(slog.LevelDebug)
	assert.True(t, h.Enabled(ctx, slog.LevelDebug))
}

func TestPrettyHandler_Levels(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		level slog.Level
		want  string
	}{
		{level: slog.LevelDebug, want: "~ msg\n"},
		{level: slog.LevelInfo, want: "msg\n"},
		{level: slog.LevelWarn, want: "! msg\n"},
		{level: slog.LevelError, want: "✗ msg\n"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			buf := &bytes.Buffer{}
			h := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

			require.NoError(t, h.Handle(context.Background(), slog.NewRecord(time.Time{}, tt.level, "msg", 0)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
