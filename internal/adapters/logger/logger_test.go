package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recomp/internal/adapters/logger"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple message", msg: "some message", goldenName: "info_basic"},
		{name: "multiline message", msg: "line1\nline2", goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("some warning")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Debug(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("evicted a.ui")
	assert.Empty(t, buf.String(), "debug output must be hidden by default")

	lg.SetVerbose(true)
	lg.Debug("evicted a.ui")

	g := goldie.New(t)
	g.Assert(t, "debug_verbose", buf.Bytes())

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("evicted a.ui")
	assert.Empty(t, buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{name: "simple error", err: os.ErrPermission, goldenName: "error_simple"},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 30: cannot unmarshal"),
			goldenName: "error_multiline",
		},
		{
			name:       "compile error",
			err:        domain.NewFileNotFoundError("views/card.ui"),
			goldenName: "error_compile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(zerr.Wrap(errors.New("underlying cause"), "wrapped message"))

	g := goldie.New(t)
	g.Assert(t, "error_chain_zerr_two", buf.Bytes())
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	// fmt.Errorf chains are printed as a single message.
	inner := errors.New("connection refused")
	middle := fmt.Errorf("failed to connect to database: %w", inner)
	outer := fmt.Errorf("failed to initialize service: %w", middle)

	lg, buf := newTestLogger(t)
	lg.Error(outer)

	g := goldie.New(t)
	g.Assert(t, "error_chain_stdlib", buf.Bytes())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("compiled views/card.ui")
	lg.Error(errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "compiled views/card.ui", info["msg"])

	var failure map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &failure))
	assert.Equal(t, "ERROR", failure["level"])
	assert.Equal(t, "boom", failure["error"])
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	lg, _ := newTestLogger(t)
	assert.NotPanics(t, func() {
		lg.SetOutput(nil)
	})
}
