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
)

func TestLogger_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("name", "ctl"))
	ctx = AppendCtx(ctx, slog.Int("run", 2))
	log.InfoContext(ctx, "composited", "units", 320)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "composited", rec["msg"])
	assert.Equal(t, "ctl", rec["name"])
	assert.Equal(t, float64(2), rec["run"])
	assert.Equal(t, float64(320), rec["units"])
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelWarn)
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.With("mode", "pal528").Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "mode=pal528")
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xfbctl.log")
	w := RotatingFile(path, 0)
	Logger(w, false, slog.LevelInfo).Info("hello")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
}
