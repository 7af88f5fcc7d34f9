package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.DebugLevel).With(String("session", "default"))

	l.Debug("run",
		String("regime", "stable"),
		Float64("alpha", 0.25),
		Int("window", 60),
		Bool("synthetic", true),
		Duration("took", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "run", entry["message"])
	assert.Equal(t, "default", entry["session"])
	assert.Equal(t, "stable", entry["regime"])
	assert.Equal(t, 0.25, entry["alpha"])
	assert.Equal(t, 60.0, entry["window"])
	assert.Equal(t, true, entry["synthetic"])
	assert.Equal(t, 1500.0, entry["took"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.InfoLevel)
	l.Debug("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}
