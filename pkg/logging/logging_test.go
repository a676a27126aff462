package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew(t *testing.T) {
	var b bytes.Buffer
	log := New("warn", &b)

	log.Info("hidden")
	log.Warn("shown", "error", errors.New("boom"))

	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "msg=shown")
	assert.Contains(t, b.String(), "err=boom")
}
