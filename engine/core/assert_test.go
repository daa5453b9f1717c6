package core

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFatalLogsAndPanics(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(prev)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		fe, ok := r.(*FatalError)
		require.True(t, ok)
		assert.Contains(t, fe.Error(), "framebuffer incomplete")
		assert.Contains(t, buf.String(), "framebuffer incomplete")
		assert.Contains(t, buf.String(), "level=ERROR")
	}()
	Fatal("framebuffer incomplete", "id", 3)
}

func TestAssertPassesWhenConditionHolds(t *testing.T) {
	assert.NotPanics(t, func() { Assert(true, "never fires") })
}

func TestAssertPanicsWhenConditionFails(t *testing.T) {
	if !AssertionsEnabled {
		t.Skip("assertions compiled out")
	}
	assert.Panics(t, func() { Assert(false, "nested begin") })
}

func TestSetLoggerNilSilences(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)

	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
