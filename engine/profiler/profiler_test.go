package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/stretchr/testify/assert"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	prev := core.Logger()
	core.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer core.SetLogger(prev)

	clock := time.Unix(100, 0)
	p := NewProfiler()
	p.now = func() time.Time { return clock }
	p.lastTime = clock
	p.AddStatsProvider(func() []slog.Attr {
		return []slog.Attr{slog.Int("draw_calls", 3)}
	})

	clock = clock.Add(500 * time.Millisecond)
	assert.False(t, p.Tick())
	assert.Empty(t, buf.String())

	clock = clock.Add(500 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "fps=2")
	assert.Contains(t, buf.String(), "draw_calls=3")

	buf.Reset()
	p.SetUpdateInterval(2 * time.Second)
	clock = clock.Add(time.Second)
	assert.False(t, p.Tick())
	assert.Empty(t, buf.String())
}
