package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/framebuffer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestParseEmptyYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
window:
  title: sprites
  vsync: false
renderer:
  backend: none
  clear_color: [0, 0, 0, 1]
batch:
  max_quads: 20
  max_lines: 0
  line_width: 2.5
viewport:
  attachments: [rgba8, depth24stencil8]
`))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "sprites", cfg.Window.Title)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, renderer.BackendTypeNone, cfg.Renderer.Backend)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.Renderer.ClearColor)
	assert.True(t, cfg.Renderer.Blend)
	assert.Equal(t, uint32(20), cfg.Batch.MaxQuads)
	assert.Equal(t, uint32(1000), cfg.Batch.MaxCircles)
	assert.Equal(t, uint32(0), cfg.Batch.MaxLines)
	assert.Equal(t, float32(2.5), cfg.Batch.LineWidth)
	assert.Equal(t, []backend.TextureFormat{backend.TextureFormatRGBA8, backend.TextureFormatDepth24Stencil8}, cfg.Viewport.Attachments)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("window:\n  colour: red\n"))
	assert.Error(t, err)
}

func TestParseRejectsUnknownEnums(t *testing.T) {
	_, err := Parse([]byte("renderer:\n  backend: vulkan\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("viewport:\n  attachments: [rgb565]\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"window size", func(c *Config) { c.Window.Width = 0 }},
		{"tick rate", func(c *Config) { c.Engine.TickRate = 0 }},
		{"frame limit", func(c *Config) { c.Engine.FrameLimit = -1 }},
		{"clear color", func(c *Config) { c.Renderer.ClearColor[2] = 1.5 }},
		{"capacities", func(c *Config) { c.Batch = BatchConfig{MaxTextureSlots: 16, LineWidth: 1} }},
		{"texture slots", func(c *Config) { c.Batch.MaxTextureSlots = 32 }},
		{"only the white texture slot", func(c *Config) { c.Batch.MaxTextureSlots = 1 }},
		{"line width", func(c *Config) { c.Batch.LineWidth = 0 }},
		{"none attachment", func(c *Config) {
			c.Viewport.Attachments = []backend.TextureFormat{backend.TextureFormatNone}
		}},
		{"two depth attachments", func(c *Config) {
			c.Viewport.Attachments = []backend.TextureFormat{backend.TextureFormatDepth24Stencil8, backend.TextureFormatDepth24Stencil8}
		}},
		{"five color attachments", func(c *Config) {
			c.Viewport.Attachments = make([]backend.TextureFormat, framebuffer.MaxColorAttachments+1)
			for i := range c.Viewport.Attachments {
				c.Viewport.Attachments[i] = backend.TextureFormatRGBA8
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "round trip"
	cfg.Renderer.Backend = renderer.BackendTypeNone
	cfg.LogLevel = slog.LevelWarn

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: none")

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ikan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  profiling: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Engine.Profiling)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConversions(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.WindowOptions(), 4)
	assert.Len(t, cfg.EngineOptions(), 3)
	assert.Len(t, cfg.RendererOptions(), 4)
	assert.Len(t, cfg.BatchOptions(), 1)

	spec := cfg.FramebufferSpecification()
	assert.Equal(t, uint32(1280), spec.Width)
	assert.Equal(t, uint32(720), spec.Height)
	assert.Equal(t, mgl32.Vec4{0.1, 0.1, 0.1, 1}, spec.ClearColor)
	assert.Equal(t, cfg.Viewport.Attachments, spec.Attachments)

	spec.Attachments[0] = backend.TextureFormatR32I
	assert.Equal(t, backend.TextureFormatRGBA8, cfg.Viewport.Attachments[0])
}
