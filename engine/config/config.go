// Package config loads the YAML application configuration and converts it into builder options for
// the window, renderer, batch renderer and engine.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/batch"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/framebuffer"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure returned by Load, Parse and Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the root of the application configuration file.
type Config struct {
	LogLevel slog.Level     `yaml:"log_level"`
	Window   WindowConfig   `yaml:"window"`
	Engine   EngineConfig   `yaml:"engine"`
	Renderer RendererConfig `yaml:"renderer"`
	Batch    BatchConfig    `yaml:"batch"`
	Viewport ViewportConfig `yaml:"viewport"`
}

// WindowConfig configures the platform window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// EngineConfig configures the main loop.
type EngineConfig struct {
	// TickRate is the fixed update rate in ticks per second.
	TickRate float64 `yaml:"tick_rate"`
	// FrameLimit caps the render rate in frames per second. 0 means uncapped.
	FrameLimit float64 `yaml:"frame_limit"`
	Profiling  bool    `yaml:"profiling"`
}

// RendererConfig configures the renderer API and its initial state.
type RendererConfig struct {
	Backend     renderer.RendererBackendType `yaml:"backend"`
	ClearColor  [4]float32                   `yaml:"clear_color,flow"`
	DepthTest   bool                         `yaml:"depth_test"`
	Blend       bool                         `yaml:"blend"`
	MultiSample bool                         `yaml:"multisample"`
}

// BatchConfig configures the batch 2D renderer.
type BatchConfig struct {
	MaxQuads        uint32  `yaml:"max_quads"`
	MaxCircles      uint32  `yaml:"max_circles"`
	MaxLines        uint32  `yaml:"max_lines"`
	MaxTextureSlots uint32  `yaml:"max_texture_slots"`
	LineWidth       float32 `yaml:"line_width"`
}

// ViewportConfig configures the offscreen framebuffer the scene is rendered into.
type ViewportConfig struct {
	Attachments []backend.TextureFormat `yaml:"attachments,flow"`
}

// Default returns the configuration used for any field a file leaves out.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		LogLevel: slog.LevelInfo,
		Window: WindowConfig{
			Title:  "ikan",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
		Renderer: RendererConfig{
			Backend:     renderer.BackendTypeOpenGL,
			ClearColor:  [4]float32{0.1, 0.1, 0.1, 1},
			DepthTest:   true,
			Blend:       true,
			MultiSample: true,
		},
		Batch: BatchConfig{
			MaxQuads:        10000,
			MaxCircles:      1000,
			MaxLines:        1000,
			MaxTextureSlots: batch.DefaultMaxTextureSlots,
			LineWidth:       1,
		},
		Viewport: ViewportConfig{
			Attachments: []backend.TextureFormat{
				backend.TextureFormatRGBA8,
				backend.TextureFormatR32I,
				backend.TextureFormatDepth24Stencil8,
			},
		},
	}
}

// Load reads and parses the configuration file at path.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - Config: the parsed configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown keys are rejected and an
// empty document yields the defaults.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: error if decoding or validation fails
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
//
// Returns:
//   - []byte: the YAML document
//   - error: error if encoding fails
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field against the limits of the components it configures.
//
// Returns:
//   - error: every violation joined together and wrapping ErrInvalid, or nil
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Engine.TickRate <= 0 {
		invalid("engine.tick_rate %g must be positive", c.Engine.TickRate)
	}
	if c.Engine.FrameLimit < 0 {
		invalid("engine.frame_limit %g must not be negative", c.Engine.FrameLimit)
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			invalid("renderer.clear_color[%d] %g is outside [0, 1]", i, v)
		}
	}
	if c.Batch.MaxQuads == 0 && c.Batch.MaxCircles == 0 && c.Batch.MaxLines == 0 {
		invalid("batch capacities are all zero")
	}
	if c.Batch.MaxTextureSlots < batch.MinTextureSlots || c.Batch.MaxTextureSlots > batch.DefaultMaxTextureSlots {
		invalid("batch.max_texture_slots %d must be in [%d, %d]", c.Batch.MaxTextureSlots, batch.MinTextureSlots, batch.DefaultMaxTextureSlots)
	}
	if c.Batch.LineWidth <= 0 {
		invalid("batch.line_width %g must be positive", c.Batch.LineWidth)
	}

	var colors, depths int
	for _, f := range c.Viewport.Attachments {
		switch {
		case f == backend.TextureFormatNone:
			invalid("viewport.attachments contains none")
		case f.IsDepth():
			depths++
		default:
			colors++
		}
	}
	if depths > 1 {
		invalid("viewport.attachments has %d depth formats, at most 1 is allowed", depths)
	}
	if colors > framebuffer.MaxColorAttachments {
		invalid("viewport.attachments has %d color formats, at most %d are allowed", colors, framebuffer.MaxColorAttachments)
	}

	return errors.Join(errs...)
}
