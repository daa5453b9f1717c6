package renderer

import (
	"fmt"
	"strings"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeNone selects no GPU backend. Only valid when a backend is injected with WithBackend,
	// which is how headless tools and tests run the renderer.
	BackendTypeNone RendererBackendType = iota

	// BackendTypeOpenGL selects the OpenGL 4.1 core backend. A current GL context is required.
	BackendTypeOpenGL
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeNone:
		return "none"
	case BackendTypeOpenGL:
		return "opengl"
	default:
		return fmt.Sprintf("RendererBackendType(%d)", int(t))
	}
}

// ParseRendererBackendType converts a configuration name into a RendererBackendType.
//
// Parameters:
//   - s: "none" or "opengl", case-insensitive
//
// Returns:
//   - RendererBackendType: the backend type
//   - error: an error if the name is unknown
func ParseRendererBackendType(s string) (RendererBackendType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return BackendTypeNone, nil
	case "opengl", "gl":
		return BackendTypeOpenGL, nil
	default:
		return BackendTypeNone, fmt.Errorf("unknown renderer backend %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t RendererBackendType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RendererBackendType) UnmarshalText(text []byte) error {
	v, err := ParseRendererBackendType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
