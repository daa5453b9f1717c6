// Package shader compiles GLSL programs through the backend and keeps the uniform declarations
// parsed from their source.
//
// A source file holds every stage of a program, each introduced by a "#type <stage>" line:
//
//	#type vertex
//	#version 330 core
//	...
//	#type fragment
//	#version 330 core
//	...
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/go-gl/mathgl/mgl32"
)

// shader is the implementation of the Shader interface.
type shader struct {
	backend      backend.Backend
	id           backend.RendererID
	name         string
	stages       []backend.ShaderSource
	declarations Declarations
	locations    map[string]int32
	warned       map[string]bool
	released     bool
}

// Shader is a linked GPU program together with the uniform declarations parsed from its source.
type Shader interface {
	// Name returns the name given at creation.
	//
	// Returns:
	//   - string: the shader name
	Name() string

	// RendererID returns the native program handle.
	//
	// Returns:
	//   - backend.RendererID: the program handle
	RendererID() backend.RendererID

	// Bind makes this program active. Uniform setters apply to the active program, so Bind must be
	// called before them.
	Bind()

	// Unbind clears the active program.
	Unbind()

	// SetUniformInt uploads an int uniform. Undeclared names are logged once and skipped.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the value
	SetUniformInt(name string, v int32)

	// SetUniformIntArray uploads an int array uniform. Undeclared names are logged once and skipped.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the values
	SetUniformIntArray(name string, v []int32)

	// SetUniformFloat uploads a float uniform. Undeclared names are logged once and skipped.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the value
	SetUniformFloat(name string, v float32)

	// SetUniformFloat4 uploads a vec4 uniform. Undeclared names are logged once and skipped.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the value
	SetUniformFloat4(name string, v mgl32.Vec4)

	// SetUniformMat4 uploads a mat4 uniform. Undeclared names are logged once and skipped.
	//
	// Parameters:
	//   - name: the uniform name
	//   - m: the value
	SetUniformMat4(name string, m mgl32.Mat4)

	// FindUniform looks up a plain uniform declaration by name across all stages.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - UniformDeclaration: the declaration
	//   - bool: true if it exists
	FindUniform(name string) (UniformDeclaration, bool)

	// Declarations returns the parsed struct, uniform and sampler declarations.
	//
	// Returns:
	//   - Declarations: the declaration tree
	Declarations() Declarations

	// Stages returns the per-stage sources the program was linked from.
	//
	// Returns:
	//   - []backend.ShaderSource: the stage sources
	Stages() []backend.ShaderSource

	// Release frees the program. Calls after the first are no-ops.
	Release()
}

var _ Shader = &shader{}

// NewShader splits source into stages, parses its declarations, compiles and links it, and assigns
// consecutive texture units to every sampler uniform.
//
// Parameters:
//   - b: the backend that compiles the program
//   - name: a name used in log output
//   - source: the combined source with "#type" stage headers
//
// Returns:
//   - Shader: the linked program
//   - error: an error if the source is malformed or fails to compile or link
func NewShader(b backend.Backend, name, source string) (Shader, error) {
	stages, err := SplitStages(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	decls, err := ParseDeclarations(stages)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	s := &shader{
		backend:      b,
		name:         name,
		stages:       stages,
		declarations: decls,
		locations:    make(map[string]int32),
		warned:       make(map[string]bool),
	}
	s.id = b.AcquireShader()
	if err := b.CompileProgram(s.id, stages); err != nil {
		b.ReleaseShader(s.id)
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	s.bindResources()
	core.Logger().Debug("created shader", "name", name, "id", s.id,
		"stages", len(stages),
		"uniform_buffers", len(decls.Buffers),
		"structs", len(decls.Structs),
		"resources", len(decls.Resources),
	)
	return s, nil
}

// bindResources points every sampler uniform at its registers.
func (s *shader) bindResources() {
	if len(s.declarations.Resources) == 0 {
		return
	}
	s.Bind()
	for _, r := range s.declarations.Resources {
		loc := s.location(r.Name)
		if loc < 0 {
			continue
		}
		if r.Count == 1 {
			s.backend.SetUniformInt(loc, int32(r.Register))
			continue
		}
		units := make([]int32, r.Count)
		for i := range units {
			units[i] = int32(r.Register) + int32(i)
		}
		s.backend.SetUniformIntArray(loc, units)
	}
	s.Unbind()
}

func (s *shader) Name() string {
	return s.name
}

func (s *shader) RendererID() backend.RendererID {
	return s.id
}

func (s *shader) Bind() {
	s.backend.UseProgram(s.id)
}

func (s *shader) Unbind() {
	s.backend.UseProgram(0)
}

func (s *shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := s.backend.UniformLocation(s.id, name)
	s.locations[name] = loc
	return loc
}

// resolve returns the location of a declared uniform, or -1 after warning once about an
// undeclared one. Struct members and array elements are checked against their base name.
func (s *shader) resolve(name string) int32 {
	base := name
	if i := strings.IndexAny(base, ".["); i >= 0 {
		base = base[:i]
	}
	_, isUniform := s.declarations.FindUniform(base)
	_, isResource := s.declarations.FindResource(base)
	if !isUniform && !isResource {
		if !s.warned[name] {
			s.warned[name] = true
			core.Logger().Warn("uniform not declared in shader", "shader", s.name, "uniform", name)
		}
		return -1
	}
	return s.location(name)
}

func (s *shader) SetUniformInt(name string, v int32) {
	if loc := s.resolve(name); loc >= 0 {
		s.backend.SetUniformInt(loc, v)
	}
}

func (s *shader) SetUniformIntArray(name string, v []int32) {
	if loc := s.resolve(name); loc >= 0 {
		s.backend.SetUniformIntArray(loc, v)
	}
}

func (s *shader) SetUniformFloat(name string, v float32) {
	if loc := s.resolve(name); loc >= 0 {
		s.backend.SetUniformFloat(loc, v)
	}
}

func (s *shader) SetUniformFloat4(name string, v mgl32.Vec4) {
	if loc := s.resolve(name); loc >= 0 {
		s.backend.SetUniformFloat4(loc, v)
	}
}

func (s *shader) SetUniformMat4(name string, m mgl32.Mat4) {
	if loc := s.resolve(name); loc >= 0 {
		s.backend.SetUniformMat4(loc, m)
	}
}

func (s *shader) FindUniform(name string) (UniformDeclaration, bool) {
	return s.declarations.FindUniform(name)
}

func (s *shader) Declarations() Declarations {
	return s.declarations
}

func (s *shader) Stages() []backend.ShaderSource {
	return append([]backend.ShaderSource(nil), s.stages...)
}

func (s *shader) Release() {
	if s.released {
		return
	}
	s.released = true
	s.backend.ReleaseShader(s.id)
	core.Logger().Debug("destroyed shader", "name", s.name, "id", s.id)
}
