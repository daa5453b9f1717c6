package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
)

// UniformType is the GLSL type of a uniform declaration.
type UniformType int

const (
	UniformTypeNone UniformType = iota
	UniformTypeBool
	UniformTypeInt
	UniformTypeFloat
	UniformTypeVec2
	UniformTypeVec3
	UniformTypeVec4
	UniformTypeMat3
	UniformTypeMat4
	UniformTypeStruct
)

var uniformTypes = map[string]UniformType{
	"bool":  UniformTypeBool,
	"int":   UniformTypeInt,
	"float": UniformTypeFloat,
	"vec2":  UniformTypeVec2,
	"vec3":  UniformTypeVec3,
	"vec4":  UniformTypeVec4,
	"mat3":  UniformTypeMat3,
	"mat4":  UniformTypeMat4,
}

// Size returns the byte size of one value of t. Struct sizes depend on their fields and report 0 here.
func (t UniformType) Size() uint32 {
	switch t {
	case UniformTypeBool, UniformTypeInt, UniformTypeFloat:
		return 4
	case UniformTypeVec2:
		return 4 * 2
	case UniformTypeVec3:
		return 4 * 3
	case UniformTypeVec4:
		return 4 * 4
	case UniformTypeMat3:
		return 4 * 3 * 3
	case UniformTypeMat4:
		return 4 * 4 * 4
	}
	return 0
}

func (t UniformType) String() string {
	for name, ut := range uniformTypes {
		if ut == t {
			return name
		}
	}
	switch t {
	case UniformTypeStruct:
		return "struct"
	case UniformTypeNone:
		return "none"
	}
	return fmt.Sprintf("UniformType(%d)", int(t))
}

// UniformDeclaration is one uniform or struct field.
type UniformDeclaration struct {
	Name  string
	Type  UniformType
	Count uint32
	// Size is the byte size of all Count values.
	Size uint32
	// Offset is the byte offset within the owning buffer or struct.
	Offset uint32
	Domain backend.ShaderStage
	// Struct indexes the shader's struct table for UniformTypeStruct declarations, and is -1 otherwise.
	Struct int
}

// UniformStruct is a struct type declared in shader source. It owns its fields.
type UniformStruct struct {
	Name   string
	Size   uint32
	Fields []UniformDeclaration
}

func (s *UniformStruct) addField(field UniformDeclaration) {
	field.Offset = s.Size
	s.Size += field.Size
	s.Fields = append(s.Fields, field)
}

// Field looks up a field by name.
//
// Parameters:
//   - name: the field name
//
// Returns:
//   - UniformDeclaration: the field
//   - bool: true if the field exists
func (s UniformStruct) Field(name string) (UniformDeclaration, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return UniformDeclaration{}, false
}

// UniformBuffer is the packed set of plain uniforms declared by one stage.
type UniformBuffer struct {
	Name     string
	Domain   backend.ShaderStage
	Size     uint32
	Uniforms []UniformDeclaration
}

// push appends u at the end of the buffer.
func (b *UniformBuffer) push(u UniformDeclaration) {
	if n := len(b.Uniforms); n > 0 {
		prev := b.Uniforms[n-1]
		u.Offset = prev.Offset + prev.Size
	}
	b.Size += u.Size
	b.Uniforms = append(b.Uniforms, u)
}

// Find looks up a uniform by name.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - UniformDeclaration: the uniform
//   - bool: true if the uniform exists
func (b UniformBuffer) Find(name string) (UniformDeclaration, bool) {
	for _, u := range b.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return UniformDeclaration{}, false
}

// ResourceType is the kind of an opaque sampler uniform.
type ResourceType int

const (
	ResourceTypeNone ResourceType = iota
	ResourceTypeTexture2D
	ResourceTypeTextureCube
)

var resourceTypes = map[string]ResourceType{
	"sampler2D":   ResourceTypeTexture2D,
	"sampler2DMS": ResourceTypeTexture2D,
	"isampler2D":  ResourceTypeTexture2D,
	"samplerCube": ResourceTypeTextureCube,
}

// ResourceDeclaration is a sampler uniform. Register is the first texture unit assigned to it;
// arrays occupy Count consecutive units.
type ResourceDeclaration struct {
	Name     string
	Type     ResourceType
	Count    uint32
	Register uint32
}

// Declarations is the uniform metadata of a shader program.
type Declarations struct {
	Structs   []UniformStruct
	Buffers   []UniformBuffer
	Resources []ResourceDeclaration
}

// structIndex returns the index of the named struct, or -1.
func (d *Declarations) structIndex(name string) int {
	for i, s := range d.Structs {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// FindUniform searches every stage buffer for name, in stage order.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - UniformDeclaration: the first match
//   - bool: true if found
func (d *Declarations) FindUniform(name string) (UniformDeclaration, bool) {
	for _, b := range d.Buffers {
		if u, ok := b.Find(name); ok {
			return u, true
		}
	}
	return UniformDeclaration{}, false
}

// FindResource looks up a sampler declaration by name.
//
// Parameters:
//   - name: the sampler name
//
// Returns:
//   - ResourceDeclaration: the sampler
//   - bool: true if found
func (d *Declarations) FindResource(name string) (ResourceDeclaration, bool) {
	for _, r := range d.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return ResourceDeclaration{}, false
}
