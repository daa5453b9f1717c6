// Package buffer implements vertex layouts and the GPU vertex and index buffers that carry them.
package buffer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
)

// ShaderDataType is the type of one vertex attribute as declared in a shader.
type ShaderDataType int

const (
	ShaderDataTypeNone ShaderDataType = iota
	ShaderDataTypeFloat
	ShaderDataTypeFloat2
	ShaderDataTypeFloat3
	ShaderDataTypeFloat4
	ShaderDataTypeMat3
	ShaderDataTypeMat4
	ShaderDataTypeInt
	ShaderDataTypeInt2
	ShaderDataTypeInt3
	ShaderDataTypeInt4
	ShaderDataTypeBool
)

type shaderDataTypeInfo struct {
	name  string
	size  uint32
	count uint32
}

var shaderDataTypes = map[ShaderDataType]shaderDataTypeInfo{
	ShaderDataTypeNone:   {"none", 0, 0},
	ShaderDataTypeFloat:  {"float", 4, 1},
	ShaderDataTypeFloat2: {"float2", 4 * 2, 2},
	ShaderDataTypeFloat3: {"float3", 4 * 3, 3},
	ShaderDataTypeFloat4: {"float4", 4 * 4, 4},
	ShaderDataTypeMat3:   {"mat3", 4 * 3 * 3, 3},
	ShaderDataTypeMat4:   {"mat4", 4 * 4 * 4, 4},
	ShaderDataTypeInt:    {"int", 4, 1},
	ShaderDataTypeInt2:   {"int2", 4 * 2, 2},
	ShaderDataTypeInt3:   {"int3", 4 * 3, 3},
	ShaderDataTypeInt4:   {"int4", 4 * 4, 4},
	ShaderDataTypeBool:   {"bool", 1, 1},
}

// Size returns the byte size of one value of t.
func (t ShaderDataType) Size() uint32 {
	return shaderDataTypes[t].size
}

// ComponentCount returns the number of components of t. Matrices report their row count, which
// is also the number of attribute slots they occupy.
func (t ShaderDataType) ComponentCount() uint32 {
	return shaderDataTypes[t].count
}

// IsInteger reports whether t is read through the integer attribute path.
func (t ShaderDataType) IsInteger() bool {
	switch t {
	case ShaderDataTypeInt, ShaderDataTypeInt2, ShaderDataTypeInt3, ShaderDataTypeInt4, ShaderDataTypeBool:
		return true
	}
	return false
}

// IsMatrix reports whether t spans several attribute slots.
func (t ShaderDataType) IsMatrix() bool {
	return t == ShaderDataTypeMat3 || t == ShaderDataTypeMat4
}

// AttributeType returns the stored component type of t.
func (t ShaderDataType) AttributeType() backend.AttributeType {
	switch {
	case t == ShaderDataTypeBool:
		return backend.AttributeTypeBool
	case t.IsInteger():
		return backend.AttributeTypeInt
	}
	return backend.AttributeTypeFloat
}

func (t ShaderDataType) String() string {
	if info, ok := shaderDataTypes[t]; ok {
		return info.name
	}
	return fmt.Sprintf("ShaderDataType(%d)", int(t))
}

// ParseShaderDataType maps a type name such as "float3" or "mat4" to its ShaderDataType.
//
// Parameters:
//   - s: the type name, case insensitive
//
// Returns:
//   - ShaderDataType: the matching type
//   - error: an error if the name is unknown
func ParseShaderDataType(s string) (ShaderDataType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, info := range shaderDataTypes {
		if info.name == name && t != ShaderDataTypeNone {
			return t, nil
		}
	}
	return ShaderDataTypeNone, fmt.Errorf("unknown shader data type %q", s)
}

// BufferElement is one named attribute of a vertex record. Size and Count are derived from Type
// and Offset is assigned by the owning BufferLayout.
type BufferElement struct {
	Name       string
	Type       ShaderDataType
	Size       uint32
	Count      uint32
	Offset     uint32
	Normalized bool
}

// NewBufferElement creates an element of the given type with its size and count filled in.
//
// Parameters:
//   - name: the attribute name, used for diagnostics
//   - t: the attribute type
//   - normalized: whether fixed-point data is normalized when read as float
//
// Returns:
//   - BufferElement: the element with Offset left at zero
func NewBufferElement(name string, t ShaderDataType, normalized bool) BufferElement {
	return BufferElement{
		Name:       name,
		Type:       t,
		Size:       t.Size(),
		Count:      t.ComponentCount(),
		Normalized: normalized,
	}
}

// BufferLayout is the ordered description of a vertex record.
type BufferLayout struct {
	elements []BufferElement
	stride   uint32
}

// NewBufferLayout creates a layout from elements in declaration order and computes their offsets
// and the stride.
//
// Parameters:
//   - elements: the attributes of the vertex record in declaration order
//
// Returns:
//   - BufferLayout: the packed layout
func NewBufferLayout(elements ...BufferElement) BufferLayout {
	l := BufferLayout{elements: append([]BufferElement(nil), elements...)}
	l.RecalculateOffsetsAndStride()
	return l
}

// AddElement appends an element and recomputes offsets and stride.
func (l *BufferLayout) AddElement(e BufferElement) {
	l.elements = append(l.elements, e)
	l.RecalculateOffsetsAndStride()
}

// RecalculateOffsetsAndStride re-derives every element's size, count and offset from its type and
// position, then sets the stride to the total size.
func (l *BufferLayout) RecalculateOffsetsAndStride() {
	var offset uint32
	for i := range l.elements {
		e := &l.elements[i]
		e.Size = e.Type.Size()
		e.Count = e.Type.ComponentCount()
		e.Offset = offset
		offset += e.Size
	}
	l.stride = offset
}

// Elements returns a copy of the layout's elements.
func (l BufferLayout) Elements() []BufferElement {
	return append([]BufferElement(nil), l.elements...)
}

// Stride returns the byte size of one vertex record.
func (l BufferLayout) Stride() uint32 {
	return l.stride
}

// Empty reports whether the layout has no elements.
func (l BufferLayout) Empty() bool {
	return len(l.elements) == 0
}
