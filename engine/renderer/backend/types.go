package backend

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// BufferTarget is the bind point of a buffer.
type BufferTarget int

const (
	BufferTargetArray BufferTarget = iota
	BufferTargetElementArray
)

// BufferUsage is the driver usage hint of a buffer's storage.
type BufferUsage int

const (
	// BufferUsageStatic marks storage written once at creation.
	BufferUsageStatic BufferUsage = iota
	// BufferUsageDynamic marks storage rewritten every frame.
	BufferUsageDynamic
)

// AttributeType is the component type of a vertex attribute as it is stored in the buffer.
type AttributeType int

const (
	AttributeTypeFloat AttributeType = iota
	AttributeTypeInt
	AttributeTypeBool
)

// StepRate controls how often a vertex attribute advances.
type StepRate int

const (
	// StepRateVertex advances the attribute once per vertex.
	StepRateVertex StepRate = iota
	// StepRateInstance advances the attribute once per drawn instance.
	StepRateInstance
)

func (s StepRate) String() string {
	if s == StepRateInstance {
		return "instance"
	}
	return "vertex"
}

// AttributeSlot describes one vertex shader input binding.
type AttributeSlot struct {
	// Index is the attribute location.
	Index uint32
	// Name is the layout element the slot was derived from. Matrix rows share the element name.
	Name string
	// Components is the number of components read per vertex (1 to 4).
	Components int32
	// Type is the stored component type.
	Type AttributeType
	// Integer selects the integer attribute path (no float conversion).
	Integer bool
	// Normalized maps fixed-point data to [0,1] or [-1,1]. Ignored for integer slots.
	Normalized bool
	// Stride is the byte distance between consecutive records.
	Stride int32
	// Offset is the byte offset of the first component within a record.
	Offset int
	// Rate is the advance rate of the slot.
	Rate StepRate
}

// TextureFormat is the storage format of a texture or framebuffer attachment.
type TextureFormat int

const (
	TextureFormatNone TextureFormat = iota
	// TextureFormatRGBA8 is a standard 8-bit per channel color texture.
	TextureFormatRGBA8
	// TextureFormatR32I is a single channel signed integer texture used for object picking.
	TextureFormatR32I
	// TextureFormatDepth24Stencil8 is a combined depth and stencil texture.
	TextureFormatDepth24Stencil8
)

var textureFormatNames = map[TextureFormat]string{
	TextureFormatNone:            "none",
	TextureFormatRGBA8:           "rgba8",
	TextureFormatR32I:            "r32i",
	TextureFormatDepth24Stencil8: "depth24stencil8",
}

// IsDepth reports whether f is a depth format.
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth24Stencil8
}

// BytesPerPixel returns the storage size of one texel.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA8, TextureFormatR32I, TextureFormatDepth24Stencil8:
		return 4
	}
	return 0
}

func (f TextureFormat) String() string {
	if n, ok := textureFormatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("TextureFormat(%d)", int(f))
}

// ParseTextureFormat maps a format name as written in configuration files to a TextureFormat.
//
// Parameters:
//   - s: the format name, case insensitive
//
// Returns:
//   - TextureFormat: the matching format
//   - error: an error if the name is unknown
func ParseTextureFormat(s string) (TextureFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, n := range textureFormatNames {
		if n == name && f != TextureFormatNone {
			return f, nil
		}
	}
	return TextureFormatNone, fmt.Errorf("unknown texture format %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f TextureFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *TextureFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseTextureFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// TextureFilter is the minification and magnification filter of a texture.
type TextureFilter int

const (
	TextureFilterLinear TextureFilter = iota
	TextureFilterNearest
)

// TextureWrap is the addressing mode of a texture outside [0,1].
type TextureWrap int

const (
	TextureWrapClampToEdge TextureWrap = iota
	TextureWrapRepeat
	TextureWrapClampToBorder
)

// TextureImage is the content and sampling state of a 2D texture upload.
type TextureImage struct {
	Width, Height int32
	Format        TextureFormat
	// Data holds Width*Height texels, or nil to leave storage uninitialized.
	Data   []byte
	Filter TextureFilter
	Wrap   TextureWrap
	// BorderColor is used with TextureWrapClampToBorder.
	BorderColor mgl32.Vec4
}

// Attachment is a framebuffer attachment point. Non-negative values are color attachment indices.
type Attachment int

const (
	AttachmentDepthStencil Attachment = -1
)

// ColorAttachment returns the color attachment point with the given index.
func ColorAttachment(index int) Attachment {
	return Attachment(index)
}

// IsColor reports whether a is a color attachment.
func (a Attachment) IsColor() bool {
	return a >= 0
}

// Capability is a fixed-function state toggle.
type Capability int

const (
	CapabilityDepthTest Capability = iota
	CapabilityBlend
	CapabilityMultiSample
)

// DepthFunc is a depth comparison function.
type DepthFunc int

const (
	DepthFuncLess DepthFunc = iota
	DepthFuncLessEqual
	DepthFuncEqual
	DepthFuncGreater
	DepthFuncGreaterEqual
	DepthFuncNotEqual
	DepthFuncAlways
	DepthFuncNever
)

// ClearMask selects the buffers affected by Clear.
type ClearMask uint32

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
	ClearStencil
)

// Topology is the primitive assembly mode of a draw.
type Topology int

const (
	TopologyTriangles Topology = iota
	TopologyLines
	TopologyLineStrip
	TopologyPoints
)

func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "triangles"
	case TopologyLines:
		return "lines"
	case TopologyLineStrip:
		return "line_strip"
	case TopologyPoints:
		return "points"
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

// Viewport is a rectangle of the render target in pixels.
type Viewport struct {
	X, Y, Width, Height int32
}

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
	ShaderStageGeometry
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	case ShaderStageGeometry:
		return "geometry"
	}
	return fmt.Sprintf("ShaderStage(%d)", int(s))
}

// ShaderSource is the source text of one pipeline stage.
type ShaderSource struct {
	Stage  ShaderStage
	Source string
}
