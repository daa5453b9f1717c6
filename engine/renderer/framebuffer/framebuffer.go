// Package framebuffer implements off-screen render targets with color, entity-id and depth attachments.
package framebuffer

import (
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxColorAttachments is the largest number of color attachments a framebuffer may carry.
const MaxColorAttachments = 4

// Specification describes the size, clear color and attachment formats of a framebuffer.
type Specification struct {
	Width       uint32
	Height      uint32
	ClearColor  mgl32.Vec4
	Attachments []backend.TextureFormat
}

// framebuffer is the implementation of the Framebuffer interface.
type framebuffer struct {
	backend backend.Backend
	spec    Specification

	colorFormats []backend.TextureFormat
	depthFormat  backend.TextureFormat

	id         backend.RendererID
	colorIDs   []backend.RendererID
	depthID    backend.RendererID
	pixelIndex int
	saved      backend.Viewport
	released   bool
}

// Framebuffer is a render target the renderer can draw into instead of the default surface.
type Framebuffer interface {
	// Invalidate recreates the framebuffer and all of its attachments at the current specification size.
	// Previous attachments and the previous handle are released first.
	Invalidate()

	// Resize changes the attachment size and recreates them. The viewport active before the call is
	// active again afterwards.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height uint32)

	// Bind makes the framebuffer the render target and sets the viewport to its size. The viewport
	// active at the time of the call is saved for Unbind.
	Bind()

	// Unbind restores the default render target and the viewport saved by Bind.
	Unbind()

	// UpdateSpecificationColor changes the clear color without recreating the attachments.
	//
	// Parameters:
	//   - color: the new clear color
	UpdateSpecificationColor(color mgl32.Vec4)

	// ReadPixel reads a single integer texel from a color attachment. Used for entity picking.
	//
	// Parameters:
	//   - attachmentIndex: the color attachment to read
	//   - x: the pixel column
	//   - y: the pixel row
	//
	// Returns:
	//   - int32: the stored value
	ReadPixel(attachmentIndex int, x, y int32) int32

	// ClearAttachment fills an integer color attachment with value. The framebuffer must be bound.
	// Clearing the picking attachment to -1 marks every pixel as background.
	//
	// Parameters:
	//   - attachmentIndex: the color attachment to clear
	//   - value: the fill value
	ClearAttachment(attachmentIndex int, value int32)

	// Specification returns a copy of the current specification.
	//
	// Returns:
	//   - Specification: the specification
	Specification() Specification

	// ColorAttachmentIDs returns the native handles of the color attachments in attachment order.
	//
	// Returns:
	//   - []backend.RendererID: the color attachment handles
	ColorAttachmentIDs() []backend.RendererID

	// DepthAttachmentID returns the native handle of the depth attachment, or 0 if there is none.
	//
	// Returns:
	//   - backend.RendererID: the depth attachment handle
	DepthAttachmentID() backend.RendererID

	// PixelPickAttachmentIndex returns the index of the R32I color attachment, or -1 if there is none.
	//
	// Returns:
	//   - int: the attachment index
	PixelPickAttachmentIndex() int

	// RendererID returns the native framebuffer handle.
	//
	// Returns:
	//   - backend.RendererID: the handle
	RendererID() backend.RendererID

	// Release frees the attachments and the framebuffer handle. Calls after the first are no-ops.
	Release()
}

var _ Framebuffer = &framebuffer{}

// NewFramebuffer validates spec and creates the framebuffer with its attachments. More than one
// depth format, more than MaxColorAttachments color formats, or an incomplete framebuffer is fatal.
//
// Parameters:
//   - b: the backend that allocates the framebuffer
//   - spec: the framebuffer specification
//
// Returns:
//   - Framebuffer: the framebuffer
func NewFramebuffer(b backend.Backend, spec Specification) Framebuffer {
	fb := &framebuffer{
		backend:    b,
		spec:       spec,
		pixelIndex: -1,
	}
	fb.spec.Attachments = append([]backend.TextureFormat(nil), spec.Attachments...)

	for _, f := range spec.Attachments {
		switch {
		case f == backend.TextureFormatNone:
			core.Fatal("framebuffer attachment has no format")
		case f.IsDepth():
			if fb.depthFormat != backend.TextureFormatNone {
				core.Fatal("framebuffer supports a single depth attachment", "first", fb.depthFormat.String(), "second", f.String())
			}
			fb.depthFormat = f
		default:
			fb.colorFormats = append(fb.colorFormats, f)
		}
	}
	if len(fb.colorFormats) > MaxColorAttachments {
		core.Fatal("too many framebuffer color attachments", "count", len(fb.colorFormats), "max", MaxColorAttachments)
	}

	fb.Invalidate()
	return fb
}

func (fb *framebuffer) releaseAttachments() {
	if len(fb.colorIDs) > 0 {
		fb.backend.ReleaseTextures(fb.colorIDs...)
		fb.colorIDs = nil
	}
	if fb.depthID != 0 {
		fb.backend.ReleaseTextures(fb.depthID)
		fb.depthID = 0
	}
	if fb.id != 0 {
		fb.backend.ReleaseFramebuffer(fb.id)
		fb.id = 0
	}
}

func (fb *framebuffer) Invalidate() {
	fb.releaseAttachments()
	fb.released = false

	fb.id = fb.backend.AcquireFramebuffer()
	fb.backend.BindFramebuffer(fb.id)
	core.Logger().Debug("invalidating framebuffer",
		"id", fb.id,
		"width", fb.spec.Width,
		"height", fb.spec.Height,
		"colors", len(fb.colorFormats),
		"depth", fb.depthFormat.String(),
	)

	fb.pixelIndex = -1
	if len(fb.colorFormats) > 0 {
		fb.colorIDs = fb.backend.AcquireTextures(len(fb.colorFormats))
		for i, f := range fb.colorFormats {
			fb.attach(backend.ColorAttachment(i), fb.colorIDs[i], f, backend.TextureWrapClampToEdge)
			if f == backend.TextureFormatR32I {
				fb.pixelIndex = i
			}
		}
	}

	depthOnly := len(fb.colorFormats) == 0 && fb.depthFormat != backend.TextureFormatNone
	if fb.depthFormat != backend.TextureFormatNone {
		fb.depthID = fb.backend.AcquireTextures(1)[0]
		wrap := backend.TextureWrapClampToEdge
		if depthOnly {
			wrap = backend.TextureWrapClampToBorder
		}
		fb.attach(backend.AttachmentDepthStencil, fb.depthID, fb.depthFormat, wrap)
	}

	switch {
	case len(fb.colorFormats) > 0:
		fb.backend.DrawBuffers(len(fb.colorFormats))
		fb.checkComplete()
	case depthOnly:
		fb.backend.DisableColorBuffers()
		fb.checkComplete()
	default:
		core.Logger().Warn("framebuffer created without attachments", "id", fb.id)
	}

	fb.backend.BindTexture(0)
	fb.backend.BindFramebuffer(0)
}

func (fb *framebuffer) attach(a backend.Attachment, id backend.RendererID, f backend.TextureFormat, wrap backend.TextureWrap) {
	fb.backend.BindTexture(id)
	fb.backend.TexImage2D(backend.TextureImage{
		Width:       int32(fb.spec.Width),
		Height:      int32(fb.spec.Height),
		Format:      f,
		Filter:      backend.TextureFilterLinear,
		Wrap:        wrap,
		BorderColor: mgl32.Vec4{1, 1, 1, 1},
	})
	fb.backend.FramebufferTexture(a, id)
	core.Logger().Debug("attached framebuffer texture", "framebuffer", fb.id, "texture", id, "format", f.String())
}

func (fb *framebuffer) checkComplete() {
	if !fb.backend.FramebufferComplete() {
		core.Fatal("framebuffer is incomplete", "id", fb.id)
	}
}

func (fb *framebuffer) Resize(width, height uint32) {
	saved := fb.backend.Viewport()
	fb.spec.Width = width
	fb.spec.Height = height
	core.Logger().Debug("resizing framebuffer", "id", fb.id, "width", width, "height", height)
	fb.Invalidate()
	fb.backend.SetViewport(fb.viewport())
	fb.backend.SetViewport(saved)
}

func (fb *framebuffer) viewport() backend.Viewport {
	return backend.Viewport{Width: int32(fb.spec.Width), Height: int32(fb.spec.Height)}
}

func (fb *framebuffer) Bind() {
	fb.saved = fb.backend.Viewport()
	fb.backend.BindFramebuffer(fb.id)
	fb.backend.SetViewport(fb.viewport())
}

func (fb *framebuffer) Unbind() {
	fb.backend.BindFramebuffer(0)
	fb.backend.SetViewport(fb.saved)
}

func (fb *framebuffer) UpdateSpecificationColor(color mgl32.Vec4) {
	fb.spec.ClearColor = color
}

func (fb *framebuffer) ReadPixel(attachmentIndex int, x, y int32) int32 {
	core.Assert(attachmentIndex >= 0 && attachmentIndex < len(fb.colorIDs), "framebuffer attachment index out of range",
		"index", attachmentIndex, "count", len(fb.colorIDs))
	return fb.backend.ReadPixelInt(backend.ColorAttachment(attachmentIndex), x, y)
}

func (fb *framebuffer) ClearAttachment(attachmentIndex int, value int32) {
	core.Assert(attachmentIndex >= 0 && attachmentIndex < len(fb.colorIDs), "framebuffer attachment index out of range",
		"index", attachmentIndex, "count", len(fb.colorIDs))
	fb.backend.ClearColorAttachmentInt(attachmentIndex, value)
}

func (fb *framebuffer) Specification() Specification {
	spec := fb.spec
	spec.Attachments = append([]backend.TextureFormat(nil), fb.spec.Attachments...)
	return spec
}

func (fb *framebuffer) ColorAttachmentIDs() []backend.RendererID {
	return append([]backend.RendererID(nil), fb.colorIDs...)
}

func (fb *framebuffer) DepthAttachmentID() backend.RendererID {
	return fb.depthID
}

func (fb *framebuffer) PixelPickAttachmentIndex() int {
	return fb.pixelIndex
}

func (fb *framebuffer) RendererID() backend.RendererID {
	return fb.id
}

func (fb *framebuffer) Release() {
	if fb.released {
		return
	}
	fb.released = true
	core.Logger().Debug("destroying framebuffer", "id", fb.id)
	fb.releaseAttachments()
}
