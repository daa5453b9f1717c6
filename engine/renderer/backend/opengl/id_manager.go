package opengl

import (
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/go-gl/gl/v4.1-core/gl"
)

func (b *glBackend) AcquireBuffer() backend.RendererID {
	var id uint32
	gl.GenBuffers(1, &id)
	core.Assert(id != 0, "glGenBuffers returned no handle")
	core.Logger().Debug("acquired buffer", "id", id)
	return backend.RendererID(id)
}

func (b *glBackend) AcquireTextures(count int) []backend.RendererID {
	if count <= 0 {
		return nil
	}
	raw := make([]uint32, count)
	gl.GenTextures(int32(count), &raw[0])
	ids := make([]backend.RendererID, count)
	for i, id := range raw {
		core.Assert(id != 0, "glGenTextures returned no handle")
		ids[i] = backend.RendererID(id)
	}
	core.Logger().Debug("acquired textures", "ids", raw)
	return ids
}

func (b *glBackend) AcquirePipeline() backend.RendererID {
	var id uint32
	gl.GenVertexArrays(1, &id)
	core.Assert(id != 0, "glGenVertexArrays returned no handle")
	core.Logger().Debug("acquired vertex array", "id", id)
	return backend.RendererID(id)
}

func (b *glBackend) AcquireFramebuffer() backend.RendererID {
	var id uint32
	gl.GenFramebuffers(1, &id)
	core.Assert(id != 0, "glGenFramebuffers returned no handle")
	core.Logger().Debug("acquired framebuffer", "id", id)
	return backend.RendererID(id)
}

func (b *glBackend) AcquireShader() backend.RendererID {
	id := gl.CreateProgram()
	core.Assert(id != 0, "glCreateProgram returned no handle")
	core.Logger().Debug("acquired shader program", "id", id)
	return backend.RendererID(id)
}

func (b *glBackend) ReleaseBuffer(id backend.RendererID) {
	raw := uint32(id)
	gl.DeleteBuffers(1, &raw)
	core.Logger().Debug("released buffer", "id", raw)
}

func (b *glBackend) ReleaseTextures(ids ...backend.RendererID) {
	if len(ids) == 0 {
		return
	}
	raw := make([]uint32, len(ids))
	for i, id := range ids {
		raw[i] = uint32(id)
	}
	gl.DeleteTextures(int32(len(raw)), &raw[0])
	core.Logger().Debug("released textures", "ids", raw)
}

func (b *glBackend) ReleasePipeline(id backend.RendererID) {
	raw := uint32(id)
	gl.DeleteVertexArrays(1, &raw)
	core.Logger().Debug("released vertex array", "id", raw)
}

func (b *glBackend) ReleaseFramebuffer(id backend.RendererID) {
	raw := uint32(id)
	gl.DeleteFramebuffers(1, &raw)
	core.Logger().Debug("released framebuffer", "id", raw)
}

func (b *glBackend) ReleaseShader(id backend.RendererID) {
	gl.DeleteProgram(uint32(id))
	core.Logger().Debug("released shader program", "id", uint32(id))
}
