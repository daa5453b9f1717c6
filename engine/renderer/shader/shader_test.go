package shader

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend/backendtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `// sprite shader
#type vertex
#version 330 core
layout(location = 0) in vec3 a_Position;
uniform mat4 u_ViewProjection;
uniform float u_Time; // seconds
void main() { gl_Position = u_ViewProjection * vec4(a_Position, 1.0); }

#type fragment
#version 330 core
struct Material {
	vec4 Color;
	float Shininess;
	mat3 Basis;
};
/* uniform int u_Removed; */
uniform Material u_Material;
uniform sampler2D u_Textures[16];
uniform samplerCube u_Skybox;
uniform vec4 u_Tint[2];
out vec4 o_Color;
void main() { o_Color = u_Material.Color; }
`

func TestSplitStages(t *testing.T) {
	stages, err := SplitStages(testSource)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, backend.ShaderStageVertex, stages[0].Stage)
	assert.Equal(t, backend.ShaderStageFragment, stages[1].Stage)
	assert.Contains(t, stages[0].Source, "u_ViewProjection")
	assert.NotContains(t, stages[0].Source, "#type")
	assert.NotContains(t, stages[0].Source, "o_Color")
}

func TestSplitStagesErrors(t *testing.T) {
	_, err := SplitStages("void main() {}")
	assert.Error(t, err)

	_, err = SplitStages("#type tessellation\nvoid main() {}")
	assert.Error(t, err)

	_, err = SplitStages("#type vertex\nvoid main() {}\n#type vertex\nvoid main() {}")
	assert.Error(t, err)

	_, err = SplitStages("")
	assert.Error(t, err)
}

func TestParseDeclarations(t *testing.T) {
	stages, err := SplitStages(testSource)
	require.NoError(t, err)
	d, err := ParseDeclarations(stages)
	require.NoError(t, err)

	require.Len(t, d.Structs, 1)
	material := d.Structs[0]
	assert.Equal(t, "Material", material.Name)
	assert.Equal(t, uint32(16+4+36), material.Size)
	shininess, ok := material.Field("Shininess")
	require.True(t, ok)
	assert.Equal(t, uint32(16), shininess.Offset)
	basis, ok := material.Field("Basis")
	require.True(t, ok)
	assert.Equal(t, uint32(20), basis.Offset)

	require.Len(t, d.Buffers, 2)
	vertex := d.Buffers[0]
	assert.Equal(t, backend.ShaderStageVertex, vertex.Domain)
	vp, ok := vertex.Find("u_ViewProjection")
	require.True(t, ok)
	assert.Equal(t, UniformTypeMat4, vp.Type)
	assert.Equal(t, uint32(64), vp.Size)
	assert.Equal(t, uint32(0), vp.Offset)
	tm, ok := vertex.Find("u_Time")
	require.True(t, ok)
	assert.Equal(t, uint32(64), tm.Offset)
	assert.Equal(t, uint32(68), vertex.Size)

	fragment := d.Buffers[1]
	mat, ok := fragment.Find("u_Material")
	require.True(t, ok)
	assert.Equal(t, UniformTypeStruct, mat.Type)
	assert.Equal(t, 0, mat.Struct)
	assert.Equal(t, material.Size, mat.Size)
	tint, ok := fragment.Find("u_Tint")
	require.True(t, ok)
	assert.Equal(t, uint32(2), tint.Count)
	assert.Equal(t, uint32(32), tint.Size)
	assert.Equal(t, mat.Size, tint.Offset)
	_, ok = fragment.Find("u_Removed")
	assert.False(t, ok)

	require.Len(t, d.Resources, 2)
	assert.Equal(t, ResourceDeclaration{Name: "u_Textures", Type: ResourceTypeTexture2D, Count: 16, Register: 0}, d.Resources[0])
	assert.Equal(t, ResourceDeclaration{Name: "u_Skybox", Type: ResourceTypeTextureCube, Count: 1, Register: 16}, d.Resources[1])
}

func TestParseDeclarationsUnknownType(t *testing.T) {
	_, err := ParseDeclarations([]backend.ShaderSource{{Stage: backend.ShaderStageFragment, Source: "uniform Light u_Light;"}})
	assert.Error(t, err)
}

func TestNewShaderBindsSamplerRegisters(t *testing.T) {
	rec := backendtest.NewRecorder()
	s, err := NewShader(rec, "sprite", testSource)
	require.NoError(t, err)

	require.Len(t, rec.Programs[s.RendererID()], 2)
	units, ok := rec.Uniforms["u_Textures"].([]int32)
	require.True(t, ok)
	require.Len(t, units, 16)
	assert.Equal(t, int32(0), units[0])
	assert.Equal(t, int32(15), units[15])
	assert.Equal(t, int32(16), rec.Uniforms["u_Skybox"])
}

func TestSetUniforms(t *testing.T) {
	rec := backendtest.NewRecorder()
	s, err := NewShader(rec, "sprite", testSource)
	require.NoError(t, err)

	s.Bind()
	assert.Equal(t, s.RendererID(), rec.BoundProgram())

	vp := mgl32.Ortho2D(-1, 1, -1, 1)
	s.SetUniformMat4("u_ViewProjection", vp)
	s.SetUniformFloat("u_Time", 2.5)
	s.SetUniformFloat4("u_Material.Color", mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, vp, rec.Uniforms["u_ViewProjection"])
	assert.Equal(t, float32(2.5), rec.Uniforms["u_Time"])
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, rec.Uniforms["u_Material.Color"])

	before := len(rec.Calls)
	s.SetUniformInt("u_Missing", 3)
	assert.Len(t, rec.Calls, before)
	_, ok := rec.Uniforms["u_Missing"]
	assert.False(t, ok)
}

func TestNewShaderCompileError(t *testing.T) {
	rec := backendtest.NewRecorder()
	rec.CompileErr = errors.New("0:3: syntax error")

	_, err := NewShader(rec, "broken", testSource)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Zero(t, rec.LiveOf(backendtest.KindShader))
}

func TestShaderRelease(t *testing.T) {
	rec := backendtest.NewRecorder()
	s, err := NewShader(rec, "sprite", testSource)
	require.NoError(t, err)
	s.Release()
	s.Release()
	assert.Zero(t, rec.LiveOf(backendtest.KindShader))
}
