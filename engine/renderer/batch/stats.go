package batch

// Stats counts the work submitted by a batch renderer since the last ResetStats.
type Stats struct {
	DrawCalls   uint32
	QuadCount   uint32
	CircleCount uint32
	LineCount   uint32
}

// VertexCount returns the number of vertices generated for all counted primitives.
func (s Stats) VertexCount() uint32 {
	return s.QuadCount*verticesPerQuad + s.CircleCount*verticesPerCircle + s.LineCount*verticesPerLine
}

// IndexCount returns the number of indices drawn for all counted quads and circles.
func (s Stats) IndexCount() uint32 {
	return (s.QuadCount + s.CircleCount) * indicesPerQuad
}
