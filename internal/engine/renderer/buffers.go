package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshsculpt/internal/engine/mesh"
)

// gpuMesh mirrors one Geometry on the GPU.
type gpuMesh struct {
	vao       uint32
	positions uint32
	normals   uint32
	ebo       uint32

	vertexCount int32
	indexCount  int32
	capacity    int // floats allocated in the position/normal buffers
}

// sync returns the GPU copy of g, creating it on first use and re-uploading
// vertex data whenever g is dirty.
func (r *Renderer) sync(g *mesh.Geometry) *gpuMesh {
	m, ok := r.meshes[g]
	if !ok {
		m = newGPUMesh(g)
		r.meshes[g] = m
		g.TakeDirty()
		return m
	}
	if g.TakeDirty() {
		m.update(g)
	}
	return m
}

func newGPUMesh(g *mesh.Geometry) *gpuMesh {
	m := &gpuMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.positions)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.positions)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &m.normals)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.normals)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(1)

	if len(g.Indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)
		m.indexCount = int32(len(g.Indices))
	}

	m.update(g)
	gl.BindVertexArray(0)
	return m
}

// update uploads positions and normals. Buffers are reallocated only when
// the vertex count grows.
func (m *gpuMesh) update(g *mesh.Geometry) {
	n := len(g.Positions)
	normals := g.Normals
	if len(normals) != n {
		normals = make([]float32, n)
	}

	if n > m.capacity {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.positions)
		gl.BufferData(gl.ARRAY_BUFFER, n*4, unsafe.Pointer(&g.Positions[0]), gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.ARRAY_BUFFER, m.normals)
		gl.BufferData(gl.ARRAY_BUFFER, n*4, unsafe.Pointer(&normals[0]), gl.DYNAMIC_DRAW)
		m.capacity = n
	} else {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.positions)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, unsafe.Pointer(&g.Positions[0]))
		gl.BindBuffer(gl.ARRAY_BUFFER, m.normals)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, unsafe.Pointer(&normals[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	m.vertexCount = int32(n / 3)
}

func (m *gpuMesh) draw() {
	gl.BindVertexArray(m.vao)
	if m.indexCount > 0 {
		gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.vertexCount)
	}
	gl.BindVertexArray(0)
}

func (m *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.positions)
	gl.DeleteBuffers(1, &m.normals)
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

// streamBuffer is a growable VBO for per-frame point and line data.
type streamBuffer struct {
	vao      uint32
	vbo      uint32
	capacity int
}

func (s *streamBuffer) init() {
	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
}

func (s *streamBuffer) draw(mode uint32, verts []float32) {
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	if len(verts) > s.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
		s.capacity = len(verts)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, unsafe.Pointer(&verts[0]))
	}
	gl.DrawArrays(mode, 0, int32(len(verts)/3))
	gl.BindVertexArray(0)
}

func (s *streamBuffer) delete() {
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteBuffers(1, &s.vbo)
}
