package preview

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Heightfield turns im into a grid mesh on the XY plane with one vertex
// per sample, one unit apart, raised to height normalized value * scale.
// Each grid cell is split into two triangles; normals are the average of
// the adjacent face normals.
func Heightfield(im *Image, scale float32) *Mesh {
	w, h := im.Width, im.Height
	if w < 2 || h < 2 {
		return &Mesh{}
	}

	m := &Mesh{
		Vertices: make([]float32, 0, w*h*3),
		Normals:  make([]float32, w*h*3),
		Indices:  make([]uint32, 0, (w-1)*(h-1)*6),
	}
	pos := make([]v3.Vec, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			z := im.Normalized(im.At(x, y)) * scale
			m.Vertices = append(m.Vertices, float32(x), float32(y), z)
			pos = append(pos, v3.Vec{X: float64(x), Y: float64(y), Z: float64(z)})
		}
	}

	acc := make([]v3.Vec, w*h)
	tri := func(a, b, c int) {
		m.Indices = append(m.Indices, uint32(a), uint32(b), uint32(c))
		n := pos[b].Sub(pos[a]).Cross(pos[c].Sub(pos[a]))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			i := y*w + x
			tri(i, i+1, i+w)
			tri(i+1, i+w+1, i+w)
		}
	}

	for i, n := range acc {
		n = n.Normalize()
		m.Normals[i*3] = float32(n.X)
		m.Normals[i*3+1] = float32(n.Y)
		m.Normals[i*3+2] = float32(n.Z)
	}
	return m
}
