package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/pkg/errors"
)

// Vertex is a mesh vertex shared by the triangles referencing it
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3 // Zero when the source supplies none
	UV       core.Vec2
}

// Mesh owns the vertices, surface description and triangles of one object
type Mesh struct {
	Name     string
	Vertices []Vertex
	Material *material.Material
	Texture  core.Texture // Optional diffuse texture
	BumpMap  core.Texture // Optional tangent-space normal map

	triangles []*MeshTriangle
}

// NewMesh creates a mesh from vertices and triangle index triples. Vertices
// without a normal get one computed from the faces; supplied normals are kept.
func NewMesh(name string, vertices []Vertex, faces [][3]int, mat *material.Material) (*Mesh, error) {
	mesh := &Mesh{
		Name:     name,
		Vertices: vertices,
		Material: mat,
	}

	mesh.triangles = make([]*MeshTriangle, 0, len(faces))
	for i, face := range faces {
		for _, index := range face {
			if index < 0 || index >= len(vertices) {
				return nil, errors.Errorf("mesh %q: face %d references vertex %d of %d", name, i, index, len(vertices))
			}
		}
		mesh.triangles = append(mesh.triangles, &MeshTriangle{mesh: mesh, v: face})
	}

	mesh.fillMissingNormals()
	return mesh, nil
}

// NewTriangle creates a standalone flat-shaded triangle
func NewTriangle(v0, v1, v2 core.Vec3, mat *material.Material) *MeshTriangle {
	vertices := []Vertex{{Position: v0}, {Position: v1}, {Position: v2}}
	// Three in-range indices cannot fail
	mesh, _ := NewMesh("triangle", vertices, [][3]int{{0, 1, 2}}, mat)
	return mesh.triangles[0]
}

// ComputeNormals replaces the vertex normals with the area-weighted average
// of the normals of adjacent faces
func (m *Mesh) ComputeNormals() {
	for i, sum := range m.faceNormalSums() {
		m.Vertices[i].Normal = sum.Normalize()
	}
}

func (m *Mesh) fillMissingNormals() {
	var sums []core.Vec3
	for i := range m.Vertices {
		if m.Vertices[i].Normal.LengthSquared() != 0 {
			continue
		}
		if sums == nil {
			sums = m.faceNormalSums()
		}
		m.Vertices[i].Normal = sums[i].Normalize()
	}
}

func (m *Mesh) faceNormalSums() []core.Vec3 {
	sums := make([]core.Vec3, len(m.Vertices))
	for _, triangle := range m.triangles {
		p0 := m.Vertices[triangle.v[0]].Position
		p1 := m.Vertices[triangle.v[1]].Position
		p2 := m.Vertices[triangle.v[2]].Position
		// The cross product's length is twice the face area
		weighted := p1.Subtract(p0).Cross(p2.Subtract(p0))
		for _, index := range triangle.v {
			sums[index] = sums[index].Add(weighted)
		}
	}
	return sums
}

// Triangles returns the mesh's triangles
func (m *Mesh) Triangles() []*MeshTriangle {
	return m.triangles
}

// Elements returns the mesh's triangles as scene elements
func (m *Mesh) Elements() []core.Element {
	elements := make([]core.Element, len(m.triangles))
	for i, triangle := range m.triangles {
		elements[i] = triangle
	}
	return elements
}

// BoundingBox returns the box around all of the mesh's vertices
func (m *Mesh) BoundingBox() core.AABB {
	box := core.EmptyAABB()
	for _, vertex := range m.Vertices {
		box = box.Union(core.NewAABB(vertex.Position, vertex.Position))
	}
	return box
}
