package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Transform places a mesh in the scene. Vertices are rotated about the z, y
// and x axes in that order, scaled uniformly and then translated.
type Transform struct {
	Scale     float64   // Zero means 1
	Rotation  core.Vec3 // Degrees about each axis
	Translate core.Vec3
}

// Identity reports whether the transform leaves vertices unchanged
func (tr Transform) Identity() bool {
	return (tr.Scale == 0 || tr.Scale == 1) && tr.Rotation == (core.Vec3{}) && tr.Translate == (core.Vec3{})
}

func (tr Transform) scale() float64 {
	if tr.Scale == 0 {
		return 1
	}
	return tr.Scale
}

// Point applies the transform to a position
func (tr Transform) Point(p core.Vec3) core.Vec3 {
	return rotate(p, tr.Rotation).Multiply(tr.scale()).Add(tr.Translate)
}

// Normal applies the transform to a surface normal. The scale is uniform, so
// the inverse transpose reduces to the rotation.
func (tr Transform) Normal(n core.Vec3) core.Vec3 {
	if tr.scale() < 0 {
		n = n.Negate()
	}
	return rotate(n, tr.Rotation).Normalize()
}

func rotate(v, degrees core.Vec3) core.Vec3 {
	if degrees.Z != 0 {
		sin, cos := math.Sincos(degrees.Z * math.Pi / 180)
		v = core.NewVec3(v.X*cos-v.Y*sin, v.X*sin+v.Y*cos, v.Z)
	}
	if degrees.Y != 0 {
		sin, cos := math.Sincos(degrees.Y * math.Pi / 180)
		v = core.NewVec3(v.X*cos+v.Z*sin, v.Y, -v.X*sin+v.Z*cos)
	}
	if degrees.X != 0 {
		sin, cos := math.Sincos(degrees.X * math.Pi / 180)
		v = core.NewVec3(v.X, v.Y*cos-v.Z*sin, v.Y*sin+v.Z*cos)
	}
	return v
}

// NormalizeSize centers the mesh's bounding box on the origin and scales it so
// the box diagonal has unit length. Empty or degenerate meshes are unchanged.
func (m *Mesh) NormalizeSize() {
	if len(m.Vertices) == 0 {
		return
	}
	box := m.BoundingBox()
	diagonal := box.Max.Subtract(box.Min).Length()
	if diagonal == 0 {
		return
	}
	center := box.Min.Add(box.Max).Multiply(0.5)
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Subtract(center).Multiply(1 / diagonal)
	}
}

// Apply transforms every vertex position and normal in place
func (m *Mesh) Apply(tr Transform) {
	if tr.Identity() {
		return
	}
	for i := range m.Vertices {
		m.Vertices[i].Position = tr.Point(m.Vertices[i].Position)
		if m.Vertices[i].Normal.LengthSquared() > 0 {
			m.Vertices[i].Normal = tr.Normal(m.Vertices[i].Normal)
		}
	}
}
