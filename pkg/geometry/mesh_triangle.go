package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// MeshTriangle is a triangle referencing three vertices of its mesh
type MeshTriangle struct {
	mesh *Mesh
	v    [3]int
}

// Mesh returns the mesh the triangle belongs to
func (t *MeshTriangle) Mesh() *Mesh {
	return t.mesh
}

// Vertex returns the i-th vertex (0, 1 or 2)
func (t *MeshTriangle) Vertex(i int) Vertex {
	return t.mesh.Vertices[t.v[i]]
}

// barycentric computes the ray parameter and the barycentric coordinates of
// vertices 1 and 2 at the intersection
func (t *MeshTriangle) barycentric(ray core.Ray, tMin, tMax float64) (tHit, b1, b2 float64, ok bool) {
	p0 := t.Vertex(0).Position
	e1 := t.Vertex(1).Position.Subtract(p0)
	e2 := t.Vertex(2).Position.Subtract(p0)
	s1 := ray.Direction.Cross(e2)

	divisor := s1.Dot(e1)
	if divisor == 0 {
		return 0, 0, 0, false
	}
	inv := 1.0 / divisor

	dist := ray.Origin.Subtract(p0)
	b1 = dist.Dot(s1) * inv
	if b1 < 0 || b1 > 1 {
		return 0, 0, 0, false
	}

	s2 := dist.Cross(e1)
	b2 = ray.Direction.Dot(s2) * inv
	if b2 < 0 || b1+b2 > 1 {
		return 0, 0, 0, false
	}

	tHit = e2.Dot(s2) * inv
	if tHit < tMin || tHit > tMax {
		return 0, 0, 0, false
	}
	return tHit, b1, b2, true
}

// Intersect implements core.Element
func (t *MeshTriangle) Intersect(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	tHit, b1, b2, ok := t.barycentric(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	hit := core.NewHitRecord()
	hit.T = tHit
	t.fill(hit, b1, b2)
	hit.EntersObject = hit.SurfaceNormal.Dot(ray.Direction) < 0
	hit.SourcePosition = ray.Origin
	return hit, true
}

// FastIntersect implements core.Element
func (t *MeshTriangle) FastIntersect(ray core.Ray, tMin, tMax float64) bool {
	_, _, _, ok := t.barycentric(ray, tMin, tMax)
	return ok
}

// fill computes the surface description at barycentric coordinates (b1, b2)
func (t *MeshTriangle) fill(hit *core.HitRecord, b1, b2 float64) {
	v0, v1, v2 := t.Vertex(0), t.Vertex(1), t.Vertex(2)
	b0 := 1 - b1 - b2
	e1 := v1.Position.Subtract(v0.Position)
	e2 := v2.Position.Subtract(v0.Position)

	normal := v0.Normal.Multiply(b0).Add(v1.Normal.Multiply(b1)).Add(v2.Normal.Multiply(b2)).Normalize()

	// The geometric normal follows the winding but must agree with the
	// interpolated one
	surfaceNormal := e1.Cross(e2).Normalize()
	if surfaceNormal.Dot(normal) < 0 {
		surfaceNormal = surfaceNormal.Negate()
	}

	hit.Point = v0.Position.Multiply(b0).Add(v1.Position.Multiply(b1)).Add(v2.Position.Multiply(b2))
	hit.SurfaceNormal = surfaceNormal
	hit.ShadingNormal = normal
	hit.Element = t

	mesh := t.mesh
	if mesh.Material != nil {
		hit.Material = mesh.Material
		hit.ReflectionPercentage, hit.RefractionPercentage, hit.RefractionIndexInside = mesh.Material.SurfaceProperties()
	}

	if mesh.Texture == nil && mesh.BumpMap == nil {
		return
	}
	hit.TextureCoords = v0.UV.Multiply(b0).Add(v1.UV.Multiply(b1)).Add(v2.UV.Multiply(b2))
	hit.Texture = mesh.Texture

	if mesh.BumpMap != nil {
		hit.BumpMap = mesh.BumpMap
		hit.LocalX, hit.LocalY, hit.LocalZ = tangentBasis(e1, e2, v1.UV.Subtract(v0.UV), v2.UV.Subtract(v0.UV), normal)
	}
}

// tangentBasis derives the tangent frame of the uv parameterization,
// orthogonalized against normal. Degenerate uv layouts fall back to an
// arbitrary frame around normal.
func tangentBasis(e1, e2 core.Vec3, t1, t2 core.Vec2, normal core.Vec3) (x, y, z core.Vec3) {
	x = e1.Multiply(t2.Y).Subtract(e2.Multiply(t1.Y)).Multiply(1 / (t2.Y*t1.X - t2.X*t1.Y))
	x = x.Subtract(normal.Multiply(normal.Dot(x))).Normalize()
	y = e1.Multiply(t2.X).Subtract(e2.Multiply(t1.X)).Multiply(1 / (t2.X*t1.Y - t2.Y*t1.X))
	y = y.Subtract(normal.Multiply(normal.Dot(y))).Normalize()
	z = x.Cross(y).Normalize()

	if x.IsFinite() && y.IsFinite() && z.LengthSquared() > 0 {
		return x, y, z
	}
	return orthonormalBasis(normal)
}

// orthonormalBasis builds a frame whose z axis is normal
func orthonormalBasis(normal core.Vec3) (x, y, z core.Vec3) {
	z = normal
	helper := core.NewVec3(1, 0, 0)
	if math.Abs(z.X) > 0.9 {
		helper = core.NewVec3(0, 1, 0)
	}
	x = helper.Cross(z).Normalize()
	y = z.Cross(x)
	return x, y, z
}

// BoundingBox implements core.Element
func (t *MeshTriangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.Vertex(0).Position, t.Vertex(1).Position, t.Vertex(2).Position)
}

// Centroid implements core.Element
func (t *MeshTriangle) Centroid() core.Vec3 {
	return t.Vertex(0).Position.Add(t.Vertex(1).Position).Add(t.Vertex(2).Position).Multiply(1.0 / 3.0)
}

// IsFinite implements core.Element
func (t *MeshTriangle) IsFinite() bool {
	return true
}

// Normal returns the unit face normal following the vertex winding
func (t *MeshTriangle) Normal() core.Vec3 {
	p0 := t.Vertex(0).Position
	return t.Vertex(1).Position.Subtract(p0).Cross(t.Vertex(2).Position.Subtract(p0)).Normalize()
}

// Area returns the triangle's surface area
func (t *MeshTriangle) Area() float64 {
	p0 := t.Vertex(0).Position
	return 0.5 * t.Vertex(1).Position.Subtract(p0).Cross(t.Vertex(2).Position.Subtract(p0)).Length()
}
