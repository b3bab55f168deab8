package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal. Planes
// have no bounding box and are tested outside the spatial index.
type Plane struct {
	Point        core.Vec3          // A point on the plane
	Normal       core.Vec3          // Normal vector (should be normalized)
	Material     *material.Material // Material of the plane
	Texture      core.Texture       // Optional texture, tiled over the plane
	TextureScale float64            // World units per texture repetition
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat *material.Material) *Plane {
	return &Plane{
		Point:        point,
		Normal:       normal.Normalize(), // Ensure normal is normalized
		Material:     mat,
		TextureScale: 1,
	}
}

func (p *Plane) hitT(ray core.Ray, tMin, tMax float64) (float64, bool) {
	// Calculate denominator: dot product of ray direction and plane normal
	denominator := ray.Direction.Dot(p.Normal)

	// If denominator is close to zero, ray is parallel to plane (no intersection)
	if math.Abs(denominator) < 1e-12 {
		return 0, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return 0, false
	}
	return t, true
}

// Intersect implements core.Element
func (p *Plane) Intersect(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	t, ok := p.hitT(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	hit := core.NewHitRecord()
	hit.T = t
	hit.Point = ray.At(t)
	hit.SurfaceNormal = p.Normal
	hit.ShadingNormal = p.Normal
	hit.SourcePosition = ray.Origin
	hit.EntersObject = p.Normal.Dot(ray.Direction) < 0
	hit.Element = p

	if p.Material != nil {
		hit.Material = p.Material
		hit.ReflectionPercentage, hit.RefractionPercentage, hit.RefractionIndexInside = p.Material.SurfaceProperties()
	}

	if p.Texture != nil {
		x, y, _ := orthonormalBasis(p.Normal)
		offset := hit.Point.Subtract(p.Point)
		scale := p.TextureScale
		if scale <= 0 {
			scale = 1
		}
		hit.Texture = p.Texture
		hit.TextureCoords = core.NewVec2(offset.Dot(x)/scale, offset.Dot(y)/scale)
	}

	return hit, true
}

// FastIntersect implements core.Element
func (p *Plane) FastIntersect(ray core.Ray, tMin, tMax float64) bool {
	_, ok := p.hitT(ray, tMin, tMax)
	return ok
}

// BoundingBox is empty: a plane has no finite extent
func (p *Plane) BoundingBox() core.AABB {
	return core.EmptyAABB()
}

// Centroid returns the plane's reference point
func (p *Plane) Centroid() core.Vec3 {
	return p.Point
}

// IsFinite implements core.Element
func (p *Plane) IsFinite() bool {
	return false
}
