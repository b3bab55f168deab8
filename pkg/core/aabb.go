package core

import "math"

// Axis identifies one of the three coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Next returns the following axis in X, Y, Z order, wrapping around
func (a Axis) Next() Axis {
	return (a + 1) % 3
}

// String returns the axis name
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a box covering nothing. Union with any box yields that box.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: NewVec3(inf, inf, inf),
		Max: NewVec3(-inf, -inf, -inf),
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box.Min = box.Min.Min(point)
		box.Max = box.Max.Max(point)
	}
	return box
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// IsEmpty reports whether the box covers no space, which is the case for a box
// accumulated from no elements
func (aabb AABB) IsEmpty() bool {
	return aabb.Min.X > aabb.Max.X || aabb.Min.Y > aabb.Max.Y || aabb.Min.Z > aabb.Max.Z
}

// Overlaps reports whether two boxes overlap on all three axes. Touching faces count.
func (aabb AABB) Overlaps(other AABB) bool {
	return aabb.Min.X <= other.Max.X && aabb.Max.X >= other.Min.X &&
		aabb.Min.Y <= other.Max.Y && aabb.Max.Y >= other.Min.Y &&
		aabb.Min.Z <= other.Max.Z && aabb.Max.Z >= other.Min.Z
}

// Contains reports whether the point lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Split clips the box at coordinate on axis and returns the lower and upper halves
func (aabb AABB) Split(axis Axis, coordinate float64) (lower, upper AABB) {
	lower, upper = aabb, aabb
	lower.Max = lower.Max.WithComponent(axis, coordinate)
	upper.Min = upper.Min.WithComponent(axis, coordinate)
	return lower, upper
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis with the longest extent
func (aabb AABB) LongestAxis() Axis {
	size := aabb.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return AxisX
	}
	if size.Y >= size.Z {
		return AxisY
	}
	return AxisZ
}

// Intersect computes the parametric interval over which the ray lies inside
// the box, using the slab method of Williams et al. ("An Efficient and Robust
// Ray-Box Intersection Algorithm"). The reciprocal direction turns zero
// direction components into signed infinities, and the corner for each slab is
// picked by the sign of that reciprocal, so parallel rays need no branch. A
// parallel ray whose origin sits exactly on a slab plane produces a NaN bound,
// which is discarded. The interval is not clipped to the ray's [MinT, MaxT].
func (aabb AABB) Intersect(ray Ray) (tMin, tMax float64, ok bool) {
	if aabb.IsEmpty() {
		return 0, 0, false
	}

	tMin, tMax = math.Inf(-1), math.Inf(1)
	for axis := AxisX; axis <= AxisZ; axis++ {
		inv := 1 / ray.Direction.Component(axis)
		origin := ray.Origin.Component(axis)
		near, far := aabb.Min.Component(axis), aabb.Max.Component(axis)
		if math.Signbit(inv) {
			near, far = far, near
		}

		t0 := (near - origin) * inv
		t1 := (far - origin) * inv

		if t0 > tMax || t1 < tMin {
			return 0, 0, false
		}
		// NaN comparisons are false, so NaN bounds never tighten the interval
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
	}

	// A parallel ray outside a slab yields equal infinite bounds on that axis
	if tMin > tMax || math.IsInf(tMax, -1) || math.IsInf(tMin, 1) {
		return 0, 0, false
	}
	return tMin, tMax, true
}

// Hit tests if a ray intersects with this AABB within [tMin, tMax]
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	enter, exit, ok := aabb.Intersect(ray)
	if !ok {
		return false
	}
	return enter <= tMax && exit >= tMin
}
