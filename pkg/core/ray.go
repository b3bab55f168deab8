package core

import "math"

// RayEpsilon is the minimum parametric distance used for secondary rays so
// they do not re-hit the surface they start on.
const RayEpsilon = 1e-6

// Ray represents a ray with an origin, direction and valid parametric interval
type Ray struct {
	Origin    Vec3
	Direction Vec3
	MinT      float64 // Smallest accepted parameter
	MaxT      float64 // Largest accepted parameter
	Depth     int     // Recursion depth, used by the integrator only
}

// NewRay creates a ray over [RayEpsilon, +Inf) with a normalized direction
func NewRay(origin, direction Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction.Normalize(),
		MinT:      RayEpsilon,
		MaxT:      math.Inf(1),
	}
}

// NewSegment creates a ray from origin towards target that stops just short of it
func NewSegment(origin, target Vec3) Ray {
	delta := target.Subtract(origin)
	distance := delta.Length()
	return Ray{
		Origin:    origin,
		Direction: delta.Normalize(),
		MinT:      RayEpsilon,
		MaxT:      distance - RayEpsilon,
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Spawn creates a secondary ray one recursion level deeper than r
func (r Ray) Spawn(origin, direction Vec3) Ray {
	child := NewRay(origin, direction)
	child.Depth = r.Depth + 1
	return child
}

// Contains reports whether t lies inside the ray's valid interval
func (r Ray) Contains(t float64) bool {
	return t >= r.MinT && t <= r.MaxT
}
