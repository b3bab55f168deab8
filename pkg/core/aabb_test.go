package core

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAABB_Intersect(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	tests := []struct {
		name      string
		ray       Ray
		expectHit bool
		tMin      float64
		tMax      float64
	}{
		{
			name:      "Axis aligned through center",
			ray:       NewRay(NewVec3(-1, 0.5, 0.5), NewVec3(1, 0, 0)),
			expectHit: true,
			tMin:      1,
			tMax:      2,
		},
		{
			name:      "Negative direction",
			ray:       NewRay(NewVec3(2, 0.5, 0.5), NewVec3(-1, 0, 0)),
			expectHit: true,
			tMin:      1,
			tMax:      2,
		},
		{
			name:      "Origin inside box",
			ray:       NewRay(NewVec3(0.5, 0.5, 0.5), NewVec3(0, 0, 1)),
			expectHit: true,
			tMin:      -0.5,
			tMax:      0.5,
		},
		{
			name:      "Parallel and outside slab",
			ray:       NewRay(NewVec3(-1, 2, 0.5), NewVec3(1, 0, 0)),
			expectHit: false,
		},
		{
			name:      "Parallel outside slab on last axis",
			ray:       NewRay(NewVec3(-1, 0.5, 3), NewVec3(1, 0, 0)),
			expectHit: false,
		},
		{
			name:      "Parallel inside slab on negative zero",
			ray:       Ray{Origin: NewVec3(0.5, 0.5, -1), Direction: NewVec3(math.Copysign(0, -1), 0, 1), MaxT: math.Inf(1)},
			expectHit: true,
			tMin:      1,
			tMax:      2,
		},
		{
			name:      "Diagonal miss",
			ray:       NewRay(NewVec3(-1, 2.5, 0.5), NewVec3(1, -0.2, 0)),
			expectHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tMin, tMax, ok := box.Intersect(tt.ray)
			test.That(t, ok, test.ShouldEqual, tt.expectHit)
			if tt.expectHit {
				test.That(t, tMin, test.ShouldAlmostEqual, tt.tMin, 1e-9)
				test.That(t, tMax, test.ShouldAlmostEqual, tt.tMax, 1e-9)
			}
		})
	}
}

func TestAABB_IntersectOriginOnSlabPlane(t *testing.T) {
	// A zero direction component with the origin on the slab boundary yields
	// 0 * Inf = NaN for that bound; the result must not be a NaN interval.
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0.5, -1), NewVec3(0, 0, 1))

	tMin, tMax, ok := box.Intersect(ray)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, math.IsNaN(tMin), test.ShouldBeFalse)
	test.That(t, math.IsNaN(tMax), test.ShouldBeFalse)
	test.That(t, tMin, test.ShouldAlmostEqual, 1.0)
	test.That(t, tMax, test.ShouldAlmostEqual, 2.0)
}

func TestAABB_EmptyHasNoCoverage(t *testing.T) {
	empty := EmptyAABB()
	test.That(t, empty.IsEmpty(), test.ShouldBeTrue)

	_, _, ok := empty.Intersect(NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)))
	test.That(t, ok, test.ShouldBeFalse)

	box := NewAABB(NewVec3(-1, -2, -3), NewVec3(1, 2, 3))
	test.That(t, empty.Union(box), test.ShouldResemble, box)
	test.That(t, NewAABBFromPoints().IsEmpty(), test.ShouldBeTrue)
}

func TestAABB_Overlaps(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		other    AABB
		overlaps bool
	}{
		{"Identical", a, true},
		{"Touching face", NewAABB(NewVec3(1, 0, 0), NewVec3(2, 1, 1)), true},
		{"Separated on x", NewAABB(NewVec3(1.1, 0, 0), NewVec3(2, 1, 1)), false},
		{"Separated on z only", NewAABB(NewVec3(0, 0, 2), NewVec3(1, 1, 3)), false},
		{"Contained", NewAABB(NewVec3(0.2, 0.2, 0.2), NewVec3(0.3, 0.3, 0.3)), true},
		{"Flat box inside", NewAABB(NewVec3(0, 0.5, 0), NewVec3(1, 0.5, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.That(t, a.Overlaps(tt.other), test.ShouldEqual, tt.overlaps)
			test.That(t, tt.other.Overlaps(a), test.ShouldEqual, tt.overlaps)
		})
	}
}

func TestAABB_Split(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(4, 2, 2))
	lower, upper := box.Split(AxisX, 1)

	test.That(t, lower, test.ShouldResemble, NewAABB(NewVec3(0, 0, 0), NewVec3(1, 2, 2)))
	test.That(t, upper, test.ShouldResemble, NewAABB(NewVec3(1, 0, 0), NewVec3(4, 2, 2)))
	test.That(t, box.LongestAxis(), test.ShouldEqual, AxisX)
	test.That(t, AxisZ.Next(), test.ShouldEqual, AxisX)
}
