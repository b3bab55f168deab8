package kdtree

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// cellTolerance widens a leaf's parametric interval relative to its magnitude
// so hits lying exactly on a splitting plane are found from either side
const cellTolerance = 1e-9

// Intersect returns the nearest hit along ray within [ray.MinT, ray.MaxT]
// and the number of element intersection tests performed.
func (t *Tree) Intersect(ray core.Ray) (*core.HitRecord, int) {
	minT, maxT, ok := t.clip(ray)
	if !ok {
		return nil, 0
	}
	tests := 0
	hit := t.intersectNode(t.Root, ray, minT, maxT, &tests)
	return hit, tests
}

// IntersectAny reports whether anything is hit along ray within
// [ray.MinT, ray.MaxT], stopping at the first hit found, together with the
// number of element intersection tests performed.
func (t *Tree) IntersectAny(ray core.Ray) (bool, int) {
	minT, maxT, ok := t.clip(ray)
	if !ok {
		return false, 0
	}
	tests := 0
	hit := t.intersectAnyNode(t.Root, ray, minT, maxT, &tests)
	return hit, tests
}

// clip intersects the ray's valid interval with the root box
func (t *Tree) clip(ray core.Ray) (float64, float64, bool) {
	if t.Root == nil {
		return 0, 0, false
	}
	enter, exit, ok := t.Root.Bounds.Intersect(ray)
	if !ok {
		return 0, 0, false
	}
	minT := math.Max(enter, ray.MinT)
	maxT := math.Min(exit, ray.MaxT)
	if minT > maxT {
		return 0, 0, false
	}
	return minT, maxT, true
}

// order returns the child the ray visits first, the other child and the
// parameter at which the ray crosses the splitting plane
func order(node *Node, ray core.Ray, minT float64) (near, far *Node, tSplit float64) {
	dir := ray.Direction.Component(node.Axis)
	origin := ray.Origin.Component(node.Axis)

	switch {
	case dir != 0:
		tSplit = (node.Split - origin) / dir
	case origin <= node.Split:
		tSplit = math.Inf(1)
	default:
		tSplit = math.Inf(-1)
	}

	if (dir >= 0 && tSplit >= minT) || (dir < 0 && tSplit < minT) {
		return node.Left, node.Right, tSplit
	}
	return node.Right, node.Left, tSplit
}

// cellInterval widens [minT, maxT] by the cell tolerance and clips it to the ray
func cellInterval(ray core.Ray, minT, maxT float64) (float64, float64) {
	tol := cellTolerance * math.Max(1, math.Max(math.Abs(minT), math.Abs(maxT)))
	return math.Max(ray.MinT, minT-tol), math.Min(ray.MaxT, maxT+tol)
}

func (t *Tree) intersectNode(node *Node, ray core.Ray, minT, maxT float64, tests *int) *core.HitRecord {
	if node.IsLeaf() {
		lo, hi := cellInterval(ray, minT, maxT)
		var closest *core.HitRecord
		for _, id := range node.Elements {
			*tests++
			if hit, ok := t.elements[id].Intersect(ray, lo, hi); ok {
				closest = core.Nearest(closest, hit)
				hi = closest.T
			}
		}
		return closest
	}

	near, far, tSplit := order(node, ray, minT)
	if tSplit > maxT || tSplit < minT {
		return t.intersectNode(near, ray, minT, maxT, tests)
	}

	// Anything found on the near side precedes the far side along the ray
	if hit := t.intersectNode(near, ray, minT, tSplit, tests); hit != nil {
		return hit
	}
	return t.intersectNode(far, ray, tSplit, maxT, tests)
}

func (t *Tree) intersectAnyNode(node *Node, ray core.Ray, minT, maxT float64, tests *int) bool {
	if node.IsLeaf() {
		lo, hi := cellInterval(ray, minT, maxT)
		for _, id := range node.Elements {
			*tests++
			if t.elements[id].FastIntersect(ray, lo, hi) {
				return true
			}
		}
		return false
	}

	near, far, tSplit := order(node, ray, minT)
	if tSplit > maxT || tSplit < minT {
		return t.intersectAnyNode(near, ray, minT, maxT, tests)
	}
	return t.intersectAnyNode(near, ray, minT, tSplit, tests) ||
		t.intersectAnyNode(far, ray, tSplit, maxT, tests)
}
