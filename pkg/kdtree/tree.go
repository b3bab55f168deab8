package kdtree

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/samber/lo"
)

// ElementID is a stable handle to an element in the tree's arena
type ElementID int

// Node is a cell of the kd-tree. Internal nodes carry a splitting plane and
// two children; leaves carry handles of every element overlapping the cell.
type Node struct {
	Bounds   core.AABB
	Axis     core.Axis
	Split    float64
	Level    int
	Left     *Node
	Right    *Node
	Elements []ElementID // Leaves only
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Tree is an immutable kd-tree over the finite elements of a scene. The tree
// holds the only list of element references; nodes address it by handle.
type Tree struct {
	Root   *Node
	config Config

	elements  []core.Element
	boxes     []core.AABB
	centroids []core.Vec3
}

// Build constructs a tree over the finite elements in elements. Infinite
// elements are skipped since they have no bounding box to partition.
// Construction never fails: degenerate splits leave oversized leaves.
func Build(elements []core.Element, config Config) *Tree {
	finite := lo.Filter(elements, func(e core.Element, _ int) bool {
		return e != nil && e.IsFinite()
	})

	tree := &Tree{
		config:    config,
		elements:  finite,
		boxes:     make([]core.AABB, len(finite)),
		centroids: make([]core.Vec3, len(finite)),
	}
	if len(finite) == 0 {
		return tree
	}

	// Cache boxes and centroids so construction queries each element once
	bounds := core.EmptyAABB()
	ids := make([]ElementID, len(finite))
	for i, element := range finite {
		tree.boxes[i] = element.BoundingBox()
		tree.centroids[i] = element.Centroid()
		bounds = bounds.Union(tree.boxes[i])
		ids[i] = ElementID(i)
	}

	rootAxis := core.AxisX
	if config.Axis == AxisLargestExtent {
		rootAxis = bounds.LongestAxis()
	}

	tree.Root = &Node{Bounds: bounds, Axis: rootAxis}
	tree.build(tree.Root, ids)
	return tree
}

// build fills in node, which already carries its bounds, axis and level
func (t *Tree) build(node *Node, ids []ElementID) {
	if len(ids) <= t.config.MaxElementsInLeaf || node.Level >= t.config.MaxDepth {
		node.Elements = ids
		return
	}

	split, ok := t.splitCoordinate(node, ids)
	if !ok {
		node.Elements = ids
		return
	}
	node.Split = split

	lowerBounds, upperBounds := node.Bounds.Split(node.Axis, split)
	node.Left = &Node{Bounds: lowerBounds, Level: node.Level + 1, Axis: t.childAxis(node, lowerBounds)}
	node.Right = &Node{Bounds: upperBounds, Level: node.Level + 1, Axis: t.childAxis(node, upperBounds)}

	// Straddling elements go to both children
	t.build(node.Left, t.overlapping(ids, lowerBounds))
	t.build(node.Right, t.overlapping(ids, upperBounds))
}

func (t *Tree) childAxis(parent *Node, bounds core.AABB) core.Axis {
	if t.config.Axis == AxisLargestExtent {
		return bounds.LongestAxis()
	}
	return parent.Axis.Next()
}

func (t *Tree) overlapping(ids []ElementID, bounds core.AABB) []ElementID {
	return lo.Filter(ids, func(id ElementID, _ int) bool {
		return t.boxes[id].Overlaps(bounds)
	})
}

// Element returns the element behind a handle
func (t *Tree) Element(id ElementID) core.Element {
	return t.elements[id]
}

// Len returns the number of elements indexed by the tree
func (t *Tree) Len() int {
	return len(t.elements)
}

// Bounds returns the box covering every indexed element, or an empty box
func (t *Tree) Bounds() core.AABB {
	if t.Root == nil {
		return core.EmptyAABB()
	}
	return t.Root.Bounds
}

// Config returns the parameters the tree was built with
func (t *Tree) Config() Config {
	return t.config
}

// Walk visits nodes depth-first, left before right, stopping early when fn
// returns false
func (t *Tree) Walk(fn func(node *Node) bool) {
	if t.Root == nil {
		return
	}
	stack := []*Node{t.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(node) {
			return
		}
		if !node.IsLeaf() {
			stack = append(stack, node.Right, node.Left)
		}
	}
}
