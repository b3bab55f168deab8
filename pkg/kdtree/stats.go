package kdtree

// Stats describes the shape of a built tree
type Stats struct {
	Elements         int     // Distinct elements indexed
	Nodes            int     // Total nodes
	Leaves           int     // Leaf nodes
	EmptyLeaves      int     // Leaves without elements
	MaxDepth         int     // Deepest level reached
	ElementRefs      int     // Element handles summed over all leaves
	MaxLeafSize      int     // Largest leaf
	AvgLeafSize      float64 // Mean elements per non-empty leaf
	LeftmostDepth    int     // Level of the leaf reached by always descending left
	LeftmostElements int     // Size of that leaf
}

// Duplication returns the average number of leaves referencing each element
func (s Stats) Duplication() float64 {
	if s.Elements == 0 {
		return 0
	}
	return float64(s.ElementRefs) / float64(s.Elements)
}

// Stats walks the tree and collects its statistics
func (t *Tree) Stats() Stats {
	stats := Stats{Elements: len(t.elements)}
	if t.Root == nil {
		return stats
	}

	t.Walk(func(node *Node) bool {
		stats.Nodes++
		if node.Level > stats.MaxDepth {
			stats.MaxDepth = node.Level
		}
		if !node.IsLeaf() {
			return true
		}

		stats.Leaves++
		size := len(node.Elements)
		stats.ElementRefs += size
		if size == 0 {
			stats.EmptyLeaves++
		}
		if size > stats.MaxLeafSize {
			stats.MaxLeafSize = size
		}
		return true
	})

	if nonEmpty := stats.Leaves - stats.EmptyLeaves; nonEmpty > 0 {
		stats.AvgLeafSize = float64(stats.ElementRefs) / float64(nonEmpty)
	}

	leftmost := t.Root
	for !leftmost.IsLeaf() {
		leftmost = leftmost.Left
	}
	stats.LeftmostDepth = leftmost.Level
	stats.LeftmostElements = len(leftmost.Elements)

	return stats
}
