package kdtree

import (
	"github.com/montanaflynn/stats"
)

// splitCoordinate picks the splitting plane of node along node.Axis. The
// plane is rejected unless it lies strictly inside the node's box, since a
// plane on the boundary would produce a zero-volume child.
func (t *Tree) splitCoordinate(node *Node, ids []ElementID) (float64, bool) {
	lo := node.Bounds.Min.Component(node.Axis)
	hi := node.Bounds.Max.Component(node.Axis)

	var split float64
	switch t.config.Split {
	case SplitMedian, SplitMean:
		coords := make([]float64, len(ids))
		for i, id := range ids {
			coords[i] = t.centroids[id].Component(node.Axis)
		}

		var err error
		if t.config.Split == SplitMedian {
			split, err = stats.Median(coords)
		} else {
			split, err = stats.Mean(coords)
		}
		if err != nil {
			return 0, false
		}
	default:
		split = 0.5 * (lo + hi)
	}

	// NaN fails both comparisons
	if !(lo < split && split < hi) {
		return 0, false
	}
	return split, true
}
