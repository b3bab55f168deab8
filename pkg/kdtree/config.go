package kdtree

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// SplitPolicy selects how the splitting coordinate of a node is chosen
type SplitPolicy int

const (
	// SplitMidpoint splits the node's box in half along the split axis
	SplitMidpoint SplitPolicy = iota
	// SplitMedian splits at the median of the element centroids
	SplitMedian
	// SplitMean splits at the mean of the element centroids
	SplitMean
)

var splitPolicyNames = map[SplitPolicy]string{
	SplitMidpoint: "midpoint",
	SplitMedian:   "median",
	SplitMean:     "mean",
}

func (p SplitPolicy) String() string {
	if name, ok := splitPolicyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseSplitPolicy converts a configuration string into a SplitPolicy
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	for policy, name := range splitPolicyNames {
		if strings.EqualFold(s, name) {
			return policy, nil
		}
	}
	return SplitMidpoint, errors.Errorf("unknown split policy %q", s)
}

// AxisPolicy selects the splitting axis of child nodes
type AxisPolicy int

const (
	// AxisRoundRobin starts at X on the root and cycles X, Y, Z per level
	AxisRoundRobin AxisPolicy = iota
	// AxisLargestExtent picks the axis along which the node's box is widest
	AxisLargestExtent
)

var axisPolicyNames = map[AxisPolicy]string{
	AxisRoundRobin:    "round_robin",
	AxisLargestExtent: "largest_extent",
}

func (p AxisPolicy) String() string {
	if name, ok := axisPolicyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseAxisPolicy converts a configuration string into an AxisPolicy
func ParseAxisPolicy(s string) (AxisPolicy, error) {
	for policy, name := range axisPolicyNames {
		if strings.EqualFold(s, name) {
			return policy, nil
		}
	}
	return AxisRoundRobin, errors.Errorf("unknown axis policy %q", s)
}

// Config holds the construction parameters of the tree
type Config struct {
	MaxElementsInLeaf int         // A node with this many elements or fewer becomes a leaf
	MaxDepth          int         // Nodes at this level become leaves
	Split             SplitPolicy // Splitting coordinate policy
	Axis              AxisPolicy  // Splitting axis policy
}

// DefaultConfig returns the construction parameters used when none are configured
func DefaultConfig() Config {
	return Config{
		MaxElementsInLeaf: 1,
		MaxDepth:          15,
		Split:             SplitMidpoint,
		Axis:              AxisRoundRobin,
	}
}

// Validate checks the parameters and reports every problem found
func (c Config) Validate() error {
	var err error
	if c.MaxElementsInLeaf < 0 {
		err = multierr.Append(err, errors.Errorf("max elements in a leaf must not be negative, got %d", c.MaxElementsInLeaf))
	}
	if c.MaxDepth < 0 {
		err = multierr.Append(err, errors.Errorf("max depth must not be negative, got %d", c.MaxDepth))
	}
	if _, ok := splitPolicyNames[c.Split]; !ok {
		err = multierr.Append(err, errors.Errorf("unknown split policy %d", c.Split))
	}
	if _, ok := axisPolicyNames[c.Axis]; !ok {
		err = multierr.Append(err, errors.Errorf("unknown axis policy %d", c.Axis))
	}
	return err
}
