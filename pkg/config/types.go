package config

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Vec3 is a three component vector written as a YAML list [x, y, z]
type Vec3 core.Vec3

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var values []float64
	if err := node.Decode(&values); err != nil {
		return errors.Errorf("line %d: expected a list of 3 numbers", node.Line)
	}
	if len(values) != 3 {
		return errors.Errorf("line %d: expected 3 components, got %d", node.Line, len(values))
	}
	*v = Vec3{X: values[0], Y: values[1], Z: values[2]}
	return nil
}

// Vec returns the vector as a core.Vec3
func (v Vec3) Vec() core.Vec3 {
	return core.Vec3(v)
}

// Color is an RGB color written either as a list of [0,1] components or as a
// hex string such as "#ff8000"
type Color core.Vec3

// UnmarshalYAML implements yaml.Unmarshaler
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := colorful.Hex(node.Value)
		if err != nil {
			return errors.Wrapf(err, "line %d: invalid color %q", node.Line, node.Value)
		}
		*c = Color{X: parsed.R, Y: parsed.G, Z: parsed.B}
		return nil
	}

	var v Vec3
	if err := v.UnmarshalYAML(node); err != nil {
		return err
	}
	*c = Color(v)
	return nil
}

// Vec returns the color as a core.Vec3
func (c Color) Vec() core.Vec3 {
	return core.Vec3(c)
}

// Hex formats the color as a hex string, clamping components into [0,1]
func (c Color) Hex() string {
	clamped := c.Vec().Clamp01()
	return colorful.Color{R: clamped.X, G: clamped.Y, B: clamped.Z}.Hex()
}
