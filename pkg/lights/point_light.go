package lights

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight emits uniformly from a single point
type PointLight struct {
	position core.Vec3
	color    core.Vec3

	// Distance attenuation 1 / (Constant + Linear*d + Quadratic*d^2)
	Constant  float64
	Linear    float64
	Quadratic float64
}

// NewPointLight creates an unattenuated point light
func NewPointLight(position, color core.Vec3) *PointLight {
	return &PointLight{
		position: position,
		color:    color,
		Constant: 1,
	}
}

// Type returns the light type
func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Position returns the light position
func (pl *PointLight) Position() core.Vec3 {
	return pl.position
}

// Color returns the emitted color
func (pl *PointLight) Color() core.Vec3 {
	return pl.color
}

// Attenuation returns the distance falloff factor
func (pl *PointLight) Attenuation(distance float64) float64 {
	denominator := pl.Constant + pl.Linear*distance + pl.Quadratic*distance*distance
	if denominator <= 0 {
		return 1
	}
	return 1 / denominator
}

// ShadowRay returns the segment from point to the light
func (pl *PointLight) ShadowRay(point core.Vec3) core.Ray {
	return core.NewSegment(point, pl.position)
}
