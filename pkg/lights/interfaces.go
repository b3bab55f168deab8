package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint LightType = "point"
)

// Light is a light source the shaders can evaluate directly
type Light interface {
	Type() LightType

	// Position is the point the light emits from
	Position() core.Vec3

	// Color is the emitted color
	Color() core.Vec3

	// Attenuation returns the factor applied at the given distance from the light
	Attenuation(distance float64) float64

	// ShadowRay returns the segment from point towards the light, stopping
	// short of the light itself
	ShadowRay(point core.Vec3) core.Ray
}
