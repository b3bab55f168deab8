package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DefaultName is the registry name of the material used when none is assigned
const DefaultName = "default"

// Material holds the Phong coefficients and the reflection/refraction
// description of a surface
type Material struct {
	Name            string
	Emission        core.Vec3 // Emitted color
	Ambient         core.Vec3 // Ambient reflectance
	Diffuse         core.Vec3 // Diffuse reflectance
	Specular        core.Vec3 // Specular reflectance
	Shininess       float64   // Phong exponent
	Reflection      float64   // Fraction of radiance taken from the mirror direction
	Refraction      float64   // Fraction of radiance taken from the refracted direction
	RefractionIndex float64   // Index of the medium behind the surface
}

// New creates an opaque material with the given diffuse color
func New(name string, diffuse core.Vec3) *Material {
	return &Material{
		Name:            name,
		Diffuse:         diffuse,
		Shininess:       1,
		RefractionIndex: 1,
	}
}

// Default returns the grey material assigned to geometry without one
func Default() *Material {
	m := New(DefaultName, core.NewVec3(0.8, 0.8, 0.8))
	m.Ambient = core.NewVec3(0.1, 0.1, 0.1)
	return m
}

// SurfaceProperties implements core.Material
func (m *Material) SurfaceProperties() (reflect, refract, refractionIndex float64) {
	return m.Reflection, m.Refraction, m.RefractionIndex
}

// Validate checks the material's invariants and reports every violation
func (m *Material) Validate() error {
	var err error
	if m.Reflection < 0 || m.Refraction < 0 {
		err = multierr.Append(err, errors.Errorf("material %q: reflection and refraction must not be negative", m.Name))
	}
	if m.Reflection+m.Refraction > 1 {
		err = multierr.Append(err, errors.Errorf("material %q: reflection %g + refraction %g exceeds 1",
			m.Name, m.Reflection, m.Refraction))
	}
	if m.RefractionIndex <= 0 {
		err = multierr.Append(err, errors.Errorf("material %q: refraction index must be positive, got %g",
			m.Name, m.RefractionIndex))
	}
	if m.Shininess < 0 {
		err = multierr.Append(err, errors.Errorf("material %q: shininess must not be negative", m.Name))
	}
	return err
}
