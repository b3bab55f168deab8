package scene

import (
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ErrUnknownMaterial is returned when a lookup names a material never added
var ErrUnknownMaterial = errors.New("unknown material")

// ErrUnknownTexture is returned when a lookup names a texture never added
var ErrUnknownTexture = errors.New("unknown texture")

// AddMaterial registers m under its name, replacing any previous entry
func (s *Scene) AddMaterial(m *material.Material) {
	s.materials[m.Name] = m
}

// Material looks up a registered material
func (s *Scene) Material(name string) (*material.Material, error) {
	m, ok := s.materials[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMaterial, "%q", name)
	}
	return m, nil
}

// DefaultMaterial returns the material assigned to geometry without one
func (s *Scene) DefaultMaterial() *material.Material {
	if m, ok := s.materials[material.DefaultName]; ok {
		return m
	}
	m := material.Default()
	s.materials[m.Name] = m
	return m
}

// MaterialNames returns the registered material names in sorted order
func (s *Scene) MaterialNames() []string {
	names := make([]string, 0, len(s.materials))
	for name := range s.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddTexture registers a texture under name
func (s *Scene) AddTexture(name string, texture core.Texture) {
	s.textures[name] = texture
}

// Texture looks up a registered texture
func (s *Scene) Texture(name string) (core.Texture, error) {
	texture, ok := s.textures[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTexture, "%q", name)
	}
	return texture, nil
}

// Validate checks the scene data the integrator relies on and reports every
// problem found
func (s *Scene) Validate() error {
	var err error
	if s.RefractionIndex <= 0 {
		err = multierr.Append(err, errors.Errorf("scene refraction index must be positive, got %g", s.RefractionIndex))
	}
	seen := make(map[*material.Material]bool)
	validate := func(m *material.Material) {
		if m == nil || seen[m] {
			return
		}
		seen[m] = true
		err = multierr.Append(err, m.Validate())
	}

	for _, name := range s.MaterialNames() {
		validate(s.materials[name])
	}
	// Geometry may carry materials that were never registered
	for _, mesh := range s.meshes {
		validate(mesh.Material)
	}
	for _, element := range s.elements {
		if plane, ok := element.(*geometry.Plane); ok {
			validate(plane.Material)
		}
	}
	return err
}
