// Package integrator computes the radiance arriving along camera rays.
package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Integrate returns the color seen along a primary ray, every channel in [0, 1]
	Integrate(ray core.Ray) core.Vec3
}

// Scene is the part of the scene an integrator queries. It is satisfied by
// *scene.Scene.
type Scene interface {
	Intersect(ray core.Ray) *core.HitRecord
	NonOccludedLights(point core.Vec3) []lights.Light
	DefaultMaterial() *material.Material
	Environment() (background, ambient core.Vec3, refractionIndex float64)
}

// RefractionStack holds the refraction indices of the transparent media the
// current ray path is nested in, innermost last
type RefractionStack struct {
	indices []float64
}

// Push records entering a medium
func (s *RefractionStack) Push(index float64) {
	s.indices = append(s.indices, index)
}

// Pop records leaving the innermost medium. Popping an empty stack is a no-op
// and reports false.
func (s *RefractionStack) Pop() (float64, bool) {
	if len(s.indices) == 0 {
		return 0, false
	}
	top := s.indices[len(s.indices)-1]
	s.indices = s.indices[:len(s.indices)-1]
	return top, true
}

// Len returns the nesting depth
func (s *RefractionStack) Len() int {
	return len(s.indices)
}

// Indices returns a copy of the stack, outermost first
func (s *RefractionStack) Indices() []float64 {
	return append([]float64(nil), s.indices...)
}

// Outside returns the index of the medium on the far side of a surface. When
// entering, that is the medium the ray travels through now (the top); when
// exiting, it is the medium enclosing the current one (second from top).
// Missing entries fall back to ambient.
func (s *RefractionStack) Outside(entering bool, ambient float64) float64 {
	n := len(s.indices)
	switch {
	case entering && n > 0:
		return s.indices[n-1]
	case !entering && n > 1:
		return s.indices[n-2]
	default:
		return ambient
	}
}
