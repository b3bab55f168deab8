package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Whitted implements classical recursive ray tracing: local shading plus
// perfect mirror reflection and refraction, recursing up to maxDepth bounces
type Whitted struct {
	scene    Scene
	maxDepth int
	shader   ShaderKind
}

// NewWhitted creates a Whitted integrator. A maxDepth of 0 only shades the
// first hit.
func NewWhitted(scene Scene, maxDepth int, shader ShaderKind) *Whitted {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Whitted{
		scene:    scene,
		maxDepth: maxDepth,
		shader:   shader,
	}
}

// MaxDepth returns the recursion limit
func (w *Whitted) MaxDepth() int {
	return w.maxDepth
}

// Shader returns the shader evaluated at every hit
func (w *Whitted) Shader() ShaderKind {
	return w.shader
}

// Integrate implements Integrator. Each call owns its refraction stack, so
// concurrent calls are safe as long as the scene is read-only.
func (w *Whitted) Integrate(ray core.Ray) core.Vec3 {
	var stack RefractionStack
	return w.integrate(ray, &stack)
}

func (w *Whitted) integrate(ray core.Ray, stack *RefractionStack) core.Vec3 {
	background, _, ambientIndex := w.scene.Environment()

	hit := w.scene.Intersect(ray)
	if hit == nil {
		return background.Clamp01()
	}
	hit.RefractionIndexOutside = stack.Outside(hit.EntersObject, ambientIndex)
	m := w.materialOf(hit)

	// Last recursion step: local shading only
	if ray.Depth >= w.maxDepth {
		return w.shade(hit, m).Clamp01()
	}

	color := w.shade(hit, m).Multiply(1 - hit.ReflectionPercentage - hit.RefractionPercentage)
	reflection := hit.ReflectionPercentage

	if hit.RefractionPercentage != 0 {
		refracted, totalReflection := w.refraction(ray, hit, stack)
		if totalReflection {
			reflection += hit.RefractionPercentage
		} else {
			color = color.Add(refracted.Multiply(hit.RefractionPercentage))
		}
	}

	if reflection != 0 {
		sourceDir := ray.Direction.Negate()
		normal := hit.ShadingNormal
		target := normal.Multiply(2 * normal.Dot(sourceDir)).Subtract(sourceDir).Normalize()
		color = color.Add(w.integrate(ray.Spawn(hit.Point, target), stack).Multiply(reflection))
	}

	return color.Clamp01()
}

// refraction traces the transmitted ray, keeping the stack in step with the
// medium the ray travels through and restoring it before returning. It
// reports true instead when the incidence exceeds the critical angle.
func (w *Whitted) refraction(ray core.Ray, hit *core.HitRecord, stack *RefractionStack) (core.Vec3, bool) {
	sourceDir := ray.Direction.Negate()
	normal := hit.ShadingNormal

	var n1, n2, top float64
	pushed, popped := false, false
	if hit.EntersObject {
		n1, n2 = hit.RefractionIndexOutside, hit.RefractionIndexInside
		stack.Push(n2)
		pushed = true
	} else {
		// The normal must point into the medium the ray comes from
		normal = normal.Negate()
		n1, n2 = hit.RefractionIndexInside, hit.RefractionIndexOutside
		top, popped = stack.Pop()
	}
	defer func() {
		if pushed {
			stack.Pop()
		} else if popped {
			stack.Push(top)
		}
	}()

	target, ok := refract(sourceDir, normal, n1, n2)
	if !ok {
		return core.Vec3{}, true
	}
	return w.integrate(ray.Spawn(hit.Point, target), stack), false
}

// refract applies Snell's law to the direction sourceDir, which points away
// from the surface on the side normal points to, going from index n1 into n2.
// It returns the transmitted direction, or false on total internal reflection.
func refract(sourceDir, normal core.Vec3, n1, n2 float64) (core.Vec3, bool) {
	cosTheta1 := sourceDir.Dot(normal)
	sinTheta1 := math.Sqrt(math.Max(0, 1-cosTheta1*cosTheta1))
	if sinTheta1 > n2/n1 {
		return core.Vec3{}, false
	}

	eta := n1 / n2
	cosTheta2 := math.Sqrt(math.Max(0, 1-eta*eta*(1-cosTheta1*cosTheta1)))
	target := sourceDir.Multiply(eta).Add(normal.Multiply(cosTheta2 - eta*cosTheta1))
	return target.Normalize().Negate(), true
}

// materialOf returns the hit's material, falling back to the scene default
func (w *Whitted) materialOf(hit *core.HitRecord) *material.Material {
	if m, ok := hit.Material.(*material.Material); ok && m != nil {
		return m
	}
	return w.scene.DefaultMaterial()
}
