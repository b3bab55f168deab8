package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"go.viam.com/test"
)

// recordingScene records every traced ray and every light query
type recordingScene struct {
	*scene.Scene
	rays         []core.Ray
	lightQueries int
}

func (r *recordingScene) Intersect(ray core.Ray) *core.HitRecord {
	r.rays = append(r.rays, ray)
	return r.Scene.Intersect(ray)
}

func (r *recordingScene) NonOccludedLights(point core.Vec3) []lights.Light {
	r.lightQueries++
	return r.Scene.NonOccludedLights(point)
}

// floorScene returns a scene holding one large upward-facing triangle in the
// plane y = 0 that covers the origin
func floorScene(mat *material.Material) (*recordingScene, *geometry.Mesh) {
	floor := geometry.NewTriangle(
		core.NewVec3(-10, 0, -10),
		core.NewVec3(-10, 0, 20),
		core.NewVec3(20, 0, -10),
		mat,
	)
	s := scene.New(nil)
	s.AddMesh(floor.Mesh())
	s.BuildIndex()
	return &recordingScene{Scene: s}, floor.Mesh()
}

func glass(index float64) *material.Material {
	m := material.New("glass", core.NewVec3(1, 1, 1))
	m.Refraction = 1
	m.RefractionIndex = index
	return m
}

func vecClose(t *testing.T, got, want core.Vec3, tolerance float64) {
	t.Helper()
	test.That(t, got.X, test.ShouldAlmostEqual, want.X, tolerance)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, tolerance)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z, tolerance)
}

func TestWhitted_Miss(t *testing.T) {
	rs, _ := floorScene(nil)
	rs.Background = core.NewVec3(0.2, 0.4, 0.6)
	w := NewWhitted(rs, 3, ShaderPhong)

	color := w.Integrate(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)))
	test.That(t, color, test.ShouldResemble, core.NewVec3(0.2, 0.4, 0.6))
	test.That(t, rs.rays, test.ShouldHaveLength, 1)
	test.That(t, rs.lightQueries, test.ShouldEqual, 0)
}

func TestWhitted_DepthZeroShadesOnce(t *testing.T) {
	mirror := material.New("mirror", core.NewVec3(0.5, 0.5, 0.5))
	mirror.Reflection = 0.5
	mirror.Refraction = 0.3
	rs, _ := floorScene(mirror)
	rs.AddLight(lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1)))

	w := NewWhitted(rs, 0, ShaderPhong)
	color := w.Integrate(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)))

	test.That(t, rs.rays, test.ShouldHaveLength, 1)
	test.That(t, rs.lightQueries, test.ShouldEqual, 1)
	// Unweighted local shading: diffuse plus no specular (Specular is black)
	vecClose(t, color, core.NewVec3(0.5, 0.5, 0.5), 1e-12)
}

func TestWhitted_MirrorReflectsBackground(t *testing.T) {
	mirror := material.New("mirror", core.NewVec3(1, 0, 0))
	mirror.Reflection = 1
	rs, _ := floorScene(mirror)
	rs.Background = core.NewVec3(0.2, 0.4, 0.6)

	w := NewWhitted(rs, 2, ShaderConstant)
	color := w.Integrate(core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0)))

	vecClose(t, color, core.NewVec3(0.2, 0.4, 0.6), 1e-12)
	test.That(t, rs.rays, test.ShouldHaveLength, 2)
	test.That(t, rs.rays[1].Depth, test.ShouldEqual, 1)
	vecClose(t, rs.rays[1].Origin, core.NewVec3(0, 0, 0), 1e-12)
	vecClose(t, rs.rays[1].Direction, core.NewVec3(1, 1, 0).Normalize(), 1e-12)
}

func TestWhitted_ColorIsClamped(t *testing.T) {
	bright := material.New("bright", core.NewVec3(1, 1, 1))
	bright.Emission = core.NewVec3(2, 2, 2)
	bright.Specular = core.NewVec3(1, 1, 1)
	bright.Reflection = 0.5
	rs, _ := floorScene(bright)
	rs.Ambient = core.NewVec3(5, 5, 5)
	rs.Background = core.NewVec3(3, -2, 0.5)
	rs.AddLight(lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(10, 10, 10)))
	rs.AddLight(lights.NewPointLight(core.NewVec3(3, 5, 1), core.NewVec3(10, 10, 10)))

	for _, shader := range []ShaderKind{ShaderConstant, ShaderDiffuse, ShaderPhong, ShaderPhongBump} {
		for depth := 0; depth < 4; depth++ {
			w := NewWhitted(rs, depth, shader)
			for _, ray := range []core.Ray{
				core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)),
				core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0.3)),
				core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)),
			} {
				color := w.Integrate(ray)
				for _, c := range []float64{color.X, color.Y, color.Z} {
					test.That(t, c, test.ShouldBeBetweenOrEqual, 0.0, 1.0)
				}
			}
		}
	}

	w := NewWhitted(rs, 0, ShaderPhong)
	miss := w.Integrate(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)))
	test.That(t, miss, test.ShouldResemble, core.NewVec3(1, 0, 0.5))
}

func TestWhitted_TotalInternalReflection(t *testing.T) {
	rs, _ := floorScene(glass(1.5))
	rs.Background = core.NewVec3(0.1, 0.2, 0.3)
	w := NewWhitted(rs, 1, ShaderConstant)

	// Leaving the glass at 45 degrees exceeds the critical angle asin(1/1.5)
	dir := core.NewVec3(1, 1, 0).Normalize()
	color := w.Integrate(core.NewRay(core.NewVec3(-1, -1, 0), dir))

	test.That(t, rs.rays, test.ShouldHaveLength, 2)
	vecClose(t, rs.rays[1].Direction, core.NewVec3(1, -1, 0).Normalize(), 1e-12)
	test.That(t, rs.rays[1].Depth, test.ShouldEqual, 1)
	// Refraction weight moved to the mirror direction, which misses everything
	vecClose(t, color, core.NewVec3(0.1, 0.2, 0.3), 1e-12)
}

func TestWhitted_RefractionLeavingGlass(t *testing.T) {
	rs, _ := floorScene(glass(1.5))
	w := NewWhitted(rs, 1, ShaderConstant)

	dir := core.NewVec3(0.2, 1, 0).Normalize()
	w.Integrate(core.NewRay(core.NewVec3(-0.2, -1, 0), dir))

	test.That(t, rs.rays, test.ShouldHaveLength, 2)
	sinOut := 1.5 * dir.X
	vecClose(t, rs.rays[1].Direction, core.NewVec3(sinOut, math.Sqrt(1-sinOut*sinOut), 0), 1e-9)
}

func TestWhitted_RefractionStackScoping(t *testing.T) {
	tests := []struct {
		name    string
		stack   []float64
		origin  core.Vec3
		dir     core.Vec3
		sinOut  func(sinIn float64) float64
		downOut bool
	}{
		{
			name:    "entering from nested medium",
			stack:   []float64{1.3},
			origin:  core.NewVec3(-0.2, 1, 0),
			dir:     core.NewVec3(0.2, -1, 0),
			sinOut:  func(sinIn float64) float64 { return 1.3 / 1.5 * sinIn },
			downOut: true,
		},
		{
			name:    "entering from ambient",
			stack:   nil,
			origin:  core.NewVec3(-0.2, 1, 0),
			dir:     core.NewVec3(0.2, -1, 0),
			sinOut:  func(sinIn float64) float64 { return 1 / 1.5 * sinIn },
			downOut: true,
		},
		{
			name:   "leaving into enclosing medium",
			stack:  []float64{1.3, 1.5},
			origin: core.NewVec3(-0.2, -1, 0),
			dir:    core.NewVec3(0.2, 1, 0),
			sinOut: func(sinIn float64) float64 { return 1.5 / 1.3 * sinIn },
		},
		{
			name:   "leaving a medium the stack does not hold",
			stack:  []float64{1.3},
			origin: core.NewVec3(-0.2, -1, 0),
			dir:    core.NewVec3(0.2, 1, 0),
			sinOut: func(sinIn float64) float64 { return 1.5 * sinIn },
		},
		{
			name:   "leaving with empty stack",
			stack:  nil,
			origin: core.NewVec3(-0.2, -1, 0),
			dir:    core.NewVec3(0.2, 1, 0),
			sinOut: func(sinIn float64) float64 { return 1.5 * sinIn },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, _ := floorScene(glass(1.5))
			w := NewWhitted(rs, 1, ShaderConstant)

			var stack RefractionStack
			for _, index := range tt.stack {
				stack.Push(index)
			}
			ray := core.NewRay(tt.origin, tt.dir)
			w.integrate(ray, &stack)

			// The caller's stack is unchanged
			test.That(t, stack.Len(), test.ShouldEqual, len(tt.stack))
			for i, index := range stack.Indices() {
				test.That(t, index, test.ShouldEqual, tt.stack[i])
			}

			test.That(t, rs.rays, test.ShouldHaveLength, 2)
			out := rs.rays[1].Direction
			test.That(t, out.X, test.ShouldAlmostEqual, tt.sinOut(ray.Direction.X), 1e-9)
			test.That(t, out.Y < 0, test.ShouldEqual, tt.downOut)
		})
	}
}

func TestRefractionStack(t *testing.T) {
	var stack RefractionStack
	test.That(t, stack.Outside(true, 1), test.ShouldEqual, 1.0)
	test.That(t, stack.Outside(false, 1), test.ShouldEqual, 1.0)
	_, ok := stack.Pop()
	test.That(t, ok, test.ShouldBeFalse)

	stack.Push(1.3)
	test.That(t, stack.Outside(true, 1), test.ShouldEqual, 1.3)
	test.That(t, stack.Outside(false, 1), test.ShouldEqual, 1.0)

	stack.Push(1.5)
	test.That(t, stack.Outside(true, 1), test.ShouldEqual, 1.5)
	test.That(t, stack.Outside(false, 1), test.ShouldEqual, 1.3)

	top, ok := stack.Pop()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, top, test.ShouldEqual, 1.5)
	test.That(t, stack.Indices(), test.ShouldResemble, []float64{1.3})
}

func TestRefract(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)

	// Normal incidence passes straight through
	out, ok := refract(core.NewVec3(0, 1, 0), normal, 1, 1.5)
	test.That(t, ok, test.ShouldBeTrue)
	vecClose(t, out, core.NewVec3(0, -1, 0), 1e-12)

	// Equal indices do not bend the ray
	in := core.NewVec3(0.6, 0.8, 0)
	out, ok = refract(in, normal, 1.2, 1.2)
	test.That(t, ok, test.ShouldBeTrue)
	vecClose(t, out, in.Negate(), 1e-12)

	// Grazing exit from a dense medium is totally reflected
	_, ok = refract(core.NewVec3(0.8, 0.6, 0), normal, 1.5, 1.0)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestWhitted_NegativeDepth(t *testing.T) {
	rs, _ := floorScene(nil)
	w := NewWhitted(rs, -3, ShaderConstant)
	test.That(t, w.MaxDepth(), test.ShouldEqual, 0)
	test.That(t, w.Shader(), test.ShouldEqual, ShaderConstant)
}
