package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"go.viam.com/test"
)

func TestParseShaderKind(t *testing.T) {
	tests := []struct {
		input string
		want  ShaderKind
	}{
		{"constant", ShaderConstant},
		{"Diffuse", ShaderDiffuse},
		{" phong ", ShaderPhong},
		{"PHONG_BUMP", ShaderPhongBump},
	}
	for _, tt := range tests {
		got, err := ParseShaderKind(tt.input)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, tt.want)
		test.That(t, got.String(), test.ShouldEqual, shaderNames[tt.want])
	}

	_, err := ParseShaderKind("toon")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "toon")
	test.That(t, ShaderKind(42).String(), test.ShouldEqual, "unknown")
}

// phongMaterial has a distinct value per term so sums identify which terms
// contributed
func phongMaterial() *material.Material {
	m := material.New("phong", core.NewVec3(0.2, 0.2, 0.2))
	m.Emission = core.NewVec3(0.05, 0.05, 0.05)
	m.Ambient = core.NewVec3(0.5, 0.5, 0.5)
	m.Specular = core.NewVec3(0.3, 0.3, 0.3)
	m.Shininess = 10
	return m
}

var (
	down      = core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	up        = core.NewRay(core.NewVec3(0, -5, 0), core.NewVec3(0, 1, 0))
	white     = core.NewVec3(1, 1, 1)
	aboveLamp = core.NewVec3(0, 5, 0)
	belowLamp = core.NewVec3(0, -5, 0)
)

func TestShader_Constant(t *testing.T) {
	m := material.New("flat", core.NewVec3(0.3, 0.6, 0.9))
	rs, _ := floorScene(m)
	w := NewWhitted(rs, 0, ShaderConstant)

	vecClose(t, w.Integrate(down), core.NewVec3(0.3, 0.6, 0.9), 1e-12)
	test.That(t, rs.lightQueries, test.ShouldEqual, 0)
}

func TestShader_Diffuse(t *testing.T) {
	m := material.New("clay", core.NewVec3(0.5, 0.25, 0.1))
	rs, _ := floorScene(m)
	rs.AddLight(lights.NewPointLight(aboveLamp, white))
	w := NewWhitted(rs, 0, ShaderDiffuse)

	// Viewer and light on the same side
	vecClose(t, w.Integrate(down), core.NewVec3(0.5, 0.25, 0.1), 1e-12)

	// Viewer below the surface: the normal turns to the viewer, away from the light
	vecClose(t, w.Integrate(up), core.Vec3{}, 1e-12)

	// Half-strength light at 60 degrees
	rs.Lights = []lights.Light{lights.NewPointLight(core.NewVec3(math.Sqrt(3), 1, 0).Multiply(2), white)}
	lit := w.Integrate(down)
	test.That(t, lit.X, test.ShouldAlmostEqual, 0.25, 1e-9)
}

func TestShader_DiffuseRefractiveLitFromBehind(t *testing.T) {
	m := glass(1.5)
	m.Refraction = 0.5
	m.Diffuse = core.NewVec3(0.4, 0.4, 0.4)
	rs, _ := floorScene(m)
	rs.AddLight(lights.NewPointLight(belowLamp, white))
	w := NewWhitted(rs, 0, ShaderDiffuse)

	vecClose(t, w.Integrate(down), core.NewVec3(0.4, 0.4, 0.4), 1e-12)
}

func TestShader_Phong(t *testing.T) {
	tests := []struct {
		name       string
		refraction float64
		lamp       core.Vec3
		want       float64
	}{
		// emission + ambient + diffuse + full specular
		{name: "light behind viewer", lamp: aboveLamp, want: 0.05 + 0.1 + 0.2 + 0.3},
		// emission + ambient only
		{name: "light behind opaque surface", lamp: belowLamp, want: 0.05 + 0.1},
		// the light refracts straight through towards the viewer
		{name: "light behind refractive surface", refraction: 0.5, lamp: belowLamp, want: 0.05 + 0.1 + 0.2 + 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := phongMaterial()
			m.Refraction = tt.refraction
			m.RefractionIndex = 1.5
			rs, _ := floorScene(m)
			rs.Ambient = core.NewVec3(0.2, 0.2, 0.2)
			rs.AddLight(lights.NewPointLight(tt.lamp, white))
			w := NewWhitted(rs, 0, ShaderPhong)

			vecClose(t, w.Integrate(down), core.NewVec3(tt.want, tt.want, tt.want), 1e-9)
		})
	}
}

func TestShader_PhongAttenuationAndTexture(t *testing.T) {
	m := phongMaterial()
	m.Specular = core.Vec3{}
	rs, mesh := floorScene(m)
	mesh.Texture = material.NewSolidColor(core.NewVec3(0.8, 0.4, 0))

	lamp := lights.NewPointLight(aboveLamp, white)
	lamp.Quadratic = 3.0 / 25.0 // 1 / (1 + 3) at distance 5
	rs.AddLight(lamp)
	w := NewWhitted(rs, 0, ShaderPhong)

	// emission + texture * attenuation, no scene ambient
	vecClose(t, w.Integrate(down), core.NewVec3(0.05+0.2, 0.05+0.1, 0.05), 1e-9)
}

func TestShader_PhongOccludedLight(t *testing.T) {
	m := phongMaterial()
	rs, _ := floorScene(m)
	rs.AddLight(lights.NewPointLight(aboveLamp, white))

	// An opaque plate between the floor and the light
	plate := geometry.NewTriangle(core.NewVec3(-1, 2, -1), core.NewVec3(-1, 2, 2), core.NewVec3(2, 2, -1), nil)
	rs.AddMesh(plate.Mesh())
	rs.BuildIndex()

	w := NewWhitted(rs, 0, ShaderPhong)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	vecClose(t, w.Integrate(ray), core.NewVec3(0.05, 0.05, 0.05), 1e-9)
}

func TestShader_PhongBump(t *testing.T) {
	tests := []struct {
		name string
		bump core.Texture
		want float64
	}{
		{name: "no bump map", want: 0.05 + 0.1 + 0.2 + 0.3},
		{name: "flat normal map", bump: material.NewFlatNormalMap(), want: 0.05 + 0.1 + 0.2 + 0.3},
		// the normal turns perpendicular to the light
		{name: "tilted normal map", bump: material.NewSolidColor(core.NewVec3(1, 0.5, 0.5)), want: 0.05 + 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, mesh := floorScene(phongMaterial())
			mesh.BumpMap = tt.bump
			rs.Ambient = core.NewVec3(0.2, 0.2, 0.2)
			rs.AddLight(lights.NewPointLight(aboveLamp, white))
			w := NewWhitted(rs, 0, ShaderPhongBump)

			vecClose(t, w.Integrate(down), core.NewVec3(tt.want, tt.want, tt.want), 1e-9)
		})
	}
}
