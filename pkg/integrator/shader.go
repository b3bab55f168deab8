package integrator

import (
	"math"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/pkg/errors"
)

// ShaderKind selects the local illumination model evaluated at every hit
type ShaderKind int

const (
	// ShaderConstant returns the diffuse color unlit
	ShaderConstant ShaderKind = iota
	// ShaderDiffuse sums Lambertian contributions of the visible lights
	ShaderDiffuse
	// ShaderPhong adds emission, ambient, textured diffuse and specular terms
	ShaderPhong
	// ShaderPhongBump is Phong with the normal taken from a tangent-space normal map
	ShaderPhongBump
)

var shaderNames = map[ShaderKind]string{
	ShaderConstant:  "constant",
	ShaderDiffuse:   "diffuse",
	ShaderPhong:     "phong",
	ShaderPhongBump: "phong_bump",
}

func (k ShaderKind) String() string {
	if name, ok := shaderNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseShaderKind converts a configuration name into a ShaderKind
func ParseShaderKind(name string) (ShaderKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, kindName := range shaderNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, errors.Errorf("unknown shader %q (want constant, diffuse, phong or phong_bump)", name)
}

// shade evaluates the local illumination at hit with material m
func (w *Whitted) shade(hit *core.HitRecord, m *material.Material) core.Vec3 {
	switch w.shader {
	case ShaderConstant:
		return m.Diffuse
	case ShaderDiffuse:
		return w.shadeDiffuse(hit, m)
	case ShaderPhong:
		return w.shadePhong(hit, m)
	case ShaderPhongBump:
		return w.shadePhongBump(hit, m)
	default:
		return core.Vec3{}
	}
}

// orientedNormal returns the shading normal flipped to face the ray source
func orientedNormal(hit *core.HitRecord) (normal, sourceDir core.Vec3) {
	sourceDir = hit.SourcePosition.Subtract(hit.Point).Normalize()
	normal = hit.ShadingNormal
	if normal.Dot(sourceDir) < 0 {
		normal = normal.Negate()
	}
	return normal, sourceDir
}

func (w *Whitted) shadeDiffuse(hit *core.HitRecord, m *material.Material) core.Vec3 {
	normal, _ := orientedNormal(hit)

	var color core.Vec3
	for _, light := range w.scene.NonOccludedLights(hit.Point) {
		lightDir := light.Position().Subtract(hit.Point).Normalize()
		cosTheta := normal.Dot(lightDir)
		// Refractive surfaces are lit from behind as well
		if cosTheta > 0 || hit.RefractionPercentage > 0 {
			color = color.Add(m.Diffuse.MultiplyVec(light.Color()).Multiply(math.Abs(cosTheta)))
		}
	}
	return color.Clamp01()
}

func (w *Whitted) shadePhong(hit *core.HitRecord, m *material.Material) core.Vec3 {
	_, ambient, _ := w.scene.Environment()
	normal, sourceDir := orientedNormal(hit)

	color := m.Emission.Add(ambient.MultiplyVec(m.Ambient))
	for _, light := range w.scene.NonOccludedLights(hit.Point) {
		toLight := light.Position().Subtract(hit.Point)
		lightDir := toLight.Normalize()
		cosTheta := normal.Dot(lightDir)
		if cosTheta <= 0 && hit.RefractionPercentage <= 0 {
			continue
		}
		attenuation := light.Attenuation(toLight.Length())

		// Diffuse
		diffuse := m.Diffuse
		if hit.Texture != nil {
			diffuse = hit.Texture.Evaluate(hit.TextureCoords)
		}
		color = color.Add(diffuse.MultiplyVec(light.Color()).Multiply(math.Abs(cosTheta) * attenuation))

		// Specular
		bounced := bouncedLightDirection(hit, normal, lightDir, cosTheta)
		if cosRH := sourceDir.Dot(bounced); cosRH > 0 {
			color = color.Add(m.Specular.MultiplyVec(light.Color()).Multiply(math.Pow(cosRH, m.Shininess) * attenuation))
		}
	}
	return color.Clamp01()
}

// bouncedLightDirection returns the direction light from lightDir leaves the
// surface in: mirrored when the light is on the viewer's side, refracted
// through the surface otherwise
func bouncedLightDirection(hit *core.HitRecord, oriented, lightDir core.Vec3, cosTheta float64) core.Vec3 {
	reflected := oriented.Multiply(2 * cosTheta).Subtract(lightDir).Normalize()
	if cosTheta > 0 {
		return reflected
	}

	normal := hit.ShadingNormal
	n1, n2 := hit.RefractionIndexOutside, hit.RefractionIndexInside
	if lightDir.Dot(normal) <= 0 {
		// Light leaves the object
		normal = normal.Negate()
		n1, n2 = n2, n1
	}
	refracted, ok := refract(lightDir, normal, n1, n2)
	if !ok {
		return reflected
	}
	return refracted
}

func (w *Whitted) shadePhongBump(hit *core.HitRecord, m *material.Material) core.Vec3 {
	_, ambient, _ := w.scene.Environment()

	diffuse := m.Diffuse
	if hit.Texture != nil {
		diffuse = hit.Texture.Evaluate(hit.TextureCoords)
	}

	normal := hit.ShadingNormal
	if hit.BumpMap != nil {
		// Map the [0,1] color to [-1,1] components along the tangent frame
		d := hit.BumpMap.Evaluate(hit.TextureCoords).Multiply(2).Subtract(core.NewVec3(1, 1, 1))
		normal = hit.LocalX.Multiply(d.X).Add(hit.LocalY.Multiply(d.Y)).Add(hit.LocalZ.Multiply(d.Z)).Normalize()
	}
	camDir := hit.SourcePosition.Subtract(hit.Point).Normalize()

	color := m.Emission.Add(ambient.MultiplyVec(m.Ambient))
	for _, light := range w.scene.NonOccludedLights(hit.Point) {
		toLight := light.Position().Subtract(hit.Point)
		lightDir := toLight.Normalize()
		cosTheta := normal.Dot(lightDir)
		if cosTheta <= 0 {
			continue
		}
		attenuation := light.Attenuation(toLight.Length())

		color = color.Add(diffuse.MultiplyVec(light.Color()).Multiply(cosTheta * attenuation))

		lightRefl := normal.Multiply(2 * cosTheta).Subtract(lightDir).Normalize()
		if cosRH := camDir.Dot(lightRefl); cosRH > 0 {
			color = color.Add(m.Specular.MultiplyVec(light.Color()).Multiply(math.Pow(cosRH, m.Shininess) * attenuation))
		}
	}
	return color.Clamp01()
}
