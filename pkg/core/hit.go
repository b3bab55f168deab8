package core

import "math"

// HitRecord describes a ray-surface intersection
type HitRecord struct {
	Point          Vec3     // Point of intersection
	T              float64  // Parameter t along the ray
	SurfaceNormal  Vec3     // Geometric normal
	ShadingNormal  Vec3     // Interpolated (or bump-mapped) normal used for shading
	SourcePosition Vec3     // Origin of the ray that produced the hit
	Material       Material // Material of the hit object
	Element        Element  // Hit element

	Texture       Texture // Diffuse texture, nil when untextured
	BumpMap       Texture // Tangent-space normal map, nil when absent
	TextureCoords Vec2
	LocalX        Vec3 // Tangent basis for bump mapping
	LocalY        Vec3
	LocalZ        Vec3

	ReflectionPercentage   float64
	RefractionPercentage   float64
	RefractionIndexInside  float64 // Filled by the element from its material
	RefractionIndexOutside float64 // Filled by the integrator from the refraction stack
	EntersObject           bool    // True when the ray hits the front face
}

// NewHitRecord returns a record with the defaults every element starts from
func NewHitRecord() *HitRecord {
	return &HitRecord{
		T:                      math.Inf(1),
		SurfaceNormal:          NewVec3(0, 0, 1),
		ShadingNormal:          NewVec3(0, 0, 1),
		LocalX:                 NewVec3(1, 0, 0),
		LocalY:                 NewVec3(0, 1, 0),
		LocalZ:                 NewVec3(0, 0, 1),
		RefractionIndexInside:  1,
		RefractionIndexOutside: 1,
		EntersObject:           true,
	}
}

// Nearest returns whichever candidate lies closer along the ray. Either
// argument may be nil.
func Nearest(a, b *HitRecord) *HitRecord {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.T < a.T:
		return b
	default:
		return a
	}
}
