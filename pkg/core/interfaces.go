package core

// Element is the capability every intersectable primitive provides. The
// spatial index only relies on BoundingBox, Centroid and IsFinite; the
// intersection methods are called by leaves and by the scene's exhaustive
// fallback.
type Element interface {
	// Intersect returns the hit with the ray inside [tMin, tMax], if any
	Intersect(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	// FastIntersect reports whether the ray hits inside [tMin, tMax]
	FastIntersect(ray Ray, tMin, tMax float64) bool
	// BoundingBox is only meaningful for finite elements
	BoundingBox() AABB
	Centroid() Vec3
	IsFinite() bool
}

// Material is the surface description carried by a hit record. It is opaque
// to the index and the scene; only shading looks inside it.
type Material interface {
	// SurfaceProperties returns the reflection percentage, refraction
	// percentage and refraction index of the surface
	SurfaceProperties() (reflect, refract, refractionIndex float64)
}

// Texture maps texture coordinates to a color
type Texture interface {
	Evaluate(uv Vec2) Vec3
}
