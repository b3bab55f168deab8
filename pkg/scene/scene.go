package scene

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/kdtree"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Scene owns every element, light, material and texture of a render and
// answers ray queries against them. Elements must all be added before
// BuildIndex; after that the scene is read-only and safe for concurrent
// queries.
type Scene struct {
	Background      core.Vec3 // Returned for rays that hit nothing
	Ambient         core.Vec3 // Ambient light color
	RefractionIndex float64   // Index of the medium surrounding all objects
	Lights          []lights.Light

	elements  []core.Element
	infinite  []core.Element
	meshes    []*geometry.Mesh
	materials map[string]*material.Material
	textures  map[string]core.Texture

	useIndex    bool
	indexConfig kdtree.Config
	tree        *kdtree.Tree

	tests  atomic.Uint64
	logger *zap.SugaredLogger
}

// New creates an empty scene with a black background, a vacuum surrounding
// medium and the kd-tree enabled with default parameters
func New(logger *zap.SugaredLogger) *Scene {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Scene{
		RefractionIndex: 1,
		materials:       make(map[string]*material.Material),
		textures:        make(map[string]core.Texture),
		useIndex:        true,
		indexConfig:     kdtree.DefaultConfig(),
		logger:          logger,
	}
	s.AddMaterial(material.Default())
	return s
}

// AddElement adds a single element to the scene. Adding elements drops a
// previously built index until BuildIndex runs again.
func (s *Scene) AddElement(element core.Element) {
	s.elements = append(s.elements, element)
	s.tree = nil
}

// AddMesh adds every triangle of mesh. A mesh without material gets the
// default material.
func (s *Scene) AddMesh(mesh *geometry.Mesh) {
	if mesh.Material == nil {
		mesh.Material = s.DefaultMaterial()
	}
	s.meshes = append(s.meshes, mesh)
	s.elements = append(s.elements, mesh.Elements()...)
	s.tree = nil
}

// AddPlane adds an infinite plane. A plane without material gets the default
// material.
func (s *Scene) AddPlane(plane *geometry.Plane) {
	if plane.Material == nil {
		plane.Material = s.DefaultMaterial()
	}
	s.AddElement(plane)
}

// AddLight adds a light source
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// Elements returns every element in the scene
func (s *Scene) Elements() []core.Element {
	return s.elements
}

// Meshes returns the meshes added to the scene
func (s *Scene) Meshes() []*geometry.Mesh {
	return s.meshes
}

// SetIndex configures the kd-tree. With enabled false every query tests
// every element.
func (s *Scene) SetIndex(enabled bool, config kdtree.Config) {
	s.useIndex = enabled
	s.indexConfig = config
	s.tree = nil
}

// BuildIndex partitions the elements into finite ones, held by the kd-tree,
// and infinite ones, tested exhaustively by every query
func (s *Scene) BuildIndex() {
	s.infinite = lo.Reject(s.elements, func(e core.Element, _ int) bool {
		return e.IsFinite()
	})
	if !s.useIndex {
		s.tree = nil
		s.logger.Infow("spatial index disabled", "elements", len(s.elements))
		return
	}

	start := time.Now()
	s.tree = kdtree.Build(s.elements, s.indexConfig)
	stats := s.tree.Stats()

	s.logger.Infow("built kd-tree",
		"elements", stats.Elements,
		"infinite", len(s.infinite),
		"nodes", stats.Nodes,
		"leaves", stats.Leaves,
		"emptyLeaves", stats.EmptyLeaves,
		"depth", stats.MaxDepth,
		"duration", time.Since(start),
	)
	s.logger.Debugw("leftmost leaf",
		"depth", stats.LeftmostDepth,
		"elements", stats.LeftmostElements,
	)
}

// Tree returns the built kd-tree, or nil when the index is disabled or not built
func (s *Scene) Tree() *kdtree.Tree {
	return s.tree
}

// Intersect returns the nearest hit along ray within [ray.MinT, ray.MaxT], or nil
func (s *Scene) Intersect(ray core.Ray) *core.HitRecord {
	if s.tree == nil {
		return s.intersectAll(s.elements, ray, nil)
	}

	closest, tests := s.tree.Intersect(ray)
	s.tests.Add(uint64(tests))
	return s.intersectAll(s.infinite, ray, closest)
}

func (s *Scene) intersectAll(elements []core.Element, ray core.Ray, closest *core.HitRecord) *core.HitRecord {
	tMax := ray.MaxT
	if closest != nil {
		tMax = closest.T
	}
	for _, element := range elements {
		s.tests.Inc()
		if hit, ok := element.Intersect(ray, ray.MinT, tMax); ok {
			closest = core.Nearest(closest, hit)
			tMax = closest.T
		}
	}
	return closest
}

// FastIntersect reports whether anything is hit along ray within
// [ray.MinT, ray.MaxT], stopping at the first hit
func (s *Scene) FastIntersect(ray core.Ray) bool {
	candidates := s.elements
	if s.tree != nil {
		hit, tests := s.tree.IntersectAny(ray)
		s.tests.Add(uint64(tests))
		if hit {
			return true
		}
		candidates = s.infinite
	}

	for _, element := range candidates {
		s.tests.Inc()
		if element.FastIntersect(ray, ray.MinT, ray.MaxT) {
			return true
		}
	}
	return false
}

// NonOccludedLights returns the lights visible from point
func (s *Scene) NonOccludedLights(point core.Vec3) []lights.Light {
	return lo.Filter(s.Lights, func(light lights.Light, _ int) bool {
		return !s.FastIntersect(light.ShadowRay(point))
	})
}

// Environment returns the background color, the ambient light color and the
// refraction index of the medium surrounding all objects
func (s *Scene) Environment() (background, ambient core.Vec3, refractionIndex float64) {
	return s.Background, s.Ambient, s.RefractionIndex
}

// IntersectionTests returns the number of element intersection tests so far
func (s *Scene) IntersectionTests() uint64 {
	return s.tests.Load()
}

// ResetIntersectionTests zeroes the intersection test counter
func (s *Scene) ResetIntersectionTests() {
	s.tests.Store(0)
}
