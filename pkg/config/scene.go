package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SceneConfig is the YAML description of a scene
type SceneConfig struct {
	Name            string           `yaml:"name"`
	Description     string           `yaml:"description"`
	Group           string           `yaml:"group"`
	Camera          CameraConfig     `yaml:"camera"`
	Background      Color            `yaml:"background"`
	Ambient         Color            `yaml:"ambient"`
	RefractionIndex *float64         `yaml:"refraction_index"` // Unset means 1
	Textures        []TextureConfig  `yaml:"textures"`
	Materials       []MaterialConfig `yaml:"materials"`
	Lights          []LightConfig    `yaml:"lights"`
	Meshes          []MeshConfig     `yaml:"meshes"`
	Planes          []PlaneConfig    `yaml:"planes"`

	// Relative file references resolve against this directory
	dir string
}

// CameraConfig places the pinhole camera
type CameraConfig struct {
	Position     Vec3    `yaml:"position"`
	Direction    *Vec3   `yaml:"direction"` // Defaults to +Z unless LookAt is given
	LookAt       *Vec3   `yaml:"look_at"`
	Up           *Vec3   `yaml:"up"` // Defaults to +Y
	OpeningAngle float64 `yaml:"opening_angle"`
}

// TextureConfig declares a named texture, either loaded from an image file or
// generated procedurally
type TextureConfig struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Type   string  `yaml:"type"` // "image" (default), "checkerboard", "gradient" or "flat_normal"
	Colors []Color `yaml:"colors"`
	Size   int     `yaml:"size"` // Checker size in pixels
}

// MaterialConfig declares a named material. Percentages are fractions in [0,1].
type MaterialConfig struct {
	Name            string   `yaml:"name"`
	Emission        Color    `yaml:"emission"`
	Ambient         Color    `yaml:"ambient"`
	Diffuse         Color    `yaml:"diffuse"`
	Specular        Color    `yaml:"specular"`
	Shininess       *float64 `yaml:"shininess"`
	Reflection      float64  `yaml:"reflection"`
	Refraction      float64  `yaml:"refraction"`
	RefractionIndex *float64 `yaml:"refraction_index"`
}

// LightConfig declares a point light
type LightConfig struct {
	Position  Vec3     `yaml:"position"`
	Color     Color    `yaml:"color"`
	Constant  *float64 `yaml:"constant"`
	Linear    float64  `yaml:"linear"`
	Quadratic float64  `yaml:"quadratic"`
}

// MeshConfig declares a mesh loaded from an OBJ or PLY file or written inline
// as triangles
type MeshConfig struct {
	Name      string    `yaml:"name"`
	File      string    `yaml:"file"`
	Triangles [][3]Vec3 `yaml:"triangles"`
	Material  string    `yaml:"material"`
	Texture   string    `yaml:"texture"`
	BumpMap   string    `yaml:"bump_map"`
	Normalize bool      `yaml:"normalize"`
	Scale     float64   `yaml:"scale"`
	Rotate    Vec3      `yaml:"rotate"` // Degrees about x, y and z
	Translate Vec3      `yaml:"translate"`
}

// PlaneConfig declares an infinite plane
type PlaneConfig struct {
	Point        Vec3    `yaml:"point"`
	Normal       Vec3    `yaml:"normal"`
	Material     string  `yaml:"material"`
	Texture      string  `yaml:"texture"`
	TextureScale float64 `yaml:"texture_scale"`
}

// LoadScene reads and validates a scene description
func LoadScene(filename string) (*SceneConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scene file")
	}
	config, err := ParseScene(data, filepath.Dir(filename))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid scene %s", filename)
	}
	return config, nil
}

// ParseScene decodes and validates a scene description whose relative file
// references resolve against dir
func ParseScene(data []byte, dir string) (*SceneConfig, error) {
	config := &SceneConfig{dir: dir}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}
	if err := config.Validate("scene"); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports every invalid declaration, prefixing each with its path
func (c *SceneConfig) Validate(path string) error {
	var err error
	fail := func(format string, args ...interface{}) {
		err = multierr.Append(err, errors.Errorf(format, args...))
	}

	if c.RefractionIndex != nil && *c.RefractionIndex <= 0 {
		fail("%s.refraction_index: must be positive", path)
	}
	if c.Camera.Direction != nil && c.Camera.LookAt != nil {
		fail("%s.camera: direction and look_at are mutually exclusive", path)
	}
	if c.Camera.OpeningAngle < 0 || c.Camera.OpeningAngle >= 90 {
		fail("%s.camera.opening_angle: must be in [0, 90), got %g", path, c.Camera.OpeningAngle)
	}

	textures := map[string]bool{}
	for i, texture := range c.Textures {
		field := fmt.Sprintf("%s.textures.%d", path, i)
		if texture.Name == "" {
			fail("%s: name is required", field)
		} else if textures[texture.Name] {
			fail("%s: duplicate texture %q", field, texture.Name)
		}
		textures[texture.Name] = true
		switch texture.Type {
		case "", "image":
			if texture.File == "" {
				fail("%s: image textures need a file", field)
			}
		case "checkerboard", "gradient":
			if len(texture.Colors) != 2 {
				fail("%s: %s textures need 2 colors", field, texture.Type)
			}
		case "flat_normal":
		default:
			fail("%s: unknown texture type %q", field, texture.Type)
		}
	}

	materials := map[string]bool{material.DefaultName: true}
	for i, m := range c.Materials {
		field := fmt.Sprintf("%s.materials.%d", path, i)
		if m.Name == "" {
			fail("%s: name is required", field)
			continue
		}
		materials[m.Name] = true
		err = multierr.Append(err, errors.Wrap(m.Material().Validate(), field))
	}

	reference := func(field, kind, name string, known map[string]bool) {
		if name != "" && !known[name] {
			fail("%s: unknown %s %q", field, kind, name)
		}
	}
	for i, mesh := range c.Meshes {
		field := fmt.Sprintf("%s.meshes.%d", path, i)
		if (mesh.File == "") == (len(mesh.Triangles) == 0) {
			fail("%s: exactly one of file and triangles is required", field)
		}
		reference(field, "material", mesh.Material, materials)
		reference(field, "texture", mesh.Texture, textures)
		reference(field, "texture", mesh.BumpMap, textures)
	}
	for i, plane := range c.Planes {
		field := fmt.Sprintf("%s.planes.%d", path, i)
		if plane.Normal.Vec().LengthSquared() == 0 {
			fail("%s.normal: must not be zero", field)
		}
		reference(field, "material", plane.Material, materials)
		reference(field, "texture", plane.Texture, textures)
	}
	for i, light := range c.Lights {
		if light.Constant != nil && *light.Constant == 0 && light.Linear == 0 && light.Quadratic == 0 {
			fail("%s.lights.%d: attenuation coefficients must not all be zero", path, i)
		}
	}
	return err
}

// Material converts the declaration into a material
func (m MaterialConfig) Material() *material.Material {
	mat := material.New(m.Name, m.Diffuse.Vec())
	mat.Emission = m.Emission.Vec()
	mat.Ambient = m.Ambient.Vec()
	mat.Specular = m.Specular.Vec()
	mat.Reflection = m.Reflection
	mat.Refraction = m.Refraction
	if m.Shininess != nil {
		mat.Shininess = *m.Shininess
	}
	if m.RefractionIndex != nil {
		mat.RefractionIndex = *m.RefractionIndex
	}
	return mat
}

// NewCamera creates the camera for the given film resolution
func (c *SceneConfig) NewCamera(width, height int) *renderer.Camera {
	direction := core.NewVec3(0, 0, 1)
	switch {
	case c.Camera.Direction != nil:
		direction = c.Camera.Direction.Vec()
	case c.Camera.LookAt != nil:
		direction = c.Camera.LookAt.Vec().Subtract(c.Camera.Position.Vec())
	}
	up := core.NewVec3(0, 1, 0)
	if c.Camera.Up != nil {
		up = c.Camera.Up.Vec()
	}
	angle := c.Camera.OpeningAngle
	if angle == 0 {
		angle = renderer.DefaultOpeningAngle
	}
	return renderer.NewCamera(c.Camera.Position.Vec(), direction, up, angle, width, height)
}

// Build creates the scene: textures and materials first, then lights and
// geometry. The spatial index is not built.
func (c *SceneConfig) Build(logger *zap.SugaredLogger) (*scene.Scene, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := scene.New(logger)
	s.Background = c.Background.Vec()
	s.Ambient = c.Ambient.Vec()
	if c.RefractionIndex != nil {
		s.RefractionIndex = *c.RefractionIndex
	}

	for _, t := range c.Textures {
		texture, err := c.texture(t)
		if err != nil {
			return nil, errors.Wrapf(err, "texture %q", t.Name)
		}
		s.AddTexture(t.Name, texture)
	}
	for _, m := range c.Materials {
		s.AddMaterial(m.Material())
	}
	for _, l := range c.Lights {
		light := lights.NewPointLight(l.Position.Vec(), l.Color.Vec())
		if l.Constant != nil {
			light.Constant = *l.Constant
		}
		light.Linear, light.Quadratic = l.Linear, l.Quadratic
		s.AddLight(light)
	}

	for i, m := range c.Meshes {
		mesh, err := c.mesh(s, m, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %d", i)
		}
		s.AddMesh(mesh)
	}
	for i, p := range c.Planes {
		plane := geometry.NewPlane(p.Point.Vec(), p.Normal.Vec(), nil)
		if err := c.surface(s, p.Material, p.Texture, &plane.Material, &plane.Texture); err != nil {
			return nil, errors.Wrapf(err, "plane %d", i)
		}
		if p.TextureScale > 0 {
			plane.TextureScale = p.TextureScale
		}
		s.AddPlane(plane)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	logger.Infow("loaded scene",
		"name", c.Name,
		"elements", len(s.Elements()),
		"meshes", len(s.Meshes()),
		"lights", len(s.Lights),
		"materials", len(s.MaterialNames()),
	)
	return s, nil
}

func (c *SceneConfig) resolve(file string) string {
	if filepath.IsAbs(file) || c.dir == "" {
		return file
	}
	return filepath.Join(c.dir, file)
}

func (c *SceneConfig) texture(t TextureConfig) (core.Texture, error) {
	switch t.Type {
	case "checkerboard":
		size := t.Size
		if size <= 0 {
			size = 8
		}
		return material.NewCheckerboardTexture(8*size, 8*size, size, t.Colors[0].Vec(), t.Colors[1].Vec()), nil
	case "gradient":
		return material.NewGradientTexture(2, 256, t.Colors[0].Vec(), t.Colors[1].Vec()), nil
	case "flat_normal":
		return material.NewFlatNormalMap(), nil
	default:
		return loaders.LoadTexture(c.resolve(t.File))
	}
}

func (c *SceneConfig) mesh(s *scene.Scene, m MeshConfig, logger *zap.SugaredLogger) (*geometry.Mesh, error) {
	opts := loaders.MeshOptions{
		Name:          m.Name,
		NormalizeSize: m.Normalize,
		Transform: geometry.Transform{
			Scale:     m.Scale,
			Rotation:  m.Rotate.Vec(),
			Translate: m.Translate.Vec(),
		},
		Logger: logger,
	}

	var mesh *geometry.Mesh
	var err error
	if m.File != "" {
		mesh, err = loaders.LoadMesh(c.resolve(m.File), opts)
	} else {
		mesh, err = inlineMesh(m, opts)
	}
	if err != nil {
		return nil, err
	}

	mesh.Material = nil
	if err := c.surface(s, m.Material, m.Texture, &mesh.Material, &mesh.Texture); err != nil {
		return nil, err
	}
	if m.BumpMap != "" {
		if mesh.BumpMap, err = s.Texture(m.BumpMap); err != nil {
			return nil, err
		}
	}
	return mesh, nil
}

// surface resolves the material and texture names of a surface
func (c *SceneConfig) surface(s *scene.Scene, materialName, textureName string, mat **material.Material, texture *core.Texture) error {
	if materialName != "" {
		m, err := s.Material(materialName)
		if err != nil {
			return err
		}
		*mat = m
	}
	if textureName != "" {
		t, err := s.Texture(textureName)
		if err != nil {
			return err
		}
		*texture = t
	}
	return nil
}

func inlineMesh(m MeshConfig, opts loaders.MeshOptions) (*geometry.Mesh, error) {
	name := m.Name
	if name == "" {
		name = "triangles"
	}
	vertices := make([]geometry.Vertex, 0, 3*len(m.Triangles))
	faces := make([][3]int, len(m.Triangles))
	for i, triangle := range m.Triangles {
		for j, corner := range triangle {
			vertices = append(vertices, geometry.Vertex{Position: corner.Vec()})
			faces[i][j] = 3*i + j
		}
	}

	mesh, err := geometry.NewMesh(name, vertices, faces, nil)
	if err != nil {
		return nil, err
	}
	if opts.NormalizeSize {
		mesh.NormalizeSize()
	}
	mesh.Apply(opts.Transform)
	return mesh, nil
}
