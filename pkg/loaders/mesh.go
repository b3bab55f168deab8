package loaders

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MeshOptions controls how a mesh file becomes a scene mesh
type MeshOptions struct {
	Name     string             // Defaults to the file name without extension
	Material *material.Material // Defaults to material.Default()

	// NormalizeSize centers the mesh and scales it to a unit bounding box
	// diagonal before Transform is applied
	NormalizeSize bool
	Transform     geometry.Transform

	Logger *zap.SugaredLogger
}

func (o MeshOptions) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger
}

type meshParser func(r io.Reader, opts MeshOptions) (*geometry.Mesh, error)

var meshFormats = map[string]meshParser{
	".obj": ParseOBJ,
	".ply": ParsePLY,
}

// LoadMesh reads an OBJ or PLY file, choosing the format by extension
func LoadMesh(filename string, opts MeshOptions) (*geometry.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	parse, ok := meshFormats[ext]
	if !ok {
		return nil, errors.Errorf("unsupported mesh format %q for %s", ext, filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open mesh file")
	}
	defer file.Close()

	if opts.Name == "" {
		base := filepath.Base(filename)
		opts.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	mesh, err := parse(file, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", filename)
	}
	return mesh, nil
}

// buildMesh assembles parsed vertices and faces and places the result
func buildMesh(vertices []geometry.Vertex, faces [][3]int, opts MeshOptions, format string) (*geometry.Mesh, error) {
	if len(faces) == 0 {
		return nil, errors.Errorf("%s data contains no faces", format)
	}

	mat := opts.Material
	if mat == nil {
		mat = material.Default()
	}
	name := opts.Name
	if name == "" {
		name = strings.ToLower(format)
	}

	mesh, err := geometry.NewMesh(name, vertices, faces, mat)
	if err != nil {
		return nil, err
	}
	if opts.NormalizeSize {
		mesh.NormalizeSize()
	}
	mesh.Apply(opts.Transform)

	opts.logger().Debugw("loaded mesh", "name", name, "format", format, "vertices", len(vertices), "triangles", len(faces))
	return mesh, nil
}

// fan triangulates a convex polygon around its first corner
func fan(polygon []int) [][3]int {
	triangles := make([][3]int, 0, len(polygon)-2)
	for i := 1; i+1 < len(polygon); i++ {
		triangles = append(triangles, [3]int{polygon[0], polygon[i], polygon[i+1]})
	}
	return triangles
}
