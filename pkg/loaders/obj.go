package loaders

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// objIndex identifies one v/vt/vn combination of a face corner. Missing
// texture or normal references are -1.
type objIndex struct {
	position, uv, normal int
}

type objParser struct {
	positions []core.Vec3
	uvs       []core.Vec2
	normals   []core.Vec3

	vertices []geometry.Vertex
	lookup   map[objIndex]int
	faces    [][3]int

	unknown map[string]bool
	logger  *zap.SugaredLogger
}

// ParseOBJ builds a mesh from OBJ text. Supported statements are v, vt, vn
// and f; polygons are fan-triangulated and negative indices count back from
// the latest element. Other statements are skipped with a single warning each.
func ParseOBJ(r io.Reader, opts MeshOptions) (*geometry.Mesh, error) {
	p := &objParser{
		lookup:  map[objIndex]int{},
		unknown: map[string]bool{},
		logger:  opts.logger(),
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read OBJ data")
	}
	return buildMesh(p.vertices, p.faces, opts, "OBJ")
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return errors.Wrap(err, "vertex")
		}
		p.positions = append(p.positions, core.NewVec3(v[0], v[1], v[2]))
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return errors.Wrap(err, "normal")
		}
		p.normals = append(p.normals, core.NewVec3(v[0], v[1], v[2]).Normalize())
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return errors.Wrap(err, "texture coordinate")
		}
		p.uvs = append(p.uvs, core.NewVec2(v[0], v[1]))
	case "f":
		return p.parseFace(fields[1:])
	default:
		if !p.unknown[fields[0]] {
			p.unknown[fields[0]] = true
			p.logger.Warnw("ignoring unsupported OBJ statement", "statement", fields[0])
		}
	}
	return nil
}

func (p *objParser) parseFace(corners []string) error {
	if len(corners) < 3 {
		return errors.Errorf("face needs at least 3 vertices, got %d", len(corners))
	}

	indices := make([]int, len(corners))
	for i, corner := range corners {
		key, err := p.parseCorner(corner)
		if err != nil {
			return errors.Wrapf(err, "face vertex %q", corner)
		}
		indices[i] = p.vertex(key)
	}

	p.faces = append(p.faces, fan(indices)...)
	return nil
}

func (p *objParser) parseCorner(corner string) (objIndex, error) {
	parts := strings.Split(corner, "/")
	if len(parts) > 3 {
		return objIndex{}, errors.New("too many index components")
	}

	key := objIndex{uv: -1, normal: -1}
	var err error
	if key.position, err = resolveIndex(parts[0], len(p.positions)); err != nil {
		return objIndex{}, errors.Wrap(err, "position")
	}
	if len(parts) > 1 && parts[1] != "" {
		if key.uv, err = resolveIndex(parts[1], len(p.uvs)); err != nil {
			return objIndex{}, errors.Wrap(err, "texture coordinate")
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if key.normal, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return objIndex{}, errors.Wrap(err, "normal")
		}
	}
	return key, nil
}

// vertex returns the mesh vertex for a corner, creating it on first use
func (p *objParser) vertex(key objIndex) int {
	if index, ok := p.lookup[key]; ok {
		return index
	}

	vertex := geometry.Vertex{Position: p.positions[key.position]}
	if key.uv >= 0 {
		vertex.UV = p.uvs[key.uv]
	}
	if key.normal >= 0 {
		vertex.Normal = p.normals[key.normal]
	}
	p.vertices = append(p.vertices, vertex)
	p.lookup[key] = len(p.vertices) - 1
	return len(p.vertices) - 1
}

// resolveIndex converts a one-based or negative OBJ index into a slice index
func resolveIndex(field string, count int) (int, error) {
	index, err := strconv.Atoi(field)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid index %q", field)
	}
	switch {
	case index > 0 && index <= count:
		return index - 1, nil
	case index < 0 && -index <= count:
		return count + index, nil
	default:
		return 0, errors.Errorf("index %d out of range (%d defined)", index, count)
	}
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, errors.Errorf("expected %d values, got %d", n, len(fields))
	}
	values := make([]float64, n)
	for i := range values {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %q", fields[i])
		}
		values[i] = value
	}
	return values, nil
}
