package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/pkg/errors"
)

// PLYProperty is a property definition of a PLY element
type PLYProperty struct {
	Name      string
	Type      string // Scalar type, or the element type of a list
	IsList    bool
	CountType string // Type of a list's length prefix
}

// PLYElement is an element declaration of a PLY header
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYHeader is the parsed header of a PLY file
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string
	Elements []PLYElement
}

// Element returns the element declaration with the given name
func (h *PLYHeader) Element(name string) (PLYElement, bool) {
	for _, element := range h.Elements {
		if element.Name == name {
			return element, true
		}
	}
	return PLYElement{}, false
}

// plyValues reads successive scalar values of the body
type plyValues interface {
	next(dataType string) (float64, error)
}

// ParsePLY builds a mesh from ascii or binary PLY data. Vertices provide x, y
// and z and optionally nx, ny, nz and u, v (or s, t); faces provide a
// vertex_indices list. Other elements and properties are skipped.
func ParsePLY(r io.Reader, opts MeshOptions) (*geometry.Mesh, error) {
	reader := bufio.NewReader(r)
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse PLY header")
	}

	var values plyValues
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValues{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValues{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValues{reader: reader, order: binary.BigEndian}
	default:
		return nil, errors.Errorf("unsupported PLY format: %s", header.Format)
	}

	var vertices []geometry.Vertex
	var faces [][3]int
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			vertices, err = readPLYVertices(values, element)
		case "face":
			faces, err = readPLYFaces(values, element, len(vertices))
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read PLY %s data", element.Name)
		}
	}

	opts.logger().Debugw("parsed PLY header", "format", header.Format, "elements", len(header.Elements))
	return buildMesh(vertices, faces, opts, "PLY")
}

func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, errors.New("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, errors.New("header ends before end_header")
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, errors.New("invalid format line")
			}
			header.Format, header.Version = parts[1], parts[2]
		case "element":
			if len(parts) < 3 {
				return nil, errors.New("invalid element line")
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, errors.Errorf("invalid %s count %q", parts[1], parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, errors.New("property outside of an element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Properties = append(last.Properties, prop)
		case "end_header":
			if header.Format == "" {
				return nil, errors.New("missing format line")
			}
			return header, nil
		case "comment", "obj_info":
		default:
			return nil, errors.Errorf("unexpected header line %q", strings.TrimSpace(line))
		}
	}
}

func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, errors.New("invalid property definition")
	}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, errors.New("invalid list property definition")
		}
		prop := PLYProperty{IsList: true, CountType: parts[1], Type: parts[2], Name: parts[3]}
		if plyTypeSize(prop.CountType) == 0 || plyTypeSize(prop.Type) == 0 {
			return PLYProperty{}, errors.Errorf("unknown type in list property %s", prop.Name)
		}
		return prop, nil
	}
	if plyTypeSize(parts[0]) == 0 {
		return PLYProperty{}, errors.Errorf("unknown type %q of property %s", parts[0], parts[1])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func readPLYVertices(values plyValues, element PLYElement) ([]geometry.Vertex, error) {
	vertices := make([]geometry.Vertex, 0, boundedCapacity(element.Count))
	record := map[string]float64{}
	_, hasNormals := findPLYProperty(element, "nx")

	for i := 0; i < element.Count; i++ {
		if err := readPLYRecord(values, element, record); err != nil {
			return nil, errors.Wrapf(err, "vertex %d", i)
		}
		vertex := geometry.Vertex{
			Position: core.NewVec3(record["x"], record["y"], record["z"]),
			UV:       core.NewVec2(firstOf(record, "u", "s", "texture_u"), firstOf(record, "v", "t", "texture_v")),
		}
		if hasNormals {
			vertex.Normal = core.NewVec3(record["nx"], record["ny"], record["nz"]).Normalize()
		}
		vertices = append(vertices, vertex)
	}
	return vertices, nil
}

func readPLYFaces(values plyValues, element PLYElement, vertexCount int) ([][3]int, error) {
	var faces [][3]int
	for i := 0; i < element.Count; i++ {
		var polygon []int
		for _, prop := range element.Properties {
			if !prop.IsList {
				if _, err := values.next(prop.Type); err != nil {
					return nil, errors.Wrapf(err, "face %d", i)
				}
				continue
			}
			list, err := readPLYList(values, prop)
			if err != nil {
				return nil, errors.Wrapf(err, "face %d", i)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			polygon = make([]int, len(list))
			for j, value := range list {
				index := int(value)
				if index < 0 || index >= vertexCount {
					return nil, errors.Errorf("face %d references vertex %d of %d", i, index, vertexCount)
				}
				polygon[j] = index
			}
		}
		if len(polygon) < 3 {
			return nil, errors.Errorf("face %d has %d vertices", i, len(polygon))
		}
		faces = append(faces, fan(polygon)...)
	}
	return faces, nil
}

func skipPLYElement(values plyValues, element PLYElement) error {
	record := map[string]float64{}
	for i := 0; i < element.Count; i++ {
		if err := readPLYRecord(values, element, record); err != nil {
			return err
		}
	}
	return nil
}

// readPLYRecord reads one element instance, keeping scalar properties by name
func readPLYRecord(values plyValues, element PLYElement, record map[string]float64) error {
	for _, prop := range element.Properties {
		if prop.IsList {
			if _, err := readPLYList(values, prop); err != nil {
				return err
			}
			continue
		}
		value, err := values.next(prop.Type)
		if err != nil {
			return errors.Wrapf(err, "property %s", prop.Name)
		}
		record[prop.Name] = value
	}
	return nil
}

func readPLYList(values plyValues, prop PLYProperty) ([]float64, error) {
	count, err := values.next(prop.CountType)
	if err != nil {
		return nil, errors.Wrapf(err, "length of %s", prop.Name)
	}
	if count < 0 {
		return nil, errors.Errorf("negative length of %s", prop.Name)
	}
	list := make([]float64, 0, boundedCapacity(int(count)))
	for i := 0; i < int(count); i++ {
		value, err := values.next(prop.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "property %s", prop.Name)
		}
		list = append(list, value)
	}
	return list, nil
}

// maxPreallocated bounds up-front allocations driven by header counts; slices
// grow past it only as records are actually read
const maxPreallocated = 1 << 16

func boundedCapacity(count int) int {
	if count > maxPreallocated {
		return maxPreallocated
	}
	return count
}

func findPLYProperty(element PLYElement, name string) (PLYProperty, bool) {
	for _, prop := range element.Properties {
		if prop.Name == name {
			return prop, true
		}
	}
	return PLYProperty{}, false
}

func firstOf(record map[string]float64, names ...string) float64 {
	for _, name := range names {
		if value, ok := record[name]; ok {
			return value
		}
	}
	return 0
}

// plyTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

type asciiValues struct {
	scanner *bufio.Scanner
}

func (a *asciiValues) next(string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", a.scanner.Text())
	}
	return value, nil
}

type binaryValues struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValues) next(dataType string) (float64, error) {
	buf := b.buf[:plyTypeSize(dataType)]
	if _, err := io.ReadFull(b.reader, buf); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(buf)), nil
	default:
		return 0, errors.Errorf("unknown type %q", dataType)
	}
}
