package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"go.viam.com/test"
)

const quadOBJ = `# unit quad in the xz plane
o quad
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 2 0
s off
f 1/1/1 4/4/1 3/3/1 2/2/1
`

func TestParseOBJ_Quad(t *testing.T) {
	mat := material.New("grey", core.NewVec3(0.5, 0.5, 0.5))
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ), MeshOptions{Name: "quad", Material: mat})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mesh.Name, test.ShouldEqual, "quad")
	test.That(t, mesh.Material, test.ShouldEqual, mat)
	test.That(t, len(mesh.Vertices), test.ShouldEqual, 4)
	test.That(t, len(mesh.Triangles()), test.ShouldEqual, 2)

	// Normals from the file are normalized
	for _, vertex := range mesh.Vertices {
		vecClose(t, vertex.Normal, core.NewVec3(0, 1, 0), 1e-12)
	}

	// A ray down onto the textured quad interpolates the texture coordinates
	mesh.Texture = material.NewSolidColor(core.NewVec3(1, 1, 1))
	ray := core.NewRay(core.NewVec3(0.25, 1, 0.75), core.NewVec3(0, -1, 0))
	var hit *core.HitRecord
	for _, triangle := range mesh.Triangles() {
		if h, ok := triangle.Intersect(ray, 0, 10); ok {
			hit = h
		}
	}
	test.That(t, hit, test.ShouldNotBeNil)
	test.That(t, hit.T, test.ShouldAlmostEqual, 1.0, 1e-12)
	test.That(t, hit.TextureCoords.X, test.ShouldAlmostEqual, 0.25, 1e-12)
	test.That(t, hit.TextureCoords.Y, test.ShouldAlmostEqual, 0.75, 1e-12)
}

func TestParseOBJ_IndexForms(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vn 0 0 1
f 1 2 3
f -4//1 -3//-1 -1//1
`
	mesh, err := ParseOBJ(strings.NewReader(data), MeshOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mesh.Name, test.ShouldEqual, "obj")
	test.That(t, mesh.Material.Name, test.ShouldEqual, material.DefaultName)
	test.That(t, len(mesh.Triangles()), test.ShouldEqual, 2)

	// Corners with different normal references are distinct vertices
	test.That(t, len(mesh.Vertices), test.ShouldEqual, 6)
	second := mesh.Triangles()[1]
	test.That(t, second.Vertex(0).Position, test.ShouldResemble, core.NewVec3(0, 0, 0))
	test.That(t, second.Vertex(1).Position, test.ShouldResemble, core.NewVec3(1, 0, 0))
	test.That(t, second.Vertex(2).Position, test.ShouldResemble, core.NewVec3(0, 0, 1))
}

func TestParseOBJ_ComputesMissingNormals(t *testing.T) {
	data := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mesh, err := ParseOBJ(strings.NewReader(data), MeshOptions{})
	test.That(t, err, test.ShouldBeNil)
	for _, vertex := range mesh.Vertices {
		vecClose(t, vertex.Normal, core.NewVec3(0, 0, 1), 1e-12)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no faces", "v 0 0 0\n", "no faces"},
		{"short vertex", "v 0 0\n", "line 1"},
		{"bad number", "v 0 x 0\n", "invalid number"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "at least 3"},
		{"out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", "out of range"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "out of range"},
		{"missing normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n", "normal"},
		{"bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a 2 3\n", "invalid index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.data), MeshOptions{})
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tt.want)
		})
	}
}

func TestLoadMesh_OBJPlacement(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "plate.obj")
	test.That(t, os.WriteFile(filename, []byte(quadOBJ), 0o644), test.ShouldBeNil)

	mesh, err := LoadMesh(filename, MeshOptions{
		NormalizeSize: true,
		Transform:     geometry.Transform{Scale: 2, Translate: core.NewVec3(0, 3, 0)},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mesh.Name, test.ShouldEqual, "plate")

	box := mesh.BoundingBox()
	test.That(t, box.Max.Subtract(box.Min).Length(), test.ShouldAlmostEqual, 2.0, 1e-12)
	vecClose(t, box.Min.Add(box.Max).Multiply(0.5), core.NewVec3(0, 3, 0), 1e-12)

	_, err = LoadMesh(filepath.Join(t.TempDir(), "missing.obj"), MeshOptions{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadMesh_UnknownFormat(t *testing.T) {
	_, err := LoadMesh("model.stl", MeshOptions{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported mesh format")
}
