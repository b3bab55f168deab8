package server

import (
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/pkg/errors"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit               bool                   `json:"hit"`
	GeometryType      string                 `json:"geometryType,omitempty"`
	Material          *MaterialInfo          `json:"material,omitempty"`
	Point             [3]float64             `json:"point"`
	Normal            [3]float64             `json:"normal"`
	Distance          float64                `json:"distance"`
	FrontFace         bool                   `json:"frontFace"`
	TextureCoords     [2]float64             `json:"textureCoords"`
	IntersectionTests uint64                 `json:"intersectionTests"`
	Properties        map[string]interface{} `json:"properties,omitempty"`
}

// MaterialInfo describes the material of an inspected surface
type MaterialInfo struct {
	Name            string  `json:"name"`
	Diffuse         string  `json:"diffuse"`
	Specular        string  `json:"specular"`
	Shininess       float64 `json:"shininess"`
	Reflection      float64 `json:"reflection"`
	Refraction      float64 `json:"refraction"`
	RefractionIndex float64 `json:"refractionIndex"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo extracts the material description of a hit
func extractMaterialInfo(mat core.Material) *MaterialInfo {
	m, ok := mat.(*material.Material)
	if !ok || m == nil {
		return nil
	}
	return &MaterialInfo{
		Name:            m.Name,
		Diffuse:         config.Color(m.Diffuse).Hex(),
		Specular:        config.Color(m.Specular).Hex(),
		Shininess:       m.Shininess,
		Reflection:      m.Reflection,
		Refraction:      m.Refraction,
		RefractionIndex: m.RefractionIndex,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(element core.Element) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := element.(type) {
	case *geometry.MeshTriangle:
		mesh := geom.Mesh()
		box := mesh.BoundingBox()
		properties["mesh"] = mesh.Name
		properties["triangleCount"] = len(mesh.Triangles())
		properties["vertices"] = [3][3]float64{
			vec(geom.Vertex(0).Position),
			vec(geom.Vertex(1).Position),
			vec(geom.Vertex(2).Position),
		}
		properties["boundingBox"] = map[string]interface{}{
			"min": vec(box.Min),
			"max": vec(box.Max),
		}
		return "mesh_triangle", properties

	case *geometry.Plane:
		properties["point"] = vec(geom.Point)
		properties["normal"] = vec(geom.Normal)
		return "plane", properties

	default:
		return "unknown", properties
	}
}

// handleInspect casts the primary ray through one pixel and reports what it hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	// Pixel coordinates count from the top left corner of the image
	query := r.URL.Query()
	pixelX, errX := strconv.Atoi(query.Get("x"))
	pixelY, errY := strconv.Atoi(query.Get("y"))
	if errX != nil || errY != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("x and y must be integers"))
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		s.writeError(w, http.StatusBadRequest, errors.Errorf("pixel (%d, %d) outside of %dx%d", pixelX, pixelY, req.Width, req.Height))
		return
	}

	sc, sceneObj, err := s.loadScene(req.Scene, req.Index)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	camera := sc.NewCamera(req.Width, req.Height)
	ray := camera.Ray(pixelX, req.Height-1-pixelY, core.NewVec2(0.5, 0.5))
	sceneObj.ResetIntersectionTests()
	hit := sceneObj.Intersect(ray)

	response := InspectResponse{IntersectionTests: sceneObj.IntersectionTests()}
	if hit != nil {
		geometryType, properties := extractGeometryInfo(hit.Element)
		response.Hit = true
		response.GeometryType = geometryType
		response.Material = extractMaterialInfo(hit.Material)
		response.Point = vec(hit.Point)
		response.Normal = vec(hit.ShadingNormal)
		response.Distance = hit.T
		response.FrontFace = hit.EntersObject
		response.TextureCoords = [2]float64{hit.TextureCoords.X, hit.TextureCoords.Y}
		response.Properties = properties
	}
	s.writeJSON(w, http.StatusOK, response)
}
