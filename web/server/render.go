package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// handleRender renders a scene and responds with a PNG. Render statistics
// are returned in X-Render-* headers.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	sc, sceneObj, err := s.loadScene(req.Scene, req.Index)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	shader, _ := integrator.ParseShaderKind(req.Shader)
	rc := s.defaults
	rc.Sampler.SamplesPerPixel = req.SamplesPerPixel
	rc.Sampler.Jitter = req.Jitter

	rt, err := renderer.NewRaytracer(
		sc.NewCamera(req.Width, req.Height),
		integrator.NewWhitted(sceneObj, req.RecursionDepth, shader),
		rc.RaytracerConfig(),
		s.logger.With("scene", req.Scene),
	)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	rt.SetIntersectionCounter(sceneObj)

	s.active.Inc()
	defer s.active.Dec()

	// Client disconnection cancels the render
	film, stats, err := rt.Render(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, film.Image(), imaging.PNG); err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.Wrap(err, "failed to encode image"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Intersection-Tests", strconv.FormatUint(stats.IntersectionTests, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debugw("client went away", "error", err)
	}
}

// loadScene finds the scene by ID and builds it with or without its index
func (s *Server) loadScene(id string, index bool) (*config.SceneConfig, *scene.Scene, error) {
	scenes, err := config.ListScenes(s.scenesDir, s.logger)
	if err != nil {
		return nil, nil, err
	}
	var filename string
	for _, info := range scenes {
		if info.ID == id {
			filename = info.FilePath
			break
		}
	}
	if filename == "" {
		return nil, nil, errors.Wrapf(errUnknownScene, "%q", id)
	}

	sc, err := config.LoadScene(filename)
	if err != nil {
		return nil, nil, err
	}
	sceneObj, err := sc.Build(s.logger)
	if err != nil {
		return nil, nil, err
	}
	indexConfig, err := s.defaults.KDTree.Config()
	if err != nil {
		return nil, nil, err
	}
	sceneObj.SetIndex(index, indexConfig)
	sceneObj.BuildIndex()
	return sc, sceneObj, nil
}
