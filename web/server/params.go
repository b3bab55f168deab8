package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/pkg/errors"
)

const maxResolution = 2000

// parseRenderRequest reads the query parameters of a render or inspect
// request. Missing parameters take the server's render defaults.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:  query.Get("scene"),
		Shader: s.defaults.Integrator.Shader,
	}
	if req.Scene == "" {
		return nil, errors.New("scene is required")
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", s.defaults.Renderer.Width, 1, maxResolution); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", s.defaults.Renderer.Height, 1, maxResolution); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", s.defaults.Sampler.SamplesPerPixel, 1, 256); err != nil {
		return nil, err
	}
	if req.RecursionDepth, err = parseIntParam(query, "depth", s.defaults.Integrator.RecursionDepth, 0, 32); err != nil {
		return nil, err
	}
	if req.Jitter, err = parseBoolParam(query, "jitter", s.defaults.Sampler.Jitter); err != nil {
		return nil, err
	}
	if req.Index, err = parseBoolParam(query, "index", s.defaults.KDTree.IndexEnabled()); err != nil {
		return nil, err
	}
	if shader := query.Get("shader"); shader != "" {
		if _, err := integrator.ParseShaderKind(shader); err != nil {
			return nil, err
		}
		req.Shader = shader
	}

	if req.Width*req.Height*req.SamplesPerPixel > 1920*1080*16 {
		s.logger.Warnw("large render requested", "scene", req.Scene,
			"width", req.Width, "height", req.Height, "samplesPerPixel", req.SamplesPerPixel)
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
	}
	return parsed, nil
}

func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}
