package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/kdtree"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// WhittedIntegrator is the only integrator type
const WhittedIntegrator = "whitted"

// RenderConfig describes how a scene is rendered
type RenderConfig struct {
	Renderer   RendererConfig   `yaml:"renderer"`
	Sampler    SamplerConfig    `yaml:"sampler"`
	Integrator IntegratorConfig `yaml:"integrator"`
	KDTree     KDTreeConfig     `yaml:"kdtree"`
}

// RendererConfig holds the film and worker settings
type RendererConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Workers int    `yaml:"workers"` // 0 means one per CPU
	Seed    int64  `yaml:"seed"`
	Output  string `yaml:"output"`
}

// SamplerConfig holds the super sampler settings
type SamplerConfig struct {
	SamplesPerPixel int  `yaml:"samples_per_pixel"`
	Jitter          bool `yaml:"jitter"`
}

// IntegratorConfig selects the integrator and its shader
type IntegratorConfig struct {
	Type           string `yaml:"type"`
	RecursionDepth int    `yaml:"recursion_depth"`
	Shader         string `yaml:"shader"`
}

// KDTreeConfig holds the spatial index parameters
type KDTreeConfig struct {
	Enabled     *bool  `yaml:"enabled"` // Unset means enabled
	MaxLeafSize int    `yaml:"max_leaf_size"`
	MaxDepth    int    `yaml:"max_depth"`
	Split       string `yaml:"split"`
	Axis        string `yaml:"axis"`
}

// DefaultRenderConfig returns the settings used for anything a file leaves out
func DefaultRenderConfig() RenderConfig {
	index := kdtree.DefaultConfig()
	return RenderConfig{
		Renderer: RendererConfig{
			Width:  512,
			Height: 512,
			Seed:   renderer.DefaultConfig().Seed,
			Output: "output.png",
		},
		Sampler: SamplerConfig{SamplesPerPixel: 1},
		Integrator: IntegratorConfig{
			Type:   WhittedIntegrator,
			Shader: integrator.ShaderPhong.String(),
		},
		KDTree: KDTreeConfig{
			MaxLeafSize: index.MaxElementsInLeaf,
			MaxDepth:    index.MaxDepth,
			Split:       index.Split.String(),
			Axis:        index.Axis.String(),
		},
	}
}

// LoadRenderConfig reads a render configuration file over the defaults and
// validates it
func LoadRenderConfig(filename string) (RenderConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return RenderConfig{}, errors.Wrap(err, "failed to read render config")
	}
	config, err := ParseRenderConfig(data)
	if err != nil {
		return RenderConfig{}, errors.Wrapf(err, "invalid render config %s", filename)
	}
	return config, nil
}

// ParseRenderConfig decodes YAML over the defaults and validates the result
func ParseRenderConfig(data []byte) (RenderConfig, error) {
	config := DefaultRenderConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return RenderConfig{}, errors.Wrap(err, "failed to parse YAML")
	}
	if err := config.Validate("render"); err != nil {
		return RenderConfig{}, err
	}
	return config, nil
}

// Validate reports every invalid setting, prefixing each with its path
func (c *RenderConfig) Validate(path string) error {
	var err error
	field := func(name string) string { return fmt.Sprintf("%s.%s", path, name) }

	if c.Renderer.Width <= 0 || c.Renderer.Height <= 0 {
		err = multierr.Append(err, errors.Errorf("%s: resolution must be positive, got %dx%d",
			field("renderer"), c.Renderer.Width, c.Renderer.Height))
	}
	if c.Renderer.Workers < 0 {
		err = multierr.Append(err, errors.Errorf("%s: must not be negative", field("renderer.workers")))
	}
	if c.Sampler.SamplesPerPixel < 1 {
		err = multierr.Append(err, errors.Errorf("%s: must be at least 1", field("sampler.samples_per_pixel")))
	}
	if !strings.EqualFold(c.Integrator.Type, WhittedIntegrator) {
		err = multierr.Append(err, errors.Errorf("%s: unknown integrator %q", field("integrator.type"), c.Integrator.Type))
	}
	if c.Integrator.RecursionDepth < 0 {
		err = multierr.Append(err, errors.Errorf("%s: must not be negative", field("integrator.recursion_depth")))
	}
	if _, shaderErr := integrator.ParseShaderKind(c.Integrator.Shader); shaderErr != nil {
		err = multierr.Append(err, errors.Wrap(shaderErr, field("integrator.shader")))
	}
	if _, indexErr := c.KDTree.Config(); indexErr != nil {
		err = multierr.Append(err, errors.Wrap(indexErr, field("kdtree")))
	}
	return err
}

// IndexEnabled reports whether the scene should build a kd-tree
func (k KDTreeConfig) IndexEnabled() bool {
	return k.Enabled == nil || *k.Enabled
}

// Config converts the section into kd-tree construction parameters
func (k KDTreeConfig) Config() (kdtree.Config, error) {
	split, splitErr := kdtree.ParseSplitPolicy(k.Split)
	axis, axisErr := kdtree.ParseAxisPolicy(k.Axis)
	config := kdtree.Config{
		MaxElementsInLeaf: k.MaxLeafSize,
		MaxDepth:          k.MaxDepth,
		Split:             split,
		Axis:              axis,
	}
	return config, multierr.Combine(splitErr, axisErr, config.Validate())
}

// ShaderKind returns the configured shader
func (c *RenderConfig) ShaderKind() (integrator.ShaderKind, error) {
	return integrator.ParseShaderKind(c.Integrator.Shader)
}

// RaytracerConfig returns the raytracer settings
func (c *RenderConfig) RaytracerConfig() renderer.Config {
	return renderer.Config{
		Sampler: renderer.NewSuperSampler(c.Sampler.SamplesPerPixel, c.Sampler.Jitter),
		Workers: c.Renderer.Workers,
		Seed:    c.Renderer.Seed,
	}
}
