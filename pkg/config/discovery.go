package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultGroup holds scenes that do not name a group
const DefaultGroup = "Scenes"

// SceneInfo describes a scene file found on disk
type SceneInfo struct {
	ID          string `json:"id"` // File name without extension
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group"`
	FilePath    string `json:"-"`
}

// SceneGroup is a named set of scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// sceneHeader is the part of a scene file read during discovery
type sceneHeader struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Group       string `yaml:"group"`
}

// ListScenes finds the .yaml and .yml scene files in dir, sorted by name.
// Unreadable files are logged and skipped; a missing directory yields no scenes.
func ListScenes(dir string, logger *zap.SugaredLogger) ([]SceneInfo, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan scenes directory")
		}
		files = append(files, matches...)
	}

	var scenes []SceneInfo
	for _, file := range files {
		info, err := ReadSceneInfo(file)
		if err != nil {
			logger.Warnw("skipping scene", "file", file, "error", err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ReadSceneInfo reads the name, description and group of a scene file. The
// name falls back to the title-cased file name.
func ReadSceneInfo(filename string) (SceneInfo, error) {
	base := filepath.Base(filename)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	info := SceneInfo{
		ID:       id,
		Name:     titleCase(id),
		Group:    DefaultGroup,
		FilePath: filename,
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return info, errors.Wrap(err, "failed to read scene file")
	}
	var header sceneHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return info, errors.Wrap(err, "failed to parse scene header")
	}

	if header.Name != "" {
		info.Name = header.Name
	}
	if header.Group != "" {
		info.Group = header.Group
	}
	info.Description = header.Description
	return info, nil
}

// GroupScenes groups scenes by their group name, groups in alphabetical order
func GroupScenes(scenes []SceneInfo) []SceneGroup {
	grouped := lo.GroupBy(scenes, func(info SceneInfo) string {
		return info.Group
	})
	names := lo.Keys(grouped)
	sort.Strings(names)

	return lo.Map(names, func(name string, _ int) SceneGroup {
		return SceneGroup{Name: name, Scenes: grouped[name]}
	})
}

// titleCase converts a file-style name to title case, e.g. "glass-bunny" to
// "Glass Bunny"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
