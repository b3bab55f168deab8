package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"glass-bunny", "Glass Bunny"},
		{"kd_tree_stress", "Kd Tree Stress"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			test.That(t, titleCase(tt.input), test.ShouldEqual, tt.expected)
		})
	}
}

func TestListScenes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"mirror-room.yaml": "name: Mirror Room\ndescription: Two facing mirrors\ngroup: Reflection\n",
		"glass.yml":        "name: Glass\ngroup: Refraction\n",
		"plain_floor.yaml": "background: [0, 0, 0]\n",
		"broken.yaml":      "name: [unterminated\n",
		"notes.txt":        "not a scene\n",
	}
	for name, content := range files {
		test.That(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644), test.ShouldBeNil)
	}

	scenes, err := ListScenes(dir, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(scenes), test.ShouldEqual, 3)

	// Sorted by name; unnamed files fall back to the file name
	test.That(t, scenes[0], test.ShouldResemble, SceneInfo{
		ID: "glass", Name: "Glass", Group: "Refraction", FilePath: filepath.Join(dir, "glass.yml"),
	})
	test.That(t, scenes[1].Name, test.ShouldEqual, "Mirror Room")
	test.That(t, scenes[1].Description, test.ShouldEqual, "Two facing mirrors")
	test.That(t, scenes[2].ID, test.ShouldEqual, "plain_floor")
	test.That(t, scenes[2].Name, test.ShouldEqual, "Plain Floor")
	test.That(t, scenes[2].Group, test.ShouldEqual, DefaultGroup)

	groups := GroupScenes(scenes)
	test.That(t, len(groups), test.ShouldEqual, 3)
	test.That(t, groups[0].Name, test.ShouldEqual, "Reflection")
	test.That(t, groups[1].Name, test.ShouldEqual, "Refraction")
	test.That(t, groups[2].Name, test.ShouldEqual, DefaultGroup)
	test.That(t, groups[2].Scenes[0].ID, test.ShouldEqual, "plain_floor")
}

func TestListScenes_MissingDirectory(t *testing.T) {
	scenes, err := ListScenes(filepath.Join(t.TempDir(), "nope"), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenes, test.ShouldBeEmpty)
}

func TestReadSceneInfo_Errors(t *testing.T) {
	info, err := ReadSceneInfo(filepath.Join(t.TempDir(), "gone.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, info.Name, test.ShouldEqual, "Gone")
}
