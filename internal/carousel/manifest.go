package carousel

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const ManifestName = "manifest.yaml"

// Manifest lists the files written by a run, in scene order.
type Manifest struct {
	ID       string        `yaml:"id"`
	Date     string        `yaml:"date"`
	Category string        `yaml:"category"`
	Scenes   []SceneResult `yaml:"scenes"`
}

type SceneResult struct {
	Index int    `yaml:"index"`
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	// Source is where the background came from: file, thanks, deck or generated.
	Source string `yaml:"source"`
}

// NewRunID builds a run directory name from the date, the category and a
// random suffix.
func NewRunID(date time.Time, category string) string {
	return fmt.Sprintf("%s_%s_%s", date.Format("20060102"), category, uuid.NewString()[:8])
}

func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
