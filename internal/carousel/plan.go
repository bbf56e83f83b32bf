package carousel

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SceneNames is the fixed five-scene carousel structure.
var SceneNames = []string{"cover", "content1", "content2", "content3", "thanks"}

const DateLayout = "2006-01-02"

// Plan is the input of one carousel run.
type Plan struct {
	ID   string `yaml:"id,omitempty"`
	Date string `yaml:"date"`
	// Category selects the style; empty means the weekday schedule.
	Category string `yaml:"category,omitempty"`
	// Deck is an optional PDF whose page i backs scene i.
	Deck   string  `yaml:"deck,omitempty"`
	Scenes []Scene `yaml:"scenes"`
}

type Scene struct {
	Name       string `yaml:"name,omitempty"`
	Headline   string `yaml:"headline"`
	Subtext    string `yaml:"subtext,omitempty"`
	Background string `yaml:"background,omitempty"`
	Visual     string `yaml:"visual,omitempty"`
}

// ReadPlan reads a plan from a YAML file and validates it.
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if err := plan.Normalize(); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return &plan, nil
}

// WritePlan writes a plan to a YAML file.
func WritePlan(plan *Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize fills default scene names and checks the five-scene structure
// and the date.
func (p *Plan) Normalize() error {
	if len(p.Scenes) != len(SceneNames) {
		return fmt.Errorf("want %d scenes, got %d", len(SceneNames), len(p.Scenes))
	}
	for i := range p.Scenes {
		if p.Scenes[i].Name == "" {
			p.Scenes[i].Name = SceneNames[i]
		}
		if p.Scenes[i].Name != SceneNames[i] {
			return fmt.Errorf("scene %d must be %q, got %q", i+1, SceneNames[i], p.Scenes[i].Name)
		}
	}
	if _, err := p.Time(); err != nil {
		return err
	}
	return nil
}

// Time parses the plan date.
func (p *Plan) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", p.Date)
	}
	return t, nil
}
