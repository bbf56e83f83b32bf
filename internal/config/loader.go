package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure returned from Load and Validate.
var ErrInvalid = errors.New("invalid overlay config")

// Load reads a YAML config on top of Default. Fields missing from the file
// keep their default values; styles are merged key by key.
func Load(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of Default and validates the result.
func Parse(data []byte) (*Overlay, error) {
	cfg := Default()
	builtin := cfg.Styles
	cfg.Styles = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	merged := builtin
	for k, s := range cfg.Styles {
		merged[k] = s
	}
	cfg.Styles = merged

	if dims, ok := Presets[cfg.Canvas.Preset]; ok {
		cfg.Canvas.Width = dims[0]
		cfg.Canvas.Height = dims[1]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(cfg *Overlay, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the schema constraints of the config.
func (o *Overlay) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	if o.Canvas.Preset != "" {
		_, ok := Presets[o.Canvas.Preset]
		check(ok, "unknown canvas preset %q", o.Canvas.Preset)
	}
	check(o.Canvas.Width > 0 && o.Canvas.Height > 0, "canvas must be positive, got %dx%d", o.Canvas.Width, o.Canvas.Height)
	check(o.TitleFontSize > 0, "title_font_size must be positive, got %d", o.TitleFontSize)
	check(o.ContentFontSize > 0, "content_font_size must be positive, got %d", o.ContentFontSize)
	check(o.SubtextFontSize > 0, "subtext_font_size must be positive, got %d", o.SubtextFontSize)
	check(o.TitlePositionY >= 0 && o.TitlePositionY <= 1, "title_position_y must be within [0,1], got %g", o.TitlePositionY)
	check(o.ContentPositionY >= 0 && o.ContentPositionY <= 1, "content_position_y must be within [0,1], got %g", o.ContentPositionY)
	check(o.OutlineWidth >= 0 && o.OutlineWidth <= MaxOutline, "outline_width must be within [0,%d], got %d", MaxOutline, o.OutlineWidth)
	check(o.ShadowOffset >= 0, "shadow_offset must not be negative, got %d", o.ShadowOffset)
	check(o.MaxLineCells >= 0, "max_line_cells must not be negative, got %d", o.MaxLineCells)

	for key, s := range o.Styles {
		for field, hex := range map[string]string{"title": s.Title, "sub": s.Sub, "outline": s.Outline} {
			if hex == "" && field == "outline" {
				continue
			}
			_, err := colorful.Hex(hex)
			check(err == nil, "style %q: %s color %q is not #rrggbb", key, field, hex)
		}
	}
	for day, cat := range o.Schedule {
		_, ok := weekdays[strings.ToLower(day)]
		check(ok, "schedule: unknown weekday %q", day)
		_, ok = o.Styles[cat]
		check(ok, "schedule: %s maps to unknown category %q", day, cat)
	}

	return errors.Join(errs...)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// CategoryFor returns the scheduled category for the weekday of t, or
// DefaultStyle when the schedule has no entry.
func (o *Overlay) CategoryFor(t time.Time) string {
	for day, cat := range o.Schedule {
		if wd, ok := weekdays[strings.ToLower(day)]; ok && wd == t.Weekday() {
			return cat
		}
	}
	return DefaultStyle
}
