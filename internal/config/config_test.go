package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1080, cfg.Canvas.Width)
	assert.Equal(t, 1350, cfg.Canvas.Height)
}

func TestStyleFor(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key       string
		wantTitle string
		wantSub   string
	}{
		{"ai_column", "#CB6CE6", "#FFFFFF"},
		{"education", "#FFDE59", "#212121"},
		{"default", "#FF69B4", "#FF8C00"},
		{"nonexistent_category", "#FF69B4", "#FF8C00"},
		{"", "#FF69B4", "#FF8C00"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := cfg.StyleFor(tt.key)
			assert.Equal(t, tt.wantTitle, s.Title)
			assert.Equal(t, tt.wantSub, s.Sub)
			assert.Equal(t, DefaultOutline, s.Outline)
		})
	}
}

func TestParseMergesOverDefaults(t *testing.T) {
	data := []byte(`
canvas:
  preset: square
outline_width: 6
styles:
  ai_column:
    title: "#112233"
    sub: "#445566"
  seminar:
    title: "#ABCDEF"
    sub: "#FFFFFF"
    outline: "#222222"
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 1080, cfg.Canvas.Width)
	assert.Equal(t, 1080, cfg.Canvas.Height)
	assert.Equal(t, 6, cfg.OutlineWidth)
	assert.Equal(t, 80, cfg.TitleFontSize, "unset fields keep defaults")
	assert.Equal(t, 0.12, cfg.TitlePositionY)

	assert.Equal(t, "#112233", cfg.StyleFor("ai_column").Title)
	assert.Equal(t, DefaultOutline, cfg.StyleFor("ai_column").Outline)
	assert.Equal(t, "#222222", cfg.StyleFor("seminar").Outline)
	assert.Equal(t, "#FFDE59", cfg.StyleFor("education").Title, "builtin styles survive a partial styles block")
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative canvas", "canvas: {width: -1, height: 1350}"},
		{"anchor out of range", "title_position_y: 1.5"},
		{"outline too wide", "outline_width: 16"},
		{"negative shadow", "shadow_offset: -2"},
		{"zero font", "subtext_font_size: 0"},
		{"bad color", "styles: {x: {title: pink, sub: '#FFFFFF'}}"},
		{"unknown preset", "canvas: {preset: banner}"},
		{"unknown weekday", "schedule: {funday: activity}"},
		{"unknown scheduled category", "schedule: {monday: gossip}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("canvas: [1, 2"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")

	cfg := Default()
	cfg.ShadowOffset = 5
	cfg.FontPath = "/fonts/NotoSansCJK-Regular.ttc"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCategoryFor(t *testing.T) {
	cfg := Default()

	thursday := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "ai_column", cfg.CategoryFor(thursday))

	cfg.Schedule = nil
	assert.Equal(t, DefaultStyle, cfg.CategoryFor(thursday))
}
