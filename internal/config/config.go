package config

// Overlay holds the rendering parameters of the text overlay engine.
// It is read once when an engine is built and never mutated afterwards.
type Overlay struct {
	Canvas           Canvas            `yaml:"canvas"`
	FontPath         string            `yaml:"font_path"`
	TitleFontSize    int               `yaml:"title_font_size"`
	ContentFontSize  int               `yaml:"content_font_size"`
	SubtextFontSize  int               `yaml:"subtext_font_size"`
	TitlePositionY   float64           `yaml:"title_position_y"`
	ContentPositionY float64           `yaml:"content_position_y"`
	OutlineWidth     int               `yaml:"outline_width"`
	ShadowOffset     int               `yaml:"shadow_offset"`
	MaxLineCells     int               `yaml:"max_line_cells"`
	Styles           map[string]Style  `yaml:"styles"`
	Schedule         map[string]string `yaml:"schedule"`
	Brand            Brand             `yaml:"brand"`
}

type Canvas struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Preset string `yaml:"preset,omitempty"`
}

// Style is the color bundle selected by a category key.
type Style struct {
	Title   string `yaml:"title"`
	Sub     string `yaml:"sub"`
	Outline string `yaml:"outline,omitempty"`
}

type Brand struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	ThanksImage string `yaml:"thanks_image"`
}

// Presets maps Instagram canvas names to [width, height].
var Presets = map[string][2]int{
	"feed_portrait":       {1080, 1350},
	"feed_portrait_large": {1080, 1440},
	"reel_story":          {1080, 1920},
	"square":              {1080, 1080},
}

const (
	DefaultStyle   = "default"
	DefaultOutline = "#000000"
	MaxOutline     = 15
)

// Default returns the stock 4:5 feed configuration.
func Default() *Overlay {
	return &Overlay{
		Canvas:           Canvas{Width: 1080, Height: 1350},
		TitleFontSize:    80,
		ContentFontSize:  60,
		SubtextFontSize:  40,
		TitlePositionY:   0.12,
		ContentPositionY: 0.85,
		OutlineWidth:     4,
		ShadowOffset:     3,
		Styles:           builtinStyles(),
		Schedule:         builtinSchedule(),
		Brand: Brand{
			Name: "if塾",
			URL:  "https://if-juku.net/",
		},
	}
}

func builtinStyles() map[string]Style {
	return map[string]Style{
		"default":      {Title: "#FF69B4", Sub: "#FF8C00", Outline: DefaultOutline},
		"announcement": {Title: "#FF3131", Sub: "#FFFFFF", Outline: DefaultOutline},
		"development":  {Title: "#0CC0DF", Sub: "#FFFFFF", Outline: DefaultOutline},
		"activity":     {Title: "#00BF63", Sub: "#FFFFFF", Outline: DefaultOutline},
		"education":    {Title: "#FFDE59", Sub: "#212121", Outline: DefaultOutline},
		"ai_column":    {Title: "#CB6CE6", Sub: "#FFFFFF", Outline: DefaultOutline},
		"business":     {Title: "#FFD700", Sub: "#212121", Outline: DefaultOutline},
	}
}

func builtinSchedule() map[string]string {
	return map[string]string{
		"monday":    "announcement",
		"tuesday":   "education",
		"wednesday": "development",
		"thursday":  "ai_column",
		"friday":    "business",
		"saturday":  "activity",
		"sunday":    "activity",
	}
}

// StyleFor returns the style registered under key, or the default style
// when the key is unknown.
func (o *Overlay) StyleFor(key string) Style {
	if s, ok := o.Styles[key]; ok {
		return s.withOutline()
	}
	if s, ok := o.Styles[DefaultStyle]; ok {
		return s.withOutline()
	}
	return builtinStyles()[DefaultStyle]
}

func (s Style) withOutline() Style {
	if s.Outline == "" {
		s.Outline = DefaultOutline
	}
	return s
}
