// Package overlay composites outlined, shadowed headline and subtext blocks
// onto a background image normalized to a fixed canvas.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/ifjuku/instapost/internal/config"
	"github.com/ifjuku/instapost/internal/fonts"
	"github.com/ifjuku/instapost/internal/source"
	"github.com/ifjuku/instapost/internal/system"
)

var (
	// ErrDecode is wrapped when the background cannot be opened or decoded.
	ErrDecode = errors.New("background unreadable")
	// ErrOutputFormat is wrapped when the output path is not .png, .jpg or .jpeg.
	ErrOutputFormat = errors.New("output must be .png, .jpg or .jpeg")
)

// JPEGQuality applies to outputs with a .jpg or .jpeg extension.
const JPEGQuality = 95

type Engine struct {
	cfg    *config.Overlay
	fonts  *fonts.Loader
	logger *zap.Logger
}

type options struct {
	logger        *zap.Logger
	candidates    []string
	candidatesSet bool
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFontCandidates replaces the platform font search list. Passing no
// paths disables the search, leaving only the configured font path.
func WithFontCandidates(paths ...string) Option {
	return func(o *options) {
		o.candidates = paths
		o.candidatesSet = true
	}
}

// New validates cfg and resolves the font once. A nil cfg means config.Default().
func New(cfg *config.Overlay, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if !o.candidatesSet {
		o.candidates = fonts.DefaultCandidates()
	}

	return &Engine{
		cfg:    cfg,
		fonts:  fonts.NewLoader(cfg.FontPath, o.candidates, o.logger),
		logger: o.logger,
	}, nil
}

func (e *Engine) Config() *config.Overlay {
	return e.cfg
}

// FontPath is the resolved font file, "" when the embedded fallback is used.
func (e *Engine) FontPath() string {
	return e.fonts.Path()
}

// Request describes one composed post.
type Request struct {
	Background string
	// Output defaults to Background, replacing it in place.
	Output   string
	Headline string
	Subtext  string
	Style    string
	// TitleSize overrides the configured title font size when positive.
	TitleSize int
	// QRCodeURL, when set, stamps a QR badge under the text.
	QRCodeURL string
}

// ComposePost renders headline and subtext over the background and writes
// the result to outputPath, returning the path written.
func (e *Engine) ComposePost(background, headline, subtext, outputPath, style string) (string, error) {
	return e.Compose(Request{
		Background: background,
		Output:     outputPath,
		Headline:   headline,
		Subtext:    subtext,
		Style:      style,
	})
}

func (e *Engine) Compose(req Request) (string, error) {
	out := req.Output
	if out == "" {
		out = req.Background
	}
	if err := checkFormat(out); err != nil {
		return "", err
	}

	bg, err := source.Load(req.Background)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDecode, req.Background, err)
	}

	img, err := e.Render(bg, req)
	if err != nil {
		return "", err
	}

	if err := WriteImage(img, out); err != nil {
		return "", err
	}
	e.logger.Debug("post composed", zap.String("output", out), zap.String("style", req.Style))
	return out, nil
}

// Render composes req's text onto an already decoded background and returns
// the flattened canvas. req.Background and req.Output are ignored.
func (e *Engine) Render(bg image.Image, req Request) (*image.RGBA, error) {
	canvas := Normalize(bg, e.cfg.Canvas.Width, e.cfg.Canvas.Height)

	if req.QRCodeURL != "" {
		if err := StampQR(canvas, req.QRCodeURL); err != nil {
			return nil, err
		}
	}

	style := e.cfg.StyleFor(req.Style)
	outline := hexColor(style.Outline)

	layer := system.GetLayer(canvas.Bounds())
	defer system.PutLayer(layer)

	titleSize := e.cfg.TitleFontSize
	if req.TitleSize > 0 {
		titleSize = req.TitleSize
	}

	if req.Headline != "" {
		e.drawText(layer, req.Headline, e.cfg.TitlePositionY, titleSize,
			Ink{Fill: hexColor(style.Title), Outline: outline, Shadow: shadowColor})
	}
	if req.Subtext != "" {
		e.drawText(layer, req.Subtext, e.cfg.ContentPositionY, e.cfg.SubtextFontSize,
			Ink{Fill: hexColor(style.Sub), Outline: outline, Shadow: shadowColor})
	}

	draw.Draw(canvas, canvas.Bounds(), layer, image.Point{}, draw.Over)
	return Flatten(canvas), nil
}

func (e *Engine) drawText(layer *image.RGBA, text string, anchor float64, size int, ink Ink) {
	face := e.fonts.Face(size)
	defer face.Close()

	b := layer.Bounds()
	block := Layout(face, text, anchor, size, b.Dx(), b.Dy(), e.cfg.MaxLineCells)
	DrawBlock(layer, face, block, ink, Stroke{Width: e.cfg.OutlineWidth, ShadowOffset: e.cfg.ShadowOffset})
}

// hexColor parses a validated #rrggbb string; anything unparsable is white.
func hexColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.White
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// WriteImage encodes img by the extension of path: JPEG for .jpg/.jpeg, PNG
// for .png. Other extensions fail with ErrOutputFormat before anything is
// written. It writes to a temporary file in the target directory and
// renames it into place, so path is either fully replaced or untouched.
func WriteImage(img image.Image, path string) error {
	if err := checkFormat(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".instapost-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, img, path); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func checkFormat(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return nil
	}
	return fmt.Errorf("%w: %s", ErrOutputFormat, path)
}

func encode(w io.Writer, img image.Image, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case ".png":
		return png.Encode(w, img)
	}
	return fmt.Errorf("%w: %s", ErrOutputFormat, path)
}
