// Package fonts locates a CJK-capable font on the host and produces faces
// at arbitrary pixel sizes. Font problems never surface as errors: when no
// usable font exists the embedded Go Regular font is used instead.
package fonts

import (
	"bytes"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	windowsFonts = []string{
		"C:/Windows/Fonts/meiryo.ttc",
		"C:/Windows/Fonts/msgothic.ttc",
		"C:/Windows/Fonts/YuGothM.ttc",
		"C:/Windows/Fonts/BIZ-UDGothicR.ttc",
	}
	darwinFonts = []string{
		"/System/Library/Fonts/ヒラギノ角ゴシック W6.ttc",
		"/System/Library/Fonts/Hiragino Sans GB.ttc",
	}
	linuxFonts = []string{
		"/usr/share/fonts/truetype/takao-gothic/TakaoPGothic.ttf",
		"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
		"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	}
)

// DefaultCandidates returns the well-known CJK font locations, current
// platform first.
func DefaultCandidates() []string {
	var first, rest []string
	switch runtime.GOOS {
	case "windows":
		first, rest = windowsFonts, append(append([]string{}, darwinFonts...), linuxFonts...)
	case "darwin":
		first, rest = darwinFonts, append(append([]string{}, windowsFonts...), linuxFonts...)
	default:
		first, rest = linuxFonts, append(append([]string{}, windowsFonts...), darwinFonts...)
	}
	return append(append([]string{}, first...), rest...)
}

// Resolve returns the explicit path when it exists, otherwise the first
// existing candidate. It returns "" when nothing is found.
func Resolve(explicit string, candidates []string) string {
	if explicit != "" && exists(explicit) {
		return explicit
	}
	for _, p := range candidates {
		if exists(p) {
			return p
		}
	}
	return ""
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// Loader produces faces from the resolved font. It is safe for concurrent
// use; each Face call returns a new face owned by the caller.
type Loader struct {
	path     string
	font     *opentype.Font
	fallback *opentype.Font
	logger   *zap.Logger
}

// NewLoader resolves and parses the font once. A font that exists but fails
// to parse is skipped in favour of the next candidate. It logs the resolved
// path, or a warning when falling back to the embedded font.
func NewLoader(explicit string, candidates []string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{logger: logger}

	// goregular is compiled in; a parse failure would be a build defect and
	// Face still degrades to basicfont in that case.
	l.fallback, _ = opentype.Parse(goregular.TTF)

	remaining := candidates
	path := Resolve(explicit, remaining)
	for path != "" {
		f, err := parseFile(path)
		if err == nil {
			l.path, l.font = path, f
			logger.Info("font resolved", zap.String("path", path))
			return l
		}
		logger.Warn("font unusable, trying next candidate", zap.String("path", path), zap.Error(err))
		remaining = after(remaining, path)
		path = Resolve("", remaining)
	}

	logger.Warn("no usable CJK font found, using embedded fallback")
	return l
}

// after returns the candidates following path, or all of them when path is
// not among them (the explicit font).
func after(candidates []string, path string) []string {
	for i, c := range candidates {
		if c == path {
			return candidates[i+1:]
		}
	}
	return candidates
}

// Path returns the resolved font file, or "" when the fallback is in use.
func (l *Loader) Path() string {
	return l.path
}

// Face returns a face at size pixels. Any failure degrades to the embedded
// font and finally to basicfont.Face7x13; Face never fails.
func (l *Loader) Face(size int) font.Face {
	if size <= 0 {
		size = 1
	}
	if l.font != nil {
		face, err := newFace(l.font, size)
		if err == nil {
			return face
		}
		l.logger.Warn("font face failed, using embedded fallback", zap.Int("size", size), zap.Error(err))
	}
	if l.fallback != nil {
		if face, err := newFace(l.fallback, size); err == nil {
			return face
		}
	}
	return basicfont.Face7x13
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	// 72 DPI makes Size equal to pixels.
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// parseFile reads a .ttf/.otf font or the first face of a .ttc collection.
func parseFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("ttcf")) {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		return coll.Font(0)
	}
	return opentype.Parse(data)
}
