package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFont(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestResolveOrder(t *testing.T) {
	explicit := writeFont(t, "explicit.ttf", goregular.TTF)
	candidate := writeFont(t, "candidate.ttf", goregular.TTF)
	missing := filepath.Join(t.TempDir(), "missing.ttf")

	tests := []struct {
		name       string
		explicit   string
		candidates []string
		want       string
	}{
		{"explicit wins", explicit, []string{candidate}, explicit},
		{"missing explicit falls through", missing, []string{missing, candidate}, candidate},
		{"no explicit", "", []string{candidate}, candidate},
		{"nothing found", missing, []string{missing}, ""},
		{"directory is not a font", "", []string{t.TempDir()}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.explicit, tt.candidates))
		})
	}
}

func TestDefaultCandidatesNotEmpty(t *testing.T) {
	c := DefaultCandidates()
	assert.Len(t, c, len(windowsFonts)+len(darwinFonts)+len(linuxFonts))
}

func TestLoaderLogsResolvedFontOnce(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	path := writeFont(t, "go.ttf", goregular.TTF)

	l := NewLoader(path, nil, zap.New(core))
	assert.Equal(t, path, l.Path())

	_ = l.Face(40)
	_ = l.Face(80)

	entries := logs.FilterMessage("font resolved").All()
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].ContextMap()["path"])
}

func TestLoaderFallbackWhenNothingFound(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	l := NewLoader("", nil, zap.New(core))
	assert.Empty(t, l.Path())
	assert.Equal(t, 1, logs.Len())

	face := l.Face(60)
	require.NotNil(t, face)
	assert.NotEqual(t, basicfont.Face7x13, face, "embedded Go font is scalable")
}

func TestLoaderCorruptFontFallsBack(t *testing.T) {
	path := writeFont(t, "broken.ttf", []byte("definitely not a font"))

	l := NewLoader(path, nil, nil)
	assert.Empty(t, l.Path())

	face := l.Face(32)
	require.NotNil(t, face)
	adv := font.MeasureString(face, "abc")
	assert.Positive(t, adv.Round())
}

func TestLoaderSkipsUnparsableCandidate(t *testing.T) {
	broken := writeFont(t, "broken.ttc", []byte("not a font either"))
	good := writeFont(t, "good.ttf", goregular.TTF)
	core, logs := observer.New(zap.WarnLevel)

	l := NewLoader(broken, []string{broken, good}, zap.New(core))
	assert.Equal(t, good, l.Path())
	assert.Equal(t, 1, logs.FilterMessage("font unusable, trying next candidate").Len())
	assert.Zero(t, logs.FilterMessage("no usable CJK font found, using embedded fallback").Len())

	l = NewLoader("", []string{broken}, nil)
	assert.Empty(t, l.Path())
}

func TestLoaderCollection(t *testing.T) {
	// A truncated collection header is rejected and degrades to the fallback.
	path := writeFont(t, "broken.ttc", []byte("ttcf\x00\x01\x00\x00"))

	l := NewLoader(path, nil, nil)
	assert.Empty(t, l.Path())
	assert.NotNil(t, l.Face(20))
}

func TestFaceScalesWithSize(t *testing.T) {
	l := NewLoader("", nil, nil)

	small := font.MeasureString(l.Face(20), "Hello")
	large := font.MeasureString(l.Face(80), "Hello")
	assert.Greater(t, large, small)

	assert.NotNil(t, l.Face(0), "non-positive sizes are clamped")
}
