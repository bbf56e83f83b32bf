package overlay

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// LineHeight is the line box height as a multiple of the font size.
const LineHeight = 1.3

// Line is one display line of a text block.
type Line struct {
	Text string
	// X is the left edge of the line's ink box, Y the top of its line box.
	X, Y fixed.Int26_6
	// Dot is the baseline origin passed to the glyph drawer.
	Dot fixed.Point26_6
}

// Block is the layout of one text block on the canvas.
type Block struct {
	Lines []Line
	// Top is the y of the first line box; Height spans every line,
	// including blank ones that are not drawn.
	Top, Height float64
}

// SplitLines breaks text on newlines and on the literal two-character
// sequence `\n`. When maxCells > 0, each line is further wrapped so it spans
// at most maxCells terminal cells, never splitting a grapheme cluster.
func SplitLines(text string, maxCells int) []string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	raw := strings.Split(text, "\n")
	if maxCells <= 0 {
		return raw
	}

	var lines []string
	for _, line := range raw {
		lines = append(lines, wrapCells(line, maxCells)...)
	}
	return lines
}

func wrapCells(line string, maxCells int) []string {
	if runewidth.StringWidth(line) <= maxCells {
		return []string{line}
	}

	var (
		lines []string
		cur   strings.Builder
		width int
	)
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if width > 0 && width+w > maxCells {
			lines = append(lines, cur.String())
			cur.Reset()
			width = 0
			if strings.TrimSpace(cluster) == "" {
				continue
			}
		}
		cur.WriteString(cluster)
		width += w
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Layout positions the lines of text so the block is vertically centered on
// anchor*canvasH and every line is horizontally centered by its ink width.
// Blank lines take up space but produce no Line.
func Layout(face font.Face, text string, anchor float64, size, canvasW, canvasH, maxCells int) Block {
	raw := SplitLines(text, maxCells)

	lineH := float64(size) * LineHeight
	total := float64(len(raw)) * lineH
	top := float64(canvasH)*anchor - total/2
	ascent := face.Metrics().Ascent

	block := Block{Top: top, Height: total}
	for i, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}

		bounds, _ := font.BoundString(face, s)
		inkW := bounds.Max.X - bounds.Min.X
		x := (fixed.I(canvasW) - inkW) / 2
		y := toFixed(top + float64(i)*lineH)

		block.Lines = append(block.Lines, Line{
			Text: s,
			X:    x,
			Y:    y,
			Dot:  fixed.Point26_6{X: x - bounds.Min.X, Y: y + ascent},
		})
	}
	return block
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
