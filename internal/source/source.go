package source

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source yields background pages: one page for a raster file, one per page
// for a PDF deck.
type Source interface {
	PageCount() int
	RenderPage(index int) (image.Image, error)
	Close() error
}

// DefaultDPI is the rasterization density for PDF pages. At 150 DPI an A4
// page is ~1240x1754, enough to cover a 1080x1350 canvas.
const DefaultDPI = 150

// Open picks the source implementation from the file extension.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFSource(path, DefaultDPI)
	}
	return NewImageSource(path)
}

// Load opens path and renders its first page.
func Load(path string) (image.Image, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.RenderPage(0)
}

type PDFSource struct {
	doc  *fitz.Document
	path string
	dpi  float64
}

func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &PDFSource{doc: doc, path: path, dpi: float64(dpi)}, nil
}

func (p *PDFSource) PageCount() int {
	return p.doc.NumPage()
}

// RenderPage opens its own document handle so pages can be rendered from
// several goroutines.
func (p *PDFSource) RenderPage(index int) (image.Image, error) {
	if index < 0 || index >= p.PageCount() {
		return nil, &PageError{Path: p.path, Index: index, Count: p.PageCount()}
	}
	workerDoc, err := fitz.New(p.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, p.dpi)
}

func (p *PDFSource) Close() error {
	return p.doc.Close()
}
