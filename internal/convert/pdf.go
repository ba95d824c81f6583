package convert

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	rpdf "rsc.io/pdf"
)

// Document is the text of a PDF, one entry per page in page order.
type Document struct {
	Pages []string
}

// Text returns the page texts concatenated with no separator.
func (d Document) Text() string {
	return strings.Join(d.Pages, "")
}

// TextExtractor turns raw PDF bytes into page texts. Either every page
// yields text or the whole call fails with ErrPDF.
type TextExtractor interface {
	ExtractText(data []byte) (Document, error)
}

// NewTextExtractor returns the extractor for engine: "rsc" (default) or
// "ledongthuc".
func NewTextExtractor(engine string) (TextExtractor, error) {
	switch engine {
	case "", "rsc":
		return RSCExtractor{}, nil
	case "ledongthuc":
		return LedongthucExtractor{}, nil
	}
	return nil, fmt.Errorf("unknown pdf engine %q", engine)
}

const (
	// Baseline shift, in points, that starts a new line.
	lineShift = 1.0
	// Horizontal gap, as a fraction of the font size, rendered as a space.
	spaceGap = 0.15
)

// RSCExtractor rebuilds lines from the glyph stream of rsc.io/pdf.
type RSCExtractor struct{}

func (RSCExtractor) ExtractText(data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = Document{}, fmt.Errorf("%w: %v", ErrPDF, r)
		}
	}()

	r, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrPDF, err)
	}
	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			return Document{}, fmt.Errorf("%w: page %d not found", ErrPDF, i)
		}
		pages = append(pages, glyphsToText(p.Content().Text))
	}
	return Document{Pages: pages}, nil
}

func glyphsToText(glyphs []rpdf.Text) string {
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			switch {
			case math.Abs(g.Y-prev.Y) > lineShift:
				b.WriteByte('\n')
			case prev.S != " " && g.S != " " && g.X-(prev.X+prev.W) > spaceGap*g.FontSize:
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

// LedongthucExtractor uses the plain-text walker of github.com/ledongthuc/pdf.
// Every text object starts a new line, so a label and its value drawn as
// separate objects ("Accident Date" then "01/02/2023") land on different
// lines and the claim parser will not pair them. Prefer RSCExtractor for
// form-style loss runs.
type LedongthucExtractor struct{}

func (LedongthucExtractor) ExtractText(data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = Document{}, fmt.Errorf("%w: %v", ErrPDF, r)
		}
	}()

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrPDF, err)
	}
	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			return Document{}, fmt.Errorf("%w: page %d not found", ErrPDF, i)
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return Document{}, fmt.Errorf("%w: page %d: %v", ErrPDF, i, err)
		}
		// Every text object starts with a newline; keep one per line end instead.
		text = strings.TrimLeft(text, "\n")
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		pages = append(pages, text)
	}
	return Document{Pages: pages}, nil
}
