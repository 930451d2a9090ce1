package document

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "ZenAntique"

// ErrFont means the configured font is missing or unreadable.
var ErrFont = errors.New("font unavailable")

// PDF renders blocks onto A4 pages. FontPath names a TrueType font with the
// glyphs the report needs; when empty the built-in Helvetica is used, which
// only covers Latin-1.
type PDF struct {
	FontPath string
}

// NewPDF returns a PDF renderer using the font at fontPath.
func NewPDF(fontPath string) *PDF {
	return &PDF{FontPath: fontPath}
}

func (p *PDF) Ext() string { return ".pdf" }

// Render writes the document to path. A missing font is a RenderError and
// nothing is written.
func (p *PDF) Render(title string, blocks []Block, path string) error {
	if p.FontPath != "" {
		if _, err := os.Stat(p.FontPath); err != nil {
			return &RenderError{Path: path, Err: fmt.Errorf("%w: %v", ErrFont, err)}
		}
	}

	doc, err := p.layout(title, blocks)
	if err != nil {
		return &RenderError{Path: path, Err: err}
	}

	return writeAtomic(path, func(w io.Writer) error {
		return doc.Output(w)
	})
}

func (p *PDF) layout(title string, blocks []Block) (*fpdf.Fpdf, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(56, 56, 56)
	doc.SetAutoPageBreak(true, 56)
	doc.SetTitle(title, true)
	doc.SetCreator("habit-hawk", true)

	family := "Helvetica"
	text := func(s string) string { return s }
	if p.FontPath != "" {
		doc.AddUTF8Font(fontFamily, "", p.FontPath)
		family = fontFamily
	} else {
		text = doc.UnicodeTranslatorFromDescriptor("")
	}
	if doc.Err() {
		return nil, fmt.Errorf("%w: %v", ErrFont, doc.Error())
	}

	doc.SetFooterFunc(func() {
		doc.SetY(-40)
		doc.SetFont(family, "", 9)
		doc.CellFormat(0, 12, fmt.Sprintf("%d", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	for _, b := range blocks {
		switch b.Kind {
		case Title:
			doc.SetFont(family, "", 20)
			doc.MultiCell(0, 26, text(b.Text), "", "C", false)
			doc.Ln(10)
		case Heading:
			doc.SetFont(family, "", 15)
			doc.Ln(4)
			doc.MultiCell(0, 20, text(b.Text), "", "L", false)
			doc.Ln(2)
		case Paragraph:
			doc.SetFont(family, "", 10.5)
			doc.MultiCell(0, 14, text(b.Text), "", "L", false)
		case Spacer:
			doc.Ln(b.Height)
		}
		if doc.Err() {
			return nil, fmt.Errorf("layout %s block: %w", b.Kind, doc.Error())
		}
	}

	return doc, nil
}
