package draw

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
)

// Font styles understood by every Canvas.
const (
	FontRegular = ""
	FontBold    = "B"
	FontItalic  = "I"
)

// Canvas is the set of drawing primitives the layout steps use. Coordinates
// are millimetres from the top-left corner; Text y is the baseline.
type Canvas interface {
	PageSize() (w, h float64)
	SetFillColor(c branding.RGB)
	SetDrawColor(c branding.RGB)
	SetTextColor(c branding.RGB)
	SetLineWidth(w float64)
	SetFont(style string, size float64)
	Rect(x, y, w, h float64, fill, stroke bool)
	Line(x1, y1, x2, y2 float64)
	Text(x, y float64, s string)
	TextWidth(s string) float64
}

const fontFamily = "Helvetica"

// pdfCanvas draws onto a single A4 fpdf page using the core fonts.
type pdfCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFCanvas(created time.Time) *pdfCanvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()
	pdf.SetFont(fontFamily, FontRegular, 10)

	return &pdfCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *pdfCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *pdfCanvas) SetFillColor(rgb branding.RGB) {
	c.pdf.SetFillColor(int(rgb.R), int(rgb.G), int(rgb.B))
}

func (c *pdfCanvas) SetDrawColor(rgb branding.RGB) {
	c.pdf.SetDrawColor(int(rgb.R), int(rgb.G), int(rgb.B))
}

func (c *pdfCanvas) SetTextColor(rgb branding.RGB) {
	c.pdf.SetTextColor(int(rgb.R), int(rgb.G), int(rgb.B))
}

func (c *pdfCanvas) SetLineWidth(w float64) {
	c.pdf.SetLineWidth(w)
}

func (c *pdfCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *pdfCanvas) Rect(x, y, w, h float64, fill, stroke bool) {
	style := "D"

	switch {
	case fill && stroke:
		style = "FD"
	case fill:
		style = "F"
	}

	c.pdf.Rect(x, y, w, h, style)
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

// TextWidth measures the cp1252 form of s, which is what Text writes.
func (c *pdfCanvas) TextWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *pdfCanvas) bytes() ([]byte, error) {
	if err := c.pdf.Error(); err != nil {
		return nil, fmt.Errorf("drawing page: %w", err)
	}

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}
