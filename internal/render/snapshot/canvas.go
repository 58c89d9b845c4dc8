package snapshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
)

var (
	errHostClosed   = errors.New("host closed")
	errNotMounted   = errors.New("nothing mounted")
	errInvalidScale = errors.New("invalid raster scale")
)

type fontStyle int

const (
	styleRegular fontStyle = iota
	styleBold
	styleItalic
)

type faceKey struct {
	style fontStyle
	size  float64
}

// CanvasSurface paints presentations with a pure-Go rasterizer. It needs no
// browser, so layout is complete as soon as a presentation is mounted.
type CanvasSurface struct {
	fonts map[fontStyle]*truetype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

func NewCanvasSurface() (*CanvasSurface, error) {
	s := &CanvasSurface{
		fonts: make(map[fontStyle]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}

	for style, ttf := range map[fontStyle][]byte{
		styleRegular: goregular.TTF,
		styleBold:    gobold.TTF,
		styleItalic:  goitalic.TTF,
	} {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parsing font: %w", err)
		}

		s.fonts[style] = f
	}

	return s, nil
}

func (s *CanvasSurface) Open(ctx context.Context) (Host, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &canvasHost{surface: s}, nil
}

// face returns a cached face. Faces are not safe for concurrent use; callers
// hold mu.
func (s *CanvasSurface) face(style fontStyle, size float64) font.Face {
	key := faceKey{style: style, size: size}

	if f, ok := s.faces[key]; ok {
		return f
	}

	f := truetype.NewFace(s.fonts[style], &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	s.faces[key] = f

	return f
}

type canvasHost struct {
	surface *CanvasSurface
	p       *Presentation
	closed  bool
}

func (h *canvasHost) Mount(ctx context.Context, p *Presentation) error {
	if h.closed {
		return errHostClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	h.p = p

	return nil
}

func (h *canvasHost) Ready(ctx context.Context) error {
	if h.p == nil {
		return errNotMounted
	}

	return ctx.Err()
}

func (h *canvasHost) Rasterize(ctx context.Context, scale float64) (image.Image, error) {
	if h.closed {
		return nil, errHostClosed
	}

	if h.p == nil {
		return nil, errNotMounted
	}

	if scale <= 0 {
		return nil, errInvalidScale
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.surface.mu.Lock()
	defer h.surface.mu.Unlock()

	return paint(h.surface, h.p, scale), nil
}

func (h *canvasHost) Unmount() error {
	h.p = nil

	return nil
}

func (h *canvasHost) Close() error {
	if h.closed {
		return errHostClosed
	}

	h.closed = true

	return nil
}

// painter draws in CSS pixels; every coordinate is multiplied by scale so
// glyphs are rasterized at the final resolution.
type painter struct {
	dc      *gg.Context
	surface *CanvasSurface
	scale   float64
}

const (
	pagePad   = 56.0
	bannerH   = 120.0
	baseWidth = float64(viewportWidth)
)

var (
	cssWhite  = branding.RGB{R: 255, G: 255, B: 255}
	cssInk    = branding.RGB{R: 31, G: 41, B: 55}
	cssMuted  = branding.RGB{R: 107, G: 114, B: 128}
	cssBorder = branding.RGB{R: 209, G: 213, B: 219}
	cssPanel  = branding.RGB{R: 249, G: 250, B: 251}
)

func (pt *painter) color(c branding.RGB) {
	pt.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}

func (pt *painter) fillRect(x, y, w, h float64, c branding.RGB) {
	pt.color(c)
	pt.dc.DrawRectangle(x*pt.scale, y*pt.scale, w*pt.scale, h*pt.scale)
	pt.dc.Fill()
}

func (pt *painter) strokeRect(x, y, w, h float64, c branding.RGB) {
	pt.color(c)
	pt.dc.SetLineWidth(pt.scale)
	pt.dc.DrawRectangle(x*pt.scale, y*pt.scale, w*pt.scale, h*pt.scale)
	pt.dc.Stroke()
}

func (pt *painter) line(x1, y1, x2, y2 float64, c branding.RGB) {
	pt.color(c)
	pt.dc.SetLineWidth(pt.scale)
	pt.dc.DrawLine(x1*pt.scale, y1*pt.scale, x2*pt.scale, y2*pt.scale)
	pt.dc.Stroke()
}

func (pt *painter) font(style fontStyle, size float64) {
	pt.dc.SetFontFace(pt.surface.face(style, size*pt.scale))
}

// text draws s with its baseline at y. ax is the horizontal anchor: 0 left,
// 0.5 centre, 1 right.
func (pt *painter) text(s string, x, y, ax float64, c branding.RGB) {
	pt.color(c)
	pt.dc.DrawStringAnchored(s, x*pt.scale, y*pt.scale, ax, 0)
}

func (pt *painter) wrap(s string, width float64) []string {
	return pt.dc.WordWrap(s, width*pt.scale)
}

// layout runs every section in order and returns the bottom edge in CSS
// pixels.
func (pt *painter) layout(p *Presentation) float64 {
	y := pt.banner(p)
	y = pt.meta(p, y+24)
	y = pt.parties(p, y+24)
	y = pt.items(p, y+24)
	y = pt.totals(p, y+16)
	y = pt.payment(p, y+28)
	y = pt.footer(p, y+32)

	return y + 32
}

// paint lays the presentation out twice: once on a 1x1 context to measure
// wrapped text at the final scale, then on a canvas of exactly that height.
func paint(s *CanvasSurface, p *Presentation, scale float64) image.Image {
	measure := &painter{dc: gg.NewContext(1, 1), surface: s, scale: scale}
	height := measure.layout(p)

	dc := gg.NewContext(int(baseWidth*scale), int(math.Ceil(height*scale)))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	pt := &painter{dc: dc, surface: s, scale: scale}
	pt.layout(p)

	return dc.Image()
}

func (pt *painter) banner(p *Presentation) float64 {
	right := baseWidth - pagePad

	pt.fillRect(0, 0, baseWidth, bannerH, p.Primary)

	x := pagePad

	if p.LogoURL != "" {
		pt.fillRect(x, (bannerH-64)/2, 64, 64, p.Primary.Tint(0.8))
		pt.font(styleBold, 10)
		pt.text("LOGO", x+32, bannerH/2+4, 0.5, p.Primary)

		x += 80
	}

	pt.font(styleBold, 26)
	pt.text(p.Company, x, 52, 0, cssWhite)

	pt.font(styleRegular, 12)

	lineY := 74.0

	for _, contact := range []string{p.CompanyEmail, p.CompanyPhone} {
		if contact == "" {
			continue
		}

		pt.text(contact, x, lineY, 0, cssWhite)
		lineY += 16
	}

	pt.font(styleBold, 34)
	pt.text("INVOICE", right, 72, 1, cssWhite)

	return bannerH
}

func (pt *painter) meta(p *Presentation, y float64) float64 {
	const (
		boxW = 300.0
		boxH = 84.0
	)

	right := baseWidth - pagePad
	x := right - boxW

	pt.fillRect(x, y, boxW, boxH, cssPanel)
	pt.strokeRect(x, y, boxW, boxH, cssBorder)

	rows := [][2]string{
		{"Invoice Number:", p.Number},
		{"Issue Date:", p.IssueDate},
		{"Due Date:", p.DueDate},
	}

	lineY := y + 26

	for _, r := range rows {
		pt.font(styleBold, 12)
		pt.text(r[0], x+16, lineY, 0, cssMuted)

		pt.font(styleRegular, 12)
		pt.text(r[1], right-16, lineY, 1, cssInk)

		lineY += 20
	}

	return y + boxH
}

func (pt *painter) parties(p *Presentation, y float64) float64 {
	const boxH = 110.0

	right := baseWidth - pagePad
	mid := baseWidth / 2

	pt.fillRect(pagePad, y, right-pagePad, boxH, cssPanel)
	pt.strokeRect(pagePad, y, right-pagePad, boxH, cssBorder)
	pt.line(mid, y, mid, y+boxH, cssBorder)

	columns := []struct {
		x     float64
		title string
		lines []string
	}{
		{pagePad + 16, "From", []string{p.Company, p.CompanyEmail, p.CompanyPhone, p.Website}},
		{mid + 16, "Bill To", []string{p.CustomerName, p.CustomerEmail, p.CustomerPhone}},
	}

	for _, col := range columns {
		pt.font(styleBold, 13)
		pt.text(col.title, col.x, y+26, 0, p.Primary)

		lineY := y + 46

		for i, l := range col.lines {
			if l == "" {
				continue
			}

			if i == 0 {
				pt.font(styleBold, 13)
			} else {
				pt.font(styleRegular, 12)
			}

			pt.text(l, col.x, lineY, 0, cssInk)
			lineY += 19
		}
	}

	return y + boxH
}

func (pt *painter) items(p *Presentation, y float64) float64 {
	const (
		headerH = 36.0
		rowH    = 34.0
		descW   = 340.0
	)

	right := baseWidth - pagePad
	colQty := right - 280
	colRate := right - 150

	pt.fillRect(pagePad, y, right-pagePad, headerH, p.Accent)

	pt.font(styleBold, 12)
	pt.text("Description", pagePad+12, y+23, 0, cssWhite)
	pt.text("Qty", colQty, y+23, 1, cssWhite)
	pt.text("Rate", colRate, y+23, 1, cssWhite)
	pt.text("Amount", right-12, y+23, 1, cssWhite)

	y += headerH

	pt.font(styleRegular, 12)

	for i, item := range p.Items {
		lines := pt.wrap(item.Description, descW)
		if len(lines) == 0 {
			lines = []string{""}
		}

		h := rowH + float64(len(lines)-1)*16

		if i%2 == 1 {
			pt.fillRect(pagePad, y, right-pagePad, h, p.AccentTint)
		}

		baseline := y + 22

		for j, l := range lines {
			pt.text(l, pagePad+12, baseline+float64(j)*16, 0, cssInk)
		}

		pt.text(item.Quantity, colQty, baseline, 1, cssInk)
		pt.text(item.Rate, colRate, baseline, 1, cssInk)
		pt.text(item.Amount, right-12, baseline, 1, cssInk)

		y += h
		pt.line(pagePad, y, right, y, cssBorder)
	}

	return y
}

func (pt *painter) totals(p *Presentation, y float64) float64 {
	const boxW = 300.0

	right := baseWidth - pagePad
	x := right - boxW

	rows := [][2]string{{"Subtotal:", p.Subtotal}}

	if p.ShowTax {
		rows = append(rows, [2]string{p.TaxLabel + ":", p.Tax})
	}

	if p.ShowDiscount {
		rows = append(rows, [2]string{"Discount:", p.Discount})
	}

	pt.font(styleRegular, 13)

	for _, r := range rows {
		y += 22
		pt.text(r[0], x+12, y, 0, cssInk)
		pt.text(r[1], right-12, y, 1, cssInk)
	}

	y += 14

	pt.fillRect(x, y, boxW, 40, p.Accent)
	pt.font(styleBold, 15)
	pt.text("Total:", x+12, y+26, 0, cssWhite)
	pt.text(p.Total, right-12, y+26, 1, cssWhite)

	return y + 40
}

func (pt *painter) payment(p *Presentation, y float64) float64 {
	right := baseWidth - pagePad

	pt.font(styleBold, 15)
	pt.text("Payment Information", pagePad, y+15, 0, cssInk)

	y += 38

	pt.font(styleRegular, 12)
	pt.text("Status: ", pagePad, y, 0, cssInk)

	w, _ := pt.dc.MeasureString("Status: ")

	pt.font(styleBold, 12)
	pt.text(p.Status, pagePad+w/pt.scale, y, 0, p.StatusColor)

	if p.LinkText != "" {
		y += 20

		pt.font(styleRegular, 12)
		pt.text("Pay online: ", pagePad, y, 0, cssInk)

		w, _ := pt.dc.MeasureString("Pay online: ")
		pt.text(p.LinkText, pagePad+w/pt.scale, y, 0, p.Primary)
	}

	y += 16

	pt.font(styleRegular, 12)
	lines := pt.wrap(p.Terms, right-pagePad-32)
	boxH := 40 + float64(len(lines))*18

	pt.fillRect(pagePad, y, right-pagePad, boxH, cssPanel)
	pt.strokeRect(pagePad, y, right-pagePad, boxH, cssBorder)

	pt.font(styleBold, 12)
	pt.text("Terms & Conditions", pagePad+16, y+22, 0, cssInk)

	pt.font(styleRegular, 12)

	for i, l := range lines {
		pt.text(l, pagePad+16, y+42+float64(i)*18, 0, cssMuted)
	}

	return y + boxH
}

func (pt *painter) footer(p *Presentation, y float64) float64 {
	right := baseWidth - pagePad

	pt.line(pagePad, y, right, y, cssBorder)

	pt.font(styleItalic, 11)
	pt.text("Thank you for your business with "+p.Company+"!", baseWidth/2, y+22, 0.5, cssMuted)

	pt.font(styleRegular, 11)
	pt.text("Page 1 of 1", right, y+42, 1, cssMuted)

	if p.CompanyEmail != "" {
		pt.text("Questions? Contact "+p.CompanyEmail, pagePad, y+42, 0, cssMuted)
	}

	y += 42

	if p.Signature != "" {
		y += 20
		pt.text(p.Signature, pagePad, y, 0, cssMuted)
	}

	return y
}
