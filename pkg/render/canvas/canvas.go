// Package canvas rasterizes a [render.Scene] to PNG with gg.
//
// Text is set in the Go fonts (regular for ticks and legend, bold for titles
// and labels), which ship with golang.org/x/image and include the arrow
// glyphs used by fold-change labels.
package canvas

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gemdiff/perturbviz/pkg/render"
)

var (
	fontsOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	fontsErr  error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		bold, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

func face(f *truetype.Font, px float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: px, DPI: 72, Hinting: font.HintingFull})
}

// PNG draws the scene on a white background and encodes it as PNG.
func PNG(sc *render.Scene) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, l := range sc.Edges {
		line(dc, l)
	}
	for _, m := range sc.Nodes {
		marker(dc, m)
	}
	for _, l := range sc.Connectors {
		line(dc, l)
	}
	for _, t := range sc.Labels {
		label(dc, t)
	}
	title(dc, sc)
	if sc.Legend != nil {
		legend(dc, sc.Legend)
	}
	if sc.Colorbar != nil {
		colorbar(dc, sc.Colorbar)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func setColor(dc *gg.Context, c colorful.Color, alpha float64) {
	dc.SetRGBA(c.R, c.G, c.B, alpha)
}

func line(dc *gg.Context, l render.Line) {
	setColor(dc, l.Color, l.Alpha)
	dc.SetLineWidth(l.Width)
	dc.DrawLine(l.From.X, l.From.Y, l.To.X, l.To.Y)
	dc.Stroke()
}

func marker(dc *gg.Context, m render.Marker) {
	setColor(dc, m.Fill, m.Alpha)
	dc.DrawCircle(m.At.X, m.At.Y, m.Radius)
	dc.Fill()
	if m.OutlineWidth > 0 {
		dc.SetRGBA(0, 0, 0, m.Alpha)
		dc.SetLineWidth(m.OutlineWidth)
		dc.DrawCircle(m.At.X, m.At.Y, m.Radius)
		dc.Stroke()
	}
}

func label(dc *gg.Context, t render.Text) {
	dc.SetFontFace(face(bold, t.FontSize))
	lineH := t.FontSize * 1.2

	var w float64
	for _, s := range t.Lines {
		lw, _ := dc.MeasureString(s)
		w = math.Max(w, lw)
	}
	h := lineH * float64(len(t.Lines))

	x := t.At.X - w/2 - t.Padding
	y := t.At.Y - h/2 - t.Padding
	bw, bh := w+2*t.Padding, h+2*t.Padding
	r := t.Padding

	dc.SetRGBA(1, 1, 1, t.BoxAlpha)
	dc.DrawRoundedRectangle(x, y, bw, bh, r)
	dc.Fill()
	dc.SetRGBA(0.5, 0.5, 0.5, t.BoxAlpha)
	dc.SetLineWidth(math.Max(1, t.FontSize/12))
	dc.DrawRoundedRectangle(x, y, bw, bh, r)
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	for i, s := range t.Lines {
		cy := t.At.Y - h/2 + lineH*(float64(i)+0.5)
		dc.DrawStringAnchored(s, t.At.X, cy, 0.5, 0.5)
	}
}

func title(dc *gg.Context, sc *render.Scene) {
	dc.SetFontFace(face(bold, sc.TitleSize))
	dc.SetRGB(0, 0, 0)
	top := 0.03 * math.Min(float64(sc.Width), float64(sc.Height))
	for i, s := range sc.Title {
		y := top + sc.TitleSize*1.3*(float64(i)+0.5)
		dc.DrawStringAnchored(s, float64(sc.Width)/2, y, 0.5, 0.5)
	}
}

func legend(dc *gg.Context, lg *render.Legend) {
	dc.SetFontFace(face(regular, lg.FontSize))
	pad := lg.FontSize * 0.6
	swatch := lg.FontSize * 0.5
	rowH := lg.FontSize * 1.6

	var textW float64
	for _, e := range lg.Entries {
		w, _ := dc.MeasureString(e.Label)
		textW = math.Max(textW, w)
	}
	w := pad + 2*swatch + pad + textW + pad
	h := pad + rowH*float64(len(lg.Entries)) + pad
	x, y := lg.TopRight.X-w, lg.TopRight.Y

	dc.SetRGBA(1, 1, 1, 0.8)
	dc.DrawRoundedRectangle(x, y, w, h, pad/2)
	dc.Fill()
	dc.SetRGBA(0.8, 0.8, 0.8, 1)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, w, h, pad/2)
	dc.Stroke()

	for i, e := range lg.Entries {
		cy := y + pad + rowH*(float64(i)+0.5)
		setColor(dc, e.Color, 1)
		dc.DrawCircle(x+pad+swatch, cy, swatch)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(e.Label, x+pad+2*swatch+pad, cy, 0, 0.5)
	}
}

func colorbar(dc *gg.Context, cb *render.Colorbar) {
	x0, y0 := cb.TopLeft.X, cb.TopLeft.Y
	w, h := cb.BottomRight.X-x0, cb.BottomRight.Y-y0

	n := len(cb.Steps)
	stepH := h / float64(n)
	for i, c := range cb.Steps {
		setColor(dc, c, 1)
		dc.DrawRectangle(x0, y0+h-stepH*float64(i+1), w, stepH+1)
		dc.Fill()
	}
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x0, y0, w, h)
	dc.Stroke()

	dc.SetFontFace(face(regular, cb.FontSize))
	tick := cb.FontSize * 0.4
	for _, t := range cb.Ticks {
		dc.DrawLine(x0+w, t.Y, x0+w+tick, t.Y)
		dc.Stroke()
		dc.DrawStringAnchored(t.Text, x0+w+tick*2, t.Y, 0, 0.5)
	}

	dc.Push()
	lx, ly := x0+w+cb.FontSize*3.5, y0+h/2
	dc.RotateAbout(-math.Pi/2, lx, ly)
	dc.DrawStringAnchored(cb.Label, lx, ly, 0.5, 0.5)
	dc.Pop()
}
