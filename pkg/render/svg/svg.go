// Package svg writes a [render.Scene] as SVG with svgo.
//
// Pixel coordinates are rounded to integers. Text boxes are sized from an
// average glyph width since the viewer's font is not known here.
package svg

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf8"

	svgo "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gemdiff/perturbviz/pkg/render"
)

const (
	fontFamily = "font-family:DejaVu Sans,Helvetica,Arial,sans-serif"
	glyphWidth = 0.6 // average advance as a fraction of the font size
)

// Render returns the scene as an SVG document.
func Render(sc *render.Scene) []byte {
	var buf bytes.Buffer
	c := svgo.New(&buf)
	c.Start(sc.Width, sc.Height)
	c.Rect(0, 0, sc.Width, sc.Height, "fill:#ffffff")

	c.Gid("edges")
	for _, l := range sc.Edges {
		line(c, l)
	}
	c.Gend()

	c.Gid("nodes")
	for _, m := range sc.Nodes {
		marker(c, m)
	}
	c.Gend()

	c.Gid("labels")
	for _, l := range sc.Connectors {
		line(c, l)
	}
	for _, t := range sc.Labels {
		label(c, t)
	}
	c.Gend()

	title(c, sc)
	if sc.Legend != nil {
		legend(c, sc.Legend)
	}
	if sc.Colorbar != nil {
		colorbar(c, sc.Colorbar)
	}
	c.End()
	return buf.Bytes()
}

func px(v float64) int { return int(math.Round(v)) }

func hex(c colorful.Color) string { return c.Clamped().Hex() }

func line(c *svgo.SVG, l render.Line) {
	c.Line(px(l.From.X), px(l.From.Y), px(l.To.X), px(l.To.Y),
		fmt.Sprintf("stroke:%s;stroke-opacity:%.2f;stroke-width:%.2f", hex(l.Color), l.Alpha, l.Width))
}

func marker(c *svgo.SVG, m render.Marker) {
	style := fmt.Sprintf("fill:%s;fill-opacity:%.2f", hex(m.Fill), m.Alpha)
	if m.OutlineWidth > 0 {
		style += fmt.Sprintf(";stroke:#000000;stroke-width:%.2f", m.OutlineWidth)
	}
	c.Circle(px(m.At.X), px(m.At.Y), px(m.Radius), style)
}

func textWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * glyphWidth
}

func label(c *svgo.SVG, t render.Text) {
	lineH := t.FontSize * 1.2
	var w float64
	for _, s := range t.Lines {
		w = math.Max(w, textWidth(s, t.FontSize))
	}
	h := lineH * float64(len(t.Lines))

	x := t.At.X - w/2 - t.Padding
	y := t.At.Y - h/2 - t.Padding
	r := px(t.Padding)
	c.Roundrect(px(x), px(y), px(w+2*t.Padding), px(h+2*t.Padding), r, r,
		fmt.Sprintf("fill:#ffffff;fill-opacity:%.2f;stroke:#808080;stroke-opacity:%.2f", t.BoxAlpha, t.BoxAlpha))

	style := fmt.Sprintf("%s;font-size:%.1fpx;font-weight:bold;text-anchor:middle;dominant-baseline:central;fill:#000000", fontFamily, t.FontSize)
	for i, s := range t.Lines {
		cy := t.At.Y - h/2 + lineH*(float64(i)+0.5)
		c.Text(px(t.At.X), px(cy), s, style)
	}
}

func title(c *svgo.SVG, sc *render.Scene) {
	top := 0.03 * math.Min(float64(sc.Width), float64(sc.Height))
	style := fmt.Sprintf("%s;font-size:%.1fpx;font-weight:bold;text-anchor:middle;dominant-baseline:central", fontFamily, sc.TitleSize)
	for i, s := range sc.Title {
		y := top + sc.TitleSize*1.3*(float64(i)+0.5)
		c.Text(sc.Width/2, px(y), s, style)
	}
}

func legend(c *svgo.SVG, lg *render.Legend) {
	pad := lg.FontSize * 0.6
	swatch := lg.FontSize * 0.5
	rowH := lg.FontSize * 1.6

	var textW float64
	for _, e := range lg.Entries {
		textW = math.Max(textW, textWidth(e.Label, lg.FontSize))
	}
	w := pad + 2*swatch + pad + textW + pad
	h := pad + rowH*float64(len(lg.Entries)) + pad
	x, y := lg.TopRight.X-w, lg.TopRight.Y

	c.Roundrect(px(x), px(y), px(w), px(h), px(pad/2), px(pad/2), "fill:#ffffff;fill-opacity:0.8;stroke:#cccccc")
	style := fmt.Sprintf("%s;font-size:%.1fpx;dominant-baseline:central", fontFamily, lg.FontSize)
	for i, e := range lg.Entries {
		cy := y + pad + rowH*(float64(i)+0.5)
		c.Circle(px(x+pad+swatch), px(cy), px(swatch), "fill:"+hex(e.Color))
		c.Text(px(x+pad+2*swatch+pad), px(cy), e.Label, style)
	}
}

func colorbar(c *svgo.SVG, cb *render.Colorbar) {
	x0, y0 := cb.TopLeft.X, cb.TopLeft.Y
	w, h := cb.BottomRight.X-x0, cb.BottomRight.Y-y0

	stops := make([]svgo.Offcolor, len(cb.Steps))
	for i, col := range cb.Steps {
		// Gradient runs top to bottom; steps run bottom to top.
		off := 100 * float64(i) / float64(len(cb.Steps)-1)
		stops[len(cb.Steps)-1-i] = svgo.Offcolor{Offset: uint8(math.Round(100 - off)), Color: hex(col), Opacity: 1}
	}
	c.Def()
	c.LinearGradient("foldchange", 0, 0, 0, 100, stops)
	c.DefEnd()

	c.Rect(px(x0), px(y0), px(w), px(h), "fill:url(#foldchange);stroke:#000000;stroke-width:1")

	tick := cb.FontSize * 0.4
	style := fmt.Sprintf("%s;font-size:%.1fpx;dominant-baseline:central", fontFamily, cb.FontSize)
	for _, t := range cb.Ticks {
		c.Line(px(x0+w), px(t.Y), px(x0+w+tick), px(t.Y), "stroke:#000000;stroke-width:1")
		c.Text(px(x0+w+2*tick), px(t.Y), t.Text, style)
	}

	lx, ly := px(x0+w+cb.FontSize*3.5), px(y0+h/2)
	c.Gtransform(fmt.Sprintf("rotate(-90 %d %d)", lx, ly))
	c.Text(lx, ly, cb.Label, style+";text-anchor:middle")
	c.Gend()
}
