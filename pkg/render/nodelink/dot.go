package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gemdiff/perturbviz/pkg/render"
)

// ToDOT converts a scene to Graphviz DOT. Every node carries a pinned
// pos attribute in points, so neato reproduces the scene's layout instead
// of computing its own. Labels become pinned box nodes joined to their gene
// by a connector edge.
func ToDOT(sc *render.Scene) string {
	pt := sc.PxPerPt
	if pt <= 0 {
		pt = 1
	}
	pos := func(x, y float64) string {
		return fmt.Sprintf("%.2f,%.2f!", x/pt, (float64(sc.Height)-y)/pt)
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=white;\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%.2f,%.2f\";\n", float64(sc.Width)/pt, float64(sc.Height)/pt)
	if len(sc.Title) > 0 {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=%.1f;\n  fontname=\"Helvetica-Bold\";\n",
			strings.Join(sc.Title, "\n"), sc.TitleSize/pt)
	}
	buf.WriteString("  node [label=\"\", shape=circle, fixedsize=true, style=filled, penwidth=0];\n")
	buf.WriteString("\n")

	for _, m := range sc.Nodes {
		attrs := []string{
			fmt.Sprintf("pos=%q", pos(m.At.X, m.At.Y)),
			fmt.Sprintf("width=%.4f", 2*m.Radius/pt/72),
			fmt.Sprintf("fillcolor=%q", rgba(m.Fill, m.Alpha)),
			fmt.Sprintf("tooltip=%q", m.Gene),
		}
		if m.OutlineWidth > 0 {
			attrs = append(attrs, "color=black", fmt.Sprintf("penwidth=%.2f", m.OutlineWidth/pt))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", m.Gene, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, t := range sc.Labels {
		fmt.Fprintf(&buf, "  \"label:%d\" [shape=box, style=\"rounded,filled\", fixedsize=false, fillcolor=%q, color=gray, penwidth=1, fontname=\"Helvetica-Bold\", fontsize=%.1f, margin=\"0.04,0.02\", label=%q, pos=%q];\n",
			i, rgba(colorful.Color{R: 1, G: 1, B: 1}, t.BoxAlpha), t.FontSize/pt, strings.Join(t.Lines, "\n"), pos(t.At.X, t.At.Y))
	}

	if sc.Legend != nil {
		buf.WriteString(legendNode(sc.Legend, pos))
	}

	buf.WriteString("\n")
	for _, e := range sc.Edges {
		fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=%.2f];\n", e.Source, e.Target, rgba(e.Color, e.Alpha), e.Width/pt)
	}
	for i, c := range sc.Connectors {
		fmt.Fprintf(&buf, "  %q -- \"label:%d\" [color=%q, penwidth=%.2f];\n", c.Source, i, rgba(c.Color, c.Alpha), c.Width/pt)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func legendNode(lg *render.Legend, pos func(x, y float64) string) string {
	var rows strings.Builder
	for _, e := range lg.Entries {
		fmt.Fprintf(&rows, "<TR><TD WIDTH=\"10\" HEIGHT=\"10\" FIXEDSIZE=\"TRUE\" BGCOLOR=%q></TD><TD ALIGN=\"LEFT\">%s</TD></TR>",
			e.Color.Hex(), html.EscapeString(e.Label))
	}
	// Anchor the legend's centre roughly one box-width left of the corner.
	x := lg.TopRight.X - lg.FontSize*8
	y := lg.TopRight.Y + lg.FontSize*float64(len(lg.Entries))
	return fmt.Sprintf("  legend [shape=box, style=\"rounded,filled\", fillcolor=white, color=\"#cccccc\", fixedsize=false, fontname=Helvetica, margin=0, label=<<TABLE BORDER=\"0\" CELLSPACING=\"4\">%s</TABLE>>, pos=%q];\n",
		rows.String(), pos(x, y))
}

func rgba(c colorful.Color, alpha float64) string {
	a := uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return fmt.Sprintf("%s%02x", c.Clamped().Hex(), a)
}

// RenderSVG renders DOT source to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT source to PNG with the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
