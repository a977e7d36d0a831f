package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/colormap"
	"github.com/gemdiff/perturbviz/pkg/labels"
	"github.com/gemdiff/perturbviz/pkg/layout"
	"github.com/gemdiff/perturbviz/pkg/network"
)

// Default figure settings.
const (
	DefaultWidth    = 12.0  // inches
	DefaultHeight   = 10.0  // inches
	DefaultDPI      = 300   // pixels per inch
	DefaultNodeSize = 100.0 // marker area in pt²
)

const (
	PrimaryTitle  = "GEMDiff Perturbed Gene Network Visualization"
	DetailedTitle = "Gene Expression Network - Detailed View with Labels"
	ColorbarLabel = "log2 Fold Change"
)

// Options configures figure geometry.
type Options struct {
	Width    float64 // inches
	Height   float64 // inches
	DPI      int
	NodeSize float64 // marker area in pt², scaled per category
}

// DefaultOptions returns the default figure settings.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, DPI: DefaultDPI, NodeSize: DefaultNodeSize}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.NodeSize <= 0 {
		o.NodeSize = d.NodeSize
	}
	return o
}

// Input is everything a view needs.
type Input struct {
	Graph      *network.Graph
	Categories annotate.Categories
	Folds      annotate.FoldChanges
	Positions  layout.Positions
	Labels     []labels.Label
}

// Scene is a fully positioned figure. All coordinates and sizes are in
// pixels with the origin at the top-left corner.
type Scene struct {
	Width, Height int
	PxPerPt       float64

	Title     []string
	TitleSize float64

	Edges      []Line
	Nodes      []Marker
	Connectors []Line
	Labels     []Text
	Legend     *Legend
	Colorbar   *Colorbar
}

// Line is a straight stroke. Source and Target name the genes at its
// ends; a label connector has no Target.
type Line struct {
	From, To       r2.Vec
	Source, Target string
	Color          colorful.Color
	Alpha          float64
	Width          float64
}

// Marker is a filled circle for one gene.
type Marker struct {
	Gene         string
	Category     annotate.Category
	At           r2.Vec
	Radius       float64
	Fill         colorful.Color
	Alpha        float64
	OutlineWidth float64 // zero for no outline; outlines are black
}

// Text is a bold, centered, possibly multi-line label on a rounded white
// box with a grey border.
type Text struct {
	At       r2.Vec
	Lines    []string
	FontSize float64
	BoxAlpha float64
	Padding  float64
}

// Legend is anchored by its top-right corner.
type Legend struct {
	TopRight r2.Vec
	FontSize float64
	Entries  []LegendEntry
}

// LegendEntry is one legend row with a circular swatch.
type LegendEntry struct {
	Label string
	Color colorful.Color
}

// Colorbar is a vertical gradient with tick labels on its right.
type Colorbar struct {
	TopLeft     r2.Vec
	BottomRight r2.Vec
	Label       string
	FontSize    float64
	Steps       []colorful.Color // bottom to top
	Ticks       []Tick
	Low, High   float64 // value domain
}

// Tick is one colorbar tick.
type Tick struct {
	Y    float64
	Text string
}

// style holds per-view drawing parameters.
type style struct {
	title     []string
	edgeAlpha float64
	edgeWidth float64 // pt
	sizes     map[annotate.Category]float64
	alphas    map[annotate.Category]float64
	outline   float64 // perturbed outline width in pt
	scaleFill bool    // colour perturbed nodes by fold change
	labelSize float64 // pt
	boxAlpha  float64
	boxPad    float64 // pt
	legend    bool
}

// drawOrder puts important genes on top of the background.
var drawOrder = []annotate.Category{annotate.Other, annotate.Down, annotate.Up, annotate.Perturbed}

// Primary builds the main figure.
func Primary(in Input, opts Options) *Scene {
	opts = opts.withDefaults()
	counts := in.Categories.Count()
	return build(in, opts, style{
		title:     []string{PrimaryTitle, summary(counts, in.Graph.EdgeCount())},
		edgeAlpha: 0.3,
		edgeWidth: 0.8,
		sizes: map[annotate.Category]float64{
			annotate.Other:     opts.NodeSize / 2,
			annotate.Down:      opts.NodeSize,
			annotate.Up:        opts.NodeSize,
			annotate.Perturbed: opts.NodeSize * 1.5,
		},
		alphas: map[annotate.Category]float64{
			annotate.Other:     0.5,
			annotate.Down:      0.8,
			annotate.Up:        0.8,
			annotate.Perturbed: 1,
		},
		outline:   1,
		scaleFill: true,
		labelSize: 8,
		boxAlpha:  0.7,
		boxPad:    0.3 * 8,
		legend:    true,
	})
}

// Detailed builds the labeled figure of important genes.
func Detailed(in Input, opts Options) *Scene {
	opts = opts.withDefaults()
	return build(in, opts, style{
		title:     []string{DetailedTitle},
		edgeAlpha: 0.2,
		edgeWidth: 0.6,
		sizes: map[annotate.Category]float64{
			annotate.Other:     opts.NodeSize / 3,
			annotate.Down:      opts.NodeSize / 1.5,
			annotate.Up:        opts.NodeSize / 1.5,
			annotate.Perturbed: opts.NodeSize,
		},
		alphas: map[annotate.Category]float64{
			annotate.Other:     0.4,
			annotate.Down:      0.6,
			annotate.Up:        0.6,
			annotate.Perturbed: 0.8,
		},
		labelSize: 9,
		boxAlpha:  0.8,
		boxPad:    0.2 * 9,
	})
}

// summary formats the subtitle, listing only non-empty categories.
func summary(counts map[annotate.Category]int, edges int) string {
	names := map[annotate.Category]string{
		annotate.Perturbed: "perturbed",
		annotate.Up:        "upregulated",
		annotate.Down:      "downregulated",
		annotate.Other:     "other",
	}
	var parts []string
	for _, c := range annotate.AllCategories {
		if counts[c] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[c], names[c]))
		}
	}
	return fmt.Sprintf("(%s genes, %d interactions)", strings.Join(parts, ", "), edges)
}

func build(in Input, opts Options, st style) *Scene {
	dpi := float64(opts.DPI)
	pt := dpi / 72
	w := int(math.Round(opts.Width * dpi))
	h := int(math.Round(opts.Height * dpi))

	sc := &Scene{
		Width:     w,
		Height:    h,
		PxPerPt:   pt,
		Title:     st.title,
		TitleSize: 14 * pt,
	}

	scale, hasScale := colormap.ForCategory(in.Graph, in.Categories, in.Folds, annotate.Perturbed)

	margin := 0.03 * math.Min(float64(w), float64(h))
	top := margin + float64(len(st.title))*sc.TitleSize*1.3 + margin/2
	right := float64(w) - margin
	if hasScale {
		right -= 0.02*float64(w) + 60*pt
	}
	maxR := markerRadius(st.sizes[annotate.Perturbed], pt)
	plot := rect{
		min: r2.Vec{X: margin + maxR, Y: top + maxR},
		max: r2.Vec{X: right - maxR, Y: float64(h) - margin - maxR},
	}
	tf := fit(in.Positions, in.Labels, plot)

	for _, e := range in.Graph.Edges() {
		sc.Edges = append(sc.Edges, Line{
			From:   tf.apply(in.Positions[e.Source]),
			To:     tf.apply(in.Positions[e.Target]),
			Source: e.Source,
			Target: e.Target,
			Color:  colormap.EdgeColor,
			Alpha:  st.edgeAlpha,
			Width:  st.edgeWidth * pt,
		})
	}

	for _, cat := range drawOrder {
		for _, gene := range in.Categories.Nodes(in.Graph, cat) {
			m := Marker{
				Gene:     gene,
				Category: cat,
				At:       tf.apply(in.Positions[gene]),
				Radius:   markerRadius(st.sizes[cat], pt),
				Fill:     colormap.Flat(cat),
				Alpha:    st.alphas[cat],
			}
			if cat == annotate.Perturbed {
				m.OutlineWidth = st.outline * pt
				if fc, ok := in.Folds.Get(gene); ok && st.scaleFill && hasScale {
					m.Fill = scale.At(fc)
				}
			}
			sc.Nodes = append(sc.Nodes, m)
		}
	}

	for _, l := range in.Labels {
		from, to := tf.apply(l.Anchor), tf.apply(l.At)
		sc.Connectors = append(sc.Connectors, Line{
			From:   from,
			To:     to,
			Source: l.Gene,
			Alpha:  0.6,
			Width:  0.5 * pt,
		})
		sc.Labels = append(sc.Labels, Text{
			At:       to,
			Lines:    strings.Split(l.Text, "\n"),
			FontSize: st.labelSize * pt,
			BoxAlpha: st.boxAlpha,
			Padding:  st.boxPad * pt,
		})
	}

	if st.legend {
		sc.Legend = legend(in, r2.Vec{X: right, Y: top}, 10*pt)
	}
	if hasScale {
		x := right + 12*pt
		sc.Colorbar = colorbar(scale, rect{
			min: r2.Vec{X: x, Y: top},
			max: r2.Vec{X: x + 0.02*float64(w), Y: float64(h) - margin},
		}, 10*pt)
	}
	return sc
}

func legend(in Input, topRight r2.Vec, size float64) *Legend {
	counts := in.Categories.Count()
	lg := &Legend{TopRight: topRight, FontSize: size}
	for _, c := range annotate.AllCategories {
		if counts[c] == 0 {
			continue
		}
		lg.Entries = append(lg.Entries, LegendEntry{
			Label: fmt.Sprintf("%s (%d)", c.Label(), counts[c]),
			Color: colormap.Flat(c),
		})
	}
	if len(lg.Entries) == 0 {
		return nil
	}
	return lg
}

const colorbarSteps = 64

func colorbar(s colormap.Scale, r rect, size float64) *Colorbar {
	cb := &Colorbar{
		TopLeft:     r.min,
		BottomRight: r.max,
		Label:       ColorbarLabel,
		FontSize:    size,
		Steps:       s.Samples(colorbarSteps),
		Low:         s.Min,
		High:        s.Max,
	}
	span := s.Max - s.Min
	for _, v := range Ticks(s.Min, s.Max) {
		y := r.max.Y - (v-s.Min)/span*(r.max.Y-r.min.Y)
		cb.Ticks = append(cb.Ticks, Tick{Y: y, Text: formatTick(v, s.Min, s.Max)})
	}
	return cb
}

// markerRadius converts a marker area in pt² to a radius in pixels.
func markerRadius(area, pxPerPt float64) float64 {
	return math.Sqrt(area) / 2 * pxPerPt
}

type rect struct{ min, max r2.Vec }

// transform maps layout coordinates into a pixel rectangle. The y axis is
// flipped so larger layout y is drawn higher.
type transform struct {
	lo     r2.Vec
	span   r2.Vec
	target rect
}

func fit(pos layout.Positions, ls []labels.Label, target rect) transform {
	lo, hi := pos.Bounds()
	for _, l := range ls {
		lo.X, lo.Y = math.Min(lo.X, l.At.X), math.Min(lo.Y, l.At.Y)
		hi.X, hi.Y = math.Max(hi.X, l.At.X), math.Max(hi.Y, l.At.Y)
	}
	span := r2.Sub(hi, lo)
	if span.X <= 0 {
		lo.X -= 0.5
		span.X = 1
	}
	if span.Y <= 0 {
		lo.Y -= 0.5
		span.Y = 1
	}
	return transform{lo: lo, span: span, target: target}
}

func (t transform) apply(p r2.Vec) r2.Vec {
	w := t.target.max.X - t.target.min.X
	h := t.target.max.Y - t.target.min.Y
	return r2.Vec{
		X: t.target.min.X + (p.X-t.lo.X)/t.span.X*w,
		Y: t.target.max.Y - (p.Y-t.lo.Y)/t.span.Y*h,
	}
}

// Ticks returns round tick values within [lo, hi], about five of them.
func Ticks(lo, hi float64) []float64 {
	if !(hi > lo) {
		return []float64{lo}
	}
	step := niceStep((hi - lo) / 5)
	var out []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		out = append(out, math.Round(v/step)*step)
	}
	return out
}

func niceStep(raw float64) float64 {
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*exp >= raw {
			return m * exp
		}
	}
	return 10 * exp
}

// formatTick prints v with just enough decimals to distinguish ticks.
func formatTick(v, lo, hi float64) string {
	step := niceStep((hi - lo) / 5)
	decimals := 0
	for decimals < 6 {
		scaled := step * math.Pow(10, float64(decimals))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			break
		}
		decimals++
	}
	if math.Abs(v) < step*1e-9 {
		v = 0
	}
	return fmt.Sprintf("%.*f", decimals, v)
}
