// Package colormap maps log2 fold changes to colours.
//
// Fold changes use a diverging red-blue scale (blue for negative, near-white
// for zero, red for positive). The scale is two-slope: zero always maps to the
// neutral midpoint, and each half of the domain is stretched independently,
// so an asymmetric domain such as [-1, 4] still renders zero as white.
//
// Categories without fold-change data use flat colours from [Flat].
package colormap

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/network"
)

// stops is the ColorBrewer RdBu 11-class palette, reversed so low values
// are blue.
var stops = mustParse(
	"#053061", "#2166ac", "#4393c3", "#92c5de", "#d1e5f0",
	"#f7f7f7",
	"#fddbc7", "#f4a582", "#d6604d", "#b2182b", "#67001f",
)

// Flat category colours.
var (
	PerturbedColor = colorful.Color{R: 0.5019607843137255, G: 0, B: 0.5019607843137255} // purple
	UpColor        = colorful.Color{R: 1, G: 0, B: 0}
	DownColor      = colorful.Color{R: 0, G: 0, B: 1}
	OtherColor     = colorful.Color{R: 0.8274509803921568, G: 0.8274509803921568, B: 0.8274509803921568} // lightgray
	EdgeColor      = colorful.Color{R: 0.5019607843137255, G: 0.5019607843137255, B: 0.5019607843137255} // gray
)

func mustParse(hexes ...string) []colorful.Color {
	out := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// Domain returns the colour domain for a set of fold changes: the data
// range widened to include at least [-1, 1]. NaN values are ignored.
func Domain(values []float64) (vmin, vmax float64) {
	vmin, vmax = -1, 1
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		vmin = math.Min(vmin, v)
		vmax = math.Max(vmax, v)
	}
	return vmin, vmax
}

// Color maps v onto the diverging scale over [vmin, vmax] with zero at the
// centre. vmin must be negative and vmax positive, as [Domain] guarantees.
// Values outside the domain are clamped; NaN maps to the neutral midpoint.
func Color(v, vmin, vmax float64) colorful.Color {
	if math.IsNaN(v) {
		return stops[len(stops)/2]
	}
	var t float64
	switch {
	case v < 0:
		t = 0.5 * (math.Max(v, vmin) - vmin) / -vmin
	default:
		t = 0.5 + 0.5*math.Min(v, vmax)/vmax
	}
	return interpolate(t)
}

// interpolate blends between neighbouring stops in Lab space, t in [0, 1].
func interpolate(t float64) colorful.Color {
	pos := t * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i < 0 {
		return stops[0]
	}
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	frac := pos - float64(i)
	if frac == 0 {
		return stops[i]
	}
	return stops[i].BlendLab(stops[i+1], frac).Clamped()
}

// Flat returns the fixed colour of a category.
func Flat(cat annotate.Category) colorful.Color {
	switch cat {
	case annotate.Perturbed:
		return PerturbedColor
	case annotate.Up:
		return UpColor
	case annotate.Down:
		return DownColor
	default:
		return OtherColor
	}
}

// Scale is a fold-change colour scale over a fixed domain.
type Scale struct {
	Min float64
	Max float64
}

// NewScale builds a scale whose domain covers values.
func NewScale(values []float64) Scale {
	lo, hi := Domain(values)
	return Scale{Min: lo, Max: hi}
}

// At returns the colour of v.
func (s Scale) At(v float64) colorful.Color { return Color(v, s.Min, s.Max) }

// Samples returns n colours evenly spaced from Min to Max, for drawing a
// colorbar.
func (s Scale) Samples(n int) []colorful.Color {
	if n < 2 {
		n = 2
	}
	out := make([]colorful.Color, n)
	for i := range out {
		v := s.Min + (s.Max-s.Min)*float64(i)/float64(n-1)
		out[i] = s.At(v)
	}
	return out
}

// ForCategory returns the fold-change scale for the nodes of one category.
// ok is false when none of them has a fold change; such a category is drawn
// in its [Flat] colour without a colorbar.
func ForCategory(g *network.Graph, cats annotate.Categories, folds annotate.FoldChanges, cat annotate.Category) (s Scale, ok bool) {
	values := folds.Values(cats.Nodes(g, cat))
	if len(values) == 0 {
		return Scale{}, false
	}
	return NewScale(values), true
}
