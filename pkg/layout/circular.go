package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gemdiff/perturbviz/pkg/network"
)

// circular places node i at angle 2πi/n on the unit circle, so the first
// inserted node sits at (1, 0) and the rest follow counter-clockwise.
// A single node sits at the origin.
func circular(g *network.Graph) Positions {
	n := g.NodeCount()
	vs := make([]r2.Vec, n)
	if n > 1 {
		for i := range vs {
			theta := 2 * math.Pi * float64(i) / float64(n)
			vs[i] = r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
		}
	}
	return toPositions(g, vs)
}
