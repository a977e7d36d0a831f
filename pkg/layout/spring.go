package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gemdiff/perturbviz/pkg/network"
)

const (
	springIterations = 50
	springK          = 0.3 // optimal node distance

	minDistance = 0.01 // clamp to avoid division blow-up for coincident nodes
)

// spring runs the Fruchterman-Reingold algorithm. Initial positions are
// uniform in the unit square from a PCG generator seeded with seed. The
// temperature starts at a tenth of the initial spread and cools linearly
// to zero over the iterations.
func spring(g *network.Graph, seed uint64, iterations int, k float64) Positions {
	n := g.NodeCount()
	vs := make([]r2.Vec, n)
	if n == 0 {
		return Positions{}
	}
	if n == 1 {
		return toPositions(g, vs)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	for i := range vs {
		vs[i] = r2.Vec{X: rng.Float64(), Y: rng.Float64()}
	}

	adj := adjacency(g)

	lo, hi := bounds(vs)
	t := math.Max(hi.X-lo.X, hi.Y-lo.Y) * 0.1
	dt := t / float64(iterations+1)

	disp := make([]r2.Vec, n)
	for range iterations {
		for i := range disp {
			disp[i] = r2.Vec{}
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				delta := r2.Sub(vs[i], vs[j])
				d := math.Max(r2.Norm(delta), minDistance)
				f := k * k / (d * d)
				if adj[i][j] {
					f -= d / k
				}
				disp[i] = r2.Add(disp[i], r2.Scale(f, delta))
			}
		}
		for i := range vs {
			l := math.Max(r2.Norm(disp[i]), minDistance)
			vs[i] = r2.Add(vs[i], r2.Scale(t/l, disp[i]))
		}
		t -= dt
	}

	rescale(vs)
	return toPositions(g, vs)
}

// adjacency returns a dense boolean adjacency matrix indexed by node ID.
func adjacency(g *network.Graph) [][]bool {
	n := g.NodeCount()
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for _, e := range g.Edges() {
		u, _ := g.ID(e.Source)
		v, _ := g.ID(e.Target)
		adj[u][v] = true
		adj[v][u] = true
	}
	return adj
}

func bounds(vs []r2.Vec) (lo, hi r2.Vec) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo.X, lo.Y = math.Min(lo.X, v.X), math.Min(lo.Y, v.Y)
		hi.X, hi.Y = math.Max(hi.X, v.X), math.Max(hi.Y, v.Y)
	}
	return lo, hi
}
