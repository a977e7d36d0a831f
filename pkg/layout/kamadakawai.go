package layout

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gemdiff/perturbviz/pkg/network"
)

const (
	kkMaxIterations = 500
	kkUnreachable   = 1e6  // target distance between disconnected nodes
	kkMeanWeight    = 1e-3 // pulls the centroid toward the origin
	kkDiagonal      = 1e-3 // keeps the inverse-distance diagonal finite
)

var errKKNoProgress = errors.New("kamada-kawai: optimizer made no progress")

// kamadaKawai minimizes the stress between Euclidean and shortest-path
// distances, starting from the circular layout. The optimizer result is
// accepted if it is finite and no worse than the start; anything else is
// reported as a failure so the caller can fall back.
func kamadaKawai(g *network.Graph) (Positions, error) {
	n := g.NodeCount()
	if n <= 1 {
		return circular(g), nil
	}

	dist := shortestPaths(g)
	stress := newStress(dist)

	start := circular(g)
	x0 := make([]float64, 2*n)
	for i, name := range g.Nodes() {
		x0[2*i], x0[2*i+1] = start[name].X, start[name].Y
	}

	res, err := optimize.Minimize(optimize.Problem{
		Func: stress.cost,
		Grad: stress.grad,
	}, x0, &optimize.Settings{MajorIterations: kkMaxIterations}, &optimize.LBFGS{})
	if res == nil {
		if err == nil {
			err = errKKNoProgress
		}
		return nil, fmt.Errorf("kamada-kawai: %w", err)
	}

	vs := make([]r2.Vec, n)
	for i := range vs {
		vs[i] = r2.Vec{X: res.X[2*i], Y: res.X[2*i+1]}
	}
	if !finite(vs) {
		return nil, errors.New("kamada-kawai: non-finite coordinates")
	}
	if err != nil && res.F > stress.cost(x0) {
		return nil, fmt.Errorf("kamada-kawai: %w", err)
	}

	rescale(vs)
	return toPositions(g, vs), nil
}

// shortestPaths returns the all-pairs hop distance matrix with unreachable
// pairs set to kkUnreachable.
func shortestPaths(g *network.Graph) [][]float64 {
	n := g.NodeCount()
	all := path.DijkstraAllPaths(g.Undirected())

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i == j {
				continue
			}
			d := all.Weight(int64(i), int64(j))
			if math.IsInf(d, 0) || math.IsNaN(d) {
				d = kkUnreachable
			}
			dist[i][j] = d
		}
	}
	return dist
}

// stress holds the precomputed inverse target distances. Positions are
// packed as x0, y0, x1, y1, ...
type stress struct {
	n      int
	invDst [][]float64
}

func newStress(dist [][]float64) *stress {
	n := len(dist)
	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		for j := range inv[i] {
			d := dist[i][j]
			if i == j {
				d += kkDiagonal
			}
			inv[i][j] = 1 / d
		}
	}
	return &stress{n: n, invDst: inv}
}

func (s *stress) cost(x []float64) float64 {
	var c, sx, sy float64
	for i := 0; i < s.n; i++ {
		sx += x[2*i]
		sy += x[2*i+1]
		for j := 0; j < s.n; j++ {
			if i == j {
				continue
			}
			dx, dy := x[2*i]-x[2*j], x[2*i+1]-x[2*j+1]
			off := math.Hypot(dx, dy)*s.invDst[i][j] - 1
			c += off * off
		}
	}
	return 0.5*c + 0.5*kkMeanWeight*(sx*sx+sy*sy)
}

func (s *stress) grad(grad, x []float64) {
	var sx, sy float64
	for i := 0; i < s.n; i++ {
		sx += x[2*i]
		sy += x[2*i+1]
	}
	for i := 0; i < s.n; i++ {
		var gx, gy float64
		for j := 0; j < s.n; j++ {
			if i == j {
				continue
			}
			dx, dy := x[2*i]-x[2*j], x[2*i+1]-x[2*j+1]
			d := math.Hypot(dx, dy)
			if d == 0 {
				continue
			}
			off := d*s.invDst[i][j] - 1
			w := 2 * s.invDst[i][j] * off / d
			gx += w * dx
			gy += w * dy
		}
		grad[2*i] = gx + kkMeanWeight*sx
		grad[2*i+1] = gy + kkMeanWeight*sy
	}
}
