// Package layout computes 2-D coordinates for every node of a gene network.
//
// # Algorithms
//
//   - [Spring]: Fruchterman-Reingold force-directed layout (default). Initial
//     positions come from a seeded generator and the iteration count is
//     fixed, so the result is a pure function of graph and seed.
//   - [KamadaKawai]: stress minimization over graph-theoretic distances,
//     solved with gonum's L-BFGS.
//   - [Circular]: nodes evenly spaced on the unit circle in insertion order.
//   - [Spectral]: coordinates from the second and third eigenvectors of the
//     graph Laplacian.
//
// # Fallback
//
// Kamada-Kawai and spectral layouts can fail numerically (non-convergence,
// non-finite coordinates, disconnected input for spectral). [Compute] then
// falls back to [Spring] with the same seed and reports the fallback in
// [Result]; it never returns an error for a known algorithm.
//
// Coordinates have no guaranteed scale or origin. The force-directed,
// Kamada-Kawai and spectral layouts are centered and scaled into [-1, 1]
// but callers should fit positions to their canvas themselves.
package layout

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gemdiff/perturbviz/pkg/network"
)

// Algorithm names a layout algorithm.
type Algorithm string

// Supported algorithms.
const (
	Spring      Algorithm = "spring"
	KamadaKawai Algorithm = "kamada_kawai"
	Circular    Algorithm = "circular"
	Spectral    Algorithm = "spectral"
)

// DefaultSeed matches the seed used for published figures so reruns
// reproduce them.
const DefaultSeed uint64 = 42

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{Spring, KamadaKawai, Circular, Spectral}

// Parse converts a user-supplied name to an Algorithm. Hyphens are
// accepted in place of underscores and case is ignored.
func Parse(name string) (Algorithm, error) {
	norm := Algorithm(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, a := range Algorithms {
		if a == norm {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown layout %q (must be one of: spring, kamada_kawai, circular, spectral)", name)
}

// Positions maps each gene to its coordinate.
type Positions map[string]r2.Vec

// Bounds returns the bounding box of all positions. An empty map yields
// zero vectors.
func (p Positions) Bounds() (lo, hi r2.Vec) {
	first := true
	for _, v := range p {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		lo.X, lo.Y = math.Min(lo.X, v.X), math.Min(lo.Y, v.Y)
		hi.X, hi.Y = math.Max(hi.X, v.X), math.Max(hi.Y, v.Y)
	}
	return lo, hi
}

// Result describes how a layout was produced.
type Result struct {
	Requested Algorithm
	Used      Algorithm
	FellBack  bool
	Reason    string // why the requested algorithm failed
}

// Compute lays out g with the given algorithm. Every node of g receives
// exactly one coordinate. An error is returned only for an unknown
// algorithm.
func Compute(g *network.Graph, alg Algorithm, seed uint64) (Positions, Result, error) {
	res := Result{Requested: alg, Used: alg}

	var (
		pos Positions
		err error
	)
	switch alg {
	case Spring:
		pos = spring(g, seed, springIterations, springK)
	case Circular:
		pos = circular(g)
	case KamadaKawai:
		pos, err = kamadaKawai(g)
	case Spectral:
		pos, err = spectral(g)
	default:
		return nil, res, fmt.Errorf("unknown layout %q", alg)
	}

	if err != nil {
		res.Used = Spring
		res.FellBack = true
		res.Reason = err.Error()
		pos = spring(g, seed, springIterations, springK)
	}
	return pos, res, nil
}

// rescale centers coordinates on their mean and scales them so the largest
// absolute coordinate is 1.
func rescale(vs []r2.Vec) {
	if len(vs) == 0 {
		return
	}
	var mean r2.Vec
	for _, v := range vs {
		mean = r2.Add(mean, v)
	}
	mean = r2.Scale(1/float64(len(vs)), mean)

	lim := 0.0
	for i := range vs {
		vs[i] = r2.Sub(vs[i], mean)
		lim = math.Max(lim, math.Max(math.Abs(vs[i].X), math.Abs(vs[i].Y)))
	}
	if lim > 0 {
		for i := range vs {
			vs[i] = r2.Scale(1/lim, vs[i])
		}
	}
}

func finite(vs []r2.Vec) bool {
	for _, v := range vs {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return false
		}
	}
	return true
}

func toPositions(g *network.Graph, vs []r2.Vec) Positions {
	pos := make(Positions, len(vs))
	for i, name := range g.Nodes() {
		pos[name] = vs[i]
	}
	return pos
}
