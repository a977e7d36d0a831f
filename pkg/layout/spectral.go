package layout

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gemdiff/perturbviz/pkg/network"
)

// spectral embeds the graph with the eigenvectors of the two smallest
// non-zero eigenvalues of the combinatorial Laplacian L = D - A.
// Disconnected graphs are rejected: their Laplacian has a repeated zero
// eigenvalue and the embedding collapses whole components to a point.
func spectral(g *network.Graph) (Positions, error) {
	n := g.NodeCount()
	switch n {
	case 0, 1:
		return circular(g), nil
	case 2:
		return toPositions(g, []r2.Vec{{X: -1}, {X: 1}}), nil
	}

	if cc := topo.ConnectedComponents(g.Undirected()); len(cc) > 1 {
		return nil, fmt.Errorf("spectral: graph is disconnected (%d components)", len(cc))
	}

	adj := adjacency(g)
	lap := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		deg := 0.0
		for j := 0; j < n; j++ {
			if adj[i][j] {
				lap.SetSym(i, j, -1)
				deg++
			}
		}
		lap.SetSym(i, i, deg)
	}

	var es mat.EigenSym
	if !es.Factorize(lap, true) {
		return nil, errors.New("spectral: eigendecomposition failed")
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// Eigenvalues come back in ascending order; column 0 is the constant
	// vector of the zero eigenvalue.
	vs := make([]r2.Vec, n)
	for i := range vs {
		vs[i] = r2.Vec{X: vecs.At(i, 1), Y: vecs.At(i, 2)}
	}
	if !finite(vs) {
		return nil, errors.New("spectral: non-finite coordinates")
	}
	lo, hi := bounds(vs)
	if lo == hi {
		return nil, errors.New("spectral: degenerate embedding")
	}

	rescale(vs)
	return toPositions(g, vs), nil
}
