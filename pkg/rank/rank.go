// Package rank builds the table of important genes with their network
// centrality.
//
// One row is produced for each perturbed, up or down gene. Rows are grouped
// by category name in lexical order ("down", "perturbed", "up"). Within a
// group, rows are ordered by fold change descending with unknown values last
// when any gene in the table has a fold change, and by degree centrality
// descending otherwise. Remaining ties keep graph order.
package rank

import (
	"cmp"
	"encoding/csv"
	"io"
	"math"
	"slices"
	"strconv"

	gnetwork "gonum.org/v1/gonum/graph/network"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/network"
)

// Header is the CSV header written by [WriteCSV].
var Header = []string{"Gene", "Category", "Degree", "Centrality", "Betweenness", "log2FC"}

// Row is one important gene.
type Row struct {
	Gene        string
	Category    annotate.Category
	Degree      int
	Centrality  float64 // degree / (n-1)
	Betweenness float64 // normalized to [0, 1]
	Log2FC      float64
	HasLog2FC   bool
}

// Build returns the ranked rows for the important genes of g.
func Build(g *network.Graph, cats annotate.Categories, folds annotate.FoldChanges) []Row {
	n := g.NodeCount()
	between := Betweenness(g)

	var rows []Row
	for _, gene := range g.Nodes() {
		cat := cats[gene]
		if !cat.Important() {
			continue
		}
		deg := g.Degree(gene)
		r := Row{
			Gene:        gene,
			Category:    cat,
			Degree:      deg,
			Centrality:  DegreeCentrality(deg, n),
			Betweenness: between[gene],
		}
		r.Log2FC, r.HasLog2FC = folds.Get(gene)
		rows = append(rows, r)
	}
	Sort(rows)
	return rows
}

// DegreeCentrality is deg/(n-1), or 1 for graphs of at most one node.
func DegreeCentrality(deg, n int) float64 {
	if n <= 1 {
		return 1
	}
	return float64(deg) / float64(n-1)
}

// Betweenness returns the normalized betweenness centrality of every node.
// Nodes that lie on no shortest path are present with value 0.
func Betweenness(g *network.Graph) map[string]float64 {
	n := g.NodeCount()
	out := make(map[string]float64, n)
	for _, gene := range g.Nodes() {
		out[gene] = 0
	}
	if n < 3 {
		return out
	}

	// gonum sums over ordered (s, t) pairs, which counts each undirected
	// path twice; dividing by (n-1)(n-2) yields the normalized score.
	scale := 1 / float64((n-1)*(n-2))
	for id, v := range gnetwork.Betweenness(g.Undirected()) {
		out[g.Name(id)] = v * scale
	}
	return out
}

// Sort orders rows in place. See the package documentation.
func Sort(rows []Row) {
	byFC := slices.ContainsFunc(rows, func(r Row) bool { return r.HasLog2FC })
	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		if !byFC {
			return cmp.Compare(b.Centrality, a.Centrality)
		}
		switch {
		case a.HasLog2FC && !b.HasLog2FC:
			return -1
		case !a.HasLog2FC && b.HasLog2FC:
			return 1
		case !a.HasLog2FC:
			return 0
		}
		return cmp.Compare(b.Log2FC, a.Log2FC)
	})
}

// WriteCSV writes rows with [Header]. Unknown fold changes are written as NA.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		fc := "NA"
		if r.HasLog2FC && !math.IsNaN(r.Log2FC) {
			fc = formatFloat(r.Log2FC)
		}
		rec := []string{
			r.Gene,
			string(r.Category),
			strconv.Itoa(r.Degree),
			formatFloat(r.Centrality),
			formatFloat(r.Betweenness),
			fc,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
