// Package labels decides which genes get a text label and where the label
// is drawn relative to its node.
//
// Small networks label every gene. Larger networks label only the
// important genes (perturbed, up or down) plus the genes with the largest
// absolute fold change. Each label is pushed away from its node in a random
// direction and joined to it by a connector line.
package labels

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/layout"
	"github.com/gemdiff/perturbviz/pkg/network"
)

const (
	// LabelAllMaxNodes is the largest network in which every gene is labeled.
	LabelAllMaxNodes = 50

	// TopByFoldChange is how many extra genes with the largest |log2FC| are
	// labeled in larger networks.
	TopByFoldChange = 10
)

// AngleSource supplies uniform values in [0, 1). *rand.Rand from
// math/rand/v2 satisfies it.
type AngleSource interface {
	Float64() float64
}

// Label is one placed label.
type Label struct {
	Gene   string
	Anchor r2.Vec // node position
	At     r2.Vec // text position; the connector runs from Anchor to At
	Text   string // may contain a newline
}

// Select returns the genes to label in graph order. table may be nil when no
// expression data was supplied.
func Select(g *network.Graph, cats annotate.Categories, folds annotate.FoldChanges, table annotate.ExpressionTable) []string {
	if g.NodeCount() <= LabelAllMaxNodes {
		return g.Nodes()
	}

	chosen := make(map[string]bool)
	for _, n := range g.Nodes() {
		if cats[n].Important() {
			chosen[n] = true
		}
	}
	for _, gene := range topByFoldChange(g, folds, table, chosen, TopByFoldChange) {
		chosen[gene] = true
	}

	var out []string
	for _, n := range g.Nodes() {
		if chosen[n] {
			out = append(out, n)
		}
	}
	return out
}

// Important returns the perturbed, up and down genes in graph order.
func Important(g *network.Graph, cats annotate.Categories) []string {
	var out []string
	for _, n := range g.Nodes() {
		if cats[n].Important() {
			out = append(out, n)
		}
	}
	return out
}

// topByFoldChange ranks graph genes from the table that are not already in
// exclude by |log2FC| descending. Ties keep the order in which genes first
// appear in the table.
func topByFoldChange(g *network.Graph, folds annotate.FoldChanges, table annotate.ExpressionTable, exclude map[string]bool, k int) []string {
	if table == nil {
		return nil
	}
	type cand struct {
		gene string
		abs  float64
	}
	seen := make(map[string]bool)
	var cands []cand
	for _, row := range table {
		if seen[row.Gene] || exclude[row.Gene] || !g.Has(row.Gene) {
			continue
		}
		seen[row.Gene] = true
		v, ok := folds.Get(row.Gene)
		if !ok {
			continue
		}
		cands = append(cands, cand{row.Gene, math.Abs(v)})
	}
	slices.SortStableFunc(cands, func(a, b cand) int {
		return cmp.Compare(b.abs, a.abs)
	})

	out := make([]string, 0, min(k, len(cands)))
	for i := 0; i < len(cands) && i < k; i++ {
		out = append(out, cands[i].gene)
	}
	return out
}

// Text returns the label text for gene: the gene alone, or the gene over a
// direction arrow and |log2FC| to two decimals when the fold change is known.
func Text(gene string, folds annotate.FoldChanges) string {
	v, ok := folds.Get(gene)
	if !ok {
		return gene
	}
	arrow := "↓"
	if v > 0 {
		arrow = "↑"
	}
	return fmt.Sprintf("%s\n%s%.2f", gene, arrow, math.Abs(v))
}

// Place positions a label for each gene at distance offset from its node in
// a direction drawn from angles. One value is drawn per gene, in order.
// Genes without a position are skipped.
func Place(genes []string, pos layout.Positions, folds annotate.FoldChanges, offset float64, angles AngleSource) []Label {
	out := make([]Label, 0, len(genes))
	for _, gene := range genes {
		p, ok := pos[gene]
		if !ok {
			continue
		}
		theta := 2 * math.Pi * angles.Float64()
		dir := r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
		out = append(out, Label{
			Gene:   gene,
			Anchor: p,
			At:     r2.Add(p, r2.Scale(offset, dir)),
			Text:   Text(gene, folds),
		})
	}
	return out
}
