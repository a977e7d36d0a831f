// Package annotate assigns each gene in a network one category from
// perturbation and differential-expression evidence.
//
// Categories are decided per node in precedence order:
//
//  1. Every node starts as [Other].
//  2. A known (non-NaN) fold change is recorded for the node whatever its
//     final category.
//  3. Membership in the perturbed set makes it [Perturbed].
//  4. Otherwise log2FC > [SignificanceThreshold] makes it [Up].
//  5. Otherwise log2FC < -[SignificanceThreshold] makes it [Down].
//
// Genes named in the inputs but absent from the network are ignored.
package annotate

import (
	"math"

	"github.com/gemdiff/perturbviz/pkg/network"
)

// SignificanceThreshold is the |log2FC| a gene must strictly exceed to be
// called up- or down-regulated. No p-value gating is applied.
const SignificanceThreshold = 1.0

// Category is the annotation assigned to a gene.
type Category string

// Categories in display order.
const (
	Perturbed Category = "perturbed"
	Up        Category = "up"
	Down      Category = "down"
	Other     Category = "other"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{Perturbed, Up, Down, Other}

// Label returns the human-readable legend name of the category.
func (c Category) Label() string {
	switch c {
	case Perturbed:
		return "Perturbed Genes"
	case Up:
		return "Upregulated Genes"
	case Down:
		return "Downregulated Genes"
	default:
		return "Other Genes"
	}
}

// Important reports whether the category is one of perturbed, up or down.
func (c Category) Important() bool { return c != Other }

// GeneSet is a read-only set of gene identifiers.
type GeneSet map[string]struct{}

// NewGeneSet builds a set from a list, ignoring blanks.
func NewGeneSet(genes ...string) GeneSet {
	s := make(GeneSet, len(genes))
	for _, g := range genes {
		if g != "" {
			s[g] = struct{}{}
		}
	}
	return s
}

// Has reports membership.
func (s GeneSet) Has(gene string) bool {
	_, ok := s[gene]
	return ok
}

// Expression is one row of a differential-expression table. Log2FC is NaN
// when the value was missing.
type Expression struct {
	Gene   string
	Log2FC float64
}

// ExpressionTable is an ordered list of expression rows. A nil table means
// no expression data was supplied; an empty non-nil table means a table was
// supplied but carried no usable fold changes.
type ExpressionTable []Expression

// Map converts the table to gene -> log2FC. Later rows overwrite earlier
// rows for the same gene; NaN values are kept.
func (t ExpressionTable) Map() map[string]float64 {
	m := make(map[string]float64, len(t))
	for _, r := range t {
		m[r.Gene] = r.Log2FC
	}
	return m
}

// Categories maps every graph node to exactly one category.
type Categories map[string]Category

// Count returns how many nodes are in each category.
func (c Categories) Count() map[Category]int {
	counts := make(map[Category]int, len(AllCategories))
	for _, cat := range AllCategories {
		counts[cat] = 0
	}
	for _, cat := range c {
		counts[cat]++
	}
	return counts
}

// Nodes returns the graph nodes in category cat, in graph order.
func (c Categories) Nodes(g *network.Graph, cat Category) []string {
	var out []string
	for _, n := range g.Nodes() {
		if c[n] == cat {
			out = append(out, n)
		}
	}
	return out
}

// FoldChanges maps graph nodes to their known log2 fold change. Nodes with
// no value, or a NaN value, are absent.
type FoldChanges map[string]float64

// Get returns the fold change of gene and whether it is known.
func (f FoldChanges) Get(gene string) (float64, bool) {
	v, ok := f[gene]
	return v, ok
}

// Values returns the fold changes of the given genes that are known.
func (f FoldChanges) Values(genes []string) []float64 {
	var out []float64
	for _, g := range genes {
		if v, ok := f[g]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Classify annotates every node of g. See the package documentation for
// the precedence rules.
func Classify(g *network.Graph, perturbed GeneSet, table ExpressionTable) (Categories, FoldChanges) {
	fc := table.Map()
	cats := make(Categories, g.NodeCount())
	folds := make(FoldChanges)

	for _, node := range g.Nodes() {
		cats[node] = Other

		v, ok := fc[node]
		known := ok && !math.IsNaN(v)
		if known {
			folds[node] = v
		}

		switch {
		case perturbed.Has(node):
			cats[node] = Perturbed
		case known && v > SignificanceThreshold:
			cats[node] = Up
		case known && v < -SignificanceThreshold:
			cats[node] = Down
		}
	}
	return cats, folds
}
