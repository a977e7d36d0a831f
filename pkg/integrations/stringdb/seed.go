package stringdb

import (
	"cmp"
	"math"
	"slices"

	"github.com/gemdiff/perturbviz/pkg/annotate"
)

// DefaultTopDEGs is how many up- and down-regulated genes [SeedGenes] adds
// by default.
const DefaultTopDEGs = 10

// SeedGenes returns the perturbed genes followed by the topN up-regulated
// and topN down-regulated genes of table, ranked by absolute log2 fold
// change. Genes appear once, in first-seen order. Rows without a fold
// change are ignored. A nil table contributes nothing.
func SeedGenes(perturbed []string, table annotate.ExpressionTable, topN int) []string {
	var up, down []annotate.Expression
	for _, r := range table {
		switch {
		case math.IsNaN(r.Log2FC) || r.Gene == "":
		case r.Log2FC > 0:
			up = append(up, r)
		case r.Log2FC < 0:
			down = append(down, r)
		}
	}
	byMagnitude := func(a, b annotate.Expression) int {
		return cmp.Compare(math.Abs(b.Log2FC), math.Abs(a.Log2FC))
	}
	slices.SortStableFunc(up, byMagnitude)
	slices.SortStableFunc(down, byMagnitude)

	seen := make(map[string]bool)
	var out []string
	add := func(g string) {
		if g != "" && !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	for _, g := range perturbed {
		add(g)
	}
	for _, r := range up[:min(topN, len(up))] {
		add(r.Gene)
	}
	for _, r := range down[:min(topN, len(down))] {
		add(r.Gene)
	}
	return out
}
