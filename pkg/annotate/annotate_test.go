package annotate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemdiff/perturbviz/pkg/network"
)

func fourNodeGraph() *network.Graph {
	return network.BuildWithNodes([]network.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
	}, []string{"D"})
}

func TestClassifyScenario(t *testing.T) {
	g := fourNodeGraph()
	cats, folds := Classify(g, NewGeneSet("A"), ExpressionTable{
		{Gene: "B", Log2FC: 2.0},
		{Gene: "C", Log2FC: -3.0},
	})

	assert.Equal(t, Categories{"A": Perturbed, "B": Up, "C": Down, "D": Other}, cats)
	assert.Equal(t, FoldChanges{"B": 2.0, "C": -3.0}, folds)
}

func TestClassifyIsTotal(t *testing.T) {
	g := fourNodeGraph()
	cats, _ := Classify(g, nil, nil)

	require.Len(t, cats, g.NodeCount())
	for _, n := range g.Nodes() {
		assert.Equal(t, Other, cats[n], "node %s", n)
	}
}

func TestClassifyPerturbedWinsOverExpression(t *testing.T) {
	g := fourNodeGraph()
	cats, folds := Classify(g, NewGeneSet("B", "C"), ExpressionTable{
		{Gene: "B", Log2FC: 5.0},
		{Gene: "C", Log2FC: -5.0},
	})

	assert.Equal(t, Perturbed, cats["B"])
	assert.Equal(t, Perturbed, cats["C"])
	assert.Equal(t, 5.0, folds["B"], "fold change is kept for perturbed genes")
}

func TestClassifyThresholdIsStrict(t *testing.T) {
	tests := []struct {
		fc   float64
		want Category
	}{
		{1.0, Other},
		{-1.0, Other},
		{1.0000001, Up},
		{-1.0000001, Down},
		{0, Other},
		{0.5, Other},
	}

	for _, tt := range tests {
		g := network.Build([]network.Edge{{Source: "G", Target: "H"}})
		cats, folds := Classify(g, nil, ExpressionTable{{Gene: "G", Log2FC: tt.fc}})
		assert.Equal(t, tt.want, cats["G"], "log2FC %v", tt.fc)
		assert.Contains(t, folds, "G", "known fold change is recorded for %v", tt.fc)
	}
}

func TestClassifyNaNIsUnknown(t *testing.T) {
	g := network.Build([]network.Edge{{Source: "G", Target: "H"}})
	cats, folds := Classify(g, nil, ExpressionTable{{Gene: "G", Log2FC: math.NaN()}})

	assert.Equal(t, Other, cats["G"])
	assert.NotContains(t, folds, "G")
}

func TestClassifyIgnoresGenesOutsideGraph(t *testing.T) {
	g := fourNodeGraph()
	cats, folds := Classify(g, NewGeneSet("ZZZ"), ExpressionTable{{Gene: "YYY", Log2FC: 9}})

	assert.NotContains(t, cats, "ZZZ")
	assert.NotContains(t, cats, "YYY")
	assert.Empty(t, folds)
}

func TestClassifyLastRowWins(t *testing.T) {
	g := fourNodeGraph()
	cats, folds := Classify(g, nil, ExpressionTable{
		{Gene: "B", Log2FC: 3},
		{Gene: "B", Log2FC: -3},
	})

	assert.Equal(t, Down, cats["B"])
	assert.Equal(t, -3.0, folds["B"])
}

func TestClassifyLaterNaNOverwrites(t *testing.T) {
	g := fourNodeGraph()
	cats, folds := Classify(g, nil, ExpressionTable{
		{Gene: "B", Log2FC: 3},
		{Gene: "B", Log2FC: math.NaN()},
	})

	assert.Equal(t, Other, cats["B"])
	assert.NotContains(t, folds, "B")
}

func TestCategoriesCountAndNodes(t *testing.T) {
	g := fourNodeGraph()
	cats, _ := Classify(g, NewGeneSet("A", "D"), ExpressionTable{{Gene: "C", Log2FC: 4}})

	assert.Equal(t, map[Category]int{Perturbed: 2, Up: 1, Down: 0, Other: 1}, cats.Count())
	assert.Equal(t, []string{"A", "D"}, cats.Nodes(g, Perturbed))
	assert.Nil(t, cats.Nodes(g, Down))
}

func TestFoldChangesValues(t *testing.T) {
	f := FoldChanges{"A": 1.5, "C": -2}
	assert.Equal(t, []float64{1.5, -2}, f.Values([]string{"A", "B", "C"}))
	assert.Nil(t, f.Values([]string{"B"}))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Perturbed Genes", Perturbed.Label())
	assert.Equal(t, "Upregulated Genes", Up.Label())
	assert.Equal(t, "Downregulated Genes", Down.Label())
	assert.Equal(t, "Other Genes", Other.Label())
	assert.True(t, Up.Important())
	assert.False(t, Other.Important())
}
