package rank

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/network"
)

func genes(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Gene
	}
	return out
}

func TestBuildScenario(t *testing.T) {
	g := network.BuildWithNodes([]network.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
	}, []string{"D"})
	cats, folds := annotate.Classify(g, annotate.NewGeneSet("A"), annotate.ExpressionTable{
		{Gene: "B", Log2FC: 2.0},
		{Gene: "C", Log2FC: -3.0},
	})

	rows := Build(g, cats, folds)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"C", "A", "B"}, genes(rows), "down < perturbed < up")

	c := rows[0]
	assert.Equal(t, annotate.Down, c.Category)
	assert.Equal(t, 1, c.Degree)
	assert.InDelta(t, 1.0/3.0, c.Centrality, 1e-12)
	assert.True(t, c.HasLog2FC)
	assert.Equal(t, -3.0, c.Log2FC)

	a := rows[1]
	assert.False(t, a.HasLog2FC)

	b := rows[2]
	assert.Equal(t, 2, b.Degree)
	assert.Greater(t, b.Betweenness, 0.0)
}

func TestBuildExcludesOther(t *testing.T) {
	g := network.Build([]network.Edge{{Source: "A", Target: "B"}})
	cats, folds := annotate.Classify(g, nil, nil)
	assert.Empty(t, Build(g, cats, folds))
}

func TestSortByFoldChangeUnknownLast(t *testing.T) {
	rows := []Row{
		{Gene: "P1", Category: annotate.Perturbed},
		{Gene: "P2", Category: annotate.Perturbed, Log2FC: -0.5, HasLog2FC: true},
		{Gene: "P3", Category: annotate.Perturbed, Log2FC: 2, HasLog2FC: true},
		{Gene: "U1", Category: annotate.Up, Log2FC: 1.5, HasLog2FC: true},
		{Gene: "U2", Category: annotate.Up, Log2FC: 4, HasLog2FC: true},
		{Gene: "P4", Category: annotate.Perturbed},
	}
	Sort(rows)
	assert.Equal(t, []string{"P3", "P2", "P1", "P4", "U2", "U1"}, genes(rows))
}

func TestSortByCentralityWithoutFoldChanges(t *testing.T) {
	rows := []Row{
		{Gene: "A", Category: annotate.Perturbed, Centrality: 0.2},
		{Gene: "B", Category: annotate.Perturbed, Centrality: 0.9},
		{Gene: "C", Category: annotate.Perturbed, Centrality: 0.2},
	}
	Sort(rows)
	assert.Equal(t, []string{"B", "A", "C"}, genes(rows))
}

func TestDegreeCentrality(t *testing.T) {
	assert.Equal(t, 1.0, DegreeCentrality(0, 1))
	assert.Equal(t, 1.0, DegreeCentrality(0, 0))
	assert.Equal(t, 0.5, DegreeCentrality(2, 5))
}

func TestBetweennessStar(t *testing.T) {
	g := network.Build([]network.Edge{
		{Source: "HUB", Target: "A"},
		{Source: "HUB", Target: "B"},
		{Source: "HUB", Target: "C"},
		{Source: "HUB", Target: "D"},
	})
	b := Betweenness(g)
	require.Len(t, b, 5)
	assert.InDelta(t, 1.0, b["HUB"], 1e-9)
	for _, leaf := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, 0.0, b[leaf], leaf)
	}
}

func TestBetweennessPath(t *testing.T) {
	g := network.Build([]network.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "C", Target: "D"},
	})
	b := Betweenness(g)
	require.Len(t, b, 4)
	assert.InDelta(t, 2.0/3.0, b["B"], 1e-9)
	assert.InDelta(t, 2.0/3.0, b["C"], 1e-9)
	assert.Equal(t, 0.0, b["A"])
	assert.Equal(t, 0.0, b["D"])
}

func TestBetweennessTinyGraph(t *testing.T) {
	g := network.Build([]network.Edge{{Source: "A", Target: "B"}})
	assert.Equal(t, map[string]float64{"A": 0, "B": 0}, Betweenness(g))
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{Gene: "C", Category: annotate.Down, Degree: 1, Centrality: 0.5, Betweenness: 0, Log2FC: -3, HasLog2FC: true},
		{Gene: "A", Category: annotate.Perturbed, Degree: 2, Centrality: 1, Betweenness: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.Equal(t,
		"Gene,Category,Degree,Centrality,Betweenness,log2FC\n"+
			"C,down,1,0.5,0,-3\n"+
			"A,perturbed,2,1,1,NA\n",
		buf.String())
}
