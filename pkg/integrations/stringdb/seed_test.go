package stringdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gemdiff/perturbviz/pkg/annotate"
)

func TestSeedGenes(t *testing.T) {
	table := annotate.ExpressionTable{
		{Gene: "UP1", Log2FC: 1.5},
		{Gene: "UP2", Log2FC: 4},
		{Gene: "UP3", Log2FC: 2},
		{Gene: "DN1", Log2FC: -3},
		{Gene: "DN2", Log2FC: -0.5},
		{Gene: "NA", Log2FC: math.NaN()},
		{Gene: "ZERO", Log2FC: 0},
		{Gene: "TP53", Log2FC: 5},
	}

	// TP53 is among the top two up-regulated genes but already seeded, so
	// only UP2 is added from that side.
	got := SeedGenes([]string{"TP53", "MDM2", "TP53"}, table, 2)
	assert.Equal(t, []string{"TP53", "MDM2", "UP2", "DN1", "DN2"}, got)
}

func TestSeedGenesNoTable(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, SeedGenes([]string{"A", "", "B"}, nil, DefaultTopDEGs))
	assert.Empty(t, SeedGenes(nil, nil, DefaultTopDEGs))
}

func TestSeedGenesTiesKeepTableOrder(t *testing.T) {
	table := annotate.ExpressionTable{
		{Gene: "B", Log2FC: 2},
		{Gene: "A", Log2FC: 2},
		{Gene: "C", Log2FC: 2},
	}
	assert.Equal(t, []string{"B", "A"}, SeedGenes(nil, table, 2))
}
