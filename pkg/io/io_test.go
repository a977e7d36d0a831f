package io

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/errors"
	"github.com/gemdiff/perturbviz/pkg/layout"
	"github.com/gemdiff/perturbviz/pkg/network"
	"github.com/gemdiff/perturbviz/pkg/rank"
)

func TestSniff(t *testing.T) {
	assert.Equal(t, '\t', Sniff("source\ttarget"))
	assert.Equal(t, ',', Sniff("source,target,score"))
	assert.Equal(t, ';', Sniff("a;b"))
	assert.Equal(t, '\t', Sniff("single"))
	assert.Equal(t, '\t', Sniff("a,b\tc\td"), "majority wins")
}

func TestReadEdgeListWithHeader(t *testing.T) {
	in := "score,target,source\n0.9,B,A\n0.8,C,B\n\n0.7,,D\n"
	el, err := ReadEdgeList(strings.NewReader(in))
	require.NoError(t, err)

	assert.False(t, el.Positional)
	assert.Equal(t, []network.Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}}, el.Edges)
	assert.Equal(t, 1, el.Skipped)
}

func TestReadEdgeListPositional(t *testing.T) {
	in := "gene1\tgene2\nTP53\tMDM2\nMDM2\tCDKN1A\n"
	el, err := ReadEdgeList(strings.NewReader(in))
	require.NoError(t, err)

	assert.True(t, el.Positional)
	assert.Equal(t, []network.Edge{{Source: "TP53", Target: "MDM2"}, {Source: "MDM2", Target: "CDKN1A"}}, el.Edges)
}

func TestReadEdgeListTooFewColumns(t *testing.T) {
	_, err := ReadEdgeList(strings.NewReader("genes\nTP53\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = ReadEdgeList(strings.NewReader(""))
	assert.Error(t, err)
}

func TestImportEdgeListMissingFile(t *testing.T) {
	_, err := ImportEdgeList(filepath.Join(t.TempDir(), "missing.tsv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestParseGeneListInline(t *testing.T) {
	genes, err := ParseGeneList(" TP53, MDM2 ,,CDKN1A")
	require.NoError(t, err)
	assert.Equal(t, []string{"TP53", "MDM2", "CDKN1A"}, genes)
}

func TestParseGeneListFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.txt")
	require.NoError(t, os.WriteFile(path, []byte("TP53\n\n  MDM2  \nCDKN1A\n"), 0o644))

	genes, err := ParseGeneList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TP53", "MDM2", "CDKN1A"}, genes)
}

func TestParseGeneListMissingFile(t *testing.T) {
	_, err := ParseGeneList(filepath.Join(t.TempDir(), "nope.txt"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestNormalizeExpression(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		rows       [][]string
		wantGene   string
		wantFold   string
		positional bool
		want       annotate.ExpressionTable
	}{
		{
			name:     "canonical",
			headers:  []string{"gene", "log2FC", "padj"},
			rows:     [][]string{{"A", "2.5", "0.01"}},
			wantGene: "gene", wantFold: "log2FC",
			want: annotate.ExpressionTable{{Gene: "A", Log2FC: 2.5}},
		},
		{
			name:     "deseq2 named index",
			headers:  []string{"index", "baseMean", "log2FoldChange"},
			rows:     [][]string{{"A", "10", "-1.5"}},
			wantGene: "index", wantFold: "log2FoldChange",
			want: annotate.ExpressionTable{{Gene: "A", Log2FC: -1.5}},
		},
		{
			name:     "row names without header cell",
			headers:  []string{"baseMean", "log2FoldChange", "pvalue"},
			rows:     [][]string{{"A", "10", "3", "0.1"}, {"B", "5", "NA", "0.2"}},
			wantGene: "", wantFold: "log2FoldChange",
			want: annotate.ExpressionTable{{Gene: "A", Log2FC: 3}, {Gene: "B", Log2FC: math.NaN()}},
		},
		{
			name:     "fuzzy fold column and positional gene",
			headers:  []string{"name", "Log2 Fold Change (shrunk)"},
			rows:     [][]string{{"A", "1.25"}},
			wantGene: "name", wantFold: "Log2 Fold Change (shrunk)", positional: true,
			want: annotate.ExpressionTable{{Gene: "A", Log2FC: 1.25}},
		},
		{
			name:     "trailing empty header falls back to first column",
			headers:  []string{"GeneID", "log2FC", ""},
			rows:     [][]string{{"TP53", "2.5", ""}, {"MDM2", "-3", ""}},
			wantGene: "GeneID", wantFold: "log2FC", positional: true,
			want: annotate.ExpressionTable{{Gene: "TP53", Log2FC: 2.5}, {Gene: "MDM2", Log2FC: -3}},
		},
		{
			name:     "empty first header names the row-name column",
			headers:  []string{"", "log2FoldChange", ""},
			rows:     [][]string{{"A", "1.5", ""}},
			wantGene: "", wantFold: "log2FoldChange",
			want: annotate.ExpressionTable{{Gene: "A", Log2FC: 1.5}},
		},
		{
			name:     "synonyms are case-insensitive",
			headers:  []string{"Symbol", "LOG2FC"},
			rows:     [][]string{{"A", "0.5"}, {"", "9"}},
			wantGene: "Symbol", wantFold: "LOG2FC",
			want: annotate.ExpressionTable{{Gene: "A", Log2FC: 0.5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, schema := NormalizeExpression(tt.headers, tt.rows)
			assert.Equal(t, tt.wantGene, schema.GeneColumn)
			assert.Equal(t, tt.wantFold, schema.FoldColumn)
			assert.Equal(t, tt.positional, schema.GenePositional)

			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Gene, got[i].Gene)
				if math.IsNaN(tt.want[i].Log2FC) {
					assert.True(t, math.IsNaN(got[i].Log2FC))
				} else {
					assert.Equal(t, tt.want[i].Log2FC, got[i].Log2FC)
				}
			}
		})
	}
}

func TestNormalizeExpressionWithoutFoldColumn(t *testing.T) {
	got, schema := NormalizeExpression([]string{"gene", "padj"}, [][]string{{"A", "0.01"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, schema.HasFoldChange())
}

func TestReadExpressionTable(t *testing.T) {
	in := "gene\tlog2FC\nTP53\t2.1\nMDM2\t-1.4\n"
	table, schema, err := ReadExpressionTable(strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, schema.HasFoldChange())
	assert.Equal(t, annotate.ExpressionTable{{Gene: "TP53", Log2FC: 2.1}, {Gene: "MDM2", Log2FC: -1.4}}, table)
}

func TestReadExpressionTableTrailingDelimiter(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"comma", "GeneID,log2FC,\nTP53,2.5,\nMDM2,-3,\n"},
		{"tab", "Name\tlog2FoldChange\tpadj\t\nTP53\t2.5\t0.01\t\nMDM2\t-3\t0.02\t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, schema, err := ReadExpressionTable(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.True(t, schema.GenePositional)
			assert.Equal(t, annotate.ExpressionTable{{Gene: "TP53", Log2FC: 2.5}, {Gene: "MDM2", Log2FC: -3}}, table)
		})
	}
}

func TestEdgeListRoundTripThroughFile(t *testing.T) {
	edges := []network.Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}}
	path := filepath.Join(t.TempDir(), "net.tsv")
	require.NoError(t, ExportEdgeList(path, edges))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "source\ttarget\nA\tB\nB\tC\n", string(data))

	el, err := ImportEdgeList(path)
	require.NoError(t, err)
	assert.Equal(t, edges, el.Edges)
}

func TestExportRankTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perturb_viz_important_genes.csv")
	require.NoError(t, ExportRankTable(path, []rank.Row{
		{Gene: "A", Category: annotate.Perturbed, Degree: 1, Centrality: 1},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Gene,Category,Degree,Centrality,Betweenness,log2FC\nA,perturbed,1,1,0,NA\n", string(data))
}

func TestWriteJSON(t *testing.T) {
	g := network.Build([]network.Edge{{Source: "A", Target: "B"}})
	cats, folds := annotate.Classify(g, annotate.NewGeneSet("A"), annotate.ExpressionTable{{Gene: "B", Log2FC: -2}})
	pos := layout.Positions{"A": {X: 1, Y: 0}, "B": {X: -1, Y: 0}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Annotated{Graph: g, Categories: cats, Folds: folds, Positions: pos}))

	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "perturbed", doc.Nodes[0].Category)
	assert.Nil(t, doc.Nodes[0].Log2FC)
	require.NotNil(t, doc.Nodes[1].Log2FC)
	assert.Equal(t, -2.0, *doc.Nodes[1].Log2FC)
	assert.Equal(t, []edge{{Source: "A", Target: "B"}}, doc.Edges)
}
