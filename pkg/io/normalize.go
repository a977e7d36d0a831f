package io

import (
	"math"
	"strconv"
	"strings"

	"github.com/gemdiff/perturbviz/pkg/annotate"
)

// Recognized column names in priority order. Matching is case-insensitive.
var (
	geneSynonyms = []string{"gene", "index", "id", "symbol", "gene_id", "gene_name", "gene_symbol"}
	foldSynonyms = []string{"log2fc", "log2foldchange"}
)

// Schema records how [NormalizeExpression] bound the raw columns.
type Schema struct {
	GeneColumn     string
	GenePositional bool   // no synonym matched; the first column was used
	FoldColumn     string // empty when no fold-change column was found
}

// HasFoldChange reports whether a fold-change column was found.
func (s Schema) HasFoldChange() bool { return s.FoldColumn != "" }

// NormalizeExpression binds raw tabular data to gene/log2FC rows.
//
// When data rows have exactly one more field than the header, the header
// is taken to omit a leading row-name column, as R's write.table does.
// Fold-change cells that do not parse as numbers (NA, empty) become NaN.
// Rows without a gene identifier are dropped.
//
// Without a fold-change column the result is empty but non-nil.
func NormalizeExpression(headers []string, rows [][]string) (annotate.ExpressionTable, Schema) {
	if len(rows) > 0 && len(rows[0]) == len(headers)+1 {
		headers = append([]string{""}, headers...)
	}

	var schema Schema
	geneIdx := findColumn(headers, geneSynonyms, -1)
	if geneIdx < 0 {
		// An unnamed first column holds row names. Empty headers elsewhere
		// come from trailing delimiters and never bind.
		geneIdx = 0
		schema.GenePositional = len(headers) == 0 || headers[0] != ""
	}
	if geneIdx < len(headers) {
		schema.GeneColumn = headers[geneIdx]
	}

	foldIdx := findColumn(headers, foldSynonyms, geneIdx)
	if foldIdx < 0 {
		foldIdx = findFoldLike(headers, geneIdx)
	}
	if foldIdx < 0 {
		return annotate.ExpressionTable{}, schema
	}
	schema.FoldColumn = headers[foldIdx]

	table := make(annotate.ExpressionTable, 0, len(rows))
	for _, row := range rows {
		if geneIdx >= len(row) || row[geneIdx] == "" {
			continue
		}
		fc := math.NaN()
		if foldIdx < len(row) {
			fc = parseFloat(row[foldIdx])
		}
		table = append(table, annotate.Expression{Gene: row[geneIdx], Log2FC: fc})
	}
	return table, schema
}

// findColumn returns the index of the first header matching the highest
// priority synonym, skipping the column at skip.
func findColumn(headers, synonyms []string, skip int) int {
	for _, syn := range synonyms {
		for i, h := range headers {
			if i != skip && strings.EqualFold(h, syn) {
				return i
			}
		}
	}
	return -1
}

func findFoldLike(headers []string, skip int) int {
	for i, h := range headers {
		l := strings.ToLower(h)
		if i != skip && strings.Contains(l, "log2") && strings.Contains(l, "fold") {
			return i
		}
	}
	return -1
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
