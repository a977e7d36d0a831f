// Package io reads the tabular inputs of a perturbation run and writes its
// tabular outputs.
//
// # Inputs
//
// Three inputs are supported:
//
//   - Edge lists ([ReadEdgeList], [ImportEdgeList]): delimited text whose
//     first row is a header. Columns named exactly "source" and "target" are
//     used when present; otherwise the first two columns are bound
//     positionally and [EdgeList.Positional] is set so callers can warn.
//   - Gene lists ([ParseGeneList]): an inline comma-separated list, or the
//     path of a file with one gene per line. Blank entries are ignored.
//   - Expression tables ([ReadExpressionTable], [ImportExpressionTable]):
//     delimited text normalized to gene/log2FC pairs by
//     [NormalizeExpression].
//
// The delimiter of every delimited input is sniffed from its first
// non-empty line (tab, comma, semicolon, in that order of preference).
//
// # Schema normalization
//
// [NormalizeExpression] is a pure function from raw headers and rows to an
// expression table. It resolves the gene column and the fold-change column
// from fixed priority lists of synonyms:
//
//	gene:    gene, index, id, symbol, gene_id, gene_name, gene_symbol,
//	         an unnamed first column (R row names), else the first column
//	log2FC:  log2FC, log2FoldChange, any header containing "log2" and "fold"
//
// A table with no recognizable fold-change column is returned as an empty,
// non-nil table so that classification still runs without up/down calls.
//
// # Outputs
//
// [ExportEdgeList] writes a tab-separated source/target edge list,
// [ExportRankTable] writes the important-genes CSV and [ExportJSON] writes
// the annotated network with its coordinates for use by other tools.
package io
