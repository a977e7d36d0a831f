package io

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/errors"
	"github.com/gemdiff/perturbviz/pkg/network"
)

// Sniff returns the most likely delimiter of a line of delimited text.
// Lines without tab, comma or semicolon are treated as tab-separated.
func Sniff(line string) rune {
	best, bestCount := '\t', 0
	for _, d := range []rune{'\t', ',', ';'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// ReadTable reads delimited text into a header row and data rows. Fields
// are trimmed, blank lines are skipped and rows may have differing widths.
func ReadTable(r io.Reader) (headers []string, rows [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	var first string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			first = sc.Text()
			break
		}
	}
	if first == "" {
		return nil, nil, nil
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = Sniff(first)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for _, rec := range records {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
	}
	return records[0], records[1:], nil
}

// EdgeList is a parsed edge list.
type EdgeList struct {
	Edges      []network.Edge
	Positional bool // no source/target header; first two columns were used
	Skipped    int  // rows with fewer than two non-empty fields
}

// ReadEdgeList parses an edge list from r.
func ReadEdgeList(r io.Reader) (*EdgeList, error) {
	headers, rows, err := ReadTable(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read edge list")
	}
	if len(headers) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "edge list must have at least two columns")
	}

	out := &EdgeList{}
	src, dst := indexOf(headers, "source"), indexOf(headers, "target")
	if src < 0 || dst < 0 {
		src, dst = 0, 1
		out.Positional = true
	}

	for _, row := range rows {
		if src >= len(row) || dst >= len(row) || row[src] == "" || row[dst] == "" {
			out.Skipped++
			continue
		}
		out.Edges = append(out.Edges, network.Edge{Source: row[src], Target: row[dst]})
	}
	return out, nil
}

// ImportEdgeList reads an edge list file.
func ImportEdgeList(path string) (*EdgeList, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	el, err := ReadEdgeList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return el, nil
}

// ParseGeneList interprets input as an inline comma-separated list when it
// contains a comma, and as the path of a one-gene-per-line file otherwise.
func ParseGeneList(input string) ([]string, error) {
	if strings.Contains(input, ",") {
		return splitGenes(strings.Split(input, ",")), nil
	}
	f, err := open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGeneList(f)
}

// ReadGeneList reads one gene per line from r.
func ReadGeneList(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read gene list")
	}
	return splitGenes(lines), nil
}

func splitGenes(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// ReadExpressionTable reads and normalizes an expression table.
func ReadExpressionTable(r io.Reader) (annotate.ExpressionTable, Schema, error) {
	headers, rows, err := ReadTable(r)
	if err != nil {
		return nil, Schema{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read expression table")
	}
	table, schema := NormalizeExpression(headers, rows)
	return table, schema, nil
}

// ImportExpressionTable reads an expression table file.
func ImportExpressionTable(path string) (annotate.ExpressionTable, Schema, error) {
	f, err := open(path)
	if err != nil {
		return nil, Schema{}, err
	}
	defer f.Close()
	table, schema, err := ReadExpressionTable(f)
	if err != nil {
		return nil, Schema{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, schema, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}
