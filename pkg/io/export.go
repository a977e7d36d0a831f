package io

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/layout"
	"github.com/gemdiff/perturbviz/pkg/network"
	"github.com/gemdiff/perturbviz/pkg/rank"
)

// WriteEdgeList writes edges as a tab-separated list with a source/target
// header, the format [ReadEdgeList] expects.
func WriteEdgeList(w io.Writer, edges []network.Edge) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"source", "target"}); err != nil {
		return err
	}
	for _, e := range edges {
		if err := cw.Write([]string{e.Source, e.Target}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportEdgeList writes edges to a file at path.
func ExportEdgeList(path string, edges []network.Edge) error {
	return writeFile(path, func(w io.Writer) error { return WriteEdgeList(w, edges) })
}

// ExportRankTable writes the important-genes table to a CSV file at path.
func ExportRankTable(path string, rows []rank.Row) error {
	return writeFile(path, func(w io.Writer) error { return rank.WriteCSV(w, rows) })
}

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Degree   int      `json:"degree"`
	Log2FC   *float64 `json:"log2fc,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
}

type edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Annotated bundles a network with everything computed about it.
type Annotated struct {
	Graph      *network.Graph
	Categories annotate.Categories
	Folds      annotate.FoldChanges
	Positions  layout.Positions
}

// WriteJSON encodes an annotated network as indented JSON: a "nodes" array
// in graph order with category, degree, fold change and coordinates, and an
// "edges" array of source/target pairs.
func WriteJSON(w io.Writer, a Annotated) error {
	out := document{
		Nodes: make([]node, 0, a.Graph.NodeCount()),
		Edges: make([]edge, 0, a.Graph.EdgeCount()),
	}
	for _, id := range a.Graph.Nodes() {
		p := a.Positions[id]
		n := node{
			ID:       id,
			Category: string(a.Categories[id]),
			Degree:   a.Graph.Degree(id),
			X:        finiteOrZero(p.X),
			Y:        finiteOrZero(p.Y),
		}
		if v, ok := a.Folds.Get(id); ok {
			n.Log2FC = &v
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range a.Graph.Edges() {
		out.Edges = append(out.Edges, edge{Source: e.Source, Target: e.Target})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes an annotated network to a JSON file at path.
func ExportJSON(path string, a Annotated) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(w, a) })
}

func writeFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
