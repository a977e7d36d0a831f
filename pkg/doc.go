// Package pkg provides the libraries behind PerturbViz.
//
// # Overview
//
// PerturbViz shows where perturbed genes sit in a gene interaction network
// and how the genes around them respond. The pkg directory is organized into
// four areas:
//
//  1. Analysis: [network], [annotate], [layout], [colormap], [labels], [rank]
//  2. Output: [render] and its backends, [io]
//  3. Infrastructure: [cache], [config], [errors], [httputil], [observability]
//  4. Integrations and orchestration: [integrations/stringdb], [pipeline]
//
// # Architecture
//
// The typical data flow:
//
//	Edge list file  or  STRING query ([integrations/stringdb])
//	         ↓
//	    [network] (undirected gene graph)
//	         ↓
//	    [annotate] (perturbed / up / down / other, fold changes)
//	         ↓
//	    [layout] (2-D positions)
//	         ↓
//	    [colormap] + [labels] → [render] (PNG/SVG/PDF/DOT)
//	         ↓
//	    [rank] → important genes CSV
//
// # Quick Start
//
// Run the whole analysis:
//
//	runner := pipeline.NewRunner(nil, 0, logger)
//	res, err := runner.Execute(ctx, pipeline.Inputs{
//	    Edges:      edges,
//	    Perturbed:  []string{"TP53"},
//	    Expression: table,
//	}, pipeline.Options{Prefix: "out/p53"})
//
// Or use the analysis packages directly:
//
//	g := network.Build(edges)
//	cats, folds := annotate.Classify(g, annotate.NewGeneSet("TP53"), table)
//	pos, _, err := layout.Compute(g, layout.Spring, layout.DefaultSeed)
//	rows := rank.Build(g, cats, folds)
//
// [network]: github.com/gemdiff/perturbviz/pkg/network
// [annotate]: github.com/gemdiff/perturbviz/pkg/annotate
// [layout]: github.com/gemdiff/perturbviz/pkg/layout
// [colormap]: github.com/gemdiff/perturbviz/pkg/colormap
// [labels]: github.com/gemdiff/perturbviz/pkg/labels
// [rank]: github.com/gemdiff/perturbviz/pkg/rank
// [render]: github.com/gemdiff/perturbviz/pkg/render
// [io]: github.com/gemdiff/perturbviz/pkg/io
// [cache]: github.com/gemdiff/perturbviz/pkg/cache
// [config]: github.com/gemdiff/perturbviz/pkg/config
// [errors]: github.com/gemdiff/perturbviz/pkg/errors
// [httputil]: github.com/gemdiff/perturbviz/pkg/httputil
// [observability]: github.com/gemdiff/perturbviz/pkg/observability
// [integrations/stringdb]: github.com/gemdiff/perturbviz/pkg/integrations/stringdb
// [pipeline]: github.com/gemdiff/perturbviz/pkg/pipeline
package pkg
