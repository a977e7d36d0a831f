package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/cache"
	"github.com/gemdiff/perturbviz/pkg/errors"
	"github.com/gemdiff/perturbviz/pkg/integrations/stringdb"
	pkgio "github.com/gemdiff/perturbviz/pkg/io"
	"github.com/gemdiff/perturbviz/pkg/labels"
	"github.com/gemdiff/perturbviz/pkg/layout"
	"github.com/gemdiff/perturbviz/pkg/network"
	"github.com/gemdiff/perturbviz/pkg/observability"
	"github.com/gemdiff/perturbviz/pkg/rank"
	"github.com/gemdiff/perturbviz/pkg/render"
)

// Stage names reported to hooks and in [Result.Failed].
const (
	StageClassify = "classify"
	StageLayout   = "layout"
	StagePrimary  = "render"
	StageDetailed = "labeled"
	StageTable    = "table"
	StageExport   = "export"
)

// Runner executes the pipeline. It holds the STRING client and its cache
// but keeps no state between runs, so one Runner can serve many runs.
type Runner struct {
	Cache  cache.Cache
	Client *stringdb.Client
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// uses the default logger.
func NewRunner(c cache.Cache, ttl time.Duration, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Client: stringdb.NewClient(c, ttl),
		Logger: logger,
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Execute runs every stage and writes the output files. It fails only on
// invalid options, an empty network or a failed primary render; the
// optional stages report their errors in the result.
func (r *Runner) Execute(ctx context.Context, in Inputs, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	start := time.Now()

	res := &Result{RunID: uuid.NewString(), Outputs: opts.Outputs()}
	logger = logger.With("run", res.RunID[:8])

	// Stage 1: Build
	if len(in.Edges) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "network has no interactions")
	}
	g := network.Build(in.Edges)
	res.Graph = g
	res.Stats.NodeCount, res.Stats.EdgeCount = g.NodeCount(), g.EdgeCount()
	logger.Info("built network", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	perturbed := annotate.NewGeneSet(in.Perturbed...)
	reported := make(map[string]bool, len(perturbed))
	for _, gene := range in.Perturbed {
		if !perturbed.Has(gene) || g.Has(gene) || reported[gene] {
			continue
		}
		reported[gene] = true
		res.Stats.MissingPerturbed = append(res.Stats.MissingPerturbed, gene)
	}
	if n := len(res.Stats.MissingPerturbed); n > 0 {
		logger.Warn("perturbed genes not in network", "count", n, "genes", res.Stats.MissingPerturbed)
	}

	// Stage 2: Classify
	err := r.stage(ctx, StageClassify, g.NodeCount(), func() error {
		res.Categories, res.Folds = annotate.Classify(g, perturbed, in.Expression)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Stats.Counts = res.Categories.Count()
	logger.Info("classified genes",
		"perturbed", res.Stats.Counts[annotate.Perturbed],
		"up", res.Stats.Counts[annotate.Up],
		"down", res.Stats.Counts[annotate.Down],
		"other", res.Stats.Counts[annotate.Other])
	if in.Expression != nil && len(res.Folds) == 0 {
		logger.Warn("no fold changes matched network genes; colouring by category only")
	}

	// Stage 3: Layout
	layoutStart := time.Now()
	err = r.stage(ctx, StageLayout, g.NodeCount(), func() error {
		alg, _ := layout.Parse(opts.Layout)
		var err error
		res.Positions, res.Layout, err = layout.Compute(g, alg, opts.Seed)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "compute layout")
	}
	res.Stats.LayoutTime = time.Since(layoutStart)
	if res.Layout.FellBack {
		logger.Warn("layout failed, using spring layout instead",
			"requested", res.Layout.Requested, "reason", res.Layout.Reason)
		observability.Pipeline().OnLayoutFallback(ctx, string(res.Layout.Requested), res.Layout.Reason)
	}
	logger.Debug("computed layout", "algorithm", res.Layout.Used, "duration", res.Stats.LayoutTime)

	angles := opts.Angles
	if angles == nil {
		angles = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	base := render.Input{
		Graph:      g,
		Categories: res.Categories,
		Folds:      res.Folds,
		Positions:  res.Positions,
	}

	// Stage 4: Primary view
	renderStart := time.Now()
	primary := base
	primary.Labels = labels.Place(labels.Select(g, res.Categories, res.Folds, in.Expression),
		res.Positions, res.Folds, opts.LabelOffset, angles)
	err = r.stage(ctx, StagePrimary, g.NodeCount(), func() error {
		return writeScene(ctx, render.Primary(primary, opts.Figure), res.Outputs.Primary, opts)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", res.Outputs.Primary)
	}
	logger.Info("saved network visualization", "path", res.Outputs.Primary, "labels", len(primary.Labels))

	// Stage 5: Detailed view
	detailed := base
	detailed.Labels = labels.Place(labels.Important(g, res.Categories),
		res.Positions, res.Folds, opts.LabelOffset*DetailedOffsetFactor, angles)
	res.Detailed = r.optional(ctx, logger, StageDetailed, g.NodeCount(), res.Outputs.Detailed, errors.ErrCodeRenderFailed, func() error {
		return writeScene(ctx, render.Detailed(detailed, opts.Figure), res.Outputs.Detailed, opts)
	})
	res.Stats.RenderTime = time.Since(renderStart)

	// Stage 6: Table
	res.Rows = rank.Build(g, res.Categories, res.Folds)
	res.Table = r.optional(ctx, logger, StageTable, len(res.Rows), res.Outputs.Table, errors.ErrCodeTableFailed, func() error {
		return pkgio.ExportRankTable(res.Outputs.Table, res.Rows)
	})

	// Stage 7: Export
	if opts.JSON {
		res.Export = r.optional(ctx, logger, StageExport, g.NodeCount(), res.Outputs.JSON, errors.ErrCodeInternal, func() error {
			return pkgio.ExportJSON(res.Outputs.JSON, pkgio.Annotated{
				Graph:      g,
				Categories: res.Categories,
				Folds:      res.Folds,
				Positions:  res.Positions,
			})
		})
	}

	res.Stats.TotalTime = time.Since(start)
	logger.Debug("pipeline complete", "duration", res.Stats.TotalTime)
	return res, nil
}

// stage runs fn between the pipeline hooks. A cancelled context skips it.
func (r *Runner) stage(ctx context.Context, name string, nodes int, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	observability.Pipeline().OnStageStart(ctx, name, nodes)
	start := time.Now()
	err := fn()
	observability.Pipeline().OnStageComplete(ctx, name, time.Since(start), err)
	return err
}

// optional runs a stage whose failure is logged and recorded instead of
// returned.
func (r *Runner) optional(ctx context.Context, logger *log.Logger, name string, nodes int, path string, code errors.Code, fn func() error) StageResult {
	start := time.Now()
	err := r.stage(ctx, name, nodes, fn)
	sr := StageResult{Path: path, Duration: time.Since(start)}
	if err != nil {
		sr.Err = errors.Wrap(code, err, "%s stage", name)
		logger.Warn("stage failed, continuing", "stage", name, "path", path, "err", err)
		return sr
	}
	logger.Info("saved "+name+" output", "path", path)
	return sr
}
