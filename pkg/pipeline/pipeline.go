// Package pipeline runs the PerturbViz annotation and rendering pipeline.
//
// The CLI loads the inputs and hands them to a [Runner]; the runner owns
// everything between the edge list and the files on disk.
//
// # Architecture
//
// A run consists of these stages:
//
//  1. Build: turn the edge list into an undirected simple graph
//  2. Classify: assign every gene a category and collect fold changes
//  3. Layout: compute positions, falling back to the spring layout when
//     the requested algorithm fails
//  4. Primary: render the category view (a failure aborts the run)
//  5. Detailed: render the labeled view of the important genes
//  6. Table: rank the important genes and write them as CSV
//  7. Export: optionally write the annotated network as JSON
//
// Stages 5-7 report their outcome in a [StageResult]. Their failure is
// logged and recorded but never undoes the files already written.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, cache.DefaultTTL, logger)
//	res, err := runner.Execute(ctx, pipeline.Inputs{
//	    Edges:      edges,
//	    Perturbed:  []string{"TP53"},
//	    Expression: table,
//	}, pipeline.Options{Prefix: "out/tp53"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Outputs.Primary)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/errors"
	"github.com/gemdiff/perturbviz/pkg/labels"
	"github.com/gemdiff/perturbviz/pkg/layout"
	"github.com/gemdiff/perturbviz/pkg/network"
	"github.com/gemdiff/perturbviz/pkg/rank"
	"github.com/gemdiff/perturbviz/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultPrefix names the output files when no prefix is given.
	DefaultPrefix = "perturb_viz"

	// DefaultLabelOffset is the label distance from its node in layout units.
	DefaultLabelOffset = 0.05

	// DetailedOffsetFactor widens the label offset in the detailed view.
	DetailedOffsetFactor = 1.5

	// DefaultLayout is the default layout algorithm.
	DefaultLayout = string(layout.Spring)
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// Renderers.
const (
	// RendererCanvas draws scenes directly (gg for PNG, svgo for SVG and PDF).
	RendererCanvas = "canvas"

	// RendererNodelink emits Graphviz DOT with pinned positions and renders
	// it with neato.
	RendererNodelink = "nodelink"
)

// Formats lists the formats each renderer supports, default first.
var Formats = map[string][]string{
	RendererCanvas:   {FormatPNG, FormatSVG, FormatPDF},
	RendererNodelink: {FormatSVG, FormatPNG, FormatDOT},
}

// Output file suffixes appended to the prefix.
const (
	primarySuffix  = "_network"
	detailedSuffix = "_network_labeled"
	tableSuffix    = "_important_genes.csv"
	jsonSuffix     = "_network.json"
)

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	Prefix      string         `json:"prefix"`
	Layout      string         `json:"layout"`
	Seed        uint64         `json:"seed"`
	LabelOffset float64        `json:"label_offset"`
	Figure      render.Options `json:"figure"`
	Format      string         `json:"format"`
	Renderer    string         `json:"renderer"`
	JSON        bool           `json:"json,omitempty"` // also write the annotated network as JSON

	// Angles supplies label directions. Nil uses a randomly seeded
	// generator, so label placement differs between runs.
	Angles labels.AngleSource `json:"-"`
	Logger *log.Logger        `json:"-"`

	validated bool
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.LabelOffset == 0 {
		o.LabelOffset = DefaultLabelOffset
	}
	d := render.DefaultOptions()
	if o.Figure.Width == 0 {
		o.Figure.Width = d.Width
	}
	if o.Figure.Height == 0 {
		o.Figure.Height = d.Height
	}
	if o.Figure.DPI == 0 {
		o.Figure.DPI = d.DPI
	}
	if o.Figure.NodeSize == 0 {
		o.Figure.NodeSize = d.NodeSize
	}
	if o.Renderer == "" {
		o.Renderer = RendererCanvas
	}
	if o.Format == "" {
		if fs, ok := Formats[o.Renderer]; ok {
			o.Format = fs[0]
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks option values. Call SetDefaults first.
func (o *Options) Validate() error {
	if err := errors.ValidateOutputPrefix(o.Prefix); err != nil {
		return err
	}
	if _, err := layout.Parse(o.Layout); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "invalid layout")
	}
	if err := ValidateFormat(o.Renderer, o.Format); err != nil {
		return err
	}
	if o.LabelOffset < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "label offset must not be negative, got %g", o.LabelOffset)
	}
	if o.Figure.Width <= 0 || o.Figure.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "figure size must be positive, got %gx%g", o.Figure.Width, o.Figure.Height)
	}
	if o.Figure.DPI <= 0 || o.Figure.DPI > maxDPI {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be between 1 and %d, got %d", maxDPI, o.Figure.DPI)
	}
	if px := o.Figure.Width * o.Figure.Height * float64(o.Figure.DPI*o.Figure.DPI); px > maxPixels {
		return errors.New(errors.ErrCodeInvalidInput, "figure of %.0f megapixels is too large", px/1e6)
	}
	if o.Figure.NodeSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node size must be positive, got %g", o.Figure.NodeSize)
	}
	return nil
}

// Limits on figure size, so a typo in --dpi cannot exhaust memory.
const (
	maxDPI    = 1200
	maxPixels = 400e6
)

// ValidateAndSetDefaults applies defaults and validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that renderer is known and supports format.
func ValidateFormat(renderer, format string) error {
	fs, ok := Formats[renderer]
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid renderer: %q (must be one of: canvas, nodelink)", renderer)
	}
	if !slices.Contains(fs, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "renderer %s cannot write %q (supported: %v)", renderer, format, fs)
	}
	return nil
}

// Outputs returns the paths a run with these options writes to.
func (o Options) Outputs() Outputs {
	out := Outputs{
		Primary:  o.Prefix + primarySuffix + "." + o.Format,
		Detailed: o.Prefix + detailedSuffix + "." + o.Format,
		Table:    o.Prefix + tableSuffix,
	}
	if o.JSON {
		out.JSON = o.Prefix + jsonSuffix
	}
	return out
}

// =============================================================================
// Inputs and Results
// =============================================================================

// Inputs holds the data a run annotates.
type Inputs struct {
	Edges     []network.Edge
	Perturbed []string

	// Expression is nil when no expression table was supplied and empty
	// when one was supplied without usable fold changes.
	Expression annotate.ExpressionTable
}

// Outputs lists the files a run writes. JSON is empty unless requested.
type Outputs struct {
	Primary  string
	Detailed string
	Table    string
	JSON     string
}

// StageResult records the outcome of a stage whose failure does not abort
// the run.
type StageResult struct {
	Path     string
	Err      error
	Duration time.Duration
}

// OK reports whether the stage succeeded.
func (s StageResult) OK() bool { return s.Err == nil }

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	Graph      *network.Graph
	Categories annotate.Categories
	Folds      annotate.FoldChanges
	Positions  layout.Positions
	Layout     layout.Result
	Rows       []rank.Row

	// Outputs are the paths written or attempted.
	Outputs Outputs

	Detailed StageResult
	Table    StageResult
	Export   StageResult

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	NodeCount        int
	EdgeCount        int
	Counts           map[annotate.Category]int
	MissingPerturbed []string // perturbed genes absent from the network
	LayoutTime       time.Duration
	RenderTime       time.Duration
	TotalTime        time.Duration
}

// Failed returns the optional stages that failed, in run order.
func (r *Result) Failed() []string {
	var out []string
	for _, s := range []struct {
		name string
		res  StageResult
	}{{StageDetailed, r.Detailed}, {StageTable, r.Table}, {StageExport, r.Export}} {
		if !s.res.OK() {
			out = append(out, s.name)
		}
	}
	return out
}

// String summarizes category counts for logs.
func (s Stats) String() string {
	return fmt.Sprintf("%d perturbed, %d up, %d down, %d other",
		s.Counts[annotate.Perturbed], s.Counts[annotate.Up], s.Counts[annotate.Down], s.Counts[annotate.Other])
}
