package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/config"
	"github.com/gemdiff/perturbviz/pkg/errors"
	pkgio "github.com/gemdiff/perturbviz/pkg/io"
	"github.com/gemdiff/perturbviz/pkg/network"
	"github.com/gemdiff/perturbviz/pkg/pipeline"
)

// visualizeFlags holds the inputs of a visualize run. Rendering settings are
// read through the configuration layers instead.
type visualizeFlags struct {
	network   string
	perturbed string
	degs      string
	output    string
	fetch     bool
	noCache   bool
	refresh   bool
}

// visualizeCommand creates the visualize command that runs the full pipeline.
func (c *CLI) visualizeCommand() *cobra.Command {
	var flags visualizeFlags
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Annotate, lay out and render a gene interaction network",
		Long: `Annotate a gene interaction network with perturbation and differential
expression status and render it.

Every gene in the network is classified as perturbed, upregulated (log2FC > 1),
downregulated (log2FC < -1) or other. The network is laid out with the chosen
algorithm and written as two images, an overview labelling the perturbed and
most regulated genes and a detailed view labelling every important gene, plus
a CSV table of the important genes ranked by connectivity.

The network comes from an edge list file (--network) or is fetched from the
STRING database around the perturbed genes and the strongest DEGs (--fetch).

Rendering settings can also be set in perturbviz.toml or PERTURBVIZ_*
environment variables; explicit flags take precedence.`,
		Example: `  perturbviz visualize -n network.tsv -p TP53,MDM2 -d degs.tsv
  perturbviz visualize --fetch -p perturbed.txt -d degs.tsv --layout kamada_kawai
  perturbviz visualize -n network.tsv -p TP53 --format svg --renderer nodelink`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd.Context(), cmd, flags)
		},
	}

	// Inputs
	cmd.Flags().StringVarP(&flags.network, "network", "n", "", "network edge list (source/target columns, or the first two)")
	cmd.Flags().StringVarP(&flags.perturbed, "perturbed", "p", "", "perturbed genes: file with one gene per line, or comma-separated list")
	cmd.Flags().StringVarP(&flags.degs, "degs", "d", "", "differential expression table with gene and log2FC columns")
	cmd.Flags().StringVarP(&flags.output, "output", "o", d.Prefix, "output file prefix")
	cmd.Flags().BoolVar(&flags.fetch, "fetch", false, "fetch the network from STRING instead of reading --network")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "do not use the STRING response cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "refetch from STRING and update the cache")

	_ = cmd.MarkFlagRequired("perturbed")
	cmd.MarkFlagsMutuallyExclusive("network", "fetch")
	cmd.MarkFlagsOneRequired("network", "fetch")

	addRenderFlags(cmd, d)
	addStringFlags(cmd, d)

	return cmd
}

// addRenderFlags registers the rendering settings under their config keys.
func addRenderFlags(cmd *cobra.Command, d config.Config) {
	f := cmd.Flags()
	f.String("layout", d.Layout, "layout algorithm: spring, kamada_kawai, circular, spectral")
	f.Uint64("seed", d.Seed, "random seed for the spring layout")
	f.Float64("node-size", d.NodeSize, "base node size")
	f.Float64("width", d.Width, "figure width in inches")
	f.Float64("height", d.Height, "figure height in inches")
	f.Int("dpi", d.DPI, "output resolution")
	f.Float64("label-offset", d.LabelOffset, "label distance from its node, as a fraction of the layout extent")
	f.String("format", d.Format, "image format: png, svg, pdf (canvas); svg, png, dot (nodelink)")
	f.String("renderer", d.Renderer, "renderer: canvas, nodelink")
	f.Bool("json", d.JSON, "also write the annotated network as JSON")
}

// addStringFlags registers the STRING query settings under their config keys.
func addStringFlags(cmd *cobra.Command, d config.Config) {
	f := cmd.Flags()
	f.IntP("species", "s", d.Species, "NCBI taxonomy ID")
	f.Int("score", d.RequiredScore, "minimum interaction confidence score (0-1000)")
	f.IntP("additional", "a", d.AdditionalNodes, "number of additional interactors to include")
	f.String("network-type", d.NetworkType, "STRING network type: functional, physical")
	f.Int("top-degs", d.TopDEGs, "top up- and downregulated genes added to the query")
	f.String("string-url", d.StringURL, "STRING API base URL")
}

// runVisualize loads the inputs and runs the pipeline.
func (c *CLI) runVisualize(ctx context.Context, cmd *cobra.Command, flags visualizeFlags) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.Prefix = flags.output
	}
	opts := cfg.PipelineOptions()
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	perturbed, err := c.loadPerturbed(flags.perturbed)
	if err != nil {
		return err
	}
	expression := c.loadExpression(flags.degs)

	runner, err := c.newRunner(cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var edges []network.Edge
	if flags.fetch {
		edges, err = c.fetchNetwork(ctx, runner, cfg, perturbed, expression, flags.refresh)
	} else {
		edges, err = c.loadNetwork(flags.network)
	}
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Inputs{
		Edges:      edges,
		Perturbed:  perturbed,
		Expression: expression,
	}, opts)
	if err != nil {
		return err
	}
	prog.done("Pipeline finished")

	printResult(res)
	return nil
}

// loadPerturbed reads the perturbed gene list.
func (c *CLI) loadPerturbed(input string) ([]string, error) {
	genes, err := pkgio.ParseGeneList(input)
	if err != nil {
		return nil, fmt.Errorf("load perturbed genes: %w", err)
	}
	if len(genes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no perturbed genes in %q", input)
	}
	c.Logger.Info("Loaded perturbed genes", "count", len(genes))
	return genes, nil
}

// loadExpression reads the DEG table. A table that cannot be read is
// replaced by an empty one so the run continues without fold changes.
// It returns nil when no path was given.
func (c *CLI) loadExpression(path string) annotate.ExpressionTable {
	if path == "" {
		return nil
	}
	table, schema, err := pkgio.ImportExpressionTable(path)
	if err != nil {
		printWarning("Could not load DEG table: %s", errors.UserMessage(err))
		printDetail("Continuing without fold changes")
		return annotate.ExpressionTable{}
	}
	if schema.GenePositional {
		printWarning("No gene column found in %s, using %q as gene identifiers", path, schema.GeneColumn)
	}
	if !schema.HasFoldChange() {
		printWarning("No log2 fold change column found in %s", path)
		return table
	}
	c.Logger.Info("Loaded DEG table", "genes", len(table), "column", schema.FoldColumn)
	return table
}

// loadNetwork reads the edge list file.
func (c *CLI) loadNetwork(path string) ([]network.Edge, error) {
	el, err := pkgio.ImportEdgeList(path)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}
	if el.Positional {
		printWarning("Network file has no source/target columns, using the first two columns")
	}
	if el.Skipped > 0 {
		c.Logger.Warn("Skipped incomplete rows", "file", path, "rows", el.Skipped)
	}
	c.Logger.Info("Loaded network", "file", path, "interactions", len(el.Edges))
	return el.Edges, nil
}

// fetchNetwork retrieves the network from STRING with a spinner.
func (c *CLI) fetchNetwork(ctx context.Context, runner *pipeline.Runner, cfg *config.Config, perturbed []string, table annotate.ExpressionTable, refresh bool) ([]network.Edge, error) {
	spinner := newSpinnerWithContext(ctx, "Querying STRING...")
	spinner.Start()

	edges, err := runner.FetchNetwork(ctx, perturbed, table, pipeline.FetchOptions{
		Query:   cfg.Query(),
		TopDEGs: cfg.TopDEGs,
		Refresh: refresh,
	})
	if err != nil {
		spinner.StopWithError("STRING query failed")
		return nil, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Retrieved %d interactions from STRING", len(edges)))
	return edges, nil
}

// printResult summarizes a finished run.
func printResult(res *pipeline.Result) {
	printNewline()
	printSuccess("Visualization complete")
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.Counts)
	if n := len(res.Stats.MissingPerturbed); n > 0 {
		printWarning("%d perturbed genes are not in the network", n)
	}

	printFile(res.Outputs.Primary)
	for _, s := range []pipeline.StageResult{res.Detailed, res.Table, res.Export} {
		if s.Path == "" {
			continue
		}
		if s.OK() {
			printFile(s.Path)
		} else {
			printError("%s: %s", s.Path, errors.UserMessage(s.Err))
		}
	}

	if len(res.Rows) > 0 {
		printNewline()
		fmt.Println(StyleTitle.Render("Important genes"))
		fmt.Println(renderRankTable(res.Rows))
	}

	if failed := res.Failed(); len(failed) > 0 {
		printNewline()
		printWarning("Stages failed: %v", failed)
		printNextStep("Rerun with debug logging", "perturbviz visualize -v ...")
	}
}
