package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemdiff/perturbviz/pkg/config"
	pkgio "github.com/gemdiff/perturbviz/pkg/io"
)

// defaultNetworkFile is where the network command writes by default.
const defaultNetworkFile = "string_network.tsv"

// networkCommand creates the network command that fetches a STRING network.
func (c *CLI) networkCommand() *cobra.Command {
	var (
		genes   string
		degs    string
		output  string
		noCache bool
		refresh bool
	)
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "network",
		Short: "Fetch a gene interaction network from STRING",
		Long: `Fetch the interaction network around a set of genes from the STRING
database and write it as a tab-separated edge list.

The query combines the given genes with the strongest up- and downregulated
genes of an optional DEG table, and asks STRING to add further interactors.
Responses are cached; use --refresh to query again.

The edge list can be passed to 'perturbviz visualize --network'.`,
		Example: `  perturbviz network -g TP53,MDM2,CDKN1A -o p53_network.tsv
  perturbviz network -g perturbed.txt -d degs.tsv --score 700 -a 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			seeds, err := c.loadPerturbed(genes)
			if err != nil {
				return err
			}
			table := c.loadExpression(degs)

			runner, err := c.newRunner(cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			edges, err := c.fetchNetwork(cmd.Context(), runner, cfg, seeds, table, refresh)
			if err != nil {
				return err
			}

			if err := pkgio.ExportEdgeList(output, edges); err != nil {
				return fmt.Errorf("write network: %w", err)
			}
			printFile(output)
			printNextStep("Visualize it", fmt.Sprintf("perturbviz visualize -n %s -p %s", output, genes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&genes, "genes", "g", "", "genes to query: file with one gene per line, or comma-separated list")
	cmd.Flags().StringVarP(&degs, "degs", "d", "", "DEG table whose top genes are added to the query")
	cmd.Flags().StringVarP(&output, "output", "o", defaultNetworkFile, "output edge list")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not use the STRING response cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch from STRING and update the cache")
	_ = cmd.MarkFlagRequired("genes")

	addStringFlags(cmd, d)

	return cmd
}
