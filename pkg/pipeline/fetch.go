package pipeline

import (
	"context"

	"github.com/gemdiff/perturbviz/pkg/annotate"
	"github.com/gemdiff/perturbviz/pkg/errors"
	"github.com/gemdiff/perturbviz/pkg/integrations/stringdb"
	"github.com/gemdiff/perturbviz/pkg/network"
)

// FetchOptions configures network retrieval from STRING.
type FetchOptions struct {
	Query   stringdb.Query // Identifiers is filled from the seed genes
	TopDEGs int            // up- and down-regulated genes added to the seeds
	Refresh bool           // bypass the response cache
}

// FetchNetwork retrieves the interaction network around the perturbed genes
// and the strongest differentially expressed genes of table. Any failure,
// including an empty network, is returned as an error.
func (r *Runner) FetchNetwork(ctx context.Context, perturbed []string, table annotate.ExpressionTable, opts FetchOptions) ([]network.Edge, error) {
	if opts.TopDEGs < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "top DEG count must not be negative, got %d", opts.TopDEGs)
	}
	seeds := stringdb.SeedGenes(perturbed, table, opts.TopDEGs)
	if len(seeds) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no seed genes to query")
	}

	q := opts.Query
	q.Identifiers = seeds
	q.SetDefaults()
	r.Logger.Info("querying STRING",
		"genes", len(seeds),
		"species", q.Species,
		"score", q.RequiredScore,
		"added", q.AdditionalNodes)

	edges, err := r.Client.FetchNetwork(ctx, q, opts.Refresh)
	if err != nil {
		return nil, err
	}
	g := network.Build(edges)
	r.Logger.Info("retrieved network", "interactions", len(edges), "genes", g.NodeCount())
	return edges, nil
}
