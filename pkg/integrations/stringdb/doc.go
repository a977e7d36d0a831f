// Package stringdb retrieves functional interaction networks from the
// STRING database (https://string-db.org).
//
// # Querying
//
// [Client.FetchNetwork] posts the seed genes to STRING's TSV network
// endpoint and returns the interactions as an edge list keyed by preferred
// gene names:
//
//	client := stringdb.NewClient(c, cache.DefaultTTL)
//	q := stringdb.NewQuery([]string{"TP53", "MDM2"})
//	edges, err := client.FetchNetwork(ctx, q, false)
//
// [NewQuery] sets the defaults: human (9606), a required score of 400,
// 50 added interactors and the functional network. Responses are cached
// by a hash of the complete query.
//
// # Seed Genes
//
// [SeedGenes] builds the identifier list from the perturbed genes plus the
// strongest up- and down-regulated genes of an expression table, so the
// returned network covers both the perturbation and its effects.
package stringdb
