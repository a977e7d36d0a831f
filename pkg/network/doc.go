// Package network provides the undirected gene-interaction graph used by
// every stage of the pipeline.
//
// # Overview
//
// A [Graph] is an undirected simple graph over gene identifiers. It is
// built once from an edge list with [Build] and never mutated afterwards.
// Storage and traversal are delegated to gonum's simple.UndirectedGraph so
// the layout and ranking packages can run gonum algorithms directly on
// [Graph.Undirected].
//
// # Building
//
// [Build] applies three normalizations to the raw edge list:
//
//   - Self-loops (A, A) are dropped
//   - Duplicate and reciprocal edges collapse to one undirected edge
//   - Every endpoint becomes a node, in order of first appearance
//
// Node order is significant: the circular layout places nodes in this
// order and rank-table ties keep it. [Build] preserves it exactly:
//
//	g := network.Build([]network.Edge{{"TP53", "MDM2"}, {"MDM2", "CDKN1A"}})
//	g.Nodes() // [TP53 MDM2 CDKN1A]
//
// Isolated genes (for example perturbed genes with no interactions) can be
// added with [BuildWithNodes].
package network
