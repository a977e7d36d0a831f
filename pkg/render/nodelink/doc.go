// Package nodelink exports a [render.Scene] as a Graphviz node-link diagram.
//
// # Usage
//
// Convert a scene to DOT, then render it with Graphviz:
//
//	dot := nodelink.ToDOT(scene)
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # DOT Format
//
// The generated graph is undirected and uses the neato engine with every
// node pinned (pos="x,y!") to the coordinates of the scene, so Graphviz
// only draws and never re-lays out the network. Coordinates are in points
// with the origin at the bottom-left, as Graphviz expects.
//
// Gene nodes keep their category colour, size and opacity. Labels are
// separate rounded box nodes pinned at the label position and joined to
// their gene by a connector edge. The legend is an HTML-like table node.
// The fold-change colorbar has no DOT equivalent and is omitted; node
// colours still follow the scale.
//
// The DOT text can also be saved and processed with external Graphviz
// tools (neato -n2 respects the pinned positions).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
