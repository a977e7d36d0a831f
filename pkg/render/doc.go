// Package render turns an annotated, laid-out gene network into images.
//
// # Overview
//
// Rendering is split in two steps. [Primary] and [Detailed] build a
// backend-neutral [Scene]: every edge, node marker, label, legend entry and
// colorbar already positioned in pixel space. Backends then draw the scene:
//
//   - [canvas]: raster PNG through gg and the Go fonts
//   - [svg]: vector SVG through svgo; [ToPDF] converts it to PDF
//   - [nodelink]: Graphviz DOT with pinned node positions, rendered through
//     go-graphviz
//
// # Views
//
// The primary view draws every category with its own colour and size,
// colours perturbed genes by fold change when any of them has one, and adds
// a legend with per-category counts and a title with totals.
//
// The detailed view de-emphasizes unregulated genes, draws every category
// in its flat colour, labels only the important genes and pushes their
// labels further out.
//
// # Format Conversion
//
// [ToPDF] converts SVG to PDF with the external rsvg-convert tool (librsvg).
//
// [canvas]: github.com/gemdiff/perturbviz/pkg/render/canvas
// [svg]: github.com/gemdiff/perturbviz/pkg/render/svg
// [nodelink]: github.com/gemdiff/perturbviz/pkg/render/nodelink
package render
