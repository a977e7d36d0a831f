package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gemdiff/perturbviz/pkg/render"
	"github.com/gemdiff/perturbviz/pkg/render/canvas"
	"github.com/gemdiff/perturbviz/pkg/render/nodelink"
	"github.com/gemdiff/perturbviz/pkg/render/svg"
)

// Encode draws a scene in the renderer and format of opts.
func Encode(ctx context.Context, sc *render.Scene, opts Options) ([]byte, error) {
	if opts.Renderer == RendererNodelink {
		dot := nodelink.ToDOT(sc)
		switch opts.Format {
		case FormatDOT:
			return []byte(dot), nil
		case FormatSVG:
			return nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			return nodelink.RenderPNG(ctx, dot)
		}
		return nil, fmt.Errorf("unsupported nodelink format: %s", opts.Format)
	}

	switch opts.Format {
	case FormatPNG:
		return canvas.PNG(sc)
	case FormatSVG:
		return svg.Render(sc), nil
	case FormatPDF:
		return render.ToPDF(ctx, svg.Render(sc))
	}
	return nil, fmt.Errorf("unsupported format: %s", opts.Format)
}

func writeScene(ctx context.Context, sc *render.Scene, path string, opts Options) error {
	data, err := Encode(ctx, sc, opts)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
