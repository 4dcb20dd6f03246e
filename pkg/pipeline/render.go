package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	errs "github.com/matzehuels/commitgraph/pkg/errors"
	"github.com/matzehuels/commitgraph/pkg/render"
	"github.com/matzehuels/commitgraph/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, name := range opts.Formats {
		f, _ := render.ParseFormat(name)
		var (
			data []byte
			err  error
		)
		switch {
		case f == render.FormatJSON:
			data, err = renderJSON(l)
		case l.VizType == VizTypeNodelink:
			data, err = renderNodelink(ctx, l.DOT, f, opts.Scale)
		default:
			data, err = render.Convert(ctx, l.SVG, f, opts.Scale)
		}
		if err != nil {
			if errs.GetCode(err) != "" {
				return nil, err
			}
			return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render %s", f)
		}
		artifacts[string(f)] = data
	}
	return artifacts, nil
}

// renderJSON exports the placements of a gitgraph layout, or the whole
// layout for a nodelink diagram.
func renderJSON(l Layout) ([]byte, error) {
	if l.Result != nil {
		return json.MarshalIndent(l.Result, "", "  ")
	}
	return json.MarshalIndent(l, "", "  ")
}

func renderNodelink(ctx context.Context, dot string, f render.Format, scale float64) ([]byte, error) {
	switch f {
	case render.FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case render.FormatPNG:
		return nodelink.RenderPNG(ctx, dot, scale)
	case render.FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported nodelink format %s", f)
}
