package pipeline

import (
	"context"

	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/layout"
	"github.com/matzehuels/crossboard/pkg/render"
	"github.com/matzehuels/crossboard/pkg/render/svg"
)

// renderFigure freezes f onto a surface for the requested format and
// returns the encoded output.
func renderFigure(ctx context.Context, f *figure, opts Options) ([]byte, error) {
	if opts.Format == FormatJSON {
		return Snapshot(f, opts.Scale)
	}

	data, err := renderSVG(f, opts)
	if err != nil {
		return nil, err
	}

	switch opts.Format {
	case FormatSVG:
		return data, nil
	case FormatPNG, FormatPDF:
		if !render.Available() {
			return nil, errors.New(errors.ErrCodeUnsupported, "%s export requires rsvg-convert (librsvg)", opts.Format)
		}
		var out []byte
		if opts.Format == FormatPNG {
			out, err = render.ToPNG(ctx, data, 1)
		} else {
			out, err = render.ToPDF(ctx, data)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert %s", opts.Format)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format: %s", opts.Format)
}

func renderSVG(f *figure, opts Options) ([]byte, error) {
	svgOpts := []svg.Option{svg.WithDPI(opts.DPI)}
	if opts.Debug {
		svgOpts = append(svgOpts, svg.WithDebug())
	}
	canvas := svg.New(svgOpts...)
	if err := f.Render(canvas, opts.Scale); err != nil {
		return nil, err
	}
	if err := f.drawLegends(); err != nil {
		return nil, err
	}
	return canvas.Bytes(), nil
}

// Snapshot freezes a figure onto a recorder and returns the panel geometry
// as JSON.
func Snapshot(f interface {
	Render(layout.Surface, float64) error
}, scale float64) ([]byte, error) {
	rec := layout.NewRecorder()
	if err := f.Render(rec, scale); err != nil {
		return nil, err
	}
	return rec.Snapshot().JSON()
}
