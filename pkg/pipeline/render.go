package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/opgraph/opgraph/pkg/io"
	"github.com/opgraph/opgraph/pkg/model"
	"github.com/opgraph/opgraph/pkg/render/nodelink"
)

// Render produces one output format. dot must be the DOT document of m.
func Render(ctx context.Context, m *model.Model, dot, format string, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatDOT:
		data = []byte(dot)
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot)
	case FormatJSON:
		var buf bytes.Buffer
		err = io.WriteJSON(m, &buf, io.Options{Columns: opts.Columns})
		data = buf.Bytes()
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
