package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opgraph/opgraph/pkg/model"
	"github.com/opgraph/opgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	view    viewOpts
	output  string   // output file (single format) or base path (multiple)
	formats []string // svg, png, dot, json
	title   string   // graph title
	noCache bool     // bypass the render cache
	refresh bool     // re-render and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [snapshot]",
		Short: "Render the node-link graph to SVG, PNG, DOT or JSON",
		Long: `Render the node-link graph of a snapshot.

SVG and PNG output go through Graphviz and are cached by the content of the
DOT document, so rendering an unchanged snapshot is a cache read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatsStr == "" {
				formatsStr = c.Settings.Render.Format
			}
			opts.formats = pipeline.ParseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	opts.view.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "graph title")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

// runRender loads the snapshot once and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	m, err := c.open(ctx, input, opts.view)
	if err != nil {
		return err
	}
	return c.renderModel(ctx, m, input, opts)
}

func (c *CLI) renderModel(ctx context.Context, m *model.Model, input string, opts renderOpts) error {
	cols, err := c.labelColumns(opts.view.columns)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	spinner.Start()
	prog := newProgress(c.Logger)
	result, err := runner.RenderModel(ctx, m, pipeline.Options{
		Formats: opts.formats,
		Columns: cols,
		Title:   opts.title,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Items, result.Stats.Relations, result.Stats.Pending, result.CacheInfo.RenderHit)

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := outputPath(opts.output, base, format, len(opts.formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file for one format. A single format honours
// --output as given; several formats share the base path.
func outputPath(output, base, format string, count int) string {
	if count == 1 && output != "" {
		return output
	}
	return base + "." + format
}
