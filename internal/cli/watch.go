package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opgraph/opgraph/pkg/io"
	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/model"
	"github.com/opgraph/opgraph/pkg/observability"
	"github.com/opgraph/opgraph/pkg/pipeline"
	"github.com/opgraph/opgraph/pkg/watcher"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		formatsStr string
		debounce   time.Duration
		opts       renderOpts
	)

	cmd := &cobra.Command{
		Use:   "watch [snapshot]",
		Short: "Re-render whenever the snapshot changes",
		Long: `Render the snapshot, then render it again after every change to the file
until interrupted.

Each reload builds a fresh model. Items that were collapsed before the
change stay collapsed if they still exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatsStr == "" {
				formatsStr = c.Settings.Render.Format
			}
			opts.formats = pipeline.ParseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("debounce") {
				d, err := c.Settings.Debounce()
				if err != nil {
					return err
				}
				debounce = d
			}
			return c.runWatch(cmd.Context(), args[0], opts, debounce)
		},
	}

	opts.view.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "graph title")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before reloading (default from config, then 200ms)")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, path string, opts renderOpts, debounce time.Duration) error {
	m, err := c.open(ctx, path, opts.view)
	if err != nil {
		return err
	}
	if err := c.renderModel(ctx, m, path, opts); err != nil {
		return err
	}

	printInfo("Watching %s (ctrl+c to stop)", path)
	prev := m
	reload := func() {
		observability.Load().OnReload(ctx, path)
		next, err := c.reload(ctx, path, prev)
		if err != nil {
			printError("%v", err)
			return
		}
		if err := c.renderModel(ctx, next, path, opts); err != nil {
			printError("%v", err)
			return
		}
		prev = next
	}

	err = watcher.Watch(ctx, path, reload, watcher.Options{
		Debounce: debounce,
		OnError: func(err error) {
			c.Logger.Warn("watch error", "err", err)
		},
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return ctx.Err()
}

// reload loads a fresh model and carries over the collapse flags of prev.
func (c *CLI) reload(ctx context.Context, path string, prev *model.Model) (*model.Model, error) {
	next, err := c.loadModel(ctx, path)
	if err != nil {
		return nil, err
	}
	doc := io.Export(prev, io.Options{Columns: []item.Column{}})
	if n := io.RestoreCollapsed(next, &doc); n > 0 {
		c.Logger.Debug("kept collapse state", "collapsed", n)
	}
	return next, nil
}
