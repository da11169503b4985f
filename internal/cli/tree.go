package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/opgraph/opgraph/pkg/errors"
	"github.com/opgraph/opgraph/pkg/io"
	"github.com/opgraph/opgraph/pkg/model"
	"github.com/opgraph/opgraph/pkg/render/treeview"
)

// viewOpts holds the flags shared by the commands that display a model.
type viewOpts struct {
	columns  string // comma-separated column headers, "all", or empty for the configured set
	collapse string // comma-separated item paths to collapse
	state    string // JSON export whose collapse flags are restored
}

func (o *viewOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.columns, "columns", "c", "", `columns to show (comma-separated headers, or "all")`)
	cmd.Flags().StringVar(&o.collapse, "collapse", "", "item paths to collapse (comma-separated)")
	cmd.Flags().StringVar(&o.state, "state", "", "restore collapse state from a JSON export")
}

// open loads the snapshot and applies the collapse flags.
func (c *CLI) open(ctx context.Context, path string, o viewOpts) (*model.Model, error) {
	m, err := c.loadModel(ctx, path)
	if err != nil {
		return nil, err
	}
	if o.state != "" {
		doc, err := io.ImportJSON(o.state)
		if err != nil {
			return nil, err
		}
		n := io.RestoreCollapsed(m, doc)
		c.Logger.Debug("restored collapse state", "file", o.state, "collapsed", n)
	}
	for _, p := range strings.Split(o.collapse, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		it, ok := m.FindPath(p)
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeItemNotFound, "collapse: no item %q", p)
		}
		m.SetCollapsed(it, true)
	}
	return m, nil
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		opts  viewOpts
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "tree [snapshot]",
		Short: "Print the ownership tree",
		Long: `Print sites, programs and functions as a tree, in row order.

Collapsed items hide their subtree and show the number of hidden items.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := c.labelColumns(opts.columns)
			if err != nil {
				return err
			}
			m, err := c.open(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			out := treeview.Render(m, treeview.Options{
				Columns: cols,
				Styled:  !plain,
				Root:    args[0],
			})
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")

	return cmd
}
