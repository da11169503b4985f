package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/render/nodelink"
)

// dotCommand creates the dot command, which prints the Graphviz source.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		opts  viewOpts
		title string
	)

	cmd := &cobra.Command{
		Use:   "dot [snapshot]",
		Short: "Print the node-link graph as Graphviz DOT",
		Long: `Print the node-link graph as Graphviz DOT.

Sites and programs become nested clusters and functions become boxes, with
one edge per dataflow relation. A collapsed item is drawn as a single box
and the edges of its hidden subtree are redirected to it.`,
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
			fmt.Fprint(cmd.OutOrStdout(), nodelink.ToDOT(m, nodelink.Options{Columns: cols, Title: title}))
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "graph title")

	return cmd
}

// labelColumns resolves the columns drawn next to item names by the tree
// and graph views. These show only names unless --columns is given.
func (c *CLI) labelColumns(flag string) ([]item.Column, error) {
	if flag == "" {
		return nil, nil
	}
	return c.columns(flag)
}
