package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/opgraph/opgraph/pkg/errors"
	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/lineage"
	"github.com/opgraph/opgraph/pkg/model"
)

// lineageCommand creates the lineage command and its subcommands.
func (c *CLI) lineageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "Analyse the dataflow between functions",
	}

	cmd.AddCommand(c.lineageWalkCommand("up", "List the functions a function reads from", (*lineage.Graph).Upstream))
	cmd.AddCommand(c.lineageWalkCommand("down", "List the functions reading from a function", (*lineage.Graph).Downstream))
	cmd.AddCommand(c.lineageOrderCommand())
	cmd.AddCommand(c.lineageCyclesCommand())
	cmd.AddCommand(c.lineageEndsCommand())

	return cmd
}

func (c *CLI) buildLineage(ctx context.Context, path string) (*lineage.Graph, *model.Model, error) {
	m, err := c.loadModel(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	g := lineage.Build(m)
	c.Logger.Debug("built dataflow graph", "functions", g.Len(), "edges", g.EdgeCount())
	return g, m, nil
}

func (c *CLI) lineageWalkCommand(use, short string, walk func(*lineage.Graph, item.Item) []lineage.Step) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [snapshot] [site/program/function]",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, m, err := c.buildLineage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			it, ok := m.FindPath(args[1])
			if !ok {
				return apperrors.New(apperrors.ErrCodeItemNotFound, "no item %q", args[1])
			}
			if it.Base().Kind() != item.KindFunction {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "%s is a %s, not a function", args[1], it.Base().Kind())
			}
			printSteps(cmd.OutOrStdout(), walk(g, it))
			return nil
		},
	}
}

func (c *CLI) lineageOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order [snapshot]",
		Short: "List functions so that each follows the functions it reads from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := c.buildLineage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			order, err := g.Order()
			printItems(cmd.OutOrStdout(), order)
			if err != nil {
				printWarning("%d function(s) left out: the dataflow has cycles", g.Len()-len(order))
				printNextStep("List them", appName+" lineage cycles "+args[0])
			}
			return nil
		},
	}
}

func (c *CLI) lineageCyclesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cycles [snapshot]",
		Short: "List dataflow loops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := c.buildLineage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cycles := g.Cycles()
			if len(cycles) == 0 {
				printSuccess("No cycles")
				return nil
			}
			w := cmd.OutOrStdout()
			for _, cycle := range cycles {
				paths := make([]string, 0, len(cycle)+1)
				for _, it := range cycle {
					paths = append(paths, it.Base().Path())
				}
				paths = append(paths, paths[0])
				fmt.Fprintln(w, strings.Join(paths, " -> "))
			}
			return nil
		},
	}
}

func (c *CLI) lineageEndsCommand() *cobra.Command {
	var sinks bool
	cmd := &cobra.Command{
		Use:   "sources [snapshot]",
		Short: "List functions with no upstream (or, with --sinks, no downstream)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := c.buildLineage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if sinks {
				printItems(cmd.OutOrStdout(), g.Sinks())
			} else {
				printItems(cmd.OutOrStdout(), g.Sources())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sinks, "sinks", false, "list functions nothing reads from")
	return cmd
}

func printSteps(w io.Writer, steps []lineage.Step) {
	for _, s := range steps {
		fmt.Fprintf(w, "%3d  %s\n", s.Depth, s.Item.Base().Path())
	}
}

func printItems(w io.Writer, items []item.Item) {
	for _, it := range items {
		fmt.Fprintln(w, it.Base().Path())
	}
}
