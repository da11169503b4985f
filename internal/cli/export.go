package cli

import (
	"github.com/spf13/cobra"

	"github.com/opgraph/opgraph/pkg/io"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		opts   viewOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [snapshot]",
		Short: "Write the model as JSON",
		Long: `Write the model as JSON: the ownership tree with rows, positions, collapse
flags and column values, followed by the dataflow edges.

The output can be passed back with --state to restore collapse flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without --columns every column with data is exported.
			ioOpts := io.Options{}
			if opts.columns != "" {
				resolved, err := c.columns(opts.columns)
				if err != nil {
					return err
				}
				ioOpts.Columns = resolved
			}

			m, err := c.open(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return io.WriteJSON(m, cmd.OutOrStdout(), ioOpts)
			}
			if err := io.ExportJSON(m, output, ioOpts); err != nil {
				return err
			}
			printSuccess("Exported %d items", m.Len())
			printFile(output)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
