package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/opgraph/opgraph/pkg/io"
	"github.com/opgraph/opgraph/pkg/item"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		opts viewOpts
		save string
	)

	cmd := &cobra.Command{
		Use:   "browse [snapshot]",
		Short: "Browse the tree interactively",
		Long: `Browse the ownership tree interactively, collapsing and expanding items.

With --save the collapse state is written on exit as a JSON export, which
other commands accept through --state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := c.columns(opts.columns)
			if err != nil {
				return err
			}
			m, err := c.open(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewBrowseModel(m, cols), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browse: %w", err)
			}

			if save != "" {
				if err := io.ExportJSON(m, save, io.Options{Columns: []item.Column{}}); err != nil {
					return err
				}
				printSuccess("Saved collapse state")
				printFile(save)
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&save, "save", "", "write the collapse state to this file on exit")

	return cmd
}
