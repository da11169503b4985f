package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	apperrors "github.com/opgraph/opgraph/pkg/errors"
	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/model"
)

// tableCommand creates the table command.
func (c *CLI) tableCommand() *cobra.Command {
	var (
		opts viewOpts
		kind string
	)

	cmd := &cobra.Command{
		Use:   "table [snapshot]",
		Short: "Print items and their columns as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := c.columns(opts.columns)
			if err != nil {
				return err
			}
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			m, err := c.open(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(m, cols, k))
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", "function", "item kind to list: site, program, function, all")

	return cmd
}

// parseKind maps a --kind flag to a kind; -1 selects every kind.
func parseKind(s string) (item.Kind, error) {
	switch strings.ToLower(s) {
	case "site":
		return item.KindSite, nil
	case "program":
		return item.KindProgram, nil
	case "function", "":
		return item.KindFunction, nil
	case "all":
		return -1, nil
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid kind: %q (must be one of: site, program, function, all)", s)
}

// tableRows lists the visible items of kind k with one cell per column.
// The first cell is the item path.
func tableRows(m *model.Model, cols []item.Column, k item.Kind) [][]string {
	var rows [][]string
	m.Walk(func(it item.Item, _ int) bool {
		n := it.Base()
		if k < 0 || n.Kind() == k {
			row := []string{n.Path()}
			for _, c := range cols {
				if c == item.ColName {
					continue
				}
				row = append(row, model.Cell(it, c))
			}
			rows = append(rows, row)
		}
		return !n.Collapsed()
	})
	return rows
}

func tableHeaders(cols []item.Column) []string {
	headers := []string{"Path"}
	for _, c := range cols {
		if c != item.ColName {
			headers = append(headers, c.Header())
		}
	}
	return headers
}

func renderTable(m *model.Model, cols []item.Column, k item.Kind) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	pathStyle := cellStyle.Foreground(colorCyan)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(tableHeaders(cols)...).
		Rows(tableRows(m, cols, k)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return pathStyle
			}
			return cellStyle
		})
	return t.Render()
}
