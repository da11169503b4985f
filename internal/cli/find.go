package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/model"
)

var styleMatch = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

// findCommand creates the find command.
func (c *CLI) findCommand() *cobra.Command {
	var (
		kind  string
		limit int
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "find [snapshot] [query]",
		Short: "Fuzzy search item paths",
		Long: `Fuzzy search the paths of all items, best match first.

The query matches characters in order, so "s1dmagg" finds
"s1/demo/aggregate".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			m, err := c.loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			matches := findItems(m, args[1], k)
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			w := cmd.OutOrStdout()
			for _, match := range matches {
				if plain {
					fmt.Fprintln(w, match.Str)
				} else {
					fmt.Fprintln(w, highlight(match))
				}
			}
			if len(matches) == 0 {
				printInfo("No match for %q", args[1])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "all", "item kind to search: site, program, function, all")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results (0 for all)")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable highlighting")

	return cmd
}

// findItems matches query against the paths of the items of kind k
// (every kind when k is negative), best match first.
func findItems(m *model.Model, query string, k item.Kind) fuzzy.Matches {
	var paths []string
	m.Walk(func(it item.Item, _ int) bool {
		if n := it.Base(); k < 0 || n.Kind() == k {
			paths = append(paths, n.Path())
		}
		return true
	})
	return fuzzy.Find(query, paths)
}

// highlight renders the matched characters of a path in bold.
func highlight(match fuzzy.Match) string {
	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}
	var b strings.Builder
	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(styleMatch.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
