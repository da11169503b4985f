package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(24)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// BrowseModel - Interactive tree with collapse toggling
// =============================================================================

// browseRow is one visible line of the tree.
type browseRow struct {
	it    item.Item
	depth int
}

// BrowseModel is the bubbletea model of the browse command. Toggling an
// item collapses or expands it in the underlying model.
type BrowseModel struct {
	Model   *model.Model
	Columns []item.Column
	Cursor  int
	Offset  int
	Height  int

	rows      []browseRow
	search    textinput.Model
	searching bool
	status    string
	copy      func(string) error
}

// NewBrowseModel creates a browser over m showing cols for the selection.
func NewBrowseModel(m *model.Model, cols []item.Column) BrowseModel {
	ti := textinput.New()
	ti.Placeholder = "Search paths..."
	ti.CharLimit = 128
	ti.Width = 40

	b := BrowseModel{Model: m, Columns: cols, Height: 20, search: ti, copy: clipboard.WriteAll}
	b.refresh()
	return b
}

// refresh rebuilds the visible rows after a collapse change.
func (b *BrowseModel) refresh() {
	b.rows = nil
	b.Model.Walk(func(it item.Item, depth int) bool {
		b.rows = append(b.rows, browseRow{it: it, depth: depth})
		return !it.Base().Collapsed()
	})
	if b.Cursor >= len(b.rows) {
		b.Cursor = max(len(b.rows)-1, 0)
	}
	b.scroll()
}

func (b *BrowseModel) scroll() {
	if b.Cursor < b.Offset {
		b.Offset = b.Cursor
	}
	if b.Cursor >= b.Offset+b.Height {
		b.Offset = b.Cursor - b.Height + 1
	}
}

// Selected returns the item under the cursor.
func (b BrowseModel) Selected() (item.Item, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.rows) {
		return nil, false
	}
	return b.rows[b.Cursor].it, true
}

// setCollapsed changes it and keeps the cursor on it.
func (b *BrowseModel) setCollapsed(it item.Item, collapsed bool) {
	if it.Base().ChildCount() == 0 {
		return
	}
	b.Model.SetCollapsed(it, collapsed)
	b.refresh()
	for i, r := range b.rows {
		if r.it == it {
			b.Cursor = i
			break
		}
	}
	b.scroll()
}

// setAll collapses or expands every site.
func (b *BrowseModel) setAll(collapsed bool) {
	sel, _ := b.Selected()
	for _, s := range b.Model.Roots() {
		if collapsed {
			b.Model.SetCollapsed(s, true)
			continue
		}
		item.Walk(s, func(it item.Item, _ int) bool {
			b.Model.SetCollapsed(it, false)
			return true
		})
	}
	b.refresh()
	b.Cursor = 0
	for i, r := range b.rows {
		if r.it == sel {
			b.Cursor = i
			break
		}
	}
	b.scroll()
}

func (b BrowseModel) Init() tea.Cmd {
	return nil
}

// reveal expands the ancestors of it and moves the cursor onto it.
func (b *BrowseModel) reveal(it item.Item) {
	for p := it.Base().Parent(); p != nil; p = p.Base().Parent() {
		b.Model.SetCollapsed(p, false)
	}
	b.refresh()
	for i, r := range b.rows {
		if r.it == it {
			b.Cursor = i
			break
		}
	}
	b.scroll()
}

// jump selects the best fuzzy match of query among all item paths.
func (b *BrowseModel) jump(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	matches := findItems(b.Model, query, -1)
	if len(matches) == 0 {
		b.status = fmt.Sprintf("No match for %q", query)
		return
	}
	if it, ok := b.Model.FindPath(matches[0].Str); ok {
		b.reveal(it)
	}
}

func (b BrowseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return b, tea.Quit
	case "esc":
		b.searching = false
		b.search.Blur()
	case "enter":
		b.searching = false
		b.search.Blur()
		b.jump(b.search.Value())
	case "backspace":
		if v := []rune(b.search.Value()); len(v) > 0 {
			b.search.SetValue(string(v[:len(v)-1]))
		}
	default:
		if msg.Type == tea.KeyRunes {
			b.search.SetValue(b.search.Value() + string(msg.Runes))
		}
	}
	return b, nil
}

func (b BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.searching {
			return b.updateSearch(msg)
		}
		b.status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "/":
			b.searching = true
			b.search.SetValue("")
			b.search.Focus()
		case "y":
			it, ok := b.Selected()
			if !ok {
				break
			}
			if err := b.copy(it.Base().Path()); err != nil {
				b.status = "Copy failed: " + err.Error()
			} else {
				b.status = "Copied " + it.Base().Path()
			}
		case "up", "k":
			if b.Cursor > 0 {
				b.Cursor--
				b.scroll()
			}
		case "down", "j":
			if b.Cursor < len(b.rows)-1 {
				b.Cursor++
				b.scroll()
			}
		case "enter", " ":
			if it, ok := b.Selected(); ok {
				b.setCollapsed(it, !it.Base().Collapsed())
			}
		case "right", "l":
			if it, ok := b.Selected(); ok {
				b.setCollapsed(it, false)
			}
		case "left", "h":
			it, ok := b.Selected()
			if !ok {
				break
			}
			if it.Base().ChildCount() > 0 && !it.Base().Collapsed() {
				b.setCollapsed(it, true)
				break
			}
			if p := it.Base().Parent(); p != nil {
				b.setCollapsed(p, true)
			}
		case "C":
			b.setAll(true)
		case "E":
			b.setAll(false)
		}
	case tea.WindowSizeMsg:
		b.Height = max(msg.Height-14, 5)
		b.scroll()
	}
	return b, nil
}

func (b BrowseModel) View() string {
	var s strings.Builder

	s.WriteString(StyleTitle.Render("Operations"))
	s.WriteString("\n")
	s.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  ←/→ collapse/expand  C/E all  / search  y copy  q quit"))
	s.WriteString("\n")
	switch {
	case b.searching:
		s.WriteString("/" + b.search.Value())
	case b.status != "":
		s.WriteString(StyleValue.Render(b.status))
	}
	s.WriteString("\n")

	end := min(b.Offset+b.Height, len(b.rows))
	for i := b.Offset; i < end; i++ {
		line := browseLine(b.rows[i])
		switch {
		case i == b.Cursor:
			s.WriteString(listSelectedStyle.Render("▸ " + line))
		default:
			s.WriteString("  " + line)
		}
		s.WriteString("\n")
	}
	s.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", b.Cursor+1, len(b.rows))))
	s.WriteString("\n")

	if it, ok := b.Selected(); ok {
		s.WriteString(detailBoxStyle.Render(b.details(it)))
	}
	return s.String()
}

// browseLine formats a row: indentation, expander and label.
func browseLine(r browseRow) string {
	n := r.it.Base()
	marker := "  "
	if n.ChildCount() > 0 {
		marker = "▾ "
		if n.Collapsed() {
			marker = "▸ "
		}
	}
	label := kindStyle(n.Kind()).Render(model.Cell(r.it, item.ColName))
	if n.Collapsed() {
		label += listDimStyle.Render(fmt.Sprintf(" (+%d)", n.ChildCount()))
	}
	return strings.Repeat("  ", r.depth) + marker + label
}

// details lists the non-empty columns of it.
func (b BrowseModel) details(it item.Item) string {
	lines := []string{StyleHighlight.Render(it.Base().Path())}
	for _, c := range b.Columns {
		if c == item.ColName {
			continue
		}
		if v := model.Cell(it, c); v != "" {
			lines = append(lines, detailKeyStyle.Render(c.Header())+" "+StyleValue.Render(v))
		}
	}
	if preds := it.Base().Predecessors(); len(preds) > 0 {
		paths := make([]string, len(preds))
		for i, p := range preds {
			paths[i] = p.Base().Path()
		}
		lines = append(lines, detailKeyStyle.Render("Reads from")+" "+StyleValue.Render(strings.Join(paths, ", ")))
	}
	return strings.Join(lines, "\n")
}
