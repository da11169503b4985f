package item

import (
	"slices"
	"strings"

	"github.com/opgraph/opgraph/pkg/conf"
)

// Kind identifies the concrete type of an item.
type Kind int

const (
	KindSite Kind = iota
	KindProgram
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindSite:
		return "site"
	case KindProgram:
		return "program"
	case KindFunction:
		return "function"
	}
	return "unknown"
}

// Item is implemented by every node kind. Concrete kinds embed [Node],
// which supplies the structural methods and the defaults for Data,
// SetProperty and Reorder.
type Item interface {
	// Base returns the embedded node.
	Base() *Node

	// Data returns the value shown in column c. A nil value with a nil
	// error means the column applies but holds no data yet.
	Data(c Column) (any, error)

	// SetProperty applies a configuration value to the item. It returns an
	// error wrapping ErrRejectedUpdate, leaving the item untouched, when v
	// has the wrong shape for key.
	SetProperty(key string, v conf.Value) error

	// Reorder assigns rows to the current children after some were added
	// or removed.
	Reorder(ctx ReorderContext)
}

// PropertyClearer is implemented by items whose properties can be deleted.
type PropertyClearer interface {
	// ClearProperty resets key and reports whether anything changed.
	ClearProperty(key string) bool
}

// ReorderContext is the owning model as seen from Reorder.
type ReorderContext interface {
	Layout() Layout
	// PositionChanged is called for every child whose row changed.
	PositionChanged(it Item)
}

type releaser interface {
	release()
}

// group holds the owned children. Hiding it hides the whole visual subtree.
type group struct {
	items  []Item
	hidden bool
}

func (g *group) remove(it Item) bool {
	i := slices.Index(g.items, it)
	if i < 0 {
		return false
	}
	g.items = slices.Delete(g.items, i, i+1)
	return true
}

// Node is the part shared by every item kind.
//
// The zero value is an unregistered, parentless node; concrete constructors
// call init to attach it.
type Node struct {
	self   Item
	reg    *Registry
	handle Handle
	kind   Kind
	name   string

	parent Item // fixed at construction
	group  group
	preds  []Handle

	row       int
	collapsed bool
	style     Style
	pos       Point
	box       Rect

	destroyed bool
}

func (n *Node) init(self Item, reg *Registry, kind Kind, name string, parent Item, style Style) {
	n.self = self
	n.reg = reg
	n.kind = kind
	n.name = name
	n.parent = parent
	n.style = style
	n.row = -1
	l := DefaultLayout()
	n.box = Rect{W: l.BoxWidth, H: l.BoxHeight}
	if reg != nil {
		n.handle = reg.register(self)
	}
	if parent != nil {
		p := parent.Base()
		p.group.items = append(p.group.items, self)
	}
}

// Base returns n.
func (n *Node) Base() *Node { return n }

// Self returns the concrete item n is embedded in.
func (n *Node) Self() Item { return n.self }

// Kind returns the item kind.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the item name, unique among its siblings.
func (n *Node) Name() string { return n.name }

// Path returns the names from the root down to n joined by slashes. Each
// name is escaped with [EscapeName], so a program named "a/b" reads
// "s1/a%2Fb" and never collides with function "b" of program "a".
func (n *Node) Path() string {
	if n.self == nil {
		return EscapeName(n.name)
	}
	var parts []string
	for it := n.self; it != nil; it = it.Base().parent {
		parts = append(parts, EscapeName(it.Base().name))
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// RawPath returns the unescaped names from the root down to n joined by
// slashes. Unlike [Node.Path] it is not unique.
func (n *Node) RawPath() string {
	if n.self == nil {
		return n.name
	}
	var parts []string
	for it := n.self; it != nil; it = it.Base().parent {
		parts = append(parts, it.Base().name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

var (
	nameEscaper   = strings.NewReplacer("%", "%25", "/", "%2F")
	nameUnescaper = strings.NewReplacer("%2F", "/", "%2f", "/", "%25", "%")
)

// EscapeName escapes the slashes and percent signs of an item name.
func EscapeName(name string) string { return nameEscaper.Replace(name) }

// SplitPath splits a path built by [Node.Path] into its unescaped names.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = nameUnescaper.Replace(p)
	}
	return parts
}

// Handle returns the weak handle other items use to reference n.
func (n *Node) Handle() Handle { return n.handle }

// Registry returns the registry n was registered in.
func (n *Node) Registry() *Registry { return n.reg }

// Parent returns the owning item, or nil for a root.
func (n *Node) Parent() Item { return n.parent }

// Children returns the owned children in their current order.
// The slice must not be modified.
func (n *Node) Children() []Item { return n.group.items }

// ChildCount returns the number of owned children.
func (n *Node) ChildCount() int { return len(n.group.items) }

// Child returns the i-th child, or nil if i is out of range.
func (n *Node) Child(i int) Item {
	if i < 0 || i >= len(n.group.items) {
		return nil
	}
	return n.group.items[i]
}

// VisibleChildren returns the children a renderer should traverse into:
// none while the child group is hidden.
func (n *Node) VisibleChildren() []Item {
	if n.group.hidden {
		return nil
	}
	return n.group.items
}

// Row returns the position of n among its siblings, or -1 before the
// parent's first Reorder.
func (n *Node) Row() int { return n.row }

// Pos returns the position assigned by the last Reorder, relative to the
// parent.
func (n *Node) Pos() Point { return n.pos }

// Style returns the fill used to paint n.
func (n *Node) Style() Style { return n.style }

// Destroyed reports whether Destroy was called.
func (n *Node) Destroyed() bool { return n.destroyed }

// Collapsed reports whether n's children are hidden.
func (n *Node) Collapsed() bool { return n.collapsed }

// SetCollapsed hides or shows the children group. Descendants keep their
// own collapse flags. Setting the current state again does nothing.
func (n *Node) SetCollapsed(collapsed bool) {
	if n.collapsed == collapsed {
		return
	}
	n.collapsed = collapsed
	n.group.hidden = collapsed
}

// IsVisible reports whether no ancestor of n is collapsed.
func (n *Node) IsVisible() bool {
	for p := n.parent; p != nil; p = p.Base().parent {
		if p.Base().group.hidden {
			return false
		}
	}
	return true
}

// BoundingExtent returns the area covered by n and, unless collapsed, by its
// children, in n's coordinates.
func (n *Node) BoundingExtent() Rect {
	r := n.box
	for _, c := range n.VisibleChildren() {
		cb := c.Base()
		r = r.Union(cb.BoundingExtent().Translate(cb.pos))
	}
	return r
}

// RenderHint returns what a renderer needs to paint n.
func (n *Node) RenderHint() Hint {
	return Hint{
		Label:       n.name,
		Style:       n.style,
		Collapsed:   n.collapsed,
		Visible:     n.IsVisible(),
		HasChildren: len(n.group.items) > 0,
	}
}

// place sets the row and geometry of n. It reports whether the row changed.
func (n *Node) place(row int, pos Point, l Layout) bool {
	n.box = Rect{W: l.BoxWidth, H: l.BoxHeight}
	n.pos = pos
	if n.row == row {
		return false
	}
	n.row = row
	return true
}

// ReorderChildren assigns rows 0..n-1 in the current child order and
// positions each child at origin + row*step. Children whose row changed are
// reported to ctx.
func (n *Node) ReorderChildren(ctx ReorderContext, origin, step Point) {
	ReorderRows(ctx, n.group.items, origin, step)
}

// ReorderRows assigns rows 0..len(items)-1 in slice order, as
// [Node.ReorderChildren] does for owned children. The model uses it for
// root items, which have no owning node.
func ReorderRows(ctx ReorderContext, items []Item, origin, step Point) {
	l := ctx.Layout()
	for i, c := range items {
		pos := Point{X: origin.X + float64(i)*step.X, Y: origin.Y + float64(i)*step.Y}
		if c.Base().place(i, pos, l) {
			ctx.PositionChanged(c)
		}
	}
}

// SortChildren reorders the children with a stable sort.
func (n *Node) SortChildren(cmp func(a, b Item) int) {
	slices.SortStableFunc(n.group.items, cmp)
}

// Data is the default column accessor: nothing is supported.
func (n *Node) Data(c Column) (any, error) { return nil, unsupportedColumn(c) }

// SetProperty is the default property setter: every key is ignored.
func (n *Node) SetProperty(key string, _ conf.Value) error { return unsupportedProperty(key) }

// Reorder is the default: leaf kinds have nothing to reorder.
func (n *Node) Reorder(ReorderContext) {}

// AddPredecessor records an incoming graph edge from h. Zero handles, n
// itself and duplicates are ignored; the result reports whether h was added.
func (n *Node) AddPredecessor(h Handle) bool {
	if h.IsZero() || h == n.handle || slices.Contains(n.preds, h) {
		return false
	}
	n.preds = append(n.preds, h)
	n.reg.countSuccessor(h, 1)
	return true
}

// RemovePredecessor drops the edge from h and reports whether it existed.
func (n *Node) RemovePredecessor(h Handle) bool {
	i := slices.Index(n.preds, h)
	if i < 0 {
		return false
	}
	n.preds = slices.Delete(n.preds, i, i+1)
	n.reg.countSuccessor(h, -1)
	return true
}

// ClearPredecessors drops every incoming edge and returns the old handles.
func (n *Node) ClearPredecessors() []Handle {
	old := n.preds
	n.preds = nil
	for _, h := range old {
		n.reg.countSuccessor(h, -1)
	}
	return old
}

// HasPredecessor reports whether h is listed as a predecessor, live or not.
func (n *Node) HasPredecessor(h Handle) bool { return slices.Contains(n.preds, h) }

// PredecessorHandles returns a copy of the predecessor handles.
func (n *Node) PredecessorHandles() []Handle { return slices.Clone(n.preds) }

// Predecessors resolves the predecessor handles, skipping any whose item
// has been destroyed.
func (n *Node) Predecessors() []Item {
	var out []Item
	for _, h := range n.preds {
		if it, ok := n.reg.Resolve(h); ok {
			out = append(out, it)
		}
	}
	return out
}

// PrunePredecessors removes handles to destroyed items and returns how many
// were removed.
func (n *Node) PrunePredecessors() int {
	before := len(n.preds)
	n.preds = slices.DeleteFunc(n.preds, func(h Handle) bool {
		_, ok := n.reg.Resolve(h)
		return !ok
	})
	return before - len(n.preds)
}

// Destroy destroys the owned subtree, children first, then releases n's
// registry slot and detaches n from its parent. It is safe to call more
// than once and on nodes whose construction did not complete.
func (n *Node) Destroy() {
	if n == nil || n.destroyed {
		return
	}
	n.destroyed = true

	kids := n.group.items
	n.group.items = nil
	for i := len(kids) - 1; i >= 0; i-- {
		if kids[i] != nil {
			kids[i].Base().Destroy()
		}
	}

	if r, ok := n.self.(releaser); ok {
		r.release()
	}
	if n.reg != nil {
		n.reg.release(n.handle)
	}
	if n.parent != nil && n.self != nil {
		if p := n.parent.Base(); !p.destroyed {
			p.group.remove(n.self)
		}
	}
	n.ClearPredecessors()
}

// Walk calls fn for it and its descendants in pre-order with their depth
// below it. Returning false from fn skips that item's children.
func Walk(it Item, fn func(it Item, depth int) bool) {
	walk(it, 0, fn)
}

func walk(it Item, depth int, fn func(Item, int) bool) {
	if !fn(it, depth) {
		return
	}
	for _, c := range it.Base().group.items {
		walk(c, depth+1, fn)
	}
}
