package model

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/opgraph/opgraph/pkg/conf"
	apperrors "github.com/opgraph/opgraph/pkg/errors"
	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/observability"
)

// Styles holds the fill used for each item kind.
type Styles struct {
	Site     item.Style
	Program  item.Style
	Function item.Style
}

// DefaultStyles returns the stock palette.
func DefaultStyles() Styles {
	return Styles{
		Site:     item.Style{Fill: "#E0E7FF"},
		Program:  item.Style{Fill: "#FEF3C7"},
		Function: item.Style{Fill: "#D1FAE5"},
	}
}

// Options configures a Model. The zero value is usable.
type Options struct {
	Layout item.Layout // zero means item.DefaultLayout
	Styles *Styles     // nil means DefaultStyles
	Logger *log.Logger
	Hooks  observability.ModelHooks // nil means observability.Model()
}

func (o *Options) setDefaults() {
	if o.Layout == (item.Layout{}) {
		o.Layout = item.DefaultLayout()
	}
	if o.Styles == nil {
		s := DefaultStyles()
		o.Styles = &s
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.Model()
	}
}

// pendingParent is a dataflow edge waiting for its upstream function.
type pendingParent struct {
	child item.Handle
	ref   conf.ParentRef
}

// Model is the owner of every item.
type Model struct {
	reg     *item.Registry
	sites   []*item.Site
	pending []pendingParent

	layout item.Layout
	styles Styles
	logger *log.Logger
	hooks  observability.ModelHooks
}

// New returns an empty model.
func New(opts Options) *Model {
	opts.setDefaults()
	return &Model{
		reg:    item.NewRegistry(),
		layout: opts.Layout,
		styles: *opts.Styles,
		logger: opts.Logger,
		hooks:  opts.Hooks,
	}
}

// Registry returns the registry resolving item handles.
func (m *Model) Registry() *item.Registry { return m.reg }

// Layout returns the spacing used to position items.
func (m *Model) Layout() item.Layout { return m.layout }

// Len returns the number of items.
func (m *Model) Len() int { return m.reg.Len() }

// Sites returns the sites in row order.
func (m *Model) Sites() []*item.Site { return slices.Clone(m.sites) }

// Roots returns the sites as items, in row order.
func (m *Model) Roots() []item.Item {
	out := make([]item.Item, len(m.sites))
	for i, s := range m.sites {
		out[i] = s
	}
	return out
}

// PendingCount returns the number of dataflow edges waiting for their
// upstream function to appear.
func (m *Model) PendingCount() int { return len(m.pending) }

// =============================================================================
// Navigation
// =============================================================================

// Site returns the site with the given name.
func (m *Model) Site(name string) (*item.Site, bool) {
	for _, s := range m.sites {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Find returns the deepest item named by site, program and function. Empty
// trailing names stop the lookup early: Find("s1", "", "") returns the site.
func (m *Model) Find(site, program, function string) (item.Item, bool) {
	s, ok := m.Site(site)
	if !ok {
		return nil, false
	}
	if program == "" {
		return s, true
	}
	p, ok := s.Program(program)
	if !ok {
		return nil, false
	}
	if function == "" {
		return p, true
	}
	f, ok := p.Function(function)
	if !ok {
		return nil, false
	}
	return f, true
}

// FindFunction returns the function at site/program/function.
func (m *Model) FindFunction(site, program, function string) (*item.Function, bool) {
	if function == "" {
		return nil, false
	}
	it, ok := m.Find(site, program, function)
	if !ok {
		return nil, false
	}
	f, ok := it.(*item.Function)
	return f, ok
}

// FindPath looks up an item by the path [item.Node.Path] returns. A path
// with unescaped slashes in program names is accepted too, provided it
// names a single item.
func (m *Model) FindPath(path string) (item.Item, bool) {
	parts := item.SplitPath(path)
	var site, program, function string
	switch len(parts) {
	case 3:
		function = parts[2]
		fallthrough
	case 2:
		program = parts[1]
		fallthrough
	case 1:
		site = parts[0]
	}
	if site != "" && !slices.Contains(parts, "") {
		if it, ok := m.Find(site, program, function); ok {
			return it, true
		}
	}
	return m.findRawPath(path)
}

// findRawPath returns the only item whose unescaped path is path.
func (m *Model) findRawPath(path string) (item.Item, bool) {
	var found []item.Item
	m.Walk(func(it item.Item, _ int) bool {
		if it.Base().RawPath() == path {
			found = append(found, it)
		}
		return true
	})
	if len(found) != 1 {
		return nil, false
	}
	return found[0], true
}

// Index returns the child at row of parent, or the site at row when parent
// is nil.
func (m *Model) Index(row int, parent item.Item) (item.Item, bool) {
	if parent == nil {
		if row < 0 || row >= len(m.sites) {
			return nil, false
		}
		return m.sites[row], true
	}
	c := parent.Base().Child(row)
	return c, c != nil
}

// RowCount returns the number of children of parent, or of sites when
// parent is nil.
func (m *Model) RowCount(parent item.Item) int {
	if parent == nil {
		return len(m.sites)
	}
	return parent.Base().ChildCount()
}

// Walk visits every item in pre-order, sites in row order.
func (m *Model) Walk(fn func(it item.Item, depth int) bool) {
	for _, s := range m.sites {
		item.Walk(s, fn)
	}
}

// Data returns the value of column c for it.
func (m *Model) Data(it item.Item, c item.Column) (any, error) {
	if it == nil {
		return nil, apperrors.New(apperrors.ErrCodeItemNotFound, "no item")
	}
	if c < 0 || c >= item.NumColumns {
		return nil, apperrors.New(apperrors.ErrCodeInvalidColumn, "no column %d", int(c))
	}
	return it.Data(c)
}

// Successors returns the functions that list it as a predecessor.
func (m *Model) Successors(it item.Item) []item.Item {
	return m.reg.Successors(it.Base().Handle())
}

// SetCollapsed collapses or expands it. Nothing is reported when the state
// does not change.
func (m *Model) SetCollapsed(it item.Item, collapsed bool) {
	n := it.Base()
	if n.Collapsed() == collapsed {
		return
	}
	n.SetCollapsed(collapsed)
	m.hooks.OnCollapseChanged(n.Path(), collapsed)
}

// =============================================================================
// Updates
// =============================================================================

// UpdateKey applies the value of a configuration key, creating the site,
// program and function it names as needed. Keys for properties the
// addressed item does not track are ignored.
func (m *Model) UpdateKey(key string, v conf.Value) error {
	k, err := m.parseKey(key)
	if err != nil {
		return err
	}
	m.logger.Debug("update key", "key", key, "value", v)

	site := m.ensureSite(k.Site)
	var target item.Item = site
	if !k.IsSite() {
		prog := m.ensureProgram(site, k.Program)
		target = m.ensureFunction(prog, k.Function)
	}

	if err := target.SetProperty(k.Property, v); err != nil {
		switch {
		case errors.Is(err, item.ErrUnsupportedProperty):
			m.logger.Debug("ignored property", "key", key)
			return nil
		case errors.Is(err, item.ErrRejectedUpdate):
			return apperrors.Wrap(apperrors.ErrCodeRejectedUpdate, err, "%s", key)
		}
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "%s", key)
	}

	if f, ok := target.(*item.Function); ok && k.Property == "worker" {
		m.setParents(f, f.Worker())
	}
	m.changed(target, k.Property)
	return nil
}

// DeleteKey clears the property a configuration key names. Deleting a
// worker disconnects the function from its upstream functions. Keys naming
// unknown items are ignored.
func (m *Model) DeleteKey(key string) error {
	k, err := m.parseKey(key)
	if err != nil {
		return err
	}
	m.logger.Debug("delete key", "key", key)

	it, ok := m.Find(k.Site, k.Program, k.Function)
	if !ok {
		return nil
	}
	c, ok := it.(item.PropertyClearer)
	if !ok || !c.ClearProperty(k.Property) {
		return nil
	}
	if f, ok := it.(*item.Function); ok && k.Property == "worker" {
		m.removeParents(f)
	}
	m.changed(it, k.Property)
	return nil
}

// changed reports a property change, and a storage change when the
// property feeds archive planning.
func (m *Model) changed(it item.Item, key string) {
	path := it.Base().Path()
	m.hooks.OnDataChanged(path, key)
	if it.Base().Kind() == item.KindFunction && slices.Contains(item.StorageProperties, key) {
		m.logger.Debug("storage changed", "item", path, "key", key)
		m.hooks.OnStorageChanged(path, key)
	}
}

func (m *Model) parseKey(key string) (conf.Key, error) {
	k, err := conf.ParseKey(key)
	if err != nil {
		return k, apperrors.Wrap(apperrors.ErrCodeInvalidKey, err, "%q", key)
	}
	if err := apperrors.ValidateName(k.Site, false); err != nil {
		return k, fmt.Errorf("site of %q: %w", key, err)
	}
	if k.IsFunction() {
		if err := apperrors.ValidateName(k.Program, true); err != nil {
			return k, fmt.Errorf("program of %q: %w", key, err)
		}
		if err := apperrors.ValidateName(k.Function, false); err != nil {
			return k, fmt.Errorf("function of %q: %w", key, err)
		}
	}
	return k, nil
}

func (m *Model) ensureSite(name string) *item.Site {
	if s, ok := m.Site(name); ok {
		return s
	}
	m.logger.Debug("new site", "name", name)
	s := item.NewSite(m.reg, name, m.styles.Site)
	m.sites = append(m.sites, s)
	m.added(s)
	m.reorderSites()
	return s
}

func (m *Model) ensureProgram(site *item.Site, name string) *item.Program {
	if p, ok := site.Program(name); ok {
		return p
	}
	m.logger.Debug("new program", "site", site.Name(), "name", name)
	p := item.NewProgram(m.reg, site, name, m.styles.Program)
	m.added(p)
	site.Reorder(reorderContext{m})
	return p
}

func (m *Model) ensureFunction(prog *item.Program, name string) *item.Function {
	if f, ok := prog.Function(name); ok {
		return f
	}
	m.logger.Debug("new function", "program", prog.Path(), "name", name)
	f := item.NewFunction(m.reg, prog, name, m.styles.Function)
	m.added(f)
	prog.Reorder(reorderContext{m})
	m.retryPending()
	return f
}

func (m *Model) added(it item.Item) {
	n := it.Base()
	m.hooks.OnItemAdded(n.Path(), n.Kind().String())
}

// =============================================================================
// Reordering
// =============================================================================

// reorderContext adapts the model to item.ReorderContext.
type reorderContext struct{ m *Model }

func (c reorderContext) Layout() item.Layout { return c.m.layout }

func (c reorderContext) PositionChanged(it item.Item) {
	n := it.Base()
	c.m.hooks.OnPositionChanged(n.Path(), n.Row())
}

// reorderSites keeps sites in insertion order.
func (m *Model) reorderSites() {
	item.ReorderRows(reorderContext{m}, m.Roots(),
		item.Point{}, item.Point{Y: m.layout.SiteSpacing})
}
