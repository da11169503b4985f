package item

// Program groups the functions compiled together. Programs are owned by a
// site and carry no properties of their own.
type Program struct {
	Node
}

// NewProgram creates a program owned by site.
func NewProgram(reg *Registry, site *Site, name string, style Style) *Program {
	p := &Program{}
	var parent Item
	if site != nil {
		parent = site
	}
	p.init(p, reg, KindProgram, name, parent, style)
	return p
}

// Site returns the owning site.
func (p *Program) Site() *Site {
	s, _ := p.Parent().(*Site)
	return s
}

// Functions returns the owned functions in row order.
func (p *Program) Functions() []*Function {
	out := make([]*Function, 0, p.ChildCount())
	for _, c := range p.Children() {
		if f, ok := c.(*Function); ok {
			out = append(out, f)
		}
	}
	return out
}

// Function returns the function with the given name.
func (p *Program) Function(name string) (*Function, bool) {
	for _, f := range p.Functions() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

func (p *Program) Data(c Column) (any, error) {
	switch c {
	case ColName:
		return p.Name(), nil
	case ColNumChildren:
		return p.ChildCount(), nil
	}
	return nil, unsupportedColumn(c)
}

// Reorder keeps functions in insertion order.
func (p *Program) Reorder(ctx ReorderContext) {
	l := ctx.Layout()
	p.ReorderChildren(ctx,
		Point{X: l.FunctionIndent, Y: l.BoxHeight},
		Point{Y: l.FunctionSpacing})
}
