package item

import (
	"strings"

	"github.com/opgraph/opgraph/pkg/conf"
)

// Site is a root item: one host of the cluster. It owns programs.
type Site struct {
	Node
	isMaster bool
}

// NewSite creates a root site registered in reg.
func NewSite(reg *Registry, name string, style Style) *Site {
	s := &Site{}
	s.init(s, reg, KindSite, name, nil, style)
	return s
}

// IsMaster reports whether the site was last announced as the master.
func (s *Site) IsMaster() bool { return s.isMaster }

// Programs returns the owned programs in row order.
func (s *Site) Programs() []*Program {
	out := make([]*Program, 0, s.ChildCount())
	for _, c := range s.Children() {
		if p, ok := c.(*Program); ok {
			out = append(out, p)
		}
	}
	return out
}

// Program returns the program with the given name.
func (s *Site) Program(name string) (*Program, bool) {
	for _, p := range s.Programs() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

func (s *Site) Data(c Column) (any, error) {
	switch c {
	case ColName:
		if s.isMaster {
			return s.Name() + " (master)", nil
		}
		return s.Name(), nil
	case ColNumChildren:
		return s.ChildCount(), nil
	}
	return nil, unsupportedColumn(c)
}

func (s *Site) SetProperty(key string, v conf.Value) error {
	if key != "is_master" {
		return unsupportedProperty(key)
	}
	b, ok := conf.Bool(v)
	if !ok {
		return rejected(key, "a boolean", v)
	}
	s.isMaster = b
	return nil
}

func (s *Site) ClearProperty(key string) bool {
	if key != "is_master" || !s.isMaster {
		return false
	}
	s.isMaster = false
	return true
}

// Reorder sorts the programs by name, then assigns rows in that order.
func (s *Site) Reorder(ctx ReorderContext) {
	s.SortChildren(func(a, b Item) int {
		return strings.Compare(a.Base().Name(), b.Base().Name())
	})
	l := ctx.Layout()
	s.ReorderChildren(ctx,
		Point{X: l.ProgramIndent, Y: l.BoxHeight},
		Point{Y: l.ProgramSpacing})
}
