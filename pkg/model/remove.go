package model

import (
	"slices"

	apperrors "github.com/opgraph/opgraph/pkg/errors"
	"github.com/opgraph/opgraph/pkg/item"
)

// RemoveSite destroys a site and everything it owns.
func (m *Model) RemoveSite(name string) error {
	s, ok := m.Site(name)
	if !ok {
		return apperrors.New(apperrors.ErrCodeItemNotFound, "no site %q", name)
	}
	m.remove(s)
	m.sites = slices.DeleteFunc(m.sites, func(o *item.Site) bool { return o == s })
	m.reorderSites()
	return nil
}

// RemoveProgram destroys a program and its functions.
func (m *Model) RemoveProgram(site, program string) error {
	it, ok := m.Find(site, program, "")
	p, isProg := it.(*item.Program)
	if !ok || !isProg {
		return apperrors.New(apperrors.ErrCodeItemNotFound, "no program %s/%s", site, program)
	}
	s := p.Site()
	m.remove(p)
	s.Reorder(reorderContext{m})
	return nil
}

// RemoveFunction destroys a single function.
func (m *Model) RemoveFunction(site, program, function string) error {
	f, ok := m.FindFunction(site, program, function)
	if !ok {
		return apperrors.New(apperrors.ErrCodeItemNotFound, "no function %s/%s/%s", site, program, function)
	}
	p := f.Program()
	m.remove(f)
	p.Reorder(reorderContext{m})
	return nil
}

// Remove destroys it and its subtree, whatever its kind.
func (m *Model) Remove(it item.Item) error {
	switch v := it.(type) {
	case *item.Site:
		return m.RemoveSite(v.Name())
	case *item.Program:
		if v.Site() == nil {
			break
		}
		return m.RemoveProgram(v.Site().Name(), v.Name())
	case *item.Function:
		p := v.Program()
		if p == nil || p.Site() == nil {
			break
		}
		return m.RemoveFunction(p.Site().Name(), p.Name(), v.Name())
	}
	return apperrors.New(apperrors.ErrCodeItemNotFound, "item is not in the model")
}

// remove detaches the subtree rooted at root from the dataflow graph, then
// destroys it. Edges are dropped before destruction so that no remaining
// item is left listing a destroyed one.
func (m *Model) remove(root item.Item) {
	var subtree []item.Item
	doomed := make(map[item.Handle]bool)
	item.Walk(root, func(it item.Item, _ int) bool {
		subtree = append(subtree, it)
		doomed[it.Base().Handle()] = true
		return true
	})

	// Edges leaving the subtree.
	for _, it := range m.reg.Items() {
		n := it.Base()
		if doomed[n.Handle()] {
			continue
		}
		for _, h := range n.PredecessorHandles() {
			if !doomed[h] {
				continue
			}
			n.RemovePredecessor(h)
			if p, ok := m.reg.Resolve(h); ok {
				m.hooks.OnRelationRemoved(p.Base().Path(), n.Path())
			}
		}
	}

	// Edges entering the subtree.
	for _, it := range subtree {
		if f, ok := it.(*item.Function); ok {
			m.removeParents(f)
		}
	}

	m.pending = slices.DeleteFunc(m.pending, func(pp pendingParent) bool {
		return doomed[pp.child]
	})

	paths := make([]string, len(subtree))
	for i, it := range subtree {
		paths[i] = it.Base().Path()
	}

	m.logger.Debug("remove", "item", root.Base().Path(), "items", len(subtree))
	root.Base().Destroy()

	for i := len(subtree) - 1; i >= 0; i-- {
		m.hooks.OnItemRemoved(paths[i], subtree[i].Base().Kind().String())
	}

	for _, it := range m.reg.Items() {
		it.Base().PrunePredecessors()
	}
}
