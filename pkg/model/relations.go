package model

import (
	"slices"

	"github.com/opgraph/opgraph/pkg/conf"
	"github.com/opgraph/opgraph/pkg/item"
)

// parentTarget maps a worker's parent reference to the function it stands
// for in the tree. A parent on another site is read through the top-half of
// the child's own program and function running on that site.
func parentTarget(child *item.Function, ref conf.ParentRef) conf.ParentRef {
	prog := child.Program()
	if prog == nil || prog.Site() == nil || ref.Site == prog.Site().Name() {
		return ref
	}
	return conf.ParentRef{Site: ref.Site, Program: prog.Name(), Function: child.Name()}
}

// setParents replaces the upstream functions of f with those w lists.
func (m *Model) setParents(f *item.Function, w *conf.Worker) {
	m.removeParents(f)
	if w == nil {
		return
	}
	for _, ref := range w.Parents {
		target := parentTarget(f, ref)
		if p, ok := m.FindFunction(target.Site, target.Program, target.Function); ok {
			m.addParent(p, f)
			continue
		}
		m.logger.Debug("pending parent", "child", f.Path(), "parent", target)
		m.pending = append(m.pending, pendingParent{child: f.Handle(), ref: target})
	}
}

func (m *Model) addParent(parent, child *item.Function) {
	if !child.AddPredecessor(parent.Handle()) {
		return
	}
	m.hooks.OnRelationAdded(parent.Path(), child.Path())
}

// removeParents disconnects f from every upstream function and forgets its
// pending parents.
func (m *Model) removeParents(f *item.Function) {
	for _, h := range f.ClearPredecessors() {
		if p, ok := m.reg.Resolve(h); ok {
			m.hooks.OnRelationRemoved(p.Base().Path(), f.Path())
		}
	}
	h := f.Handle()
	m.pending = slices.DeleteFunc(m.pending, func(pp pendingParent) bool {
		return pp.child == h
	})
}

// retryPending connects the pending parents that can now be found.
func (m *Model) retryPending() {
	m.pending = slices.DeleteFunc(m.pending, func(pp pendingParent) bool {
		it, ok := m.reg.Resolve(pp.child)
		if !ok {
			return true
		}
		child, ok := it.(*item.Function)
		if !ok {
			return true
		}
		p, ok := m.FindFunction(pp.ref.Site, pp.ref.Program, pp.ref.Function)
		if !ok {
			return false
		}
		m.logger.Debug("resolved pending parent", "child", child.Path(), "parent", p.Path())
		m.addParent(p, child)
		return true
	})
}

// Relations returns every live dataflow edge as (upstream, downstream)
// pairs, in tree order of the downstream function.
func (m *Model) Relations() [][2]item.Item {
	var out [][2]item.Item
	m.Walk(func(it item.Item, _ int) bool {
		for _, p := range it.Base().Predecessors() {
			out = append(out, [2]item.Item{p, it})
		}
		return true
	})
	return out
}
