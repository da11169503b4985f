package item

import "fmt"

// Handle is a weak reference to an item in a [Registry]. The zero Handle
// refers to nothing. Handles stay comparable and cheap to copy; they never
// keep an item alive.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// ID returns an integer identifier unique among live items of a registry.
// IDs of released items are reused.
func (h Handle) ID() int64 { return int64(h.index) }

func (h Handle) String() string {
	if h.IsZero() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}

type slot struct {
	item Item
	gen  uint32
	succ int // live items listing the current generation as a predecessor
}

// Registry maps handles to live items. A slot is released when its item is
// destroyed and its generation bumped, so older handles resolve to nothing.
//
// The zero value is ready to use.
type Registry struct {
	slots []slot
	free  []uint32
	live  int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) register(it Item) Handle {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}
	s := &r.slots[idx]
	s.gen++
	s.item = it
	s.succ = 0
	r.live++
	return Handle{index: idx, gen: s.gen}
}

func (r *Registry) release(h Handle) bool {
	if _, ok := r.Resolve(h); !ok {
		return false
	}
	s := &r.slots[h.index]
	s.item = nil
	s.gen++
	s.succ = 0
	r.free = append(r.free, h.index)
	r.live--
	return true
}

// Resolve returns the item h refers to, or false when h is zero or its item
// has been destroyed.
func (r *Registry) Resolve(h Handle) (Item, bool) {
	if r == nil || h.IsZero() || int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[h.index]
	if s.gen != h.gen || s.item == nil {
		return nil, false
	}
	return s.item, true
}

// Len returns the number of live items.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.live
}

// Items returns the live items in slot order.
func (r *Registry) Items() []Item {
	if r == nil {
		return nil
	}
	items := make([]Item, 0, r.live)
	for _, s := range r.slots {
		if s.item != nil {
			items = append(items, s.item)
		}
	}
	return items
}

// SuccessorCount returns how many live items list h as a predecessor. It
// is zero once h's item has been destroyed.
func (r *Registry) SuccessorCount(h Handle) int {
	if _, ok := r.Resolve(h); !ok {
		return 0
	}
	return r.slots[h.index].succ
}

// countSuccessor adjusts the successor count of h when h is live.
func (r *Registry) countSuccessor(h Handle, delta int) {
	if _, ok := r.Resolve(h); !ok {
		return
	}
	r.slots[h.index].succ += delta
}

// Successors returns the live items that list h as a predecessor.
func (r *Registry) Successors(h Handle) []Item {
	if _, ok := r.Resolve(h); !ok {
		return nil
	}
	var out []Item
	for _, it := range r.Items() {
		if it.Base().HasPredecessor(h) {
			out = append(out, it)
		}
	}
	return out
}
