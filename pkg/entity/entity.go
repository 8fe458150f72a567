// pkg/entity/entity.go
package entity

import (
	"fmt"
	"iter"
)

// Handle is a weak reference into an Arena: a slot index plus the
// generation the slot had when the value was inserted. The zero Handle
// never resolves and means "none".
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsNil reports whether h is the empty handle.
func (h Handle) IsNil() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	if h.IsNil() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena stores values of one entity type in reusable slots. Removing a
// value bumps its slot's generation so older handles stop resolving.
// Iteration is always in slot index order.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// NewArena creates an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{generation: 1})
	}
	s := &a.slots[idx]
	s.value = v
	s.occupied = true
	a.count++
	return Handle{Index: idx, Generation: s.generation}
}

// Get resolves h. Stale and nil handles return false.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if h.IsNil() || int(h.Index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.Index]
	if !s.occupied || s.generation != h.Generation {
		return nil, false
	}
	return &s.value, true
}

// Contains reports whether h resolves to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Remove deletes the value behind h and returns it.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	if _, ok := a.Get(h); !ok {
		return zero, false
	}
	s := &a.slots[h.Index]
	v := s.value
	s.value = zero
	s.occupied = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	a.free = append(a.free, h.Index)
	a.count--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.count
}

// Handles returns the handles of all live values in index order. The
// result is a copy, so the arena may be modified while ranging over it.
func (a *Arena[T]) Handles() []Handle {
	out := make([]Handle, 0, a.count)
	for i := range a.slots {
		if a.slots[i].occupied {
			out = append(out, Handle{Index: uint32(i), Generation: a.slots[i].generation})
		}
	}
	return out
}

// All yields every live value in index order. Values may be modified in
// place but the arena must not gain or lose entries during the iteration.
func (a *Arena[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Handle{Index: uint32(i), Generation: s.generation}, &s.value) {
				return
			}
		}
	}
}

// Clone returns a copy of the arena. Values are copied by assignment, so T
// should not hold pointers that the copy must not share.
func (a *Arena[T]) Clone() *Arena[T] {
	return &Arena[T]{
		slots: append([]slot[T](nil), a.slots...),
		free:  append([]uint32(nil), a.free...),
		count: a.count,
	}
}
