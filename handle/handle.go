package handle

import (
	"fmt"

	"github.com/wippyai/smartptr/errors"
)

// noCopy makes go vet's copylocks check report plain copies of a Handle.
// A plain copy shares the group without counting as an owner.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle is a reference-counted owning handle for a heap allocated T.
//
// A Handle is either attached to an ownership group or detached. Every
// handle attached to the same group shares one pointee and one count.
// The zero Handle is detached.
//
// Handles must not be copied by assignment; use Clone, Move, Assign or
// AssignMove. A Handle is meant to live in a variable or inside an owning
// aggregate, never behind its own pointer allocation.
type Handle[T any] struct {
	_ noCopy
	g *group[T]
}

// New allocates a zero T and returns its sole owner.
func New[T any]() Handle[T] {
	return NewWithOptions[T](Options{})
}

// NewWithOptions allocates a zero T and returns its sole owner, configuring
// the new group with opts.
func NewWithOptions[T any](opts Options) Handle[T] {
	return Handle[T]{g: newGroup(new(T), opts)}
}

// Adopt takes ownership of p. The caller must not keep using p as an owner,
// and p must not be owned by any other group. Adopt panics if p is nil.
func Adopt[T any](p *T) Handle[T] {
	return AdoptWithOptions(p, Options{})
}

// AdoptWithOptions is Adopt with group options.
func AdoptWithOptions[T any](p *T, opts Options) Handle[T] {
	if p == nil {
		fail(errors.NilPointer(fmt.Sprintf("%T", p)))
	}
	return Handle[T]{g: newGroup(p, opts)}
}

// Get returns the pointee, or nil if h is detached.
func (h *Handle[T]) Get() *T {
	if h.g == nil {
		return nil
	}
	return h.g.value
}

// Deref returns the pointee, or a null_pointee error if h is detached.
func (h *Handle[T]) Deref() (*T, error) {
	if h.g == nil {
		return nil, errors.NullPointee("")
	}
	return h.g.value, nil
}

// RefCount returns the number of handles attached to h's group,
// or 0 if h is detached.
func (h *Handle[T]) RefCount() uint32 {
	if h.g == nil {
		return 0
	}
	return h.g.refs
}

// Attached reports whether h belongs to an ownership group.
func (h *Handle[T]) Attached() bool {
	return h.g != nil
}

// GroupID returns the identifier of h's group, or 0 if h is detached.
func (h *Handle[T]) GroupID() uint64 {
	if h.g == nil {
		return 0
	}
	return h.g.id
}

// Label returns the label h's group was created with.
func (h *Handle[T]) Label() string {
	if h.g == nil {
		return ""
	}
	return h.g.opts.Label
}

// Same reports whether h and other are attached to the same group.
func (h *Handle[T]) Same(other *Handle[T]) bool {
	return h.g != nil && h.g == other.g
}

// Clone returns a new owner in h's group. Cloning a detached handle
// returns a detached handle.
func (h *Handle[T]) Clone() Handle[T] {
	if h.g == nil {
		return Handle[T]{}
	}
	h.g.acquire()
	return Handle[T]{g: h.g}
}

// Move transfers h's share to the returned handle and detaches h.
// The group's count does not change.
func (h *Handle[T]) Move() Handle[T] {
	g := h.g
	if g == nil {
		return Handle[T]{}
	}
	h.g = nil
	g.notify(EventMoved)
	return Handle[T]{g: g}
}

// Assign makes h an owner in src's group, releasing h's previous share.
// The source group is joined before the old one is released, so assigning
// a handle to itself or to a sibling changes nothing.
func (h *Handle[T]) Assign(src *Handle[T]) {
	if h == src || h.g == src.g {
		return
	}
	if src.g != nil {
		src.g.acquire()
	}
	old := h.g
	h.g = src.g
	if old != nil {
		old.release()
	}
}

// AssignMove transfers src's share to h, releasing h's previous share,
// and detaches src. Moving a handle into itself changes nothing.
func (h *Handle[T]) AssignMove(src *Handle[T]) {
	if h == src {
		return
	}
	old := h.g
	h.g = src.g
	src.g = nil
	if h.g != nil {
		h.g.notify(EventMoved)
	}
	if old != nil {
		old.release()
	}
}

// Remove detaches h from its group. Other owners see the count drop by
// one; if h was the last owner the pointee is freed. Removing a detached
// handle does nothing.
func (h *Handle[T]) Remove() {
	g := h.g
	if g == nil {
		return
	}
	h.g = nil
	g.release()
}

// Release gives up h's ownership, freeing the pointee if h was the last
// owner. h is detached afterwards, so releasing twice is harmless.
func (h *Handle[T]) Release() {
	h.Remove()
}

// Close releases h. It always returns nil.
func (h *Handle[T]) Close() error {
	h.Release()
	return nil
}

func (h *Handle[T]) String() string {
	if h.g == nil {
		return "handle(detached)"
	}
	if h.g.opts.Label != "" {
		return fmt.Sprintf("handle(group=%d label=%s refs=%d)", h.g.id, h.g.opts.Label, h.g.refs)
	}
	return fmt.Sprintf("handle(group=%d refs=%d)", h.g.id, h.g.refs)
}
