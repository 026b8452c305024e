package scenario

import (
	"github.com/wippyai/smartptr/handle"
)

// All returns every scenario in run order.
func All() []Scenario {
	return []Scenario{
		{Name: "default", Description: "new handle owns a fresh pointee with one reference", Run: defaultConstruct},
		{Name: "dereference", Description: "Get and Deref return the adopted pointer", Run: dereference},
		{Name: "multi-assignment", Description: "clone shares pointee and count", Run: multiAssignment},
		{Name: "assignment", Description: "assign joins the source group", Run: assignment},
		{Name: "self-assignment", Description: "assigning to self or a sibling changes nothing", Run: selfAssignment},
		{Name: "rvalues", Description: "temporaries move into place without copying", Run: rvalues},
		{Name: "remove", Description: "remove detaches one owner only", Run: remove},
		{Name: "lifecycle", Description: "create, clone, remove, release frees once", Run: lifecycle},
		{Name: "free-once", Description: "last of many owners frees exactly once", Run: freeOnce},
		{Name: "independent", Description: "separate groups never share a pointee", Run: independent},
	}
}

func defaultConstruct(env *Env) {
	h := handle.NewWithOptions[Probe](env.Options("default"))
	defer h.Release()

	env.Expect(h.RefCount() == 1, "refs = %d, want 1", h.RefCount())
	env.Expect(h.Get() != nil, "default handle has nil pointee")
}

func dereference(env *Env) {
	p := NewProbe(env.Tally)
	h := handle.AdoptWithOptions(p, env.Options("dereference"))
	defer h.Release()

	got, err := h.Deref()
	env.Expect(err == nil, "deref failed: %v", err)
	env.Expect(got == p, "Deref returned %p, want %p", got, p)
	env.Expect(h.Get() == p, "Get returned %p, want %p", h.Get(), p)
}

func multiAssignment(env *Env) {
	a := env.Make("multi")
	b := a.Clone()
	defer a.Release()
	defer b.Release()

	env.Expect(a.RefCount() == 2, "a refs = %d, want 2", a.RefCount())
	env.Expect(b.RefCount() == 2, "b refs = %d, want 2", b.RefCount())
	env.Expect(a.Get() == b.Get(), "clone points elsewhere")
}

func assignment(env *Env) {
	a := env.Make("assign-src")
	p := a.Get()
	b := env.Make("assign-dst")
	old := b.Get()
	defer a.Release()
	defer b.Release()

	b.Assign(&a)

	env.Expect(b.Get() == p, "assigned handle points elsewhere")
	env.Expect(a.Get() == b.Get(), "handles disagree on pointee")
	env.Expect(a.RefCount() == b.RefCount(), "refs differ: %d vs %d", a.RefCount(), b.RefCount())
	env.Expect(a.RefCount() == 2, "refs = %d, want 2", a.RefCount())
	env.Expect(env.Tally.Drops(old.ID) == 1, "replaced pointee dropped %d times, want 1", env.Tally.Drops(old.ID))
}

func selfAssignment(env *Env) {
	a := env.Make("self")
	b := a.Clone()
	defer a.Release()
	defer b.Release()
	p := a.Get()

	a.Assign(&b)
	env.Expect(a.RefCount() == 2, "after sibling assign refs = %d, want 2", a.RefCount())

	a.Assign(&a)
	env.Expect(a.RefCount() == 2, "after self assign refs = %d, want 2", a.RefCount())
	env.Expect(a.Get() == p, "self assign changed pointee")
	env.Expect(env.Tally.Drops(p.ID) == 0, "self assign dropped the pointee")
}

func rvalues(env *Env) {
	smart := env.Make("rvalue")
	smart1 := smart.Clone()
	tmp := env.Make("rvalue-tmp")
	smart2 := tmp.Move()
	next := env.Make("rvalue-next")
	smart.AssignMove(&next)
	defer smart.Release()
	defer smart1.Release()
	defer smart2.Release()

	env.Expect(!tmp.Attached() && !next.Attached(), "moved-from handles still attached")
	env.Expect(smart.Get() != smart1.Get(), "reassigned handle still shares the old pointee")
	env.Expect(smart1.Get().ID+1 == smart2.Get().ID, "ids %d and %d not sequential", smart1.Get().ID, smart2.Get().ID)
	env.Expect(smart.RefCount() == 1, "smart refs = %d, want 1", smart.RefCount())
	env.Expect(smart1.RefCount() == 1, "smart1 refs = %d, want 1", smart1.RefCount())
	env.Expect(smart2.RefCount() == 1, "smart2 refs = %d, want 1", smart2.RefCount())
}

func remove(env *Env) {
	smart := env.Make("remove")
	smart1 := smart.Clone()
	defer smart1.Release()

	smart.Remove()

	env.Expect(smart.Get() == nil, "removed handle still has a pointee")
	env.Expect(smart.RefCount() == 0, "removed refs = %d, want 0", smart.RefCount())
	env.Expect(smart1.Get() != nil, "sibling lost its pointee")
	env.Expect(smart1.RefCount() == 1, "sibling refs = %d, want 1", smart1.RefCount())
}

func lifecycle(env *Env) {
	a := env.Make("lifecycle")
	id := a.Get().ID
	env.Expect(a.RefCount() == 1, "created refs = %d, want 1", a.RefCount())

	b := a.Clone()
	env.Expect(a.RefCount() == 2 && b.RefCount() == 2, "cloned refs = %d/%d, want 2/2", a.RefCount(), b.RefCount())

	a.Remove()
	env.Expect(a.RefCount() == 0 && a.Get() == nil, "removed handle not detached")
	env.Expect(b.RefCount() == 1 && b.Get() != nil, "sibling refs = %d after remove, want 1", b.RefCount())
	env.Expect(env.Tally.Drops(id) == 0, "pointee dropped while still owned")

	b.Release()
	env.Expect(env.Tally.Drops(id) == 1, "pointee dropped %d times, want 1", env.Tally.Drops(id))
}

func freeOnce(env *Env) {
	const owners = 16

	first := env.Make("free-once")
	id := first.Get().ID
	owned := make([]handle.Handle[Probe], owners)
	owned[0].AssignMove(&first)
	for i := 1; i < owners; i++ {
		owned[i] = owned[i-1].Clone()
	}
	env.Expect(owned[0].RefCount() == owners, "refs = %d, want %d", owned[0].RefCount(), owners)

	// Release from both ends towards the middle.
	for lo, hi := 0, owners-1; lo <= hi; lo, hi = lo+1, hi-1 {
		owned[lo].Release()
		if hi != lo {
			owned[hi].Release()
		}
		if lo+1 <= hi-1 {
			env.Expect(env.Tally.Drops(id) == 0, "dropped with %d owners left", hi-lo-1)
		}
	}
	env.Expect(env.Tally.Drops(id) == 1, "pointee dropped %d times, want 1", env.Tally.Drops(id))
}

func independent(env *Env) {
	a := env.Make("independent-a")
	b := env.Make("independent-b")
	defer a.Release()
	defer b.Release()

	env.Expect(a.Get() != b.Get(), "separate groups share a pointee")
	env.Expect(!a.Same(&b), "separate groups report the same group")
}
