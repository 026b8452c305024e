// Package handle provides a reference-counted owning handle.
//
// A Handle[T] owns a heap allocated T together with every handle derived
// from it by Clone or Assign. The handles sharing one pointee form an
// ownership group; the group keeps a single count of its owners and frees
// the pointee exactly once, when the last owner lets go.
//
// # Lifecycle
//
//	a := handle.New[Buffer]()   // group of 1
//	b := a.Clone()              // group of 2, same pointee
//	a.Remove()                  // a detached; b.RefCount() == 1
//	b.Release()                 // last owner: pointee freed
//
// Freeing drops the group's reference to the pointee and, if *T implements
// Dropper, calls Drop exactly once.
//
// # Copy and Move
//
// Clone and Assign join a group and increment its count. Move and
// AssignMove transfer a share: the count stays the same and the source
// handle becomes detached. Plain struct assignment (b := a) is not a copy
// of ownership; go vet's copylocks check reports it.
//
// # Detached Handles
//
// A detached handle owns nothing: Get returns nil, RefCount returns 0 and
// Deref returns a null_pointee error. Handles become detached through
// Remove, Release, Move, or by assignment from a detached handle.
//
// # Observers
//
// Options attach a label and observers to a group at construction time.
// Every handle joining the group later shares them:
//
//	h := handle.NewWithOptions[Buffer](handle.Options{
//	    Label:     "frame",
//	    Observers: []handle.Observer{audit},
//	})
//
// # Thread Safety
//
// Handles are NOT thread-safe. The count is a plain integer; sharing a
// group between goroutines requires external synchronization.
//
// # Misuse
//
// Adopting a nil pointer or overflowing the count panics with a structured
// *errors.Error. So does joining or releasing a group that was already
// freed, which is only reachable through a plain struct copy.
//
// Zero-sized types may share addresses in Go, so two groups of a zero-sized
// T can return equal pointers from Get. Use Same or GroupID to compare
// ownership.
package handle
