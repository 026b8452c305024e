// Package smartptr provides a reference-counted owning handle for Go values.
//
// A handle owns a heap allocated value together with every handle copied
// from it. The last owner to let go frees the value exactly once, calling
// its Drop method if it has one.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	smartptr/
//	├── handle/      Handle[T], ownership groups, lifecycle events
//	├── ledger/      Observer that audits live groups for leaks
//	├── scenario/    Named checks of the handle contract
//	├── errors/      Structured error types for misuse and audits
//	├── cmd/check/   CLI running the scenarios (plain or interactive)
//	└── examples/    Runnable examples
//
// # Quick Start
//
//	a := handle.New[Buffer]()
//	b := a.Clone()          // a.RefCount() == b.RefCount() == 2
//	a.Remove()              // a detached, b.RefCount() == 1
//	b.Release()             // Buffer freed
//
// # Auditing
//
// Pass a ledger's options when creating handles and check it at shutdown:
//
//	audit := ledger.New()
//	h := handle.NewWithOptions[Buffer](audit.Options("buffer"))
//	...
//	h.Release()
//	if err := audit.Close(); err != nil {
//	    log.Printf("leak: %v", err)
//	}
//
// # Thread Safety
//
// Handles are NOT thread-safe: the reference count is a plain integer and a
// group must be used by a single goroutine, or access must be synchronized.
// Ledgers are safe for concurrent use.
package smartptr
