// Package errors provides structured error types for the smartptr module.
//
// Errors are categorized by Phase (which part of a handle's life the error
// belongs to) and Kind (error category). The Error type carries the ownership
// group identifier and label so misuse can be traced back to the owner.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRelease, errors.KindDoubleRelease).
//		Group(7).
//		Label("frame-buffer").
//		Detail("released %d times", 2).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NullPointee("frame-buffer")
//	err := errors.Overflow(7, "frame-buffer", math.MaxUint32)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
