package errors

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Phase indicates which part of a handle's life the error belongs to
type Phase string

const (
	PhaseAcquire  Phase = "acquire"  // construction, adoption, joining a group
	PhaseAccess   Phase = "access"   // dereferencing
	PhaseRelease  Phase = "release"  // leaving a group, freeing
	PhaseAudit    Phase = "audit"    // ledger checks
	PhaseScenario Phase = "scenario" // harness scenarios
)

// Kind categorizes the error
type Kind string

const (
	KindNullPointee   Kind = "null_pointee"
	KindNilPointer    Kind = "nil_pointer"
	KindOverflow      Kind = "overflow"
	KindDoubleRelease Kind = "double_release"
	KindUseAfterFree  Kind = "use_after_free"
	KindLeak          Kind = "leak"
	KindAssertion     Kind = "assertion"
	KindPanic         Kind = "panic"
	KindClosed        Kind = "closed"
	KindInvalidInput  Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Label  string
	Detail string
	Group  uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Group != 0 {
		b.WriteString(" at group ")
		b.WriteString(strconv.FormatUint(e.Group, 10))
	}
	if e.Label != "" {
		b.WriteString(" (")
		b.WriteString(e.Label)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Group sets the ownership group identifier
func (b *Builder) Group(id uint64) *Builder {
	b.err.Group = id
	return b
}

// Label sets the group label
func (b *Builder) Label(label string) *Builder {
	b.err.Label = label
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullPointee creates an error for dereferencing a detached handle
func NullPointee(label string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindNullPointee,
		Label:  label,
		Detail: "handle is detached",
	}
}

// NilPointer creates an error for adopting a nil pointer
func NilPointer(goType string) *Error {
	return &Error{
		Phase:  PhaseAcquire,
		Kind:   KindNilPointer,
		Detail: fmt.Sprintf("cannot adopt nil %s", goType),
	}
}

// Overflow creates a reference count overflow error
func Overflow(group uint64, label string, refs uint32) *Error {
	return &Error{
		Phase:  PhaseAcquire,
		Kind:   KindOverflow,
		Group:  group,
		Label:  label,
		Detail: fmt.Sprintf("reference count %d cannot grow", refs),
		Value:  refs,
	}
}

// DoubleRelease creates an error for releasing a group that was already freed
func DoubleRelease(group uint64, label string) *Error {
	return &Error{
		Phase:  PhaseRelease,
		Kind:   KindDoubleRelease,
		Group:  group,
		Label:  label,
		Detail: "reference count already zero",
	}
}

// UseAfterFree creates an error for joining a group that was already freed
func UseAfterFree(group uint64, label string) *Error {
	return &Error{
		Phase:  PhaseAcquire,
		Kind:   KindUseAfterFree,
		Group:  group,
		Label:  label,
		Detail: "group already freed",
	}
}

// Leaked creates an error for a single group still alive at audit time
func Leaked(group uint64, label string, refs uint32) *Error {
	return &Error{
		Phase:  PhaseAudit,
		Kind:   KindLeak,
		Group:  group,
		Label:  label,
		Detail: fmt.Sprintf("%d owner(s) never released", refs),
		Value:  refs,
	}
}

// Closed creates an error for operations on a closed component
func Closed(what string) *Error {
	return &Error{
		Phase:  PhaseAudit,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// ScenarioFailed creates an assertion failure for a named scenario
func ScenarioFailed(name, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseScenario,
		Kind:   KindAssertion,
		Label:  name,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Panicked converts a recovered panic value into an error
func Panicked(name string, r any) *Error {
	e := &Error{
		Phase: PhaseScenario,
		Kind:  KindPanic,
		Label: name,
		Value: r,
	}
	if err, ok := r.(error); ok {
		e.Detail = "panic"
		e.Cause = err
	} else {
		e.Detail = fmt.Sprintf("panic: %v", r)
	}
	return e
}

// LeakedGroup describes one ownership group found alive by an audit
type LeakedGroup struct {
	Label string
	Group uint64
	Refs  uint32
}

// LeakError is returned when an audit finds groups that were never freed
type LeakError struct {
	Groups []LeakedGroup
}

// NewLeakError creates a leak error sorted by group identifier
func NewLeakError(groups []LeakedGroup) *LeakError {
	sorted := make([]LeakedGroup, len(groups))
	copy(sorted, groups)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Group < sorted[j].Group })
	return &LeakError{Groups: sorted}
}

func (e *LeakError) Error() string {
	if len(e.Groups) == 0 {
		return "[audit] leak: no groups specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d group(s) never freed:\n", len(e.Groups)))

	// Group by label for cleaner output
	byLabel := make(map[string][]LeakedGroup)
	var labelOrder []string
	for _, g := range e.Groups {
		label := g.Label
		if label == "" {
			label = "<unlabeled>"
		}
		if _, exists := byLabel[label]; !exists {
			labelOrder = append(labelOrder, label)
		}
		byLabel[label] = append(byLabel[label], g)
	}

	for _, label := range labelOrder {
		b.WriteString("\n  ")
		b.WriteString(label)
		b.WriteString(":\n")
		for _, g := range byLabel[label] {
			b.WriteString(fmt.Sprintf("    - group %d, refs %d\n", g.Group, g.Refs))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type or a leak *Error
func (e *LeakError) Is(target error) bool {
	switch t := target.(type) {
	case *LeakError:
		return true
	case *Error:
		return t.Phase == PhaseAudit && t.Kind == KindLeak
	}
	return false
}
