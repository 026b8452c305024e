package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseRelease,
				Kind:   KindDoubleRelease,
				Group:  42,
				Label:  "frame",
				Detail: "reference count already zero",
			},
			contains: []string{"[release]", "double_release", "group 42", "(frame)", "already zero"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseAccess,
				Kind:  KindNullPointee,
			},
			contains: []string{"[access]", "null_pointee"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseScenario,
				Kind:   KindPanic,
				Detail: "panic",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[scenario]", "panic", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_OmitsEmptyGroup(t *testing.T) {
	msg := NullPointee("").Error()
	if strings.Contains(msg, "group") {
		t.Errorf("detached error should not mention a group: %q", msg)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(PhaseAudit, KindLeak).Cause(cause).Detail("audit failed").Build()

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause through the chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseAccess,
		Kind:  KindNullPointee,
		Label: "foo",
	}

	if !err.Is(&Error{Phase: PhaseAccess, Kind: KindNullPointee}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseRelease, Kind: KindNullPointee}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseAccess, Kind: KindOverflow}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, NullPointee("other")) {
		t.Error("errors.Is should match regardless of label")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseRelease, KindDoubleRelease).
		Group(9).
		Label("buffer").
		Value(uint32(0)).
		Cause(cause).
		Detail("released %d times", 2).
		Build()

	if err.Phase != PhaseRelease {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseRelease)
	}
	if err.Kind != KindDoubleRelease {
		t.Errorf("Kind = %v, want %v", err.Kind, KindDoubleRelease)
	}
	if err.Group != 9 {
		t.Errorf("Group = %d, want 9", err.Group)
	}
	if err.Label != "buffer" {
		t.Errorf("Label = %q, want buffer", err.Label)
	}
	if err.Value != uint32(0) {
		t.Errorf("Value = %v, want 0", err.Value)
	}
	if err.Cause != cause {
		t.Error("Cause not set")
	}
	if err.Detail != "released 2 times" {
		t.Errorf("Detail = %q", err.Detail)
	}

	plain := New(PhaseAudit, KindLeak).Detail("all leaked").Build()
	if plain.Detail != "all leaked" {
		t.Errorf("Detail without args should be verbatim, got %q", plain.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"NullPointee", NullPointee("x"), PhaseAccess, KindNullPointee},
		{"NilPointer", NilPointer("*int"), PhaseAcquire, KindNilPointer},
		{"Overflow", Overflow(1, "x", 4294967295), PhaseAcquire, KindOverflow},
		{"DoubleRelease", DoubleRelease(1, "x"), PhaseRelease, KindDoubleRelease},
		{"UseAfterFree", UseAfterFree(1, "x"), PhaseAcquire, KindUseAfterFree},
		{"Leaked", Leaked(1, "x", 3), PhaseAudit, KindLeak},
		{"Closed", Closed("ledger"), PhaseAudit, KindClosed},
		{"InvalidInput", InvalidInput(PhaseScenario, "bad"), PhaseScenario, KindInvalidInput},
		{"ScenarioFailed", ScenarioFailed("remove", "count = %d", 2), PhaseScenario, KindAssertion},
		{"Panicked", Panicked("remove", "boom"), PhaseScenario, KindPanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}

	if d := Overflow(1, "x", 4294967295).Detail; !strings.Contains(d, "4294967295") {
		t.Errorf("Overflow detail should carry the count: %q", d)
	}
	if d := ScenarioFailed("remove", "count = %d", 2).Detail; d != "count = 2" {
		t.Errorf("ScenarioFailed detail = %q", d)
	}
}

func TestPanicked_WrapsErrors(t *testing.T) {
	cause := DoubleRelease(3, "buf")
	err := Panicked("scenario", cause)

	if !errors.Is(err, DoubleRelease(0, "")) {
		t.Error("panic carrying an *Error should be reachable through errors.Is")
	}
	if err.Value != cause {
		t.Error("Value should keep the recovered panic value")
	}
}

func TestLeakError(t *testing.T) {
	t.Run("groups by label", func(t *testing.T) {
		err := NewLeakError([]LeakedGroup{
			{Group: 5, Label: "buffers", Refs: 1},
			{Group: 2, Label: "buffers", Refs: 2},
			{Group: 3, Refs: 1},
		})

		if err.Groups[0].Group != 2 {
			t.Errorf("groups should be sorted by id, first = %d", err.Groups[0].Group)
		}

		msg := err.Error()
		for _, s := range []string{"3 group(s)", "buffers:", "<unlabeled>:", "group 5, refs 1", "group 2, refs 2"} {
			if !strings.Contains(msg, s) {
				t.Errorf("message %q does not contain %q", msg, s)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		err := NewLeakError(nil)
		if !strings.Contains(err.Error(), "no groups specified") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("matches leak kind", func(t *testing.T) {
		var err error = NewLeakError([]LeakedGroup{{Group: 1, Refs: 1}})
		if !errors.Is(err, &LeakError{}) {
			t.Error("errors.Is should match *LeakError")
		}
		if !errors.Is(err, Leaked(0, "", 0)) {
			t.Error("errors.Is should match a leak *Error")
		}
		if errors.Is(err, NullPointee("")) {
			t.Error("errors.Is should not match unrelated kinds")
		}

		var leak *LeakError
		if !errors.As(err, &leak) || len(leak.Groups) != 1 {
			t.Error("errors.As should expose the groups")
		}
	})
}
