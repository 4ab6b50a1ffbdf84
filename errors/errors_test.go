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
				Phase:    PhaseValidate,
				Kind:     KindShapeMismatch,
				Function: "hook_OnDamage",
				Param:    "Amount",
				Path:     []string{"#[0]", "LoadedProperties[1]"},
				Detail:   "FloatProperty != IntProperty",
			},
			contains: []string{"[validate]", "shape_mismatch", "hook_OnDamage", "parameter Amount", "#[0].LoadedProperties[1]", "FloatProperty"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "read hook",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_data", "read hook", "caused by", "underlying error"},
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

func TestError_ParamWithoutFunction(t *testing.T) {
	err := &Error{Phase: PhaseValidate, Kind: KindShapeMismatch, Param: "Amount"}
	if strings.Contains(err.Error(), "parameter") {
		t.Errorf("parameter should only be reported with a function, got %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:    PhaseValidate,
		Kind:     KindShapeMismatch,
		Function: "hook_F",
	}

	if !err.Is(&Error{Phase: PhaseValidate, Kind: KindShapeMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseRewrite, Kind: KindShapeMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseValidate, Kind: KindPrecondition}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseValidate, Kind: KindShapeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseRewrite, KindUnresolved).
		Function("hook_Tick").
		Param("Delta").
		Path("#[0]", "Script[2]").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "export", "import").
		Build()

	if err.Phase != PhaseRewrite {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseRewrite)
	}
	if err.Kind != KindUnresolved {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnresolved)
	}
	if err.Function != "hook_Tick" || err.Param != "Delta" {
		t.Errorf("Function=%q Param=%q", err.Function, err.Param)
	}
	if len(err.Path) != 2 || err.Path[1] != "Script[2]" {
		t.Errorf("Path = %v", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected export, got import" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Precondition", func(t *testing.T) {
		err := Precondition("provided original is not a blueprint")
		if err.Kind != KindPrecondition || err.Phase != PhaseValidate {
			t.Errorf("Kind=%v Phase=%v", err.Kind, err.Phase)
		}
	})

	t.Run("HookTargetNotFound", func(t *testing.T) {
		err := HookTargetNotFound("hook_F", "F")
		if err.Kind != KindHookTarget {
			t.Errorf("Kind = %v, want %v", err.Kind, KindHookTarget)
		}
		if err.Function != "hook_F" || !strings.Contains(err.Detail, `"F"`) {
			t.Errorf("Function=%q Detail=%q", err.Function, err.Detail)
		}
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		err := ShapeMismatch("hook_F", "A", "count")
		if err.Kind != KindShapeMismatch || err.Param != "A" {
			t.Errorf("Kind=%v Param=%v", err.Kind, err.Param)
		}
	})

	t.Run("Unresolved", func(t *testing.T) {
		err := Unresolved([]string{"#[0]"}, "Helper")
		if err.Kind != KindUnresolved {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnresolved)
		}
		if err.Value != "Helper" {
			t.Errorf("Value = %v, want Helper", err.Value)
		}
	})

	t.Run("Cycle", func(t *testing.T) {
		err := Cycle(PhaseResolve, "import outer chain")
		if err.Kind != KindCycle {
			t.Errorf("Kind = %v, want %v", err.Kind, KindCycle)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseDecode, []string{"imports"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseParse, "struct", "Vector")
		if !strings.Contains(err.Detail, `struct "Vector" not found`) {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		cause := errors.New("bad yaml")
		err := ParseFailed("mappings", cause)
		if err.Phase != PhaseParse || !errors.Is(err, cause) {
			t.Errorf("Phase=%v cause not wrapped", err.Phase)
		}
	})
}
