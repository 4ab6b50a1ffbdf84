package merge

import (
	"strings"
	"testing"

	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/asset/assettest"
	bperrors "github.com/wippyai/blueprint-hook/errors"
)

func TestShapeOf(t *testing.T) {
	bp := assettest.New("BP_Shape")
	p := bp.StructParam("Where", "Vector", 12)
	arr := bp.Param("Targets", "ArrayProperty", 16)
	arr.Inner = bp.Param("Targets", "ObjectProperty", 8)
	arr.Inner.PropertyClass = bp.Import(assettest.CoreUObject, "Class", "Actor", asset.Null())

	s := ShapeOf(bp.Asset, p)
	if s.Struct != "ScriptStruct'/Script/Engine.Vector'" {
		t.Errorf("Struct = %q", s.Struct)
	}
	if s.Type != asset.StructPropertyType || s.Name != "Where" || s.ElementSize != 12 || s.ArrayDim != 1 {
		t.Errorf("shape = %+v", s)
	}

	s = ShapeOf(bp.Asset, arr)
	if !strings.Contains(s.Inner, "ObjectProperty") || !strings.Contains(s.Inner, "Actor") {
		t.Errorf("Inner = %q", s.Inner)
	}
	if !strings.HasPrefix(s.String(), "ArrayProperty[") {
		t.Errorf("String = %q", s.String())
	}
}

func TestCompareParams(t *testing.T) {
	type sig func(bp *assettest.Blueprint) []*asset.Property
	base := func(bp *assettest.Blueprint) []*asset.Property {
		return []*asset.Property{
			bp.Param("Speed", "FloatProperty", 4),
			bp.StructParam("Direction", "Vector", 12),
			bp.Return("BoolProperty", 1),
		}
	}

	tests := []struct {
		name    string
		hook    sig
		wantErr bool
		param   string
	}{
		{
			name: "identical",
			hook: base,
		},
		{
			name: "locals are ignored",
			hook: func(bp *assettest.Blueprint) []*asset.Property {
				return append(base(bp), bp.Local("Temp", "IntProperty", 4))
			},
		},
		{
			name: "struct size differs",
			hook: func(bp *assettest.Blueprint) []*asset.Property {
				return []*asset.Property{
					bp.Param("Speed", "FloatProperty", 4),
					bp.StructParam("Direction", "Vector", 24),
					bp.Return("BoolProperty", 1),
				}
			},
		},
		{
			name: "scalar size differs",
			hook: func(bp *assettest.Blueprint) []*asset.Property {
				return []*asset.Property{
					bp.Param("Speed", "FloatProperty", 8),
					bp.StructParam("Direction", "Vector", 12),
					bp.Return("BoolProperty", 1),
				}
			},
			wantErr: true,
			param:   "Speed",
		},
		{
			name: "renamed parameter",
			hook: func(bp *assettest.Blueprint) []*asset.Property {
				return []*asset.Property{
					bp.Param("Velocity", "FloatProperty", 4),
					bp.StructParam("Direction", "Vector", 12),
					bp.Return("BoolProperty", 1),
				}
			},
			wantErr: true,
			param:   "Velocity",
		},
		{
			name: "missing return value",
			hook: func(bp *assettest.Blueprint) []*asset.Property {
				return base(bp)[:2]
			},
			wantErr: true,
		},
		{
			name: "different flags",
			hook: func(bp *assettest.Blueprint) []*asset.Property {
				props := base(bp)
				props[2].Flags = asset.PropertyParm | asset.PropertyOutParm
				return props
			},
			wantErr: true,
			param:   "ReturnValue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := assettest.New("BP_Mover")
			_, baseFn := orig.Define("Move", base(orig)...)
			hook := assettest.New("BP_Mover")
			_, hookFn := hook.Define("hook_Move", tt.hook(hook)...)

			err := CompareParams(hook.Asset, hookFn, orig.Asset, baseFn)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("CompareParams: %v", err)
				}
				return
			}
			if !isErr(err, bperrors.PhaseValidate, bperrors.KindShapeMismatch) {
				t.Fatalf("CompareParams error = %v, want shape mismatch", err)
			}
			e := err.(*bperrors.Error)
			if e.Function != "hook_Move" || e.Param != tt.param {
				t.Errorf("error context = function %q param %q", e.Function, e.Param)
			}
		})
	}
}

func TestCompareParamsCopiesStructSize(t *testing.T) {
	orig := assettest.New("BP_Mover")
	_, baseFn := orig.Define("Move", orig.StructParam("Direction", "Vector", 12))
	hook := assettest.New("BP_Mover")
	_, hookFn := hook.Define("hook_Move", hook.StructParam("Direction", "Vector", 24))

	if err := CompareParams(hook.Asset, hookFn, orig.Asset, baseFn); err != nil {
		t.Fatalf("CompareParams: %v", err)
	}
	if got := hookFn.Params()[0].ElementSize; got != 12 {
		t.Errorf("ElementSize = %d, want 12", got)
	}
	if got := baseFn.Params()[0].ElementSize; got != 12 {
		t.Errorf("base ElementSize changed to %d", got)
	}
}

func TestDescribeDiff(t *testing.T) {
	a := ParamShape{Name: "Speed", Type: "FloatProperty", ArrayDim: 1, ElementSize: 4}
	b := a
	b.Type = "DoubleProperty"
	b.ElementSize = 8

	msg := describeDiff(a, b)
	if !strings.HasPrefix(msg, "does not match overridden parameter") {
		t.Errorf("describeDiff = %q", msg)
	}
	if !strings.Contains(msg, "FloatProperty") || !strings.Contains(msg, "DoubleProperty") {
		t.Errorf("describeDiff = %q, want both types", msg)
	}
}
