package merge

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/godiff"
	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/errors"
)

var differRegistry = godiff.NewRegistry()

// ParamShape is the structural projection of a parameter property. Object
// references are rendered as object paths so that shapes from different
// assets compare directly.
type ParamShape struct {
	Name          string
	Type          string
	RepNotifyFunc string
	Struct        string
	PropertyClass string
	Inner         string
	Flags         uint64
	ArrayDim      int32
	ElementSize   int32
}

// ShapeOf projects p, owned by a, into a ParamShape.
func ShapeOf(a *asset.Asset, p *asset.Property) ParamShape {
	s := ParamShape{
		Name:          p.Name.String(),
		Type:          p.Type.String(),
		RepNotifyFunc: p.RepNotifyFunc.String(),
		Struct:        a.ObjectPath(p.Struct),
		PropertyClass: a.ObjectPath(p.PropertyClass),
		Flags:         uint64(p.Flags),
		ArrayDim:      p.ArrayDim,
		ElementSize:   p.ElementSize,
	}
	if p.Inner != nil {
		s.Inner = ShapeOf(a, p.Inner).String()
	}
	return s
}

func (s ParamShape) String() string {
	var b strings.Builder
	b.WriteString(s.Type)
	if s.Struct != "" {
		b.WriteString("<" + s.Struct + ">")
	}
	if s.PropertyClass != "" {
		b.WriteString("<" + s.PropertyClass + ">")
	}
	if s.Inner != "" {
		b.WriteString("[" + s.Inner + "]")
	}
	fmt.Fprintf(&b, " %s flags=%#x dim=%d size=%d", s.Name, s.Flags, s.ArrayDim, s.ElementSize)
	if s.RepNotifyFunc != "None" && s.RepNotifyFunc != "" {
		b.WriteString(" notify=" + s.RepNotifyFunc)
	}
	return b.String()
}

// CompareParams checks that hook has the same signature as base. When both
// sides of a position are struct-typed, the base element size is copied into
// the hook property first since only the struct type has to agree.
func CompareParams(hookAsset *asset.Asset, hook *asset.FunctionExport, baseAsset *asset.Asset, base *asset.FunctionExport) error {
	fnName := hook.ObjectName.String()
	hp, bp := hook.Params(), base.Params()
	if len(hp) != len(bp) {
		return errors.ShapeMismatch(fnName, "",
			fmt.Sprintf("hook has %d parameters, %s has %d", len(hp), base.ObjectName, len(bp)))
	}

	for i := range hp {
		if hp[i].IsStruct() && bp[i].IsStruct() {
			hp[i].ElementSize = bp[i].ElementSize
		}
		hs, bs := ShapeOf(hookAsset, hp[i]), ShapeOf(baseAsset, bp[i])
		if hs == bs {
			continue
		}
		return errors.New(errors.PhaseValidate, errors.KindShapeMismatch).
			Function(fnName).
			Param(hp[i].Name.String()).
			Value(i).
			Detail("%s", describeDiff(hs, bs)).
			Build()
	}
	return nil
}

func describeDiff(hook, base ParamShape) string {
	differ, err := differRegistry.Get(reflect.TypeOf(hook), reflect.TypeOf(base), &godiff.Tag{})
	if err == nil {
		if changes := differ.Diff(base, hook); changes != nil && len(changes.Changes) > 0 {
			parts := make([]string, 0, len(changes.Changes))
			for _, c := range changes.Changes {
				parts = append(parts, fmt.Sprintf("%v -> %v", c.From, c.To))
			}
			return "does not match overridden parameter: " + strings.Join(parts, ", ")
		}
	}
	return fmt.Sprintf("does not match overridden parameter: have %s, want %s", hook, base)
}
