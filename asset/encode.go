package asset

import (
	"fmt"

	"github.com/wippyai/blueprint-hook/asset/internal/binary"
	"github.com/wippyai/blueprint-hook/errors"
)

// encoder writes the container. The first validation failure is kept and
// reported by Encode; later writes continue so the code stays linear.
type encoder struct {
	asset *Asset
	err   error
}

// Encode serializes the asset. It fails if any name belongs to another asset,
// any reference is out of range or points at a detached export.
func (a *Asset) Encode() ([]byte, error) {
	if a.namesReferencedFromExportDataCount > len(a.names) {
		return nil, errors.InvalidData(errors.PhaseEncode, []string{"summary"},
			fmt.Sprintf("names referenced count %d exceeds name table size %d", a.namesReferencedFromExportDataCount, len(a.names)))
	}

	e := &encoder{asset: a}
	w := binary.NewWriter()
	w.WriteU32LE(Magic)
	w.WriteU32LE(uint32(a.Version))
	w.WriteU32LE(uint32(a.Flags))

	sec := binary.NewWriter()
	sec.WriteU32(uint32(len(a.names)))
	for _, s := range a.names {
		sec.WriteName(s)
	}
	w.Section(SectionNames, sec.Bytes())

	sec = binary.NewWriter()
	sec.WriteU32(uint32(len(a.Imports)))
	for i, imp := range a.Imports {
		path := fmt.Sprintf("imports[%d]", i)
		e.name(sec, imp.ClassPackage, path)
		e.name(sec, imp.ClassName, path)
		e.index(sec, imp.OuterIndex, path)
		e.name(sec, imp.ObjectName, path)
		sec.Bool(imp.Optional)
	}
	w.Section(SectionImports, sec.Bytes())

	sec = binary.NewWriter()
	sec.WriteU32(uint32(len(a.Exports)))
	for i, exp := range a.Exports {
		e.export(sec, exp, fmt.Sprintf("exports[%d]", i))
	}
	w.Section(SectionExports, sec.Bytes())

	sec = binary.NewWriter()
	sec.WriteU32(uint32(a.namesReferencedFromExportDataCount))
	w.Section(SectionSummary, sec.Bytes())

	if e.err != nil {
		return nil, e.err
	}
	return w.Bytes(), nil
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) export(w *binary.Writer, exp Export, path string) {
	if exp == nil {
		e.fail(errors.InvalidData(errors.PhaseEncode, []string{path}, "export was detached"))
		return
	}
	w.Byte(byte(exp.Kind()))
	e.exportBase(w, exp.Base(), path)

	switch x := exp.(type) {
	case *RawExport:
		w.WriteU32(uint32(len(x.Data)))
		w.WriteBytes(x.Data)
	case *FunctionExport:
		e.structExport(w, &x.StructExport, path)
		w.WriteU32(x.FunctionFlags)
	case *ClassExport:
		e.structExport(w, &x.StructExport, path)
		e.classExport(w, x, path)
	default:
		e.fail(errors.Unsupported(errors.PhaseEncode, fmt.Sprintf("export type %T", exp)))
	}
}

func (e *encoder) exportBase(w *binary.Writer, b *ExportBase, path string) {
	e.name(w, b.ObjectName, path+".ObjectName")
	w.WriteU32(b.ObjectFlags)
	e.index(w, b.ClassIndex, path+".ClassIndex")
	e.index(w, b.SuperIndex, path+".SuperIndex")
	e.index(w, b.TemplateIndex, path+".TemplateIndex")
	e.index(w, b.OuterIndex, path+".OuterIndex")
	e.indexList(w, b.SerializationBeforeSerializationDependencies, path)
	e.indexList(w, b.CreateBeforeSerializationDependencies, path)
	e.indexList(w, b.SerializationBeforeCreateDependencies, path)
	e.indexList(w, b.CreateBeforeCreateDependencies, path)
}

func (e *encoder) structExport(w *binary.Writer, s *StructExport, path string) {
	e.index(w, s.SuperStruct, path+".SuperStruct")
	e.indexList(w, s.Children, path+".Children")
	w.WriteU32(uint32(len(s.LoadedProperties)))
	for i, p := range s.LoadedProperties {
		e.property(w, p, fmt.Sprintf("%s.LoadedProperties[%d]", path, i))
	}
	w.WriteU32(uint32(len(s.Script)))
	for i, x := range s.Script {
		e.expr(w, x, fmt.Sprintf("%s.Script[%d]", path, i))
	}
}

func (e *encoder) classExport(w *binary.Writer, c *ClassExport, path string) {
	w.WriteU32(uint32(c.FuncMap.Len()))
	for _, entry := range c.FuncMap.Entries {
		e.name(w, entry.Name, path+".FuncMap")
		e.index(w, entry.Index, path+".FuncMap")
	}
	w.WriteU32(c.ClassFlags)
	e.index(w, c.ClassWithin, path+".ClassWithin")
	e.name(w, c.ClassConfigName, path+".ClassConfigName")
	w.WriteU32(uint32(len(c.Interfaces)))
	for _, iface := range c.Interfaces {
		e.checkIndex(FromRaw(iface.Class), path+".Interfaces")
		w.WriteS32(iface.Class)
		w.WriteS32(iface.PointerOffset)
		w.Bool(iface.Implemented)
	}
	e.index(w, c.ClassGeneratedBy, path+".ClassGeneratedBy")
	e.index(w, c.ClassDefaultObject, path+".ClassDefaultObject")
}

func (e *encoder) property(w *binary.Writer, p *Property, path string) {
	e.name(w, p.Type, path+".Type")
	e.name(w, p.Name, path+".Name")
	e.name(w, p.RepNotifyFunc, path+".RepNotifyFunc")
	w.WriteU64(uint64(p.Flags))
	w.WriteS32(p.ArrayDim)
	w.WriteS32(p.ElementSize)
	e.index(w, p.Struct, path+".Struct")
	e.index(w, p.PropertyClass, path+".PropertyClass")
	w.Bool(p.Inner != nil)
	if p.Inner != nil {
		e.property(w, p.Inner, path+".Inner")
	}
}

func (e *encoder) expr(w *binary.Writer, x Expr, path string) {
	if x == nil {
		e.fail(errors.InvalidData(errors.PhaseEncode, []string{path}, "nil expression"))
		return
	}
	w.Byte(byte(x.Token()))
	switch v := x.(type) {
	case *ExprLocalVariable:
		e.fieldPath(w, v.Variable, path)
	case *ExprInstanceVariable:
		e.fieldPath(w, v.Variable, path)
	case *ExprLet:
		e.fieldPath(w, v.Variable, path)
		e.expr(w, v.Value, path+".Value")
	case *ExprFinalFunction:
		e.index(w, v.StackNode, path+".StackNode")
		e.params(w, v.Params, path)
	case *ExprVirtualFunction:
		e.name(w, v.VirtualFunctionName, path+".VirtualFunctionName")
		e.params(w, v.Params, path)
	case *ExprContext:
		e.expr(w, v.Object, path+".Object")
		w.WriteU32(v.Offset)
		e.fieldPath(w, v.RValuePointer, path)
		e.expr(w, v.Context, path+".Context")
	case *ExprObjectConst:
		e.index(w, v.Value, path+".Value")
	case *ExprNameConst:
		e.name(w, v.Value, path+".Value")
	case *ExprIntConst:
		w.WriteS32(v.Value)
	case *ExprStringConst:
		w.WriteName(v.Value)
	case *ExprReturn:
		e.expr(w, v.Value, path+".Value")
	case *ExprNothing, *ExprEndOfScript:
	default:
		e.fail(errors.Unsupported(errors.PhaseEncode, fmt.Sprintf("expression type %T", x)))
	}
}

func (e *encoder) params(w *binary.Writer, params []Expr, path string) {
	for i, p := range params {
		e.expr(w, p, fmt.Sprintf("%s.Params[%d]", path, i))
	}
	w.Byte(byte(TokenEndFunctionParms))
}

func (e *encoder) fieldPath(w *binary.Writer, fp FieldPath, path string) {
	w.WriteU32(uint32(len(fp.Path)))
	for _, n := range fp.Path {
		e.name(w, n, path+".Path")
	}
	e.index(w, fp.ResolvedOwner, path+".ResolvedOwner")
}

func (e *encoder) name(w *binary.Writer, n FName, path string) {
	if n.IsNone() {
		w.WriteU32(0)
		return
	}
	if n.asset != e.asset {
		e.fail(errors.InvalidData(errors.PhaseEncode, []string{path},
			fmt.Sprintf("name %q belongs to another asset", n.String())))
	}
	w.WriteU32(uint32(n.index + 1))
	w.WriteU32(uint32(n.Number))
}

func (e *encoder) index(w *binary.Writer, idx PackageIndex, path string) {
	e.checkIndex(idx, path)
	w.WriteS32(idx.Raw())
}

func (e *encoder) checkIndex(idx PackageIndex, path string) {
	switch idx.Kind {
	case RefImport:
		if idx.Index < 0 || idx.Index >= len(e.asset.Imports) {
			e.fail(errors.OutOfBounds(errors.PhaseEncode, []string{path}, idx.Index, len(e.asset.Imports)))
		}
	case RefExport:
		if idx.Index < 0 || idx.Index >= len(e.asset.Exports) {
			e.fail(errors.OutOfBounds(errors.PhaseEncode, []string{path}, idx.Index, len(e.asset.Exports)))
		} else if e.asset.Exports[idx.Index] == nil {
			e.fail(errors.InvalidData(errors.PhaseEncode, []string{path}, "reference to detached export"))
		}
	}
}

func (e *encoder) indexList(w *binary.Writer, list []PackageIndex, path string) {
	w.WriteU32(uint32(len(list)))
	for _, idx := range list {
		e.index(w, idx, path)
	}
}
