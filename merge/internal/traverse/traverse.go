// Package traverse walks the reference-carrying fields of an asset object graph.
//
// The walk is an explicit switch over the closed set of node types of the
// asset model. Every PackageIndex and FName field reachable from the root is
// offered to a Visitor together with a diagnostic path such as
// "#[0].Script[3].StackNode". Visitors receive pointers and may rewrite the
// references in place.
//
// Pointer-typed nodes (exports, imports, properties, expressions) are visited
// once per identity; a Visited set shared across walks carries that state.
// Value fields are offered at every location they occur.
package traverse

import (
	"fmt"
	"strconv"

	"github.com/wippyai/blueprint-hook/asset"
)

// RootPath is the path of the walk root.
const RootPath = "#"

// Visitor receives every reference found by Walk. A returned error stops the
// walk and is returned unchanged.
type Visitor interface {
	VisitIndex(idx *asset.PackageIndex, path string) error
	VisitName(name *asset.FName, path string) error
}

// Funcs adapts two functions to Visitor. Nil functions are skipped.
type Funcs struct {
	Index func(idx *asset.PackageIndex, path string) error
	Name  func(name *asset.FName, path string) error
}

func (f Funcs) VisitIndex(idx *asset.PackageIndex, path string) error {
	if f.Index == nil {
		return nil
	}
	return f.Index(idx, path)
}

func (f Funcs) VisitName(name *asset.FName, path string) error {
	if f.Name == nil {
		return nil
	}
	return f.Name(name, path)
}

// Visited is a set of node identities.
type Visited map[any]struct{}

// NewVisited creates a set containing seed. Seeded nodes are never entered.
func NewVisited(seed ...any) Visited {
	v := make(Visited, len(seed))
	for _, s := range seed {
		v[s] = struct{}{}
	}
	return v
}

// Add records node and reports whether it was absent.
func (v Visited) Add(node any) bool {
	if _, ok := v[node]; ok {
		return false
	}
	v[node] = struct{}{}
	return true
}

// Has reports whether node was recorded.
func (v Visited) Has(node any) bool {
	_, ok := v[node]
	return ok
}

type walker struct {
	v       Visitor
	visited Visited
}

// Walk visits every reference reachable from root. Root may be an *asset.Asset,
// an export, an import, a property, an expression, a slice of any of those,
// a *asset.PackageIndex or a *asset.FName. A nil visited set is allowed.
func Walk(root any, v Visitor, visited Visited) error {
	if visited == nil {
		visited = NewVisited()
	}
	w := &walker{v: v, visited: visited}
	return w.walk(root, RootPath)
}

func (w *walker) walk(node any, path string) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *asset.PackageIndex:
		return w.v.VisitIndex(n, path)
	case *asset.FName:
		return w.v.VisitName(n, path)
	case *asset.Asset:
		return w.asset(n, path)
	case []asset.Export:
		for i, e := range n {
			if err := w.walk(e, elem(path, i)); err != nil {
				return err
			}
		}
		return nil
	case []*asset.FunctionExport:
		for i, e := range n {
			if err := w.walk(e, elem(path, i)); err != nil {
				return err
			}
		}
		return nil
	case []*asset.Import:
		for i, imp := range n {
			if err := w.walk(imp, elem(path, i)); err != nil {
				return err
			}
		}
		return nil
	case []*asset.Property:
		for i, p := range n {
			if err := w.walk(p, elem(path, i)); err != nil {
				return err
			}
		}
		return nil
	case []asset.Expr:
		return w.exprs(n, path)
	case *asset.Import:
		return w.importEntry(n, path)
	case *asset.Property:
		return w.property(n, path)
	case *asset.FunctionExport:
		return w.function(n, path)
	case *asset.ClassExport:
		return w.class(n, path)
	case *asset.RawExport:
		return w.raw(n, path)
	case asset.Expr:
		return w.expr(n, path)
	default:
		return fmt.Errorf("traverse: unsupported node type %T at %s", node, path)
	}
}

func (w *walker) asset(a *asset.Asset, path string) error {
	if !w.visited.Add(a) {
		return nil
	}
	if err := w.walk(a.Imports, path+".Imports"); err != nil {
		return err
	}
	for i, e := range a.Exports {
		if e == nil {
			continue
		}
		if err := w.walk(e, elem(path+".Exports", i)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) importEntry(imp *asset.Import, path string) error {
	if imp == nil || !w.visited.Add(imp) {
		return nil
	}
	if err := w.v.VisitName(&imp.ClassPackage, path+".ClassPackage"); err != nil {
		return err
	}
	if err := w.v.VisitName(&imp.ClassName, path+".ClassName"); err != nil {
		return err
	}
	if err := w.v.VisitIndex(&imp.OuterIndex, path+".OuterIndex"); err != nil {
		return err
	}
	return w.v.VisitName(&imp.ObjectName, path+".ObjectName")
}

func (w *walker) raw(e *asset.RawExport, path string) error {
	if e == nil || !w.visited.Add(e) {
		return nil
	}
	return w.base(&e.ExportBase, path)
}

func (w *walker) function(e *asset.FunctionExport, path string) error {
	if e == nil || !w.visited.Add(e) {
		return nil
	}
	return w.structExport(&e.StructExport, path)
}

func (w *walker) class(e *asset.ClassExport, path string) error {
	if e == nil || !w.visited.Add(e) {
		return nil
	}
	if err := w.structExport(&e.StructExport, path); err != nil {
		return err
	}

	for i := range e.FuncMap.Entries {
		entry := &e.FuncMap.Entries[i]
		p := elem(path+".FuncMap", i)
		if err := w.v.VisitName(&entry.Name, p+".Key"); err != nil {
			return err
		}
		if err := w.v.VisitIndex(&entry.Index, p+".Value"); err != nil {
			return err
		}
	}
	if err := w.v.VisitIndex(&e.ClassWithin, path+".ClassWithin"); err != nil {
		return err
	}
	if err := w.v.VisitName(&e.ClassConfigName, path+".ClassConfigName"); err != nil {
		return err
	}

	// Interface classes are stored raw; they follow the same rules as any
	// other class reference.
	for i := range e.Interfaces {
		iface := &e.Interfaces[i]
		idx := asset.FromRaw(iface.Class)
		if err := w.v.VisitIndex(&idx, elem(path+".Interfaces", i)+".Class"); err != nil {
			return err
		}
		iface.Class = idx.Raw()
	}

	if err := w.v.VisitIndex(&e.ClassGeneratedBy, path+".ClassGeneratedBy"); err != nil {
		return err
	}
	return w.v.VisitIndex(&e.ClassDefaultObject, path+".ClassDefaultObject")
}

func (w *walker) base(b *asset.ExportBase, path string) error {
	if err := w.v.VisitName(&b.ObjectName, path+".ObjectName"); err != nil {
		return err
	}
	for _, f := range []struct {
		idx  *asset.PackageIndex
		name string
	}{
		{&b.ClassIndex, ".ClassIndex"},
		{&b.SuperIndex, ".SuperIndex"},
		{&b.TemplateIndex, ".TemplateIndex"},
		{&b.OuterIndex, ".OuterIndex"},
	} {
		if err := w.v.VisitIndex(f.idx, path+f.name); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		list []asset.PackageIndex
		name string
	}{
		{b.SerializationBeforeSerializationDependencies, ".SerializationBeforeSerializationDependencies"},
		{b.CreateBeforeSerializationDependencies, ".CreateBeforeSerializationDependencies"},
		{b.SerializationBeforeCreateDependencies, ".SerializationBeforeCreateDependencies"},
		{b.CreateBeforeCreateDependencies, ".CreateBeforeCreateDependencies"},
	} {
		if err := w.indexes(f.list, path+f.name); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) structExport(s *asset.StructExport, path string) error {
	if err := w.base(&s.ExportBase, path); err != nil {
		return err
	}
	if err := w.v.VisitIndex(&s.SuperStruct, path+".SuperStruct"); err != nil {
		return err
	}
	if err := w.indexes(s.Children, path+".Children"); err != nil {
		return err
	}
	for i, p := range s.LoadedProperties {
		if err := w.property(p, elem(path+".LoadedProperties", i)); err != nil {
			return err
		}
	}
	return w.exprs(s.Script, path+".Script")
}

func (w *walker) indexes(list []asset.PackageIndex, path string) error {
	for i := range list {
		if err := w.v.VisitIndex(&list[i], elem(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) property(p *asset.Property, path string) error {
	if p == nil || !w.visited.Add(p) {
		return nil
	}
	if err := w.v.VisitName(&p.Type, path+".Type"); err != nil {
		return err
	}
	if err := w.v.VisitName(&p.Name, path+".Name"); err != nil {
		return err
	}
	if err := w.v.VisitName(&p.RepNotifyFunc, path+".RepNotifyFunc"); err != nil {
		return err
	}
	if err := w.v.VisitIndex(&p.Struct, path+".Struct"); err != nil {
		return err
	}
	if err := w.v.VisitIndex(&p.PropertyClass, path+".PropertyClass"); err != nil {
		return err
	}
	return w.property(p.Inner, path+".Inner")
}

func (w *walker) exprs(list []asset.Expr, path string) error {
	for i, e := range list {
		if err := w.expr(e, elem(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) expr(e asset.Expr, path string) error {
	if e == nil || !w.visited.Add(e) {
		return nil
	}
	switch x := e.(type) {
	case *asset.ExprLocalVariable:
		return w.fieldPath(&x.Variable, path+".Variable")
	case *asset.ExprInstanceVariable:
		return w.fieldPath(&x.Variable, path+".Variable")
	case *asset.ExprLet:
		if err := w.expr(x.Value, path+".Value"); err != nil {
			return err
		}
		return w.fieldPath(&x.Variable, path+".Variable")
	case *asset.ExprFinalFunction:
		if err := w.exprs(x.Params, path+".Params"); err != nil {
			return err
		}
		return w.v.VisitIndex(&x.StackNode, path+".StackNode")
	case *asset.ExprVirtualFunction:
		if err := w.exprs(x.Params, path+".Params"); err != nil {
			return err
		}
		return w.v.VisitName(&x.VirtualFunctionName, path+".VirtualFunctionName")
	case *asset.ExprContext:
		if err := w.expr(x.Object, path+".Object"); err != nil {
			return err
		}
		if err := w.expr(x.Context, path+".Context"); err != nil {
			return err
		}
		return w.fieldPath(&x.RValuePointer, path+".RValuePointer")
	case *asset.ExprObjectConst:
		return w.v.VisitIndex(&x.Value, path+".Value")
	case *asset.ExprNameConst:
		return w.v.VisitName(&x.Value, path+".Value")
	case *asset.ExprReturn:
		return w.expr(x.Value, path+".Value")
	case *asset.ExprIntConst, *asset.ExprStringConst, *asset.ExprNothing, *asset.ExprEndOfScript:
		return nil
	default:
		return fmt.Errorf("traverse: unsupported expression %T at %s", e, path)
	}
}

func (w *walker) fieldPath(fp *asset.FieldPath, path string) error {
	for i := range fp.Path {
		if err := w.v.VisitName(&fp.Path[i], elem(path+".Path", i)); err != nil {
			return err
		}
	}
	return w.v.VisitIndex(&fp.ResolvedOwner, path+".ResolvedOwner")
}

func elem(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
