// Package assettest builds small in-memory blueprints for tests.
package assettest

import (
	"github.com/wippyai/blueprint-hook/asset"
)

const (
	CoreUObject = "/Script/CoreUObject"
	Engine      = "/Script/Engine"
)

// Blueprint is an asset with a single primary class export.
type Blueprint struct {
	Asset      *asset.Asset
	Class      *asset.ClassExport
	ClassIndex asset.PackageIndex

	functionClass asset.PackageIndex
}

// New creates a blueprint whose class is named name + "_C".
func New(name string) *Blueprint {
	a := asset.New(asset.DefaultEngineVersion)
	b := &Blueprint{Asset: a}

	engine := b.Import(CoreUObject, "Package", Engine, asset.Null())
	bpClass := b.Import(CoreUObject, "Class", "BlueprintGeneratedClass", engine)
	b.functionClass = b.Import(CoreUObject, "Class", "Function", b.Import(CoreUObject, "Package", CoreUObject, asset.Null()))

	b.Class = &asset.ClassExport{}
	b.Class.ObjectName = a.AddName(name + "_C")
	b.Class.ClassIndex = bpClass
	b.ClassIndex = a.AppendExport(b.Class)
	return b
}

// Import returns the import with the given identity, creating it when absent.
func (b *Blueprint) Import(classPackage, className, objectName string, outer asset.PackageIndex) asset.PackageIndex {
	if idx, ok := b.Asset.SearchForImport(classPackage, className, objectName); ok {
		return idx
	}
	return b.Asset.AddImport(&asset.Import{
		ClassPackage: b.Asset.AddName(classPackage),
		ClassName:    b.Asset.AddName(className),
		ObjectName:   b.Asset.AddName(objectName),
		OuterIndex:   outer,
	})
}

// LibraryFunction returns an import for a native function of an engine class,
// including its class and package outers.
func (b *Blueprint) LibraryFunction(library, function string) asset.PackageIndex {
	pkg := b.Import(CoreUObject, "Package", Engine, asset.Null())
	cls := b.Import(CoreUObject, "Class", library, pkg)
	return b.Import(CoreUObject, "Function", function, cls)
}

// ScriptStruct returns an import for an engine struct.
func (b *Blueprint) ScriptStruct(name string) asset.PackageIndex {
	pkg := b.Import(CoreUObject, "Package", Engine, asset.Null())
	return b.Import(CoreUObject, "ScriptStruct", name, pkg)
}

// Function appends a function export outered to the class. It is not
// registered with the class; use Register for that.
func (b *Blueprint) Function(name string, props ...*asset.Property) (asset.PackageIndex, *asset.FunctionExport) {
	fn := &asset.FunctionExport{}
	fn.ObjectName = b.Asset.AddName(name)
	fn.ClassIndex = b.functionClass
	fn.OuterIndex = b.ClassIndex
	fn.LoadedProperties = props
	idx := b.Asset.AppendExport(fn)
	return idx, fn
}

// Register adds a function to the class function map and child list.
func (b *Blueprint) Register(idx asset.PackageIndex, fn *asset.FunctionExport) {
	b.Class.FuncMap.Set(fn.ObjectName, idx)
	b.Class.Children = append(b.Class.Children, idx)
	b.Class.CreateBeforeSerializationDependencies = append(b.Class.CreateBeforeSerializationDependencies, idx)
}

// Define appends and registers a function.
func (b *Blueprint) Define(name string, props ...*asset.Property) (asset.PackageIndex, *asset.FunctionExport) {
	idx, fn := b.Function(name, props...)
	b.Register(idx, fn)
	return idx, fn
}

// Param creates an input parameter of a simple type.
func (b *Blueprint) Param(name, typ string, size int32) *asset.Property {
	return &asset.Property{
		Type:        b.Asset.AddName(typ),
		Name:        b.Asset.AddName(name),
		Flags:       asset.PropertyParm,
		ArrayDim:    1,
		ElementSize: size,
	}
}

// StructParam creates an input parameter typed by an engine struct.
func (b *Blueprint) StructParam(name, structName string, size int32) *asset.Property {
	p := b.Param(name, asset.StructPropertyType, size)
	p.Struct = b.ScriptStruct(structName)
	return p
}

// Return creates a return value slot.
func (b *Blueprint) Return(typ string, size int32) *asset.Property {
	p := b.Param("ReturnValue", typ, size)
	p.Flags = asset.PropertyParm | asset.PropertyOutParm | asset.PropertyReturnParm
	return p
}

// Local creates a non-parameter property.
func (b *Blueprint) Local(name, typ string, size int32) *asset.Property {
	p := b.Param(name, typ, size)
	p.Flags = 0
	return p
}

// ClassProperty adds a member variable to the class.
func (b *Blueprint) ClassProperty(name, typ string) *asset.Property {
	p := b.Local(name, typ, 4)
	p.Flags = asset.PropertyEdit | asset.PropertyBlueprintVisible
	b.Class.LoadedProperties = append(b.Class.LoadedProperties, p)
	return p
}

// Call builds a statically bound call expression.
func Call(target asset.PackageIndex, params ...asset.Expr) *asset.ExprFinalFunction {
	return &asset.ExprFinalFunction{StackNode: target, Params: params}
}

// LocalRef builds a read of a local variable owned by owner.
func (b *Blueprint) LocalRef(owner asset.PackageIndex, name string) *asset.ExprLocalVariable {
	return &asset.ExprLocalVariable{Variable: asset.FieldPath{
		Path:          []asset.FName{b.Asset.AddName(name)},
		ResolvedOwner: owner,
	}}
}

// Script sets the bytecode of fn and terminates it.
func Script(fn *asset.FunctionExport, exprs ...asset.Expr) {
	fn.Script = append(append([]asset.Expr{}, exprs...), &asset.ExprReturn{Value: &asset.ExprNothing{}}, &asset.ExprEndOfScript{})
}
