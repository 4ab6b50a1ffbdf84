package asset

import (
	"fmt"
	"strings"

	"github.com/wippyai/blueprint-hook/errors"
)

// Import references an object defined outside the asset.
// Its identity is (ClassPackage, ClassName, ObjectName); OuterIndex is not part of it.
type Import struct {
	ClassPackage FName
	ClassName    FName
	ObjectName   FName
	OuterIndex   PackageIndex
	Optional     bool
}

// Asset is an in-memory blueprint package.
type Asset struct {
	nameLookup map[string]int
	Imports    []*Import
	// Exports may contain nil tombstones left by DetachExport.
	Exports []Export
	names   []string
	Version EngineVersion
	Flags   PackageFlags

	namesReferencedFromExportDataCount int
}

// New creates an empty asset.
func New(version EngineVersion) *Asset {
	return &Asset{
		Version:    version,
		nameLookup: make(map[string]int),
	}
}

// Unversioned reports whether property layouts depend on type mappings.
func (a *Asset) Unversioned() bool {
	return a.Flags&PackageUnversioned != 0
}

// SearchForImport finds an import by identity key, comparing strings.
func (a *Asset) SearchForImport(classPackage, className, objectName string) (PackageIndex, bool) {
	for i, imp := range a.Imports {
		if imp.ClassPackage.String() == classPackage &&
			imp.ClassName.String() == className &&
			imp.ObjectName.String() == objectName {
			return ImportRef(i), true
		}
	}
	return Null(), false
}

// AddImport appends imp and returns its reference.
func (a *Asset) AddImport(imp *Import) PackageIndex {
	a.Imports = append(a.Imports, imp)
	return ImportRef(len(a.Imports) - 1)
}

// Import returns the import referenced by idx.
func (a *Asset) Import(idx PackageIndex) (*Import, error) {
	if !idx.IsImport() {
		return nil, errors.InvalidInput(errors.PhaseResolve, fmt.Sprintf("%s is not an import reference", idx))
	}
	if idx.Index < 0 || idx.Index >= len(a.Imports) {
		return nil, errors.OutOfBounds(errors.PhaseResolve, []string{"imports"}, idx.Index, len(a.Imports))
	}
	return a.Imports[idx.Index], nil
}

// Export returns the export referenced by idx.
func (a *Asset) Export(idx PackageIndex) (Export, error) {
	if !idx.IsExport() {
		return nil, errors.InvalidInput(errors.PhaseResolve, fmt.Sprintf("%s is not an export reference", idx))
	}
	if idx.Index < 0 || idx.Index >= len(a.Exports) {
		return nil, errors.OutOfBounds(errors.PhaseResolve, []string{"exports"}, idx.Index, len(a.Exports))
	}
	e := a.Exports[idx.Index]
	if e == nil {
		return nil, errors.InvalidData(errors.PhaseResolve, []string{"exports"}, fmt.Sprintf("export %d was detached", idx.Index))
	}
	return e, nil
}

// FindExport returns the first export whose object name equals name.
func (a *Asset) FindExport(name string) (PackageIndex, bool) {
	for i, e := range a.Exports {
		if e != nil && e.Base().ObjectName.String() == name {
			return ExportRef(i), true
		}
	}
	return Null(), false
}

// FindFunction returns the first function export whose object name equals name.
func (a *Asset) FindFunction(name string) (PackageIndex, *FunctionExport, bool) {
	for i, e := range a.Exports {
		if fn, ok := e.(*FunctionExport); ok && fn.ObjectName.String() == name {
			return ExportRef(i), fn, true
		}
	}
	return Null(), nil, false
}

// AppendExport takes ownership of e and returns its reference.
func (a *Asset) AppendExport(e Export) PackageIndex {
	a.Exports = append(a.Exports, e)
	return ExportRef(len(a.Exports) - 1)
}

// DetachExport removes the export at idx from a and hands it to the caller.
// The slot becomes a nil tombstone so other positions stay valid.
func (a *Asset) DetachExport(idx PackageIndex) (Export, error) {
	e, err := a.Export(idx)
	if err != nil {
		return nil, err
	}
	a.Exports[idx.Index] = nil
	return e, nil
}

// ClassExports returns every class export in order.
func (a *Asset) ClassExports() []*ClassExport {
	var out []*ClassExport
	for _, e := range a.Exports {
		if c, ok := e.(*ClassExport); ok {
			out = append(out, c)
		}
	}
	return out
}

// PrimaryClassExport returns the blueprint's class, or nil unless exactly one exists.
func (a *Asset) PrimaryClassExport() *ClassExport {
	classes := a.ClassExports()
	if len(classes) != 1 {
		return nil
	}
	return classes[0]
}

// ObjectPath renders idx as its dot-separated outer chain, outermost first.
// Import paths are prefixed by their class name: "ScriptStruct'/Script/Engine.Vector'".
func (a *Asset) ObjectPath(idx PackageIndex) string {
	if idx.IsNull() {
		return ""
	}
	var parts []string
	var class string
	limit := len(a.Imports) + len(a.Exports) + 1
	for cur := idx; !cur.IsNull() && limit > 0; limit-- {
		switch cur.Kind {
		case RefImport:
			imp, err := a.Import(cur)
			if err != nil {
				return "<invalid " + cur.String() + ">"
			}
			if class == "" {
				class = imp.ClassName.String()
			}
			parts = append(parts, imp.ObjectName.String())
			cur = imp.OuterIndex
		case RefExport:
			e, err := a.Export(cur)
			if err != nil {
				return "<invalid " + cur.String() + ">"
			}
			parts = append(parts, e.Base().ObjectName.String())
			cur = e.Base().OuterIndex
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	path := strings.Join(parts, ".")
	if class != "" {
		return class + "'" + path + "'"
	}
	return path
}
