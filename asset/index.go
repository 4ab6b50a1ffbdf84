package asset

import "strconv"

// RefKind discriminates a PackageIndex.
type RefKind uint8

const (
	RefNull RefKind = iota
	RefExport
	RefImport
)

// PackageIndex references an export or import of its owning asset.
// Index is the 0-based position in the referenced table.
type PackageIndex struct {
	Kind  RefKind
	Index int
}

// Null returns the empty reference.
func Null() PackageIndex {
	return PackageIndex{}
}

// ExportRef references the export at position i.
func ExportRef(i int) PackageIndex {
	return PackageIndex{Kind: RefExport, Index: i}
}

// ImportRef references the import at position i.
func ImportRef(i int) PackageIndex {
	return PackageIndex{Kind: RefImport, Index: i}
}

// FromRaw converts the signed on-disk form: positive values are 1-based
// export positions, negative values are negated 1-based import positions.
func FromRaw(raw int32) PackageIndex {
	switch {
	case raw > 0:
		return ExportRef(int(raw) - 1)
	case raw < 0:
		return ImportRef(int(-raw) - 1)
	default:
		return Null()
	}
}

// Raw returns the signed on-disk form.
func (p PackageIndex) Raw() int32 {
	switch p.Kind {
	case RefExport:
		return int32(p.Index + 1)
	case RefImport:
		return -int32(p.Index + 1)
	default:
		return 0
	}
}

func (p PackageIndex) IsNull() bool   { return p.Kind == RefNull }
func (p PackageIndex) IsExport() bool { return p.Kind == RefExport }
func (p PackageIndex) IsImport() bool { return p.Kind == RefImport }

func (p PackageIndex) String() string {
	switch p.Kind {
	case RefExport:
		return "export:" + strconv.Itoa(p.Index)
	case RefImport:
		return "import:" + strconv.Itoa(p.Index)
	default:
		return "null"
	}
}
