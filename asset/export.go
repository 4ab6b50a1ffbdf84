package asset

// ExportKind identifies the variant of an export in the container.
type ExportKind uint8

const (
	ExportRaw      ExportKind = 0x00
	ExportFunction ExportKind = 0x01
	ExportClass    ExportKind = 0x02
)

func (k ExportKind) String() string {
	switch k {
	case ExportRaw:
		return "raw"
	case ExportFunction:
		return "function"
	case ExportClass:
		return "class"
	default:
		return "unknown"
	}
}

// Export is an object defined by an asset. The set of variants is closed:
// *RawExport, *FunctionExport and *ClassExport.
type Export interface {
	Base() *ExportBase
	Kind() ExportKind
}

// ExportBase holds the fields shared by every export.
type ExportBase struct {
	ObjectName    FName
	ClassIndex    PackageIndex
	SuperIndex    PackageIndex
	TemplateIndex PackageIndex
	OuterIndex    PackageIndex
	ObjectFlags   uint32

	SerializationBeforeSerializationDependencies []PackageIndex
	CreateBeforeSerializationDependencies        []PackageIndex
	SerializationBeforeCreateDependencies        []PackageIndex
	CreateBeforeCreateDependencies               []PackageIndex
}

// Base returns the shared export fields.
func (b *ExportBase) Base() *ExportBase {
	return b
}

// RawExport is an export whose payload is kept as opaque bytes.
type RawExport struct {
	ExportBase
	Data []byte
}

func (*RawExport) Kind() ExportKind { return ExportRaw }

// StructExport holds the fields of struct-like exports.
type StructExport struct {
	ExportBase
	SuperStruct      PackageIndex
	Children         []PackageIndex
	LoadedProperties []*Property
	Script           []Expr
}

// Params returns the parameter, out-parameter and return-value properties in order.
func (s *StructExport) Params() []*Property {
	var out []*Property
	for _, p := range s.LoadedProperties {
		if p.IsParam() {
			out = append(out, p)
		}
	}
	return out
}

// Property returns the loaded property with the given name.
func (s *StructExport) Property(name string) (*Property, bool) {
	for _, p := range s.LoadedProperties {
		if p.Name.String() == name {
			return p, true
		}
	}
	return nil, false
}

// FunctionExport is a callable compiled function.
type FunctionExport struct {
	StructExport
	FunctionFlags uint32
}

func (*FunctionExport) Kind() ExportKind { return ExportFunction }

// ClassExport is the primary type of a blueprint.
type ClassExport struct {
	StructExport
	FuncMap            FuncMap
	ClassFlags         uint32
	ClassWithin        PackageIndex
	ClassConfigName    FName
	Interfaces         []SerializedInterface
	ClassGeneratedBy   PackageIndex
	ClassDefaultObject PackageIndex
}

func (*ClassExport) Kind() ExportKind { return ExportClass }

// SerializedInterface is an implemented interface. Class is stored in the
// raw signed form rather than as a PackageIndex.
type SerializedInterface struct {
	Class         int32
	PointerOffset int32
	Implemented   bool
}

// FuncMapEntry maps a function name to its export.
type FuncMapEntry struct {
	Name  FName
	Index PackageIndex
}

// FuncMap is an insertion-ordered map from function name to export.
// Keys compare textually.
type FuncMap struct {
	Entries []FuncMapEntry
}

// Get returns the export registered under name.
func (m *FuncMap) Get(name string) (PackageIndex, bool) {
	for _, e := range m.Entries {
		if e.Name.String() == name {
			return e.Index, true
		}
	}
	return PackageIndex{}, false
}

// Has reports whether name is registered.
func (m *FuncMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Set registers or replaces the export for name.
func (m *FuncMap) Set(name FName, idx PackageIndex) {
	key := name.String()
	for i := range m.Entries {
		if m.Entries[i].Name.String() == key {
			m.Entries[i] = FuncMapEntry{Name: name, Index: idx}
			return
		}
	}
	m.Entries = append(m.Entries, FuncMapEntry{Name: name, Index: idx})
}

// Len returns the number of registered functions.
func (m *FuncMap) Len() int {
	return len(m.Entries)
}
