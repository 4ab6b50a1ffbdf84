package asset

// PropertyFlags mirror the engine's property flag bits.
type PropertyFlags uint64

const (
	PropertyEdit             PropertyFlags = 0x0000000000000001
	PropertyConstParm        PropertyFlags = 0x0000000000000002
	PropertyBlueprintVisible PropertyFlags = 0x0000000000000004
	PropertyParm             PropertyFlags = 0x0000000000000080
	PropertyOutParm          PropertyFlags = 0x0000000000000100
	PropertyReturnParm       PropertyFlags = 0x0000000000000400
	PropertyReferenceParm    PropertyFlags = 0x0000000008000000

	// ParamFlags selects the properties that make up a function signature.
	ParamFlags = PropertyParm | PropertyOutParm | PropertyReturnParm
)

// Property type names with extra payload.
const (
	StructPropertyType = "StructProperty"
	ArrayPropertyType  = "ArrayProperty"
)

// Property is one field or parameter slot of a struct-like export.
type Property struct {
	Type          FName
	Name          FName
	RepNotifyFunc FName
	Flags         PropertyFlags
	ArrayDim      int32
	ElementSize   int32
	// Struct is set for struct-typed properties.
	Struct PackageIndex
	// PropertyClass is set for object-typed properties.
	PropertyClass PackageIndex
	// Inner is the element property of containers.
	Inner *Property
}

// IsParam reports whether p is part of a function signature.
func (p *Property) IsParam() bool {
	return p.Flags&ParamFlags != 0
}

// IsStruct reports whether p is a struct-typed property.
func (p *Property) IsStruct() bool {
	return p.Type.String() == StructPropertyType
}
