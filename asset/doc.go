// Package asset provides the object model of a compiled blueprint asset and
// a compact binary container to load and store it.
//
// # Model
//
// An Asset owns three tables:
//
//	Names    []string      interned strings, addressed by FName
//	Imports  []*Import     objects defined outside the asset
//	Exports  []Export      objects defined by the asset
//
// References between objects are PackageIndex values, a tagged union of
// {null, export position, import position}. The signed, 1-based integer form
// used on disk (positive for exports, negative for imports) only appears at
// the codec boundary via FromRaw and Raw.
//
// A PackageIndex or FName is only meaningful relative to the asset that owns
// the table it points into. Moving data between assets therefore requires
// every reference to be rewritten; FName carries its owning asset so that a
// rewriter can tell foreign names apart.
//
// # Container
//
// The container starts with a fixed header followed by sections:
//
//	magic    u32 LE  0x9E2A83C1
//	version  u32 LE  EngineVersion
//	flags    u32 LE  PackageFlags
//	section  [id u8][size uleb][payload]  names(1) imports(2) exports(3) summary(4)
//
// Decode parses a container, Encode writes one. Round-tripping preserves the
// model exactly, except that struct sizes of unversioned packages are
// materialized from the type mappings at load.
package asset
