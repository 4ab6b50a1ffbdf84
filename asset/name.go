package asset

import "strconv"

// FName references an entry of its owning asset's name table. Number is the
// instance suffix: 0 means none, N renders as "_<N-1>".
// The zero FName is the None name and belongs to no asset.
type FName struct {
	asset  *Asset
	index  int
	Number int32
}

// Asset returns the asset whose name table this name points into.
func (n FName) Asset() *Asset {
	return n.asset
}

// Index returns the position in the owning name table.
func (n FName) Index() int {
	return n.index
}

// IsNone reports whether n is the zero name.
func (n FName) IsNone() bool {
	return n.asset == nil
}

// Value returns the interned string without the instance suffix.
func (n FName) Value() string {
	if n.asset == nil || n.index < 0 || n.index >= len(n.asset.names) {
		return ""
	}
	return n.asset.names[n.index]
}

func (n FName) String() string {
	if n.asset == nil {
		return "None"
	}
	if n.Number > 0 {
		return n.Value() + "_" + strconv.Itoa(int(n.Number-1))
	}
	return n.Value()
}

// Equal compares names textually, regardless of owning asset.
func (n FName) Equal(o FName) bool {
	if n.IsNone() || o.IsNone() {
		return n.IsNone() == o.IsNone()
	}
	return n.Number == o.Number && n.Value() == o.Value()
}

// Retarget interns the name's string in a and makes a the owner.
func (n *FName) Retarget(a *Asset) {
	if n.asset == nil || n.asset == a {
		return
	}
	n.index = a.AddNameReference(n.Value())
	n.asset = a
}

// AddNameReference interns s and returns its position. Existing entries are reused.
func (a *Asset) AddNameReference(s string) int {
	if i, ok := a.nameLookup[s]; ok {
		return i
	}
	if a.nameLookup == nil {
		a.nameLookup = make(map[string]int)
	}
	a.names = append(a.names, s)
	a.nameLookup[s] = len(a.names) - 1
	return len(a.names) - 1
}

// AddName interns s and returns a name owned by a.
func (a *Asset) AddName(s string) FName {
	return FName{asset: a, index: a.AddNameReference(s)}
}

// NameAt returns a name for an existing table entry.
func (a *Asset) NameAt(index int, number int32) (FName, bool) {
	if index < 0 || index >= len(a.names) {
		return FName{}, false
	}
	return FName{asset: a, index: index, Number: number}, true
}

// NameCount returns the size of the name table.
func (a *Asset) NameCount() int {
	return len(a.names)
}

// NameMapIndexList returns the positions of every name currently in the table.
func (a *Asset) NameMapIndexList() []int {
	out := make([]int, len(a.names))
	for i := range a.names {
		out[i] = i
	}
	return out
}

// NamesReferencedFromExportDataCount returns the summary field written by Encode.
func (a *Asset) NamesReferencedFromExportDataCount() int {
	return a.namesReferencedFromExportDataCount
}

// SetNamesReferencedFromExportDataCount sets the summary field. It must cover
// every name referenced from export data before the asset is encoded.
func (a *Asset) SetNamesReferencedFromExportDataCount(n int) {
	a.namesReferencedFromExportDataCount = n
}
