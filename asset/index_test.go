package asset

import "testing"

func TestPackageIndexRaw(t *testing.T) {
	tests := []struct {
		idx  PackageIndex
		raw  int32
		text string
	}{
		{Null(), 0, "null"},
		{ExportRef(0), 1, "export:0"},
		{ExportRef(41), 42, "export:41"},
		{ImportRef(0), -1, "import:0"},
		{ImportRef(6), -7, "import:6"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := tt.idx.Raw(); got != tt.raw {
				t.Errorf("Raw() = %d, want %d", got, tt.raw)
			}
			if got := FromRaw(tt.raw); got != tt.idx {
				t.Errorf("FromRaw(%d) = %v, want %v", tt.raw, got, tt.idx)
			}
			if got := tt.idx.String(); got != tt.text {
				t.Errorf("String() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestPackageIndexPredicates(t *testing.T) {
	if !Null().IsNull() || Null().IsExport() || Null().IsImport() {
		t.Error("Null predicates wrong")
	}
	if !ExportRef(0).IsExport() || ExportRef(0).IsImport() {
		t.Error("ExportRef predicates wrong")
	}
	if !ImportRef(0).IsImport() || ImportRef(0).IsNull() {
		t.Error("ImportRef predicates wrong")
	}
}

func TestFNameInterning(t *testing.T) {
	a := New(DefaultEngineVersion)
	first := a.AddName("ReceiveBeginPlay")
	second := a.AddName("ReceiveBeginPlay")
	if first.Index() != second.Index() {
		t.Errorf("duplicate name interned twice: %d, %d", first.Index(), second.Index())
	}
	if a.NameCount() != 1 {
		t.Errorf("NameCount = %d, want 1", a.NameCount())
	}
	if first.Asset() != a {
		t.Error("name not owned by asset")
	}

	n, ok := a.NameAt(first.Index(), 3)
	if !ok {
		t.Fatal("NameAt failed")
	}
	if n.String() != "ReceiveBeginPlay_2" {
		t.Errorf("String() = %q, want ReceiveBeginPlay_2", n.String())
	}
	if _, ok := a.NameAt(5, 0); ok {
		t.Error("NameAt out of range succeeded")
	}
}

func TestFNameNone(t *testing.T) {
	var n FName
	if !n.IsNone() {
		t.Error("zero FName is not None")
	}
	if n.String() != "None" {
		t.Errorf("String() = %q", n.String())
	}
	a := New(DefaultEngineVersion)
	n.Retarget(a)
	if !n.IsNone() || a.NameCount() != 0 {
		t.Error("retargeting None changed it")
	}
}

func TestFNameRetarget(t *testing.T) {
	hook := New(DefaultEngineVersion)
	orig := New(DefaultEngineVersion)
	orig.AddName("Padding")

	n := hook.AddName("PrintString")
	n.Number = 2
	n.Retarget(orig)

	if n.Asset() != orig {
		t.Fatal("owner not switched")
	}
	if n.Index() != 1 {
		t.Errorf("Index() = %d, want 1", n.Index())
	}
	if n.String() != "PrintString_1" {
		t.Errorf("String() = %q", n.String())
	}
	original := hook.AddName("PrintString")
	original.Number = 2
	if !n.Equal(original) {
		t.Error("retargeted name no longer equals its source")
	}
}

func TestFNameEqual(t *testing.T) {
	a := New(DefaultEngineVersion)
	b := New(DefaultEngineVersion)
	b.AddName("Other")

	if !a.AddName("Foo").Equal(b.AddName("Foo")) {
		t.Error("same text in different assets should be equal")
	}
	if a.AddName("Foo").Equal(a.AddName("Bar")) {
		t.Error("different text should not be equal")
	}
	if a.AddName("Foo").Equal(FName{}) {
		t.Error("name should not equal None")
	}
	if !(FName{}).Equal(FName{}) {
		t.Error("None should equal None")
	}
}

func TestNameMapIndexList(t *testing.T) {
	a := New(DefaultEngineVersion)
	a.AddName("A")
	a.AddName("B")
	a.AddName("A")
	got := a.NameMapIndexList()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("NameMapIndexList = %v", got)
	}
}

func TestFuncMap(t *testing.T) {
	a := New(DefaultEngineVersion)
	var m FuncMap
	m.Set(a.AddName("Tick"), ExportRef(1))
	m.Set(a.AddName("BeginPlay"), ExportRef(2))
	m.Set(a.AddName("Tick"), ExportRef(5))

	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if idx, ok := m.Get("Tick"); !ok || idx != ExportRef(5) {
		t.Errorf("Get(Tick) = %v, %v", idx, ok)
	}
	if m.Entries[0].Name.String() != "Tick" {
		t.Error("replacement changed insertion order")
	}
	if m.Has("Missing") {
		t.Error("Has(Missing) = true")
	}
}

func TestEngineVersion(t *testing.T) {
	tests := []struct {
		in   string
		want EngineVersion
		ok   bool
	}{
		{"VER_UE5_4", VerUE5_4, true},
		{"ue5_1", VerUE5_1, true},
		{"4.27", VerUE4_27, true},
		{"VER_UE9_9", VersionUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEngineVersion(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseEngineVersion(%q) = %v, %v", tt.in, got, ok)
			}
		})
	}
	if DefaultEngineVersion.String() != "VER_UE5_4" {
		t.Errorf("default = %s", DefaultEngineVersion)
	}
}
