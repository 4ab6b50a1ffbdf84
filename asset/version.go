package asset

import "strings"

// EngineVersion selects the engine release an asset was cooked for.
type EngineVersion uint32

const (
	VersionUnknown EngineVersion = iota
	VerUE4_26
	VerUE4_27
	VerUE5_0
	VerUE5_1
	VerUE5_2
	VerUE5_3
	VerUE5_4
	VerUE5_5

	DefaultEngineVersion = VerUE5_4
)

var versionNames = map[EngineVersion]string{
	VerUE4_26: "VER_UE4_26",
	VerUE4_27: "VER_UE4_27",
	VerUE5_0:  "VER_UE5_0",
	VerUE5_1:  "VER_UE5_1",
	VerUE5_2:  "VER_UE5_2",
	VerUE5_3:  "VER_UE5_3",
	VerUE5_4:  "VER_UE5_4",
	VerUE5_5:  "VER_UE5_5",
}

func (v EngineVersion) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return "VER_UNKNOWN"
}

// ParseEngineVersion accepts "VER_UE5_4", "UE5_4" or "5.4".
func ParseEngineVersion(s string) (EngineVersion, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "VER_")
	key = strings.TrimPrefix(key, "UE")
	key = strings.ReplaceAll(key, ".", "_")
	for v, name := range versionNames {
		if strings.TrimPrefix(name, "VER_UE") == key {
			return v, true
		}
	}
	return VersionUnknown, false
}

// PackageFlags are package-level container flags.
type PackageFlags uint32

const (
	// PackageUnversioned marks packages whose property layouts come from type mappings.
	PackageUnversioned PackageFlags = 0x00002000
)
