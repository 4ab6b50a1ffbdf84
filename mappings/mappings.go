// Package mappings loads the type-mapping metadata needed to interpret
// unversioned property layouts.
//
// Unversioned assets omit sizes that the engine can derive from its own
// reflection data. The tool has no engine, so the sizes come from a YAML
// document instead:
//
//	structs:
//	  Vector: {size: 12}
//	  HitResult: {size: 136}
//	  NamedVector: {super: Vector}
//	enums:
//	  EDamageType: [Physical, Fire]
package mappings

import (
	"sort"

	"github.com/wippyai/blueprint-hook/errors"
	"gopkg.in/yaml.v3"
)

// Struct describes a mapped struct type.
type Struct struct {
	Super string `yaml:"super,omitempty"`
	Size  int32  `yaml:"size,omitempty"`
}

// Mappings holds struct metadata keyed by type name.
type Mappings struct {
	Structs map[string]Struct `yaml:"structs"`
}

// New creates empty mappings.
func New() *Mappings {
	return &Mappings{
		Structs: make(map[string]Struct),
	}
}

// Load parses a YAML mappings document.
func Load(data []byte) (*Mappings, error) {
	m := New()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, errors.ParseFailed("mappings", err)
	}
	if m.Structs == nil {
		m.Structs = make(map[string]Struct)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mappings) validate() error {
	for _, name := range m.StructNames() {
		s := m.Structs[name]
		if s.Size < 0 {
			return errors.InvalidData(errors.PhaseParse, []string{"structs", name}, "negative size")
		}
		if s.Super != "" {
			if _, ok := m.Structs[s.Super]; !ok {
				return errors.NotFound(errors.PhaseParse, "super struct", s.Super)
			}
		}
	}
	return nil
}

// StructNames returns mapped struct names in sorted order.
func (m *Mappings) StructNames() []string {
	names := make([]string, 0, len(m.Structs))
	for name := range m.Structs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StructSize returns the size of a struct, following super structs when the
// struct itself declares none.
func (m *Mappings) StructSize(name string) (int32, error) {
	seen := make(map[string]bool)
	for current := name; current != ""; {
		if seen[current] {
			return 0, errors.Cycle(errors.PhaseParse, "super chain of struct "+name)
		}
		seen[current] = true
		s, ok := m.Structs[current]
		if !ok {
			return 0, errors.NotFound(errors.PhaseParse, "struct", current)
		}
		if s.Size > 0 {
			return s.Size, nil
		}
		current = s.Super
	}
	return 0, errors.InvalidData(errors.PhaseParse, []string{"structs", name}, "no size declared")
}

