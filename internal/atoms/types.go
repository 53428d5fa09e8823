package atoms

import (
	"fmt"

	"github.com/latticelab/grainseg/internal/orient"
)

// StructureType is the per-atom classification of the local crystalline
// environment assigned by structure identification.
type StructureType int8

const (
	// Other marks disordered or unidentified local environments. Atoms of
	// this type carry no meaningful orientation and never join a grain
	// through orientation comparison.
	Other StructureType = iota
	FCC
	HCP
	BCC
	SC
)

var structureNames = map[StructureType]string{
	Other: "OTHER",
	FCC:   "FCC",
	HCP:   "HCP",
	BCC:   "BCC",
	SC:    "SC",
}

var structureByName = map[string]StructureType{
	"OTHER": Other,
	"FCC":   FCC,
	"HCP":   HCP,
	"BCC":   BCC,
	"SC":    SC,
}

func (s StructureType) String() string {
	if name, ok := structureNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StructureType(%d)", int8(s))
}

// Crystalline reports whether atoms of this type participate in grain growth.
func (s StructureType) Crystalline() bool {
	return s != Other
}

// ParseStructureType maps the upstream tag name to a StructureType.
func ParseStructureType(name string) (StructureType, error) {
	if s, ok := structureByName[name]; ok {
		return s, nil
	}
	return Other, fmt.Errorf("unknown structure type %q", name)
}

// MarshalText implements encoding.TextMarshaler so structure tags round-trip
// through JSON as their upstream names.
func (s StructureType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StructureType) UnmarshalText(text []byte) error {
	parsed, err := ParseStructureType(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Atom is one particle of the input snapshot. Position is Cartesian
// simulation coordinates; Orientation is the local lattice orientation in
// (x, y, z, w) quaternion order, meaningful only for crystalline types.
type Atom struct {
	ID          int64             `json:"id"`
	Position    [3]float64        `json:"pos"`
	Type        StructureType     `json:"type"`
	Orientation orient.Quaternion `json:"-"`
}

// Snapshot is one frame of per-atom structure-identification output.
type Snapshot struct {
	Atoms []Atom
}

// Len returns the atom count.
func (s *Snapshot) Len() int { return len(s.Atoms) }

// Positions extracts the position array in input order, for the spatial
// index builder.
func (s *Snapshot) Positions() [][3]float64 {
	out := make([][3]float64, len(s.Atoms))
	for i, a := range s.Atoms {
		out[i] = a.Position
	}
	return out
}

// DefaultSymmetry maps each crystalline structure type to its lattice point
// group: cubic for FCC, BCC and SC, hexagonal for HCP. Other is absent; the
// merger never compares disordered orientations.
func DefaultSymmetry() map[StructureType]orient.Group {
	return map[StructureType]orient.Group{
		FCC: orient.Cubic(),
		BCC: orient.Cubic(),
		SC:  orient.Cubic(),
		HCP: orient.Hexagonal(),
	}
}
