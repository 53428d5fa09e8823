package atoms

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/latticelab/grainseg/internal/orient"
)

// atomRecord is the wire form of one atom in the interchange JSON produced by
// the structure-identification stage. Orientation follows the upstream
// (x, y, z, w) component order.
type atomRecord struct {
	ID          int64         `json:"id"`
	Pos         [3]float64    `json:"pos"`
	Type        StructureType `json:"type"`
	Orientation *[4]float64   `json:"orientation,omitempty"`
}

type snapshotFile struct {
	Atoms []atomRecord `json:"atoms"`
}

// DecodeSnapshot reads the structure-identification interchange JSON from r.
// Atom ids must be unique; orientation is optional for disordered atoms and
// defaults to the identity so downstream code never sees a zero quaternion.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var file snapshotFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}

	snap := &Snapshot{Atoms: make([]Atom, 0, len(file.Atoms))}
	seen := make(map[int64]struct{}, len(file.Atoms))
	for i, rec := range file.Atoms {
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate atom id %d at record %d", rec.ID, i)
		}
		seen[rec.ID] = struct{}{}

		q := orient.Identity()
		if rec.Orientation != nil {
			q = orient.Quaternion{
				X: rec.Orientation[0],
				Y: rec.Orientation[1],
				Z: rec.Orientation[2],
				W: rec.Orientation[3],
			}
		} else if rec.Type.Crystalline() {
			return nil, fmt.Errorf("atom %d: crystalline type %s without orientation", rec.ID, rec.Type)
		}

		snap.Atoms = append(snap.Atoms, Atom{
			ID:          rec.ID,
			Position:    rec.Pos,
			Type:        rec.Type,
			Orientation: q,
		})
	}
	return snap, nil
}

// LoadSnapshot reads a snapshot from a JSON file on disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	snap, err := DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
