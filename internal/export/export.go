package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/latticelab/grainseg/internal/atoms"
	"github.com/latticelab/grainseg/internal/monitoring"
	"github.com/latticelab/grainseg/internal/segment"
)

// UnassignedKey is the atom-group key for atoms in the unclassified
// pseudo-grain.
const UnassignedKey = "Unassigned"

// GrainMeta is one grain's record in the metadata document.
type GrainMeta struct {
	ID          int32      `json:"id"` // 1-based external id
	Size        int        `json:"size"`
	Structure   string     `json:"structure"`
	Orientation [4]float64 `json:"orientation"` // x, y, z, w
	Small       bool       `json:"small,omitempty"`
}

// BoundaryMeta is one grain-to-grain interface record.
type BoundaryMeta struct {
	GrainA    int32 `json:"grain_a"` // 1-based external ids
	GrainB    int32 `json:"grain_b"`
	PairCount int   `json:"pair_count"`
}

// Meta is the run metadata document.
type Meta struct {
	Status            string         `json:"status"`
	GrainCount        int            `json:"grain_count"`
	MergingThreshold  float64        `json:"merging_threshold"`
	UnclassifiedCount int            `json:"unclassified_count"`
	Grains            []GrainMeta    `json:"grains"`
	Boundaries        []BoundaryMeta `json:"boundaries,omitempty"`
}

// AtomRecord is one atom inside a grain's atom group.
type AtomRecord struct {
	ID       int64      `json:"id"`
	Pos      [3]float64 `json:"pos"`
	Boundary bool       `json:"boundary,omitempty"`
}

// externalID maps an internal grain id (dense, 0-based, -1 sentinel) to the
// 1-based export id.
func externalID(g int32) int32 { return g + 1 }

// BuildMeta assembles the metadata document for one run.
func BuildMeta(res *segment.Result, mergeThreshold float64) Meta {
	meta := Meta{
		Status:            "success",
		GrainCount:        res.GrainCount,
		MergingThreshold:  mergeThreshold,
		UnclassifiedCount: res.UnclassifiedCount,
		Grains:            make([]GrainMeta, 0, len(res.Grains)),
	}
	for _, g := range res.Grains {
		meta.Grains = append(meta.Grains, GrainMeta{
			ID:        externalID(g.ID),
			Size:      g.AtomCount,
			Structure: g.Type.String(),
			Orientation: [4]float64{
				g.MeanOrientation.X,
				g.MeanOrientation.Y,
				g.MeanOrientation.Z,
				g.MeanOrientation.W,
			},
			Small: g.Small,
		})
	}
	for _, b := range res.Boundaries {
		meta.Boundaries = append(meta.Boundaries, BoundaryMeta{
			GrainA:    externalID(b.A),
			GrainB:    externalID(b.B),
			PairCount: b.PairCount,
		})
	}
	return meta
}

// AtomGroups groups atoms by their assigned grain. Keys are "Grain_<id>"
// with 1-based ids, plus "Unassigned" when unclassified atoms exist. Within
// each group atoms keep snapshot order.
func AtomGroups(snap *atoms.Snapshot, res *segment.Result) map[string][]AtomRecord {
	groups := make(map[string][]AtomRecord)
	for i, a := range snap.Atoms {
		key := UnassignedKey
		if g := res.GrainOf[i]; g != segment.Unclassified {
			key = fmt.Sprintf("Grain_%d", externalID(g))
		}
		groups[key] = append(groups[key], AtomRecord{
			ID:       a.ID,
			Pos:      a.Position,
			Boundary: res.Boundary[i],
		})
	}
	return groups
}

// WriteFiles writes "<prefix>_grains.json" (atom groups) and
// "<prefix>_grains_meta.json" (run metadata).
func WriteFiles(prefix string, snap *atoms.Snapshot, res *segment.Result, mergeThreshold float64) error {
	atomsPath := prefix + "_grains.json"
	metaPath := prefix + "_grains_meta.json"

	if err := writeJSON(atomsPath, AtomGroups(snap, res)); err != nil {
		return fmt.Errorf("failed to write grain atoms: %w", err)
	}
	monitoring.Logf("exported grain atoms to %s", atomsPath)

	if err := writeJSON(metaPath, BuildMeta(res, mergeThreshold)); err != nil {
		return fmt.Errorf("failed to write grain metadata: %w", err)
	}
	monitoring.Logf("exported grain metadata to %s", metaPath)
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
