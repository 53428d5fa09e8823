package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Tuning represents the configuration surface of the segmentation pipeline.
// All fields are pointers so a partial JSON file only overrides what it
// names; the Get* accessors carry the defaults.
type Tuning struct {
	// Neighbor graph params
	CutoffRadius *float64 `json:"cutoff_radius,omitempty"`

	// Cluster merger params
	MergeThresholdRad *float64 `json:"merge_threshold_rad,omitempty"`
	AdoptOrphanAtoms  *bool    `json:"adopt_orphan_atoms,omitempty"`

	// Grain statistics params
	MinGrainAtomCount *int `json:"min_grain_atom_count,omitempty"`
}

// Defaults, matching the upstream service's shipped configuration.
const (
	// DefaultCutoffRadius is the neighbor cutoff in simulation length units,
	// sized for first-neighbor shells of common metallic lattices.
	DefaultCutoffRadius = 3.2
	// DefaultMergeThresholdRad is the maximum misorientation between
	// neighboring atoms that still merges them into one grain.
	DefaultMergeThresholdRad = 0.1
	// DefaultMinGrainAtomCount is the size below which a grain is flagged
	// small.
	DefaultMinGrainAtomCount = 100
)

// EmptyTuning returns a Tuning with all fields unset.
func EmptyTuning() *Tuning {
	return &Tuning{}
}

// LoadTuning loads a Tuning from a JSON file. Fields omitted from the file
// retain their defaults, so partial configs are safe.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuning()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that set fields hold usable values.
func (c *Tuning) Validate() error {
	if c.CutoffRadius != nil && *c.CutoffRadius <= 0 {
		return fmt.Errorf("cutoff_radius must be positive, got %g", *c.CutoffRadius)
	}
	if c.MergeThresholdRad != nil && *c.MergeThresholdRad < 0 {
		return fmt.Errorf("merge_threshold_rad must be non-negative, got %g", *c.MergeThresholdRad)
	}
	if c.MinGrainAtomCount != nil && *c.MinGrainAtomCount < 0 {
		return fmt.Errorf("min_grain_atom_count must be non-negative, got %d", *c.MinGrainAtomCount)
	}
	return nil
}

// GetCutoffRadius returns the cutoff_radius value or the default.
func (c *Tuning) GetCutoffRadius() float64 {
	if c.CutoffRadius == nil {
		return DefaultCutoffRadius
	}
	return *c.CutoffRadius
}

// GetMergeThresholdRad returns the merge_threshold_rad value or the default.
func (c *Tuning) GetMergeThresholdRad() float64 {
	if c.MergeThresholdRad == nil {
		return DefaultMergeThresholdRad
	}
	return *c.MergeThresholdRad
}

// GetAdoptOrphanAtoms returns the adopt_orphan_atoms value or the default.
// Default is off: disordered atoms stay in the unclassified pseudo-grain.
func (c *Tuning) GetAdoptOrphanAtoms() bool {
	if c.AdoptOrphanAtoms == nil {
		return false
	}
	return *c.AdoptOrphanAtoms
}

// GetMinGrainAtomCount returns the min_grain_atom_count value or the default.
func (c *Tuning) GetMinGrainAtomCount() int {
	if c.MinGrainAtomCount == nil {
		return DefaultMinGrainAtomCount
	}
	return *c.MinGrainAtomCount
}
