// Package graindb persists segmentation runs to sqlite so repeated analyses
// of the same trajectory can be compared after the fact. Each run is stored
// under a fresh uuid together with its parameters, grain records and
// grain-boundary records.
package graindb

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/latticelab/grainseg/internal/monitoring"
	"github.com/latticelab/grainseg/internal/segment"
)

// schema.sql defines the segmentation_runs, grains and grain_boundaries
// tables.
//
//go:embed schema.sql
var schemaSQL string

// GrainDB wraps the sqlite handle for the run store.
type GrainDB struct {
	*sql.DB
}

// RunParams records the configuration a run was executed with.
type RunParams struct {
	CutoffRadius      float64
	MergeThresholdRad float64
	MinGrainAtomCount int
	AdoptOrphanAtoms  bool
}

// RunSummary is the stored header of one segmentation run.
type RunSummary struct {
	RunID             string
	AtomCount         int
	GrainCount        int
	UnclassifiedCount int
	Params            RunParams
}

// New opens (creating if necessary) the run store at path.
func New(path string) (*GrainDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise run store schema: %w", err)
	}
	monitoring.Logf("initialised grain run store at %s", path)
	return &GrainDB{db}, nil
}

// SaveRun stores a completed segmentation result under a new run id and
// returns that id. The insert is transactional: a failed run never leaves a
// partial record behind.
func (db *GrainDB) SaveRun(atomCount int, res *segment.Result, params RunParams) (string, error) {
	runID := uuid.New().String()

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO segmentation_runs
			(run_id, atom_count, grain_count, unclassified_count,
			 cutoff_radius, merge_threshold_rad, min_grain_atom_count, adopt_orphan_atoms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, atomCount, res.GrainCount, res.UnclassifiedCount,
		params.CutoffRadius, params.MergeThresholdRad,
		params.MinGrainAtomCount, boolToInt(params.AdoptOrphanAtoms),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run record: %w", err)
	}

	for _, g := range res.Grains {
		_, err = tx.Exec(`
			INSERT INTO grains
				(run_id, grain_id, atom_count, structure,
				 qx, qy, qz, qw,
				 min_x, min_y, min_z, max_x, max_y, max_z, small)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, g.ID, g.AtomCount, g.Type.String(),
			g.MeanOrientation.X, g.MeanOrientation.Y, g.MeanOrientation.Z, g.MeanOrientation.W,
			g.BoundsMin[0], g.BoundsMin[1], g.BoundsMin[2],
			g.BoundsMax[0], g.BoundsMax[1], g.BoundsMax[2],
			boolToInt(g.Small),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert grain %d: %w", g.ID, err)
		}
	}

	for _, b := range res.Boundaries {
		_, err = tx.Exec(`
			INSERT INTO grain_boundaries (run_id, grain_a, grain_b, pair_count)
			VALUES (?, ?, ?, ?)`,
			runID, b.A, b.B, b.PairCount,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert boundary (%d,%d): %w", b.A, b.B, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// LoadRunSummary fetches the header of a stored run.
func (db *GrainDB) LoadRunSummary(runID string) (*RunSummary, error) {
	row := db.QueryRow(`
		SELECT atom_count, grain_count, unclassified_count,
		       cutoff_radius, merge_threshold_rad, min_grain_atom_count, adopt_orphan_atoms
		FROM segmentation_runs WHERE run_id = ?`, runID)

	s := RunSummary{RunID: runID}
	var adopt int
	err := row.Scan(&s.AtomCount, &s.GrainCount, &s.UnclassifiedCount,
		&s.Params.CutoffRadius, &s.Params.MergeThresholdRad,
		&s.Params.MinGrainAtomCount, &adopt)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	s.Params.AdoptOrphanAtoms = adopt != 0
	return &s, nil
}

// CountGrains returns the number of grain records stored for a run.
func (db *GrainDB) CountGrains(runID string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM grains WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
