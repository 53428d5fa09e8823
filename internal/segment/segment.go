package segment

import (
	"fmt"

	"github.com/latticelab/grainseg/internal/atoms"
	"github.com/latticelab/grainseg/internal/monitoring"
	"github.com/latticelab/grainseg/internal/neighbor"
	"github.com/latticelab/grainseg/internal/orient"
)

// Segment partitions the snapshot's atoms into grains using the given
// neighbor graph.
//
// The merge pass visits the graph's edges in their canonical sorted order,
// so results are reproducible for identical input. All validation happens
// before any work: a failed run produces no partial output.
func Segment(snap *atoms.Snapshot, graph *neighbor.Graph, params Params) (*Result, error) {
	if err := validate(snap, graph, params); err != nil {
		return nil, err
	}

	n := snap.Len()
	sym := params.Symmetry
	if sym == nil {
		sym = atoms.DefaultSymmetry()
	}

	monitoring.Logf("segmenting %d atoms over %d neighbor pairs (threshold %.4f rad)",
		n, graph.EdgeCount(), params.MergeThreshold)

	// Phase 1: merge type-compatible, low-misorientation neighbor pairs.
	ds := newDisjointSet(n)
	for _, e := range graph.Edges() {
		a := snap.Atoms[e.A]
		b := snap.Atoms[e.B]
		if a.Type != b.Type || !a.Type.Crystalline() {
			continue
		}
		angle, err := orient.Misorientation(a.Orientation, b.Orientation, sym[a.Type])
		if err != nil {
			// Orientations were validated up front; surface defensively.
			return nil, fmt.Errorf("%w: edge (%d,%d): %w", ErrInvalidInput, e.A, e.B, err)
		}
		if angle <= params.MergeThreshold {
			ds.union(e.A, e.B)
		}
	}

	// Phase 2: compact disjoint-set roots into dense grain ids. Scanning
	// atoms in ascending order assigns ids by each set's minimum atom id,
	// which pins the output ids for identical input.
	grainOf := make([]int32, n)
	rootID := make([]int32, n)
	for i := range rootID {
		rootID[i] = Unclassified
	}
	grainCount := int32(0)
	for i := 0; i < n; i++ {
		if !snap.Atoms[i].Type.Crystalline() {
			grainOf[i] = Unclassified
			continue
		}
		root := ds.find(int32(i))
		if rootID[root] == Unclassified {
			rootID[root] = grainCount
			grainCount++
		}
		grainOf[i] = rootID[root]
	}

	// Phase 3: optionally adopt disordered atoms into surrounding grains.
	adopted := 0
	if params.AdoptOrphans {
		adopted = adoptOrphans(grainOf, graph)
	}

	// Phase 4: boundary classification.
	boundary, boundaries := classifyBoundaries(grainOf, graph)

	// Phase 5: per-grain statistics.
	grains, err := aggregateStats(snap, grainOf, boundaries, int(grainCount), params.MinGrainSize, sym)
	if err != nil {
		return nil, err
	}

	unclassified := 0
	for _, g := range grainOf {
		if g == Unclassified {
			unclassified++
		}
	}

	if params.AdoptOrphans {
		monitoring.Logf("found %d grains (%d orphan atoms adopted, %d unclassified)",
			grainCount, adopted, unclassified)
	} else {
		monitoring.Logf("found %d grains (%d unclassified atoms)", grainCount, unclassified)
	}

	return &Result{
		GrainOf:           grainOf,
		Boundary:          boundary,
		GrainCount:        int(grainCount),
		UnclassifiedCount: unclassified,
		Grains:            grains,
		Boundaries:        boundaries,
	}, nil
}

func validate(snap *atoms.Snapshot, graph *neighbor.Graph, params Params) error {
	if snap == nil || snap.Len() == 0 {
		return fmt.Errorf("%w: empty snapshot", ErrInvalidInput)
	}
	if graph == nil {
		return fmt.Errorf("%w: nil neighbor graph", ErrInvalidInput)
	}
	if graph.Len() != snap.Len() {
		return fmt.Errorf("%w: graph spans %d atoms, snapshot has %d",
			ErrInvalidInput, graph.Len(), snap.Len())
	}
	if params.MergeThreshold < 0 {
		return fmt.Errorf("%w: merge threshold %g must be non-negative",
			ErrInvalidInput, params.MergeThreshold)
	}
	for i, a := range snap.Atoms {
		if !a.Type.Crystalline() {
			continue
		}
		if err := a.Orientation.CheckUnit(); err != nil {
			return fmt.Errorf("%w: atom %d (id %d): %w", ErrInvalidInput, i, a.ID, err)
		}
	}
	return nil
}

// adoptOrphans assigns each unclassified atom to the grain most frequent
// among its already-assigned neighbors, ties broken toward the lowest grain
// id. Rounds repeat until a fixpoint so that pockets of disordered atoms
// several shells deep are still absorbed. Each round votes against the
// assignment state at the start of the round, which keeps the outcome
// independent of atom visit order. Returns the number of adopted atoms.
func adoptOrphans(grainOf []int32, graph *neighbor.Graph) int {
	adopted := 0
	votes := make(map[int32]int)
	for {
		type adoption struct {
			atom  int32
			grain int32
		}
		var pending []adoption

		for i := range grainOf {
			if grainOf[i] != Unclassified {
				continue
			}
			clear(votes)
			for _, j := range graph.Neighbors(int32(i)) {
				if g := grainOf[j]; g != Unclassified {
					votes[g]++
				}
			}
			best := Unclassified
			bestVotes := 0
			for g, v := range votes {
				if v > bestVotes || (v == bestVotes && g < best) {
					best = g
					bestVotes = v
				}
			}
			if best != Unclassified {
				pending = append(pending, adoption{atom: int32(i), grain: best})
			}
		}

		if len(pending) == 0 {
			return adopted
		}
		for _, p := range pending {
			grainOf[p.atom] = p.grain
		}
		adopted += len(pending)
	}
}
