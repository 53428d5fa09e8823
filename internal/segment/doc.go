// Package segment implements the grain segmentation core: it partitions the
// atoms of a structure-identified snapshot into crystallographically coherent
// grains, classifies grain-boundary atoms, and aggregates per-grain
// statistics.
//
// The algorithm is a single deterministic sweep over the neighbor graph's
// sorted edge list. Two neighboring atoms merge into one grain when their
// structure types match and the symmetry-reduced misorientation of their
// lattice orientations is within the merge threshold. Merging runs on a
// union-find structure over flat atom-indexed arrays; the structure lives
// only for the duration of one Segment call and is never exposed.
//
// Disordered atoms (structure type OTHER) never join a grain through
// orientation comparison. They land in the unclassified pseudo-grain, which
// keeps disordered interface atoms from bridging distinct grains. The
// optional orphan-adoption pass can afterwards attach them to the
// neighboring grain that surrounds them.
//
// Segment is pure and re-entrant: it holds no state between invocations and
// either returns a complete result or an error, never partial output.
package segment
