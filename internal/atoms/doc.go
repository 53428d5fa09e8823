// Package atoms defines the input data model for grain segmentation: per-atom
// records carrying a stable id, position, local structure classification and
// lattice orientation, as produced by the upstream structure-identification
// stage.
//
// A Snapshot is immutable input to the segmentation core. Nothing in this
// module mutates it after loading.
package atoms
