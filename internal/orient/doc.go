// Package orient provides the orientation math used by grain segmentation:
// unit quaternions, crystal point-group symmetry operator sets, the
// symmetry-reduced misorientation angle between two lattice orientations,
// and rotation-correct averaging of orientation sets.
//
// All angles are in radians. Quaternions follow the (X, Y, Z, W) component
// order used by the upstream structure-identification output.
package orient
