package neighbor

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidInput covers malformed builder input: an empty atom set, a
// non-positive cutoff, or bond indices outside the atom range.
var ErrInvalidInput = errors.New("invalid neighbor graph input")

// ErrAsymmetric reports an externally supplied adjacency that violates the
// undirected-graph invariant. This is an upstream programming error, not a
// user-recoverable condition.
var ErrAsymmetric = errors.New("neighbor graph violates symmetry invariant")

// Edge is one undirected neighbor pair with A < B.
type Edge struct {
	A, B int32
}

// Graph is an immutable undirected neighbor graph over atoms 0..Len()-1.
type Graph struct {
	adj   [][]int32
	edges []Edge
}

// Len returns the number of atoms the graph spans.
func (g *Graph) Len() int { return len(g.adj) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns atom i's neighbor ids sorted ascending. The returned
// slice is shared; callers must not modify it.
func (g *Graph) Neighbors(i int32) []int32 { return g.adj[i] }

// Edges returns all undirected edges sorted ascending by (A, B). The
// returned slice is shared; callers must not modify it.
func (g *Graph) Edges() []Edge { return g.edges }

// Build constructs the neighbor graph from atom positions and a cutoff
// radius. Two atoms are neighbors when their Euclidean distance is at most
// cutoff. Deterministic: for fixed positions and cutoff the same edge set is
// produced regardless of map iteration order, because edges are sorted after
// collection.
func Build(positions [][3]float64, cutoff float64) (*Graph, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no atoms", ErrInvalidInput)
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("%w: cutoff %g must be positive", ErrInvalidInput, cutoff)
	}

	index := newCellIndex(cutoff)
	index.build(positions)

	cutoff2 := cutoff * cutoff
	var edges []Edge
	for i := range positions {
		p := positions[i]
		index.forNeighbors(p, func(j int32) {
			// Count each pair once, from the lower index.
			if j <= int32(i) {
				return
			}
			q := positions[j]
			dx := q[0] - p[0]
			dy := q[1] - p[1]
			dz := q[2] - p[2]
			if dx*dx+dy*dy+dz*dz <= cutoff2 {
				edges = append(edges, Edge{A: int32(i), B: j})
			}
		})
	}

	return assemble(len(positions), edges), nil
}

// FromBonds constructs the graph from a precomputed bond list, for callers
// whose toolkit already provides bonded neighbors. Self-bonds and
// out-of-range indices are rejected; duplicate bonds collapse to one edge.
func FromBonds(n int, bonds [][2]int32) (*Graph, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: no atoms", ErrInvalidInput)
	}
	edges := make([]Edge, 0, len(bonds))
	for _, b := range bonds {
		a, c := b[0], b[1]
		if a < 0 || c < 0 || int(a) >= n || int(c) >= n {
			return nil, fmt.Errorf("%w: bond (%d,%d) out of range [0,%d)", ErrInvalidInput, a, c, n)
		}
		if a == c {
			return nil, fmt.Errorf("%w: self-bond on atom %d", ErrInvalidInput, a)
		}
		if a > c {
			a, c = c, a
		}
		edges = append(edges, Edge{A: a, B: c})
	}
	return assemble(n, dedupe(edges)), nil
}

// FromAdjacency constructs the graph from externally supplied adjacency
// lists, validating the symmetry invariant defensively.
func FromAdjacency(adj [][]int32) (*Graph, error) {
	n := len(adj)
	if n == 0 {
		return nil, fmt.Errorf("%w: no atoms", ErrInvalidInput)
	}

	neighborSet := make([]map[int32]struct{}, n)
	for i, list := range adj {
		neighborSet[i] = make(map[int32]struct{}, len(list))
		for _, j := range list {
			if j < 0 || int(j) >= n {
				return nil, fmt.Errorf("%w: neighbor %d of atom %d out of range", ErrInvalidInput, j, i)
			}
			neighborSet[i][j] = struct{}{}
		}
	}

	var edges []Edge
	for i, list := range adj {
		for _, j := range list {
			if _, ok := neighborSet[j][int32(i)]; !ok {
				return nil, fmt.Errorf("%w: %d lists %d but not vice versa", ErrAsymmetric, i, j)
			}
			if int32(i) < j {
				edges = append(edges, Edge{A: int32(i), B: j})
			}
		}
	}
	return assemble(n, dedupe(edges)), nil
}

// assemble sorts the edge list into canonical order and derives the
// per-atom adjacency lists.
func assemble(n int, edges []Edge) *Graph {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})

	adj := make([][]int32, n)
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}
	for i := range adj {
		sort.Slice(adj[i], func(a, b int) bool { return adj[i][a] < adj[i][b] })
	}
	return &Graph{adj: adj, edges: edges}
}

func dedupe(edges []Edge) []Edge {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	out := edges[:0]
	for i, e := range edges {
		if i == 0 || e != edges[i-1] {
			out = append(out, e)
		}
	}
	return out
}
