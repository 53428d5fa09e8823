package segment

// disjointSet is a union-find structure over atom indices, laid out as flat
// arrays. It exists only for the duration of one Segment call. Path
// compression plus union by rank give amortised near-constant operations,
// so the merge pass is near-linear in the edge count.
type disjointSet struct {
	parent []int32
	rank   []int8
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{
		parent: make([]int32, n),
		rank:   make([]int8, n),
	}
	for i := range ds.parent {
		ds.parent[i] = int32(i)
	}
	return ds
}

// find returns the root of x's set, halving the path as it walks up.
func (ds *disjointSet) find(x int32) int32 {
	for ds.parent[x] != x {
		ds.parent[x] = ds.parent[ds.parent[x]]
		x = ds.parent[x]
	}
	return x
}

// union merges the sets containing a and b, attaching the shallower tree
// under the deeper root.
func (ds *disjointSet) union(a, b int32) {
	rootA := ds.find(a)
	rootB := ds.find(b)
	if rootA == rootB {
		return
	}
	if ds.rank[rootA] < ds.rank[rootB] {
		ds.parent[rootA] = rootB
	} else {
		ds.parent[rootB] = rootA
		if ds.rank[rootA] == ds.rank[rootB] {
			ds.rank[rootA]++
		}
	}
}
