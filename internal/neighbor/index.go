package neighbor

import "math"

// estimatedAtomsPerCell sizes the initial cell map allocation.
const estimatedAtomsPerCell = 4

// cellIndex is a regular 3-D grid over atom positions. Cell size should
// match the cutoff radius so a region query inspects only the 3x3x3
// neighborhood of cells.
type cellIndex struct {
	cellSize float64
	cells    map[int64][]int32
}

func newCellIndex(cellSize float64) *cellIndex {
	return &cellIndex{
		cellSize: cellSize,
		cells:    make(map[int64][]int32),
	}
}

func (ci *cellIndex) build(positions [][3]float64) {
	ci.cells = make(map[int64][]int32, len(positions)/estimatedAtomsPerCell+1)
	for i, p := range positions {
		key := ci.cellKey(
			int64(math.Floor(p[0]/ci.cellSize)),
			int64(math.Floor(p[1]/ci.cellSize)),
			int64(math.Floor(p[2]/ci.cellSize)),
		)
		ci.cells[key] = append(ci.cells[key], int32(i))
	}
}

// cellKey folds signed 3-D cell coordinates into one map key by zigzag
// encoding each coordinate and nesting Szudzik's pairing function. Cell
// coordinates stay small relative to the simulation box, so the nested
// squares fit comfortably in int64.
func (ci *cellIndex) cellKey(cx, cy, cz int64) int64 {
	return szudzik(szudzik(zigzag(cx), zigzag(cy)), zigzag(cz))
}

func zigzag(v int64) int64 {
	if v >= 0 {
		return 2 * v
	}
	return -2*v - 1
}

func szudzik(a, b int64) int64 {
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// forNeighbors calls fn with every atom index stored in the 27 cells around
// position p, including p's own cell.
func (ci *cellIndex) forNeighbors(p [3]float64, fn func(j int32)) {
	cx := int64(math.Floor(p[0] / ci.cellSize))
	cy := int64(math.Floor(p[1] / ci.cellSize))
	cz := int64(math.Floor(p[2] / ci.cellSize))

	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				key := ci.cellKey(cx+dx, cy+dy, cz+dz)
				for _, j := range ci.cells[key] {
					fn(j)
				}
			}
		}
	}
}
