// Package corrections builds and caches the geometric distance correction
// table used for radius estimation. A plain Euclidean distance transform
// measures to voxel centers; the table precomputes the corrected distance per
// integer coordinate offset so the estimator can resolve any background voxel
// with one lookup. Tables are cached to disk keyed by their build parameters
// and rebuilt when a run's required coverage exceeds the cached table.
package corrections

import (
	"math"
)

// Table is a read-only cube of corrected distances indexed by absolute
// coordinate delta. Values are physical units (resolution-scaled).
type Table struct {
	Resolution float64
	Side       int
	data       []float64
}

// SideFor returns the table side implied by a (resolution, maxRadius) pair
func SideFor(resolution, maxRadius float64) int {
	side := int(math.Floor(maxRadius / resolution))
	if side < 2 {
		side = 2
	}
	return side
}

// Build generates the correction table for a parameter pair. Every entry is
// the exact Euclidean norm of its integer offset scaled by resolution,
// including axis-aligned offsets, which keeps the table isotropic under any
// permutation of its indices.
func Build(resolution, maxRadius float64) *Table {
	side := SideFor(resolution, maxRadius)
	t := &Table{
		Resolution: resolution,
		Side:       side,
		data:       make([]float64, side*side*side),
	}

	i := 0
	for z := 0; z < side; z++ {
		for y := 0; y < side; y++ {
			for x := 0; x < side; x++ {
				t.data[i] = resolution * math.Sqrt(float64(z*z+y*y+x*x))
				i++
			}
		}
	}
	return t
}

// At returns the corrected distance for an absolute coordinate delta.
// Deltas beyond the table side are resolved directly; the estimator caps
// its search before these dominate.
func (t *Table) At(dz, dy, dx int) float64 {
	if dz < 0 {
		dz = -dz
	}
	if dy < 0 {
		dy = -dy
	}
	if dx < 0 {
		dx = -dx
	}
	if dz >= t.Side || dy >= t.Side || dx >= t.Side {
		return t.Resolution * math.Sqrt(float64(dz*dz+dy*dy+dx*dx))
	}
	return t.data[(dz*t.Side+dy)*t.Side+dx]
}

// Covers reports whether this table satisfies a requested parameter pair
func (t *Table) Covers(resolution, maxRadius float64) bool {
	return t.Resolution == resolution && t.Side >= SideFor(resolution, maxRadius)
}
