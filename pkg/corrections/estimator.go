package corrections

import (
	"sort"

	"github.com/microvasc/vesselgraph/pkg/metrics"
	"github.com/microvasc/vesselgraph/pkg/parallel"
	"github.com/microvasc/vesselgraph/pkg/volume"
)

// EstimateRadii computes the corrected local radius for every skeleton point.
// Around each point a cubic window expands until at least 4 background voxels
// fall inside it; their corrected distances are looked up in the table and
// the 4 smallest are averaged. If the window's physical half-width exceeds
// maxRadius first, the point is wider than the search cap and its radius
// saturates at maxRadius.
//
// Points are independent: work is sharded across workers with no shared
// mutable state beyond the read-only volume and table.
func EstimateRadii(vol *volume.Volume, points []volume.Point, t *Table,
	resolution, maxRadius float64, workers int, reg *metrics.Registry) []float64 {

	if reg == nil {
		reg = metrics.Default()
	}

	radii := make([]float64, len(points))
	parallel.ForEachChunk(len(points), workers, func(start, end int) {
		dists := make([]float64, 0, 64)
		for i := start; i < end; i++ {
			r, saturated := pointRadius(vol, points[i], t, resolution, maxRadius, dists[:0])
			radii[i] = r
			if saturated {
				reg.RadiusSaturations.Inc()
			}
		}
	})
	return radii
}

func pointRadius(vol *volume.Volume, p volume.Point, t *Table,
	resolution, maxRadius float64, dists []float64) (float64, bool) {

	for half := 1; ; half++ {
		if float64(half)*resolution > maxRadius {
			return maxRadius, true
		}

		z0, z1 := clamp(p.Z-half, vol.DZ), clamp(p.Z+half, vol.DZ)
		y0, y1 := clamp(p.Y-half, vol.DY), clamp(p.Y+half, vol.DY)
		x0, x1 := clamp(p.X-half, vol.DX), clamp(p.X+half, vol.DX)

		dists = dists[:0]
		for z := z0; z <= z1; z++ {
			for y := y0; y <= y1; y++ {
				row := vol.Index(z, y, x0)
				for x := x0; x <= x1; x++ {
					if vol.Data[row] == 0 {
						dists = append(dists, t.At(z-p.Z, y-p.Y, x-p.X))
					}
					row++
				}
			}
		}

		if len(dists) >= 4 {
			sort.Float64s(dists)
			r := (dists[0] + dists[1] + dists[2] + dists[3]) / 4
			if r > maxRadius {
				r = maxRadius
			}
			return r, false
		}
	}
}

func clamp(v, dim int) int {
	if v < 0 {
		return 0
	}
	if v >= dim {
		return dim - 1
	}
	return v
}
