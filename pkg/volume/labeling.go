package volume

// Label assigns a positive component id to every foreground voxel using
// 26-connectivity. Returns the flat label array and the component count.
// The flood fill is an explicit stack walk, not recursion; vessel volumes
// routinely have components spanning millions of voxels.
func Label(v *Volume) ([]int32, int) {
	labels := make([]int32, len(v.Data))
	next := int32(0)

	stack := make([]int, 0, 4096)
	for start, p := range v.Data {
		if p == 0 || labels[start] != 0 {
			continue
		}
		next++
		labels[start] = next
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			z := idx / (v.DY * v.DX)
			rem := idx % (v.DY * v.DX)
			y := rem / v.DX
			x := rem % v.DX

			for dz := -1; dz <= 1; dz++ {
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dz == 0 && dy == 0 && dx == 0 {
							continue
						}
						nz, ny, nx := z+dz, y+dy, x+dx
						if !v.InBounds(nz, ny, nx) {
							continue
						}
						nidx := v.Index(nz, ny, nx)
						if v.Data[nidx] != 0 && labels[nidx] == 0 {
							labels[nidx] = next
							stack = append(stack, nidx)
						}
					}
				}
			}
		}
	}
	return labels, int(next)
}

// Clean zeroes every connected component of the volume that contains none of
// the keep points, producing the cleaned volume used for volume statistics.
// The input volume is not modified; no keep points yield an empty volume.
func Clean(v *Volume, keep []Point) *Volume {
	if len(keep) == 0 {
		return New(v.DZ, v.DY, v.DX)
	}

	out := v.Clone()
	labels, count := Label(v)
	if count == 0 {
		return out
	}

	keepSet := make(map[int32]struct{}, count)
	for _, p := range keep {
		if !v.InBounds(p.Z, p.Y, p.X) {
			continue
		}
		if id := labels[v.Index(p.Z, p.Y, p.X)]; id != 0 {
			keepSet[id] = struct{}{}
		}
	}

	for i := range out.Data {
		if out.Data[i] != 0 {
			if _, ok := keepSet[labels[i]]; !ok {
				out.Data[i] = 0
			}
		}
	}
	return out
}
