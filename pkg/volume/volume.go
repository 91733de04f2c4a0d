// Package volume holds the binary voxel containers the pipeline consumes:
// the segmented vessel volume and its centerline skeleton. Both are dense
// uint8 arrays in z-major order with a 1-voxel zero border so neighborhood
// scans never need edge special-casing.
package volume

// Point is an integer voxel coordinate
type Point struct {
	Z, Y, X int
}

// Volume is a dense binary voxel array. Foreground voxels are nonzero.
type Volume struct {
	DZ, DY, DX int
	Data       []uint8
}

// New allocates a zeroed volume with the given dimensions
func New(dz, dy, dx int) *Volume {
	return &Volume{
		DZ:   dz,
		DY:   dy,
		DX:   dx,
		Data: make([]uint8, dz*dy*dx),
	}
}

// Index returns the flat offset of (z, y, x)
func (v *Volume) Index(z, y, x int) int {
	return (z*v.DY+y)*v.DX + x
}

// At returns the voxel value at (z, y, x)
func (v *Volume) At(z, y, x int) uint8 {
	return v.Data[(z*v.DY+y)*v.DX+x]
}

// Set writes the voxel value at (z, y, x)
func (v *Volume) Set(z, y, x int, val uint8) {
	v.Data[(z*v.DY+y)*v.DX+x] = val
}

// InBounds reports whether (z, y, x) lies inside the volume
func (v *Volume) InBounds(z, y, x int) bool {
	return z >= 0 && z < v.DZ && y >= 0 && y < v.DY && x >= 0 && x < v.DX
}

// Clone returns a deep copy
func (v *Volume) Clone() *Volume {
	out := New(v.DZ, v.DY, v.DX)
	copy(out.Data, v.Data)
	return out
}

// ForegroundCount returns the number of nonzero voxels
func (v *Volume) ForegroundCount() int {
	n := 0
	for _, p := range v.Data {
		if p != 0 {
			n++
		}
	}
	return n
}

// Pad returns a copy with a 1-voxel zero border added on every face
func (v *Volume) Pad() *Volume {
	out := New(v.DZ+2, v.DY+2, v.DX+2)
	for z := 0; z < v.DZ; z++ {
		for y := 0; y < v.DY; y++ {
			src := v.Index(z, y, 0)
			dst := out.Index(z+1, y+1, 1)
			copy(out.Data[dst:dst+v.DX], v.Data[src:src+v.DX])
		}
	}
	return out
}

// IsPadded reports whether every border voxel is zero
func (v *Volume) IsPadded() bool {
	for z := 0; z < v.DZ; z++ {
		for y := 0; y < v.DY; y++ {
			for x := 0; x < v.DX; x++ {
				if z != 0 && z != v.DZ-1 && y != 0 && y != v.DY-1 && x != 0 && x != v.DX-1 {
					continue
				}
				if v.At(z, y, x) != 0 {
					return false
				}
			}
		}
	}
	return true
}

// SameShape reports whether two volumes share dimensions
func (v *Volume) SameShape(o *Volume) bool {
	return v.DZ == o.DZ && v.DY == o.DY && v.DX == o.DX
}

// SkeletonPoints collects the foreground voxel coordinates of a skeleton in
// scan order. A point's position in the returned slice is its initial vertex
// id in the graph built from it.
func SkeletonPoints(skel *Volume) []Point {
	points := make([]Point, 0, 1024)
	i := 0
	for z := 0; z < skel.DZ; z++ {
		for y := 0; y < skel.DY; y++ {
			for x := 0; x < skel.DX; x++ {
				if skel.Data[i] != 0 {
					points = append(points, Point{Z: z, Y: y, X: x})
				}
				i++
			}
		}
	}
	return points
}
