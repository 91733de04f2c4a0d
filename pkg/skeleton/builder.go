// Package skeleton converts a centerline skeleton into the initial vessel
// graph: one vertex per skeleton point and one edge per 26-connected voxel
// pair. Edge detection follows Kirst's directional scan: a fixed
// half-neighborhood of 13 offsets visits each undirected voxel pair exactly
// once, and membership tests go through a dense voxel-to-vertex index table
// rather than an associative map, keeping the build O(N) in point count.
package skeleton

import (
	"math"

	"github.com/microvasc/vesselgraph/pkg/graph"
	"github.com/microvasc/vesselgraph/pkg/volume"
)

// scanOffsets is the 13-offset half neighborhood: every (dz,dy,dx) in the
// 3x3x3 cube with dz>0, or dz==0 && dy>0, or dz==0 && dy==0 && dx>0.
// Scanning only this half visits each undirected pair once.
var scanOffsets = [13][3]int{
	{0, 0, 1},
	{0, 1, -1}, {0, 1, 0}, {0, 1, 1},
	{1, -1, -1}, {1, -1, 0}, {1, -1, 1},
	{1, 0, -1}, {1, 0, 0}, {1, 0, 1},
	{1, 1, -1}, {1, 1, 0}, {1, 1, 1},
}

// edgeLengths maps the absolute offset class to the voxel-space edge length:
// face 1, edge sqrt2, corner sqrt3.
var edgeLengths = [2][2][2]float64{
	{{0, 1}, {1, math.Sqrt2}},
	{{1, math.Sqrt2}, {math.Sqrt2, math.Sqrt(3)}},
}

// EdgeLength returns the adjacency distance for an absolute voxel offset
func EdgeLength(dz, dy, dx int) float64 {
	if dz < 0 {
		dz = -dz
	}
	if dy < 0 {
		dy = -dy
	}
	if dx < 0 {
		dx = -dx
	}
	return edgeLengths[dz][dy][dx]
}

// Build creates the raw centerline graph from a skeleton and its point list.
// radii carries the corrected radius per point in point order; it may be nil
// when radii are not yet known. Only topology is established here: no
// vertex is ever added or removed by edge detection.
func Build(skel *volume.Volume, points []volume.Point, radii []float64) *graph.Graph {
	g := graph.New(len(points))

	// Dense voxel -> vertex handle table; -1 marks background
	index := make([]int32, skel.DZ*skel.DY*skel.DX)
	for i := range index {
		index[i] = -1
	}
	for i, p := range points {
		r := 0.0
		if radii != nil {
			r = radii[i]
		}
		g.AddVertex(p, r)
		index[skel.Index(p.Z, p.Y, p.X)] = int32(i)
	}

	for i, p := range points {
		for _, off := range scanOffsets {
			z, y, x := p.Z+off[0], p.Y+off[1], p.X+off[2]
			if !skel.InBounds(z, y, x) {
				continue
			}
			target := index[skel.Index(z, y, x)]
			if target < 0 {
				continue
			}
			g.AddEdge(int32(i), target, edgeLengths[off[0]][abs(off[1])][abs(off[2])])
		}
	}
	return g
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
