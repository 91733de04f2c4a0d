// Package features extracts per-segment morphometrics from the filtered
// centerline graph and aggregates them into network totals. A segment is a
// maximal run of vertices between branch points or endpoints; its centerline
// is smoothed with a spline before length measurement so staircase voxel
// paths do not inflate lengths.
package features

import (
	"math"

	"github.com/microvasc/vesselgraph/pkg/graph"
	"github.com/microvasc/vesselgraph/pkg/volume"
)

// Measure holds the morphometrics of one segment. Lengths are physical
// units; radii carry whatever unit the estimator produced.
type Measure struct {
	Length       float64
	Tortuosity   float64
	Radius       float64
	RadiusMin    float64
	RadiusMax    float64
	RadiusSD     float64
	VertexCount  int
	Approximated bool
}

// sampleCount adapts spline sampling density to path size: short paths keep
// every point's influence, long paths sample sparsely, and very long paths
// halve again since their curvature is already well resolved.
func sampleCount(n int) int {
	if n < 3 {
		return 3
	}
	m := int(math.Ceil(float64(n) / math.Log2(float64(n))))
	if n > 100 {
		m /= 2
	}
	if m < 3 {
		m = 3
	}
	return m
}

type vec3 [3]float64

func toVec(p volume.Point) vec3 {
	return vec3{float64(p.Z), float64(p.Y), float64(p.X)}
}

func dist(a, b vec3) float64 {
	dz, dy, dx := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dz*dz + dy*dy + dx*dx)
}

// catmullRom samples a Catmull-Rom spline through the control points.
// Endpoints are duplicated so the curve interpolates them exactly; the
// parameter runs uniformly over the control polygon.
func catmullRom(ctrl []vec3, samples int) []vec3 {
	n := len(ctrl)
	if n < 2 || samples < 2 {
		return ctrl
	}

	at := func(i int) vec3 {
		if i < 0 {
			return ctrl[0]
		}
		if i >= n {
			return ctrl[n-1]
		}
		return ctrl[i]
	}

	out := make([]vec3, samples)
	step := float64(n-1) / float64(samples-1)
	for s := 0; s < samples; s++ {
		u := float64(s) * step
		i := int(u)
		if i >= n-1 {
			i = n - 2
		}
		t := u - float64(i)

		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		t2, t3 := t*t, t*t*t
		for d := 0; d < 3; d++ {
			out[s][d] = 0.5 * ((2 * p1[d]) +
				(-p0[d]+p2[d])*t +
				(2*p0[d]-5*p1[d]+4*p2[d]-p3[d])*t2 +
				(-p0[d]+3*p1[d]-3*p2[d]+p3[d])*t3)
		}
	}
	return out
}

// measureCurve returns the smoothed arc length and the endpoint chord of a
// voxel-coordinate path, both resolution-scaled
func measureCurve(coords []volume.Point, resolution float64) (float64, float64) {
	n := len(coords)
	if n < 2 {
		return 0, 0
	}

	ctrl := make([]vec3, n)
	for i, p := range coords {
		ctrl[i] = toVec(p)
	}
	if n == 2 {
		d := dist(ctrl[0], ctrl[1]) * resolution
		return d, d
	}

	samples := catmullRom(ctrl, sampleCount(n))
	length := 0.0
	for i := 1; i < len(samples); i++ {
		length += dist(samples[i-1], samples[i])
	}
	chord := dist(samples[0], samples[len(samples)-1])
	return length * resolution, chord * resolution
}

// tortuosity is arc length over chord; degenerate chords (closed loops,
// sub-voxel spans) report 0 rather than a meaningless ratio
func tortuosity(length, chord, resolution float64) float64 {
	if chord < resolution {
		return 0
	}
	return length / chord
}

// radiusStats returns mean, min, max and population standard deviation of
// the radii over the given vertex handles
func radiusStats(g *graph.Graph, verts []int32) (mean, min, max, sd float64) {
	if len(verts) == 0 {
		return 0, 0, 0, 0
	}

	min = math.Inf(1)
	max = math.Inf(-1)
	sum := 0.0
	for _, v := range verts {
		r := g.Radius(v)
		sum += r
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	mean = sum / float64(len(verts))

	varSum := 0.0
	for _, v := range verts {
		d := g.Radius(v) - mean
		varSum += d * d
	}
	sd = math.Sqrt(varSum / float64(len(verts)))
	return mean, min, max, sd
}

// MeasureSegment computes the morphometrics of one segment. Radii come from
// the segment's own vertices; length and tortuosity come from the extended
// path so half-edges into adjoining branch points are counted.
func MeasureSegment(g *graph.Graph, seg Segment, resolution float64) Measure {
	mean, rmin, rmax, sd := radiusStats(g, seg.Core)
	m := Measure{
		Radius:       mean,
		RadiusMin:    rmin,
		RadiusMax:    rmax,
		RadiusSD:     sd,
		VertexCount:  len(seg.Core),
		Approximated: seg.Approximated,
	}

	switch {
	case seg.Approximated:
		// Walk failed to close: vertex count is the only safe length proxy
		m.Length = float64(len(seg.Core)) * resolution
		m.Tortuosity = 0

	case seg.Single:
		length := 0.0
		for i := 1; i < len(seg.Path); i++ {
			if e, ok := g.EdgeBetween(seg.Path[i-1], seg.Path[i]); ok {
				length += g.EdgeAt(e).Length
			}
		}
		m.Length = length * resolution
		if len(seg.Path) >= 2 {
			chord := dist(toVec(g.Coord(seg.Path[0])),
				toVec(g.Coord(seg.Path[len(seg.Path)-1]))) * resolution
			m.Tortuosity = tortuosity(m.Length, chord, resolution)
		}

	case seg.Loop:
		// Close the cycle for arc length; the chord of a closed loop is
		// degenerate so tortuosity stays 0
		coords := pathCoords(g, seg.Path)
		coords = append(coords, coords[0])
		length, _ := measureCurve(coords, resolution)
		m.Length = length
		m.Tortuosity = 0

	default:
		length, chord := measureCurve(pathCoords(g, seg.Path), resolution)
		m.Length = length
		m.Tortuosity = tortuosity(length, chord, resolution)
	}
	return m
}

func pathCoords(g *graph.Graph, path []int32) []volume.Point {
	out := make([]volume.Point, len(path))
	for i, v := range path {
		out[i] = g.Coord(v)
	}
	return out
}
