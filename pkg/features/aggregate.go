package features

import (
	"math"

	"github.com/microvasc/vesselgraph/pkg/graph"
	"github.com/microvasc/vesselgraph/pkg/metrics"
)

// RadiusBinCount is the fixed width of the radius histogram: bin i collects
// segments with mean radius in [i, i+1), the last bin absorbs everything
// wider.
const RadiusBinCount = 21

// SegmentResult is one segment's morphometrics in a network report
type SegmentResult struct {
	ID           int     `json:"id"`
	Length       float64 `json:"length"`
	Tortuosity   float64 `json:"tortuosity"`
	Radius       float64 `json:"radius"`
	RadiusMin    float64 `json:"radius_min"`
	RadiusMax    float64 `json:"radius_max"`
	RadiusSD     float64 `json:"radius_sd"`
	VertexCount  int     `json:"vertex_count"`
	Approximated bool    `json:"approximated,omitempty"`
}

// RadiusBin aggregates the segments whose mean radius falls in one
// integer-width band
type RadiusBin struct {
	Count          int     `json:"count"`
	MeanLength     float64 `json:"mean_length"`
	MeanTortuosity float64 `json:"mean_tortuosity"`
}

// NetworkResult is the whole-network aggregate for one dataset
type NetworkResult struct {
	Name              string                    `json:"name"`
	VolumeSum         float64                   `json:"volume_sum"`
	TotalLength       float64                   `json:"total_length"`
	Branchpoints      int                       `json:"branchpoints"`
	Endpoints         int                       `json:"endpoints"`
	SegmentCount      int                       `json:"segment_count"`
	SegmentsPerLength float64                   `json:"segments_per_length"`
	MeanLength        float64                   `json:"mean_length"`
	MeanRadius        float64                   `json:"mean_radius"`
	MeanTortuosity    float64                   `json:"mean_tortuosity"`
	RadiusBins        [RadiusBinCount]RadiusBin `json:"radius_bins"`
}

// ExtractSegments measures every segment of the filtered graph: one per
// degree<3 component plus one per direct branch-to-branch edge, so every
// edge belongs to exactly one segment.
func ExtractSegments(g *graph.Graph, resolution float64, reg *metrics.Registry) []SegmentResult {
	if reg == nil {
		reg = metrics.Default()
	}

	out := make([]SegmentResult, 0, 64)
	for _, seg := range LowDegreeSegments(g) {
		m := MeasureSegment(g, seg, resolution)
		if m.Approximated {
			reg.LoopApproximations.Inc()
		}
		out = append(out, toResult(len(out), m))
	}

	for _, m := range branchEdgeSegments(g, resolution) {
		out = append(out, toResult(len(out), m))
	}
	return out
}

// branchEdgeSegments measures edges joining two branch points directly.
// These have no interior vertices: the edge length is the segment length,
// tortuosity is exactly 1 and the radius averages the two endpoints.
func branchEdgeSegments(g *graph.Graph, resolution float64) []Measure {
	out := make([]Measure, 0)
	for _, e := range g.Edges() {
		if g.Degree(e.Source) < 3 || g.Degree(e.Target) < 3 {
			continue
		}
		rs, rt := g.Radius(e.Source), g.Radius(e.Target)
		lo, hi := rs, rt
		if hi < lo {
			lo, hi = hi, lo
		}
		out = append(out, Measure{
			Length:      e.Length * resolution,
			Tortuosity:  1,
			Radius:      (rs + rt) / 2,
			RadiusMin:   lo,
			RadiusMax:   hi,
			RadiusSD:    (hi - lo) / 2,
			VertexCount: 2,
		})
	}
	return out
}

func toResult(id int, m Measure) SegmentResult {
	return SegmentResult{
		ID:           id,
		Length:       m.Length,
		Tortuosity:   m.Tortuosity,
		Radius:       m.Radius,
		RadiusMin:    m.RadiusMin,
		RadiusMax:    m.RadiusMax,
		RadiusSD:     m.RadiusSD,
		VertexCount:  m.VertexCount,
		Approximated: m.Approximated,
	}
}

// Aggregate folds per-segment results into network totals. volumeSum is the
// cleaned dataset's foreground volume in physical units.
func Aggregate(name string, segs []SegmentResult, g *graph.Graph, volumeSum float64) NetworkResult {
	r := NetworkResult{Name: name, VolumeSum: volumeSum}

	for v := int32(0); v < int32(g.VertexCount()); v++ {
		switch g.Role(v) {
		case graph.RoleBranch:
			r.Branchpoints++
		case graph.RoleEndpoint:
			r.Endpoints++
		}
	}

	if len(segs) == 0 {
		return r
	}
	r.SegmentCount = len(segs)

	var sumLen, sumRad, sumTort float64
	type binAcc struct {
		n            int
		length, tort float64
	}
	bins := [RadiusBinCount]binAcc{}

	for _, s := range segs {
		sumLen += s.Length
		sumRad += s.Radius
		sumTort += s.Tortuosity

		b := int(math.Floor(s.Radius))
		if b < 0 {
			b = 0
		}
		if b >= RadiusBinCount {
			b = RadiusBinCount - 1
		}
		bins[b].n++
		bins[b].length += s.Length
		bins[b].tort += s.Tortuosity
	}

	n := float64(len(segs))
	r.TotalLength = sumLen
	r.MeanLength = sumLen / n
	r.MeanRadius = sumRad / n
	r.MeanTortuosity = sumTort / n
	if sumLen > 0 {
		r.SegmentsPerLength = n / sumLen
	}

	for i, b := range bins {
		if b.n == 0 {
			continue
		}
		r.RadiusBins[i] = RadiusBin{
			Count:          b.n,
			MeanLength:     b.length / float64(b.n),
			MeanTortuosity: b.tort / float64(b.n),
		}
	}
	return r
}
