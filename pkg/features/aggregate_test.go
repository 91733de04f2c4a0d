package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microvasc/vesselgraph/pkg/graph"
)

// star builds one degree-3 branch point with three single-vertex arms
func star() *graph.Graph {
	g := graph.New(4)
	g.AddVertex(pt(1, 1, 1), 1)
	g.AddVertex(pt(1, 1, 2), 1)
	g.AddVertex(pt(1, 2, 1), 1)
	g.AddVertex(pt(2, 1, 1), 1)
	g.AddEdge(0, 1, 1)
	g.AddEdge(0, 2, 1)
	g.AddEdge(0, 3, 1)
	return g
}

func TestAggregateCountsDegrees(t *testing.T) {
	r := Aggregate("stub", nil, star(), 0)
	assert.Equal(t, 1, r.Branchpoints)
	assert.Equal(t, 3, r.Endpoints)
	assert.Zero(t, r.SegmentCount)
}

func TestAggregateTotalsAndMeans(t *testing.T) {
	segs := []SegmentResult{
		{Length: 10, Radius: 2, Tortuosity: 1.0},
		{Length: 30, Radius: 4, Tortuosity: 1.5},
	}

	r := Aggregate("stub", segs, graph.New(0), 125.0)
	assert.Equal(t, 125.0, r.VolumeSum)
	assert.Equal(t, 40.0, r.TotalLength)
	assert.Equal(t, 2, r.SegmentCount)
	assert.Equal(t, 20.0, r.MeanLength)
	assert.Equal(t, 3.0, r.MeanRadius)
	assert.Equal(t, 1.25, r.MeanTortuosity)
	assert.InDelta(t, 0.05, r.SegmentsPerLength, 1e-12)
}

func TestAggregateRadiusHistogram(t *testing.T) {
	segs := []SegmentResult{
		{Length: 5, Radius: 0.4, Tortuosity: 1},
		{Length: 7, Radius: 0.9, Tortuosity: 2},
		{Length: 10, Radius: 3.7, Tortuosity: 1},
		{Length: 10, Radius: 50, Tortuosity: 1},
	}

	r := Aggregate("stub", segs, graph.New(0), 0)

	require.Equal(t, 2, r.RadiusBins[0].Count)
	assert.Equal(t, 6.0, r.RadiusBins[0].MeanLength)
	assert.Equal(t, 1.5, r.RadiusBins[0].MeanTortuosity)

	assert.Equal(t, 1, r.RadiusBins[3].Count)
	assert.Equal(t, 10.0, r.RadiusBins[3].MeanLength)

	// Oversized radii land in the last bin
	assert.Equal(t, 1, r.RadiusBins[RadiusBinCount-1].Count)

	total := 0
	for _, b := range r.RadiusBins {
		total += b.Count
	}
	assert.Equal(t, len(segs), total)
}

func TestAggregateEmptyGraph(t *testing.T) {
	r := Aggregate("empty", nil, graph.New(0), 0)
	assert.Zero(t, r.TotalLength)
	assert.Zero(t, r.SegmentCount)
	assert.Zero(t, r.Branchpoints)
	assert.Zero(t, r.Endpoints)
}
