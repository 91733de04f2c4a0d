package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microvasc/vesselgraph/pkg/config"
	"github.com/microvasc/vesselgraph/pkg/logging"
	"github.com/microvasc/vesselgraph/pkg/metrics"
	"github.com/microvasc/vesselgraph/pkg/volume"
)

func testPipeline(cfg config.AnalysisConfig) *Pipeline {
	return New(cfg, logging.NopLogger{}, metrics.NewRegistry())
}

func TestAnalyzeStraightVessel(t *testing.T) {
	// A cylinder of radius 3 along x with its centerline skeleton
	vol := volume.New(9, 9, 16)
	for z := 0; z < 9; z++ {
		for y := 0; y < 9; y++ {
			dz, dy := z-4, y-4
			if dz*dz+dy*dy > 9 {
				continue
			}
			for x := 0; x < 16; x++ {
				vol.Set(z, y, x, 1)
			}
		}
	}
	skel := volume.New(9, 9, 16)
	for x := 3; x <= 12; x++ {
		skel.Set(4, 4, x, 1)
	}

	cfg := config.Default()
	res, err := testPipeline(cfg).Analyze("cylinder", vol, skel)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Graph.VertexCount())
	assert.Equal(t, 9, res.Graph.EdgeCount())

	n := res.Network
	assert.Equal(t, 1, n.SegmentCount)
	assert.InDelta(t, 9.0, n.TotalLength, 1e-9)
	assert.InDelta(t, 1.0, n.MeanTortuosity, 1e-9)
	// Nearest background voxels off the radius-3 cross-section sit at
	// norm sqrt(10)
	assert.InDelta(t, math.Sqrt(10), n.MeanRadius, 1e-9)
	assert.Zero(t, n.Branchpoints)
	assert.Equal(t, 2, n.Endpoints)
	assert.Equal(t, float64(vol.ForegroundCount()), n.VolumeSum)
}

func TestAnalyzeBranchedVessel(t *testing.T) {
	// A T shape: line along x with an arm along z. The junction voxels are
	// mutually 26-adjacent, so the raw graph carries a clique that the
	// filter must collapse to a single branch point.
	skel := volume.New(10, 11, 11)
	for x := 2; x <= 8; x++ {
		skel.Set(5, 5, x, 1)
	}
	for z := 6; z <= 8; z++ {
		skel.Set(z, 5, 5, 1)
	}
	vol := skel.Clone()

	cfg := config.Default()
	reg := metrics.NewRegistry()
	p := New(cfg, logging.NopLogger{}, reg)

	res, err := p.Analyze("tee", vol, skel)
	require.NoError(t, err)

	n := res.Network
	assert.Equal(t, 1, n.Branchpoints)
	assert.Greater(t, n.SegmentCount, 1)
	assert.Greater(t, n.TotalLength, 0.0)

	// The filtered graph has no residual branch-point clusters
	branch := res.Graph.VerticesWhere(func(v int32) bool { return res.Graph.Degree(v) > 2 })
	require.Len(t, branch, 1)
}

func TestAnalyzeFiltersIsolatedFragment(t *testing.T) {
	// Main 10-voxel vessel plus a 2-voxel fragment far away
	skel := volume.New(8, 8, 12)
	for x := 1; x <= 10; x++ {
		skel.Set(1, 1, x, 1)
	}
	skel.Set(6, 6, 2, 1)
	skel.Set(6, 6, 3, 1)
	vol := skel.Clone()

	cfg := config.Default()
	cfg.FilterLength = 3

	res, err := testPipeline(cfg).Analyze("fragmented", vol, skel)
	require.NoError(t, err)

	// Fragment gone from the graph and zeroed out of the cleaned volume
	assert.Equal(t, 10, res.Graph.VertexCount())
	assert.Equal(t, uint8(0), res.CleanedVolume.At(6, 6, 2))
	assert.Equal(t, uint8(0), res.CleanedVolume.At(6, 6, 3))
	assert.Equal(t, uint8(1), res.CleanedVolume.At(1, 1, 5))
	assert.Equal(t, 10.0, res.Network.VolumeSum)
	assert.Equal(t, 1, res.Network.SegmentCount)
}

func TestAnalyzePrunesShortBranch(t *testing.T) {
	// Long line with a one-voxel spur off its middle. The junction clique
	// resolves first; the leftover stub prunes away below the threshold.
	skel := volume.New(8, 8, 14)
	for x := 1; x <= 12; x++ {
		skel.Set(1, 1, x, 1)
	}
	skel.Set(2, 1, 6, 1)
	vol := skel.Clone()

	cfg := config.Default()
	cfg.PruneLength = 4.0

	res, err := testPipeline(cfg).Analyze("spurred", vol, skel)
	require.NoError(t, err)

	// The spur is pruned; only the straight vessel remains
	assert.Zero(t, res.Network.Branchpoints)
	assert.Equal(t, 2, res.Network.Endpoints)
	assert.Equal(t, 1, res.Network.SegmentCount)
}

func TestAnalyzeEmptySkeleton(t *testing.T) {
	vol := volume.New(4, 4, 4)
	vol.Set(1, 1, 1, 1)
	skel := volume.New(4, 4, 4)

	res, err := testPipeline(config.Default()).Analyze("empty", vol, skel)
	require.NoError(t, err)
	assert.Zero(t, res.Network.SegmentCount)
	assert.Zero(t, res.Graph.VertexCount())
	assert.Zero(t, res.CleanedVolume.ForegroundCount())
	assert.NotEmpty(t, res.RunID)
}

func TestAnalyzeShapeMismatch(t *testing.T) {
	vol := volume.New(4, 4, 4)
	skel := volume.New(4, 4, 5)

	_, err := testPipeline(config.Default()).Analyze("mismatch", vol, skel)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
