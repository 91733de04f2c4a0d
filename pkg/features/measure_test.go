package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/microvasc/vesselgraph/pkg/graph"
	"github.com/microvasc/vesselgraph/pkg/volume"
)

func pt(z, y, x int) volume.Point {
	return volume.Point{Z: z, Y: y, X: x}
}

func TestSampleCount(t *testing.T) {
	assert.Equal(t, 3, sampleCount(2))
	assert.Equal(t, 3, sampleCount(5))
	assert.Equal(t, 4, sampleCount(10))
	// Long paths halve their sampling density
	assert.Equal(t, 10, sampleCount(150))
}

func TestCatmullRomInterpolatesEndpoints(t *testing.T) {
	ctrl := []vec3{{0, 0, 0}, {0, 1, 2}, {0, 3, 3}, {1, 4, 4}}
	out := catmullRom(ctrl, 7)

	assert.Equal(t, ctrl[0], out[0])
	assert.Equal(t, ctrl[3], out[len(out)-1])
}

func TestMeasureCurveStraightLine(t *testing.T) {
	coords := make([]volume.Point, 10)
	for i := range coords {
		coords[i] = pt(0, 0, i)
	}

	length, chord := measureCurve(coords, 1.0)
	assert.InDelta(t, 9.0, length, 1e-9)
	assert.InDelta(t, 9.0, chord, 1e-9)
}

func TestMeasureCurveScalesWithResolution(t *testing.T) {
	coords := []volume.Point{pt(0, 0, 0), pt(0, 0, 1), pt(0, 0, 2)}

	length, chord := measureCurve(coords, 2.5)
	assert.InDelta(t, 5.0, length, 1e-9)
	assert.InDelta(t, 5.0, chord, 1e-9)
}

func TestMeasureCurveSmoothsStaircase(t *testing.T) {
	// A voxel staircase alternating straight and diagonal steps: the
	// smoothed arc is shorter than the raw polyline but at least the chord
	coords := []volume.Point{
		pt(0, 0, 0), pt(0, 0, 1), pt(0, 1, 2), pt(0, 1, 3),
		pt(0, 2, 4), pt(0, 2, 5), pt(0, 3, 6), pt(0, 3, 7),
	}
	polyline := 0.0
	for i := 1; i < len(coords); i++ {
		polyline += dist(toVec(coords[i-1]), toVec(coords[i]))
	}

	length, chord := measureCurve(coords, 1.0)
	assert.Less(t, length, polyline)
	assert.GreaterOrEqual(t, length+1e-9, chord)
}

func TestTortuosityGuardsDegenerateChord(t *testing.T) {
	assert.Equal(t, 0.0, tortuosity(5, 0, 1))
	assert.Equal(t, 0.0, tortuosity(5, 0.5, 1))
	assert.InDelta(t, 2.5, tortuosity(5, 2, 1), 1e-12)
}

func TestRadiusStats(t *testing.T) {
	g := graph.New(4)
	for i, r := range []float64{2, 4, 4, 6} {
		g.AddVertex(pt(0, 0, i), r)
	}

	mean, min, max, sd := radiusStats(g, []int32{0, 1, 2, 3})
	assert.Equal(t, 4.0, mean)
	assert.Equal(t, 2.0, min)
	assert.Equal(t, 6.0, max)
	assert.InDelta(t, math.Sqrt(2), sd, 1e-12)
}
