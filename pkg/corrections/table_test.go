package corrections

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSideFor(t *testing.T) {
	assert.Equal(t, 150, SideFor(1.0, 150.0))
	assert.Equal(t, 75, SideFor(2.0, 150.0))
	// Floor of the ratio
	assert.Equal(t, 42, SideFor(3.5, 150.0))
	// Never below the minimum usable side
	assert.Equal(t, 2, SideFor(100.0, 150.0))
}

func TestBuildValues(t *testing.T) {
	tab := Build(1.0, 10.0)

	assert.Equal(t, 0.0, tab.At(0, 0, 0))
	assert.Equal(t, 1.0, tab.At(0, 0, 1))
	assert.Equal(t, 5.0, tab.At(5, 0, 0))
	assert.InDelta(t, math.Sqrt(3), tab.At(1, 1, 1), 1e-12)
	assert.InDelta(t, math.Sqrt(2)*2.5, Build(2.5, 20.0).At(0, 1, 1), 1e-12)
}

func TestAtHandlesNegativeAndOutOfRangeDeltas(t *testing.T) {
	tab := Build(1.0, 5.0)

	assert.Equal(t, tab.At(1, 2, 3), tab.At(-1, -2, -3))
	// Beyond the table side: computed directly, still exact
	assert.InDelta(t, math.Sqrt(float64(20*20+3*3)), tab.At(20, 0, 3), 1e-12)
}

func TestCovers(t *testing.T) {
	tab := Build(1.0, 100.0)
	assert.True(t, tab.Covers(1.0, 100.0))
	assert.True(t, tab.Covers(1.0, 50.0))
	assert.False(t, tab.Covers(1.0, 200.0))
	assert.False(t, tab.Covers(2.0, 50.0))
}

func TestTableIsotropyProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200

	properties := gopter.NewProperties(params)
	tab := Build(1.0, 30.0)

	properties.Property("distance is invariant under axis permutation", prop.ForAll(
		func(dz, dy, dx int) bool {
			base := tab.At(dz, dy, dx)
			return base == tab.At(dy, dz, dx) &&
				base == tab.At(dx, dy, dz) &&
				base == tab.At(dz, dx, dy) &&
				base == tab.At(dy, dx, dz) &&
				base == tab.At(dx, dz, dy)
		},
		gen.IntRange(-29, 29),
		gen.IntRange(-29, 29),
		gen.IntRange(-29, 29),
	))

	properties.Property("distance matches the Euclidean norm", prop.ForAll(
		func(dz, dy, dx int) bool {
			want := math.Sqrt(float64(dz*dz + dy*dy + dx*dx))
			return math.Abs(tab.At(dz, dy, dx)-want) < 1e-9
		},
		gen.IntRange(0, 29),
		gen.IntRange(0, 29),
		gen.IntRange(0, 29),
	))

	properties.TestingRun(t)
}
