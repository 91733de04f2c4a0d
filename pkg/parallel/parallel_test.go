package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEachChunkCoversEveryIndexOnce(t *testing.T) {
	const n = 1000
	hits := make([]int32, n)

	ForEachChunk(n, 7, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestForEachChunkSingleWorker(t *testing.T) {
	calls := 0
	ForEachChunk(10, 1, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)
}

func TestForEachChunkMoreWorkersThanItems(t *testing.T) {
	var total int32
	ForEachChunk(3, 16, func(start, end int) {
		atomic.AddInt32(&total, int32(end-start))
	})
	assert.Equal(t, int32(3), total)
}

func TestForEachChunkEmpty(t *testing.T) {
	called := false
	ForEachChunk(0, 4, func(int, int) { called = true })
	assert.False(t, called)
}
