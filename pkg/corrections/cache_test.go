package corrections

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microvasc/vesselgraph/pkg/logging"
	"github.com/microvasc/vesselgraph/pkg/metrics"
)

func TestStoreLoadRoundTrip(t *testing.T) {
	tab := Build(2.0, 30.0)
	path := filepath.Join(t.TempDir(), cacheName)

	require.NoError(t, Store(path, tab))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tab.Resolution, got.Resolution)
	assert.Equal(t, tab.Side, got.Side)
	assert.Equal(t, tab.At(3, 2, 1), got.At(3, 2, 1))
}

func TestLoadDetectsCorruption(t *testing.T) {
	tab := Build(1.0, 10.0)
	path := filepath.Join(t.TempDir(), cacheName)
	require.NoError(t, Store(path, tab))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)/2] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = Load(path)
	assert.ErrorIs(t, err, ErrCacheCorrupt)
}

func TestLoadRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), cacheName)
	require.NoError(t, os.WriteFile(path, []byte("not a table"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrCacheCorrupt)
}

func TestManagerRebuildsThenServesFromMemory(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, logging.NopLogger{}, metrics.NewRegistry())

	t1 := m.Table(1.0, 20.0)
	require.NotNil(t, t1)
	// Rebuild persisted to disk
	_, err := os.Stat(filepath.Join(dir, cacheName))
	assert.NoError(t, err)

	// Same coverage: served from memory, identical instance
	t2 := m.Table(1.0, 20.0)
	assert.Same(t, t1, t2)

	// Narrower request is still covered
	t3 := m.Table(1.0, 10.0)
	assert.Same(t, t1, t3)
}

func TestManagerRebuildsOnInsufficientCoverage(t *testing.T) {
	m := NewManager(t.TempDir(), logging.NopLogger{}, metrics.NewRegistry())

	t1 := m.Table(1.0, 10.0)
	t2 := m.Table(1.0, 40.0)
	assert.NotSame(t, t1, t2)
	assert.True(t, t2.Covers(1.0, 40.0))
}

func TestManagerLoadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Store(filepath.Join(dir, cacheName), Build(1.0, 25.0)))

	m := NewManager(dir, logging.NopLogger{}, metrics.NewRegistry())
	tab := m.Table(1.0, 25.0)
	assert.Equal(t, SideFor(1.0, 25.0), tab.Side)
}

func TestManagerSurvivesCorruptCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheName), []byte("junk"), 0644))

	m := NewManager(dir, logging.NopLogger{}, metrics.NewRegistry())
	tab := m.Table(1.0, 10.0)
	require.NotNil(t, tab)
	assert.True(t, tab.Covers(1.0, 10.0))
}

func TestManagerWithoutCacheDir(t *testing.T) {
	m := NewManager("", logging.NopLogger{}, metrics.NewRegistry())
	tab := m.Table(1.0, 10.0)
	require.NotNil(t, tab)
}
