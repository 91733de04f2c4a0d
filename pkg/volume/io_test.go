package volume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	v := New(3, 4, 5)
	v.Set(1, 2, 3, 1)
	v.Set(2, 0, 0, 1)

	path := filepath.Join(t.TempDir(), "vol.vgv")
	require.NoError(t, WriteFile(path, v))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, v.SameShape(got))
	assert.Equal(t, v.Data, got.Data)
}

func TestReadFileRejectsForeignData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not_a_volume")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a container"), 0644))

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestReadFileDetectsCorruption(t *testing.T) {
	v := New(2, 2, 2)
	v.Set(0, 1, 1, 1)

	path := filepath.Join(t.TempDir(), "vol.vgv")
	require.NoError(t, WriteFile(path, v))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Flip a voxel byte, leaving the stored checksum stale
	data[len(data)-6] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = ReadFile(path)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestReadFileRejectsZeroDimension(t *testing.T) {
	v := New(2, 2, 2)
	path := filepath.Join(t.TempDir(), "vol.vgv")
	require.NoError(t, WriteFile(path, v))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// DZ lives right after magic and version
	copy(data[5:9], []byte{0, 0, 0, 0})
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = ReadFile(path)
	assert.ErrorIs(t, err, ErrBadDimension)
}
