package volume

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// Simple container format for binarized volumes and skeletons.
// Format: [Magic:4][Version:1][DZ:4][DY:4][DX:4][Voxels:N][Checksum:4]
const (
	fileMagic   = uint32(0x56475631) // "VGV1"
	fileVersion = uint8(1)

	// maxDim guards against allocating from a corrupt header
	maxDim = 1 << 16
)

// Sentinel errors for volume file loading
var (
	ErrBadMagic     = errors.New("not a volume container file")
	ErrBadVersion   = errors.New("unsupported volume container version")
	ErrBadDimension = errors.New("invalid volume dimensions")
	ErrBadChecksum  = errors.New("volume data checksum mismatch")
)

// WriteFile writes a volume in the container format
func WriteFile(path string, v *Volume) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create volume file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.BigEndian, fileMagic); err != nil {
		return err
	}
	if err := w.WriteByte(fileVersion); err != nil {
		return err
	}
	for _, d := range []uint32{uint32(v.DZ), uint32(v.DY), uint32(v.DX)} {
		if err := binary.Write(w, binary.BigEndian, d); err != nil {
			return err
		}
	}
	if _, err := w.Write(v.Data); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, crc32.ChecksumIEEE(v.Data)); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// ReadFile loads a volume from the container format
func ReadFile(path string) (*Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open volume file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("read volume header: %w", err)
	}
	if magic != fileMagic {
		return nil, ErrBadMagic
	}

	version, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read volume header: %w", err)
	}
	if version != fileVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}

	var dims [3]uint32
	for i := range dims {
		if err := binary.Read(r, binary.BigEndian, &dims[i]); err != nil {
			return nil, fmt.Errorf("read volume header: %w", err)
		}
		if dims[i] == 0 || dims[i] > maxDim {
			return nil, fmt.Errorf("%w: %d", ErrBadDimension, dims[i])
		}
	}

	v := New(int(dims[0]), int(dims[1]), int(dims[2]))
	if _, err := io.ReadFull(r, v.Data); err != nil {
		return nil, fmt.Errorf("read volume data: %w", err)
	}

	var sum uint32
	if err := binary.Read(r, binary.BigEndian, &sum); err != nil {
		return nil, fmt.Errorf("read volume checksum: %w", err)
	}
	if crc32.ChecksumIEEE(v.Data) != sum {
		return nil, ErrBadChecksum
	}
	return v, nil
}
