package corrections

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/snappy"

	"github.com/microvasc/vesselgraph/pkg/logging"
	"github.com/microvasc/vesselgraph/pkg/metrics"
)

// Cache file format:
// [Magic:4][Version:1][Resolution:8][Side:4][CompLen:4][Compressed:N][Checksum:4]
// The checksum covers the compressed block.
const (
	cacheMagic   = uint32(0x56474354) // "VGCT"
	cacheVersion = uint8(1)
	cacheName    = "radii_corrections.vgc"

	// maxSide guards allocation from a corrupt header
	maxSide = 4096
)

var (
	// ErrCacheCorrupt marks an unreadable cache file; recovery is a rebuild
	ErrCacheCorrupt = errors.New("correction table cache corrupt")
)

// Manager provides correction tables, serving them from memory or the disk
// cache and rebuilding synchronously when coverage is insufficient. Cache
// read/write failures are never fatal: the table is kept in memory for the
// current run.
type Manager struct {
	dir string
	log logging.Logger
	reg *metrics.Registry

	mu     sync.Mutex
	cached *Table
}

// NewManager creates a table manager. dir may be empty to disable the disk
// cache entirely.
func NewManager(dir string, log logging.Logger, reg *metrics.Registry) *Manager {
	if log == nil {
		log = logging.NopLogger{}
	}
	if reg == nil {
		reg = metrics.Default()
	}
	return &Manager{dir: dir, log: log, reg: reg}
}

// Table returns a correction table covering (resolution, maxRadius)
func (m *Manager) Table(resolution, maxRadius float64) *Table {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil && m.cached.Covers(resolution, maxRadius) {
		m.reg.TableCacheHits.Inc()
		return m.cached
	}

	if m.dir != "" {
		if t, err := Load(filepath.Join(m.dir, cacheName)); err == nil {
			if t.Covers(resolution, maxRadius) {
				m.cached = t
				m.reg.TableCacheHits.Inc()
				return t
			}
		} else if !os.IsNotExist(err) {
			m.reg.TableCacheFailures.Inc()
			m.log.Warn("correction table cache unreadable, rebuilding",
				logging.Error(err))
		}
	}

	m.reg.TableCacheMisses.Inc()
	m.reg.TableRebuilds.Inc()
	m.log.Info("building correction table",
		logging.Float64("resolution", resolution),
		logging.Float64("max_radius", maxRadius))

	t := Build(resolution, maxRadius)
	m.cached = t

	if m.dir != "" {
		if err := m.store(t); err != nil {
			m.reg.TableCacheFailures.Inc()
			m.log.Warn("correction table cache write failed, keeping table in memory",
				logging.Error(err))
		}
	}
	return t
}

func (m *Manager) store(t *Table) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return err
	}
	return Store(filepath.Join(m.dir, cacheName), t)
}

// Store writes a table to the cache file format
func Store(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer f.Close()

	payload := make([]byte, 8*len(t.data))
	for i, v := range t.data {
		binary.BigEndian.PutUint64(payload[i*8:], math.Float64bits(v))
	}
	compressed := snappy.Encode(nil, payload)

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.BigEndian, cacheMagic); err != nil {
		return err
	}
	if err := w.WriteByte(cacheVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, math.Float64bits(t.Resolution)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(t.Side)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := w.Write(compressed); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// Load reads a table from the cache file format
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	if magic != cacheMagic {
		return nil, ErrCacheCorrupt
	}

	version, err := r.ReadByte()
	if err != nil || version != cacheVersion {
		return nil, ErrCacheCorrupt
	}

	var resBits uint64
	if err := binary.Read(r, binary.BigEndian, &resBits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}

	var side, compLen uint32
	if err := binary.Read(r, binary.BigEndian, &side); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	if side < 2 || side > maxSide {
		return nil, ErrCacheCorrupt
	}
	if err := binary.Read(r, binary.BigEndian, &compLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}

	compressed := make([]byte, compLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}

	var sum uint32
	if err := binary.Read(r, binary.BigEndian, &sum); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	if crc32.ChecksumIEEE(compressed) != sum {
		return nil, ErrCacheCorrupt
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}

	n := int(side) * int(side) * int(side)
	if len(payload) != 8*n {
		return nil, ErrCacheCorrupt
	}

	t := &Table{
		Resolution: math.Float64frombits(resBits),
		Side:       int(side),
		data:       make([]float64, n),
	}
	for i := range t.data {
		t.data[i] = math.Float64frombits(binary.BigEndian.Uint64(payload[i*8:]))
	}
	return t, nil
}
