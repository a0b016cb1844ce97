package extract

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// diskVector is an external-memory (disk-backed) growable array of
// fixed-size records T, backed by a memory-mapped temp file rather than
// the process heap. ReadOSM collects its scan output (used node IDs, all
// nodes, candidate edges, restriction triples, way start/end records) in
// diskVectors. The name pool is not one of them: NamePool keeps its
// bytes and offsets in ordinary slices. Phases 1-6 copy what they sort
// or join into heap slices and maps, so extraction memory still grows
// with input size.
type diskVector[T any] struct {
	f    *os.File
	m    mmap.MMap
	data []T
	len  int
	cap  int
}

const initialDiskVectorCap = 1024

func newDiskVector[T any](dir, prefix string) (*diskVector[T], error) {
	f, err := os.CreateTemp(dir, prefix+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("extract: create scratch file: %w", err)
	}
	os.Remove(f.Name()) // unlinked; the open fd keeps the backing store alive
	dv := &diskVector[T]{f: f}
	if err := dv.grow(initialDiskVectorCap); err != nil {
		f.Close()
		return nil, err
	}
	return dv, nil
}

func (dv *diskVector[T]) sizeOf() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func (dv *diskVector[T]) grow(newCap int) error {
	if newCap <= dv.cap {
		return nil
	}
	if dv.m != nil {
		if err := dv.m.Unmap(); err != nil {
			return fmt.Errorf("extract: unmap scratch file: %w", err)
		}
	}
	size := int64(newCap) * int64(dv.sizeOf())
	if err := dv.f.Truncate(size); err != nil {
		return fmt.Errorf("extract: truncate scratch file: %w", err)
	}
	m, err := mmap.Map(dv.f, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("extract: mmap scratch file: %w", err)
	}
	dv.m = m
	dv.cap = newCap
	if newCap == 0 {
		dv.data = nil
		return nil
	}
	dv.data = unsafe.Slice((*T)(unsafe.Pointer(&m[0])), newCap)
	return nil
}

// Append adds v, growing the backing file (doubling capacity) if full.
func (dv *diskVector[T]) Append(v T) error {
	if dv.len >= dv.cap {
		if err := dv.grow(dv.cap * 2); err != nil {
			return err
		}
	}
	dv.data[dv.len] = v
	dv.len++
	return nil
}

// Slice returns the live (length-bounded) view over the mapped records.
func (dv *diskVector[T]) Slice() []T {
	return dv.data[:dv.len]
}

// Len returns the number of appended records.
func (dv *diskVector[T]) Len() int { return dv.len }

// Close unmaps and discards the backing scratch file.
func (dv *diskVector[T]) Close() error {
	var err error
	if dv.m != nil {
		err = dv.m.Unmap()
	}
	dv.f.Close()
	return err
}
