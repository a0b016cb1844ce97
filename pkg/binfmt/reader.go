package binfmt

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"
)

// Reader wraps a random-access file opened in this format. It keeps the
// last known-good offset so a transient read error can be retried once
// by reseeking, matching the retry contract of the wire-format error
// model (a single retry before surfacing ErrIO).
type Reader struct {
	f        *os.File
	lastGood int64
}

// Open opens path, reads its fingerprint, and checks it carries the
// expected magic tag and a valid CRC-8.
func Open(path string, wantMagic [4]byte) (*Reader, Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Fingerprint{}, fmt.Errorf("binfmt: open %s: %w", path, err)
	}
	r := &Reader{f: f}
	var fp Fingerprint
	if _, err := r.readAt(0, fp[:]); err != nil {
		f.Close()
		return nil, Fingerprint{}, fmt.Errorf("binfmt: read fingerprint: %w", err)
	}
	if !fp.Valid() || !fp.HasMagic(wantMagic) {
		f.Close()
		return nil, Fingerprint{}, ErrCorruptHeader
	}
	r.lastGood = int64(len(fp))
	return r, fp, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

// File exposes the underlying *os.File for callers (such as mmap) that
// need the raw descriptor.
func (r *Reader) File() *os.File { return r.f }

func (r *Reader) readAt(off int64, buf []byte) (int, error) {
	n, err := r.f.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		// One retry from the last known-good offset before giving up.
		if _, rerr := r.f.Seek(r.lastGood, io.SeekStart); rerr == nil {
			n2, err2 := r.f.ReadAt(buf, off)
			if err2 == nil || err2 == io.EOF {
				return n2, nil
			}
		}
		return n, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return n, nil
}

// ReadU32At reads one little-endian uint32 at absolute offset off.
func (r *Reader) ReadU32At(off int64) (uint32, error) {
	var buf [4]byte
	if _, err := r.readAt(off, buf[:]); err != nil {
		return 0, err
	}
	r.lastGood = off + 4
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadI64At reads one little-endian int64 at absolute offset off.
func (r *Reader) ReadI64At(off int64) (int64, error) {
	var buf [8]byte
	if _, err := r.readAt(off, buf[:]); err != nil {
		return 0, err
	}
	r.lastGood = off + 8
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

// ReadBytesAt reads n raw bytes at absolute offset off.
func (r *Reader) ReadBytesAt(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := r.readAt(off, buf); err != nil {
		return nil, err
	}
	r.lastGood = off + int64(n)
	return buf, nil
}

// ReadU32SliceAt reads n uint32s at absolute offset off using
// unsafe.Slice for a zero-copy decode, matching the teacher's binary.go
// helpers.
func (r *Reader) ReadU32SliceAt(off int64, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := r.readAt(off, b); err != nil {
		return nil, err
	}
	r.lastGood = off + int64(n*4)
	return s, nil
}

// ReadI32SliceAt reads n int32s at absolute offset off.
func (r *Reader) ReadI32SliceAt(off int64, n int) ([]int32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := r.readAt(off, b); err != nil {
		return nil, err
	}
	r.lastGood = off + int64(n*4)
	return s, nil
}

// ReadF64SliceAt reads n float64s at absolute offset off.
func (r *Reader) ReadF64SliceAt(off int64, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]float64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := r.readAt(off, b); err != nil {
		return nil, err
	}
	r.lastGood = off + int64(n*8)
	return s, nil
}

// VerifyChecksum reads the whole file from offset 0 through size-4 and
// compares its CRC32 against the trailing 4 bytes, matching the
// teacher's WriteBinary/ReadBinary trailer convention. Intended for
// offline integrity checks (e.g. a shard-info CLI), not the hot read
// path, since it reads the entire file sequentially.
func (r *Reader) VerifyChecksum() error {
	info, err := r.f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size < 12 {
		return fmt.Errorf("%w: file too small", ErrCorruptHeader)
	}
	body := io.NewSectionReader(r.f, 0, size-4)
	h := crc32.NewIEEE()
	if _, err := io.Copy(h, body); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	var stored uint32
	if err := binary.Read(io.NewSectionReader(r.f, size-4, 4), binary.LittleEndian, &stored); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if stored != h.Sum32() {
		return fmt.Errorf("binfmt: CRC32 mismatch: stored=%08x computed=%08x", stored, h.Sum32())
	}
	return nil
}
