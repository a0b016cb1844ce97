package binfmt

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"
)

// Writer wraps an *os.File being built up as a fingerprinted, CRC32-
// checked binary file, following the teacher's atomic
// temp-file-then-rename write pattern.
type Writer struct {
	f       *os.File
	tmpPath string
	path    string
	hash    crc32Hash
}

type crc32Hash interface {
	io.Writer
	Sum32() uint32
}

// Create opens path+".tmp" for writing and writes the given fingerprint
// as the first 8 bytes.
func Create(path string, fp Fingerprint) (*Writer, error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("binfmt: create temp file: %w", err)
	}
	w := &Writer{f: f, tmpPath: tmpPath, path: path, hash: crc32.NewIEEE()}
	if _, err := w.Write(fp[:]); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, err
	}
	return w, nil
}

// Write implements io.Writer, feeding every byte through the CRC32 hash.
func (w *Writer) Write(p []byte) (int, error) {
	w.hash.Write(p)
	return w.f.Write(p)
}

// WriteU32 writes one little-endian uint32.
func (w *Writer) WriteU32(v uint32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

// WriteI64 writes one little-endian int64.
func (w *Writer) WriteI64(v int64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

// WriteU32Slice writes a raw slice of uint32 via unsafe.Slice, matching
// the teacher's zero-copy binary.go helpers.
func WriteU32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

// WriteI32Slice writes a raw slice of int32.
func WriteI32Slice(w io.Writer, s []int32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

// WriteF64Slice writes a raw slice of float64.
func WriteF64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

// WriteBytes writes a raw byte slice unmodified.
func (w *Writer) WriteBytes(b []byte) error {
	_, err := w.Write(b)
	return err
}

// Offset returns the writer's current byte offset from the start of the
// file (including the fingerprint).
func (w *Writer) Offset() (int64, error) {
	return w.f.Seek(0, io.SeekCurrent)
}

// PatchU32At overwrites a little-endian uint32 at absolute offset off
// after the fact. Used by Phase 6's placeholder-count-then-patch
// pattern: a count field is written as a placeholder, the payload that
// follows is streamed out, and once the true count is known the
// placeholder is patched in place.
//
// PatchU32At does not touch the running CRC32 — callers that need a
// patched region to be covered by the checksum must compute the CRC
// over the final bytes in a separate pass instead of relying on the
// Writer's streaming hash.
func (w *Writer) PatchU32At(off int64, v uint32) error {
	cur, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := w.f.Seek(off, io.SeekStart); err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	if _, err := w.f.Write(buf[:]); err != nil {
		return err
	}
	_, err = w.f.Seek(cur, io.SeekStart)
	return err
}

// Close writes the CRC32 trailer and atomically renames the temp file
// into place.
func (w *Writer) Close() error {
	checksum := w.hash.Sum32()
	if err := binary.Write(w.f, binary.LittleEndian, checksum); err != nil {
		w.f.Close()
		os.Remove(w.tmpPath)
		return fmt.Errorf("binfmt: write CRC32: %w", err)
	}
	if err := w.f.Close(); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("binfmt: close temp file: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		return fmt.Errorf("binfmt: rename: %w", err)
	}
	return nil
}

// Abort closes and removes the temp file without renaming it into
// place, for use on an error path after Create succeeded.
func (w *Writer) Abort() {
	w.f.Close()
	os.Remove(w.tmpPath)
}
