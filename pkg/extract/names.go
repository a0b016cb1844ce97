package extract

import "sync"

// NamePool is the name-char pool with cumulative offsets, reserving
// indices 0-3 for the empty name/destination/pronunciation/ref, per the
// data model. Reads happen under a mutex since Phase 5's sort comparator
// consults it from multiple goroutines (the "name-char table and
// name-offset table are read under a mutex" resource rule).
type NamePool struct {
	mu      sync.Mutex
	bytes   []byte
	offsets []uint32 // cumulative; offsets[i+1]-offsets[i] is the length of name i
	index   map[string]uint32
}

// NewNamePool creates a pool with the four reserved empty entries.
func NewNamePool() *NamePool {
	p := &NamePool{
		offsets: []uint32{0, 0, 0, 0, 0},
		index:   map[string]uint32{"": 0},
	}
	return p
}

// Intern returns the name ID for s, adding it to the pool if new.
func (p *NamePool) Intern(s string) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s == "" {
		return 0
	}
	if id, ok := p.index[s]; ok {
		return id
	}
	id := uint32(len(p.offsets) - 1)
	p.bytes = append(p.bytes, s...)
	p.offsets = append(p.offsets, uint32(len(p.bytes)))
	p.index[s] = id
	return id
}

// Bytes returns the name i's bytes.
func (p *NamePool) Bytes(i uint32) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytes[p.offsets[i]:p.offsets[i+1]]
}

// Compare lexicographically compares names i and j under the pool's
// mutex, for use by Phase 5's external-sort comparator.
func (p *NamePool) Compare(i, j uint32) int {
	p.mu.Lock()
	a := p.bytes[p.offsets[i]:p.offsets[i+1]]
	b := p.bytes[p.offsets[j]:p.offsets[j+1]]
	p.mu.Unlock()
	na, nb := len(a), len(b)
	n := na
	if nb < n {
		n = nb
	}
	for k := 0; k < n; k++ {
		if a[k] != b[k] {
			if a[k] < b[k] {
				return -1
			}
			return 1
		}
	}
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}

// Offsets returns the raw cumulative offset table, for Phase 6's
// in-place cumulative-to-length transform.
func (p *NamePool) Offsets() []uint32 { return p.offsets }

// Pool returns the raw name-char bytes.
func (p *NamePool) Pool() []byte { return p.bytes }

// TransformOffsetsToLengths returns the Phase 6 name-offset transform of
// the cumulative offsets as a new slice with one entry fewer:
// lengths[i] = offsets[i+1]-offsets[i]. The offsets slice itself is not
// modified.
func TransformOffsetsToLengths(offsets []uint32) []uint32 {
	if len(offsets) == 0 {
		return nil
	}
	lengths := make([]uint32, len(offsets)-1)
	for i := 0; i < len(lengths); i++ {
		lengths[i] = offsets[i+1] - offsets[i]
	}
	return lengths
}
