// Package boundary implements the administrative boundary polygon tree:
// parsing, point-in-polygon membership, smallest-containing descent, and
// per-country density thresholds used to decide whether a road segment
// lies "in town".
package boundary

import (
	"errors"

	"github.com/raymond0/osrm-backend/pkg/geo"
)

// ErrCoordHeaderBad is returned when an outer-way's magic tag does not
// match inside the boundary stream.
var ErrCoordHeaderBad = errors.New("boundary: bad outer-way header")

const (
	magicBoundaryRecord = 0xE9E9E9E9
	magicOuterWay       = 0xE8E8E8E8
	magicBoundaryList   = 0xE0E0E0E0
)

// OuterRing is a non-empty ordered sequence of IC (>= 3 points) plus its
// cached bounding box. It is not required to be explicitly closed;
// membership tests treat it as if closed.
type OuterRing struct {
	Points []geo.IC
	Box    geo.BB
}

// closed returns the ring, implicitly closed by repeating the first
// point if it isn't already equal to the last.
func (r OuterRing) closed() []geo.IC {
	if len(r.Points) == 0 {
		return r.Points
	}
	first, last := r.Points[0], r.Points[len(r.Points)-1]
	if first == last {
		return r.Points
	}
	closed := make([]geo.IC, len(r.Points)+1)
	copy(closed, r.Points)
	closed[len(r.Points)] = first
	return closed
}

// contains runs the bbox-reject, vertex-equality, then ray-casting
// point-in-polygon test against this ring.
func (r OuterRing) contains(p geo.IC) bool {
	if !r.Box.Contains(p) {
		return false
	}
	ring := r.closed()
	for _, v := range ring {
		if v == p {
			return true
		}
	}
	inside := false
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			// Widen to int64 before subtracting, not after, so the
			// difference itself can't overflow int32 near +/-2e9
			// magnitude coordinates: p.x < (b.x-a.x)*(p.y-a.y)/(b.y-a.y) + a.x
			num := (int64(b.X) - int64(a.X)) * (int64(p.Y) - int64(a.Y))
			den := int64(b.Y) - int64(a.Y)
			// den is nonzero here since a.Y>p.Y != b.Y>p.Y implies a.Y != b.Y.
			// Truncating 64-bit integer division, matching the original's
			// integer (not floating-point) crossing test.
			threshold := num/den + int64(a.X)
			if int64(p.X) < threshold {
				inside = !inside
			}
		}
	}
	return inside
}

// Boundary is one node of the administrative boundary tree.
type Boundary struct {
	TotalArea     int64
	RoadStarts    uint32
	ISOCode       string
	Outer         []OuterRing
	Children      []Boundary
	Enclosing     geo.BB
	TargetDensity float64
}

// Density returns RoadStarts / TotalArea. A zero TotalArea yields zero
// rather than Inf/NaN, since an empty boundary is never "dense".
func (b *Boundary) Density() float64 {
	if b.TotalArea == 0 {
		return 0
	}
	return float64(b.RoadStarts) / float64(b.TotalArea)
}

// Contains reports whether p falls within any of b's outer rings, after
// a whole-boundary bounding-box reject.
func (b *Boundary) Contains(p geo.IC) bool {
	if !b.Enclosing.Contains(p) {
		return false
	}
	for _, ring := range b.Outer {
		if ring.contains(p) {
			return true
		}
	}
	return false
}

// Smallest returns the deepest descendant of b (possibly b itself)
// whose polygon contains p, tie-broken by smallest TotalArea among
// children that contain p.
func (b *Boundary) Smallest(p geo.IC) (*Boundary, bool) {
	if !b.Contains(p) {
		return nil, false
	}
	var best *Boundary
	for i := range b.Children {
		child := &b.Children[i]
		if hit, ok := child.Smallest(p); ok {
			if best == nil || hit.TotalArea < best.TotalArea {
				best = hit
			}
		}
	}
	if best != nil {
		return best, true
	}
	return b, true
}

// IsInTown reports whether p is contained in b and either b's own
// density meets or exceeds threshold d, or any child classifies p as
// in town under the same rule.
func (b *Boundary) IsInTown(p geo.IC, d float64) bool {
	if !b.Contains(p) {
		return false
	}
	if b.Density() >= d {
		return true
	}
	for i := range b.Children {
		if b.Children[i].IsInTown(p, d) {
			return true
		}
	}
	return false
}

// BoundaryList is an ordered forest of top-level Boundary trees, one per
// country, each with TargetDensity set at load time from its ISO code.
type BoundaryList struct {
	Countries []Boundary
}
