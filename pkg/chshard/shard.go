// Package chshard implements lazy, random-access reading of one
// partitioned contraction-hierarchy graph shard: a contiguous node-ID
// range of the CH graph, its node-to-edge-range table, and its edge
// records.
package chshard

import (
	"errors"
	"fmt"

	"github.com/raymond0/osrm-backend/pkg/binfmt"
)

// NID is a node identifier. EID is an edge identifier.
type NID = uint32
type EID = uint32

// SpecialNID marks an absent node/payload reference. 0x7FFFFFFF is a
// legacy sentinel some historical files also use in edge targets and
// middle-node fields; readers must treat either as "absent", writers
// must always emit SpecialNID.
const SpecialNID NID = 0xFFFFFFFF
const legacySpecialNID NID = 0x7FFFFFFF

// IsSpecial reports whether n is either the current or legacy "absent"
// sentinel.
func IsSpecial(n NID) bool {
	return n == SpecialNID || n == legacySpecialNID
}

// ErrNodeNotResolvable is returned when a requested node falls outside
// every shard's range.
var ErrNodeNotResolvable = errors.New("chshard: node not resolvable")

const (
	headerChecksumOff   = 8
	headerNodeStartOff  = 12
	headerNumNodesOff   = 16
	headerNumEdgesOff   = 20
	headerFixedLen      = 24 // fingerprint(8) + checksum(4) + node_start(4) + num_nodes(4) + num_edges(4)
	nodeEntrySize       = 4
	edgeRecordSize      = 12 // target(4) + packed weight/flags(4) + payload(4)
	weightShortcutShift = 3
	shortcutBit         = 1 << 2
	forwardBit          = 1 << 1
	backwardBit         = 1 << 0
)

// Edge is a CH edge record: target node, weight, the shortcut/forward/
// backward flags, and a tagged payload (middle node if Shortcut, else a
// geometry ID).
type Edge struct {
	Target    NID
	Weight    uint32 // 0..2^29-1
	Shortcut  bool
	Forward   bool
	Backward  bool
	rawPayload uint32
}

// MiddleNode returns the shortcut's middle node, valid only when
// e.Shortcut is true. ok is false if the payload is the "absent"
// sentinel (an edge with Shortcut=true and payload==SpecialNID is
// treated as absent, per the data model invariant).
func (e Edge) MiddleNode() (NID, bool) {
	if !e.Shortcut {
		return 0, false
	}
	if IsSpecial(e.rawPayload) {
		return 0, false
	}
	return e.rawPayload, true
}

// GeometryID returns the edge's geometry pool ID, valid only when
// e.Shortcut is false.
func (e Edge) GeometryID() (uint32, bool) {
	if e.Shortcut {
		return 0, false
	}
	return e.rawPayload, true
}

func decodeEdge(target, packed, payload uint32) Edge {
	return Edge{
		Target:     target,
		Weight:     packed >> weightShortcutShift,
		Shortcut:   packed&shortcutBit != 0,
		Forward:    packed&forwardBit != 0,
		Backward:   packed&backwardBit != 0,
		rawPayload: payload,
	}
}

func encodeEdge(e Edge) (target, packed, payload uint32) {
	packed = e.Weight << weightShortcutShift
	if e.Shortcut {
		packed |= shortcutBit
	}
	if e.Forward {
		packed |= forwardBit
	}
	if e.Backward {
		packed |= backwardBit
	}
	return e.Target, packed, e.rawPayload
}

// NewOriginalEdge builds a non-shortcut edge record carrying a geometry
// ID payload.
func NewOriginalEdge(target NID, weight uint32, forward, backward bool, geometryID uint32) Edge {
	return Edge{Target: target, Weight: weight, Forward: forward, Backward: backward, rawPayload: geometryID}
}

// NewShortcutEdge builds a shortcut edge record carrying a middle-node
// payload.
func NewShortcutEdge(target NID, weight uint32, forward, backward bool, middle NID) Edge {
	return Edge{Target: target, Weight: weight, Shortcut: true, Forward: forward, Backward: backward, rawPayload: middle}
}

// Shard is one lazily-read CH graph shard file.
type Shard struct {
	r   *binfmt.Reader
	fp  binfmt.Fingerprint
	path string

	nodeStart uint32
	numNodes  uint32
	numEdges  uint32

	nodeTableOff int64
	edgeTableOff int64
}

// Open opens path, validates its fingerprint, and reads the fixed header
// fields, computing the node/edge table offsets. Neither the reserved
// header checksum field nor the file's CRC32 trailer is checked here.
func Open(path string) (*Shard, error) {
	r, fp, err := binfmt.Open(path, binfmt.MagicHSGR)
	if err != nil {
		return nil, err
	}
	s := &Shard{r: r, fp: fp, path: path}
	nodeStart, err := r.ReadU32At(headerNodeStartOff)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("chshard: read node_start: %w", err)
	}
	numNodes, err := r.ReadU32At(headerNumNodesOff)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("chshard: read num_nodes: %w", err)
	}
	numEdges, err := r.ReadU32At(headerNumEdgesOff)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("chshard: read num_edges: %w", err)
	}
	s.nodeStart = nodeStart
	s.numNodes = numNodes
	s.numEdges = numEdges
	s.nodeTableOff = headerFixedLen
	// +1 sentinel node entry terminates the last range.
	s.edgeTableOff = s.nodeTableOff + int64(numNodes+1)*nodeEntrySize
	return s, nil
}

// Path returns the shard's source file path, used by the facade to
// locate sibling side-files sharing the same stem.
func (s *Shard) Path() string { return s.path }

// Close closes the underlying file.
func (s *Shard) Close() error { return s.r.Close() }

// RangeOfGraph returns [node_start, node_start+num_nodes).
func (s *Shard) RangeOfGraph() (lo, hi NID) {
	return s.nodeStart, s.nodeStart + s.numNodes
}

// Owns reports whether n falls in this shard's node range.
func (s *Shard) Owns(n NID) bool {
	lo, hi := s.RangeOfGraph()
	return n >= lo && n < hi
}

// AdjacentRange returns [first_edge(n), first_edge(n+1)) by reading two
// 4-byte node-table entries.
func (s *Shard) AdjacentRange(n NID) (EID, EID, error) {
	if !s.Owns(n) {
		return 0, 0, ErrNodeNotResolvable
	}
	idx := n - s.nodeStart
	lo, err := s.r.ReadU32At(s.nodeTableOff + int64(idx)*nodeEntrySize)
	if err != nil {
		return 0, 0, err
	}
	hi, err := s.r.ReadU32At(s.nodeTableOff + int64(idx+1)*nodeEntrySize)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// Edge reads the edge record at index e.
func (s *Shard) Edge(e EID) (Edge, error) {
	if e >= s.numEdges {
		return Edge{}, fmt.Errorf("chshard: edge %d out of range (have %d)", e, s.numEdges)
	}
	off := s.edgeTableOff + int64(e)*edgeRecordSize
	target, err := s.r.ReadU32At(off)
	if err != nil {
		return Edge{}, err
	}
	packed, err := s.r.ReadU32At(off + 4)
	if err != nil {
		return Edge{}, err
	}
	payload, err := s.r.ReadU32At(off + 8)
	if err != nil {
		return Edge{}, err
	}
	return decodeEdge(target, packed, payload), nil
}

// findSmallest scans adjacentRange(u), selecting the minimum-weight edge
// whose Target == v and whose directional flag (forward/backward) is
// set, skipping absent targets and absent shortcut payloads. Ties are
// resolved by first-seen (a strict "<" comparison against the running
// best).
func (s *Shard) findSmallest(u, v NID, wantForward bool) (Edge, bool, error) {
	lo, hi, err := s.AdjacentRange(u)
	if err != nil {
		return Edge{}, false, err
	}
	var best Edge
	found := false
	for e := lo; e < hi; e++ {
		edge, err := s.Edge(e)
		if err != nil {
			return Edge{}, false, err
		}
		if IsSpecial(edge.Target) {
			continue
		}
		if edge.Shortcut {
			if _, ok := edge.MiddleNode(); !ok {
				continue
			}
		}
		if edge.Target != v {
			continue
		}
		if wantForward && !edge.Forward {
			continue
		}
		if !wantForward && !edge.Backward {
			continue
		}
		if !found || edge.Weight < best.Weight {
			best = edge
			found = true
		}
	}
	return best, found, nil
}

// FindSmallestForward finds the minimum-weight forward edge u->v.
func (s *Shard) FindSmallestForward(u, v NID) (Edge, bool, error) {
	return s.findSmallest(u, v, true)
}

// FindSmallestBackward finds the minimum-weight backward edge u->v.
func (s *Shard) FindSmallestBackward(u, v NID) (Edge, bool, error) {
	return s.findSmallest(u, v, false)
}
