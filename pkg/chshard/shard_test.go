package chshard_test

import (
	"path/filepath"
	"testing"

	"github.com/raymond0/osrm-backend/pkg/chshard"
)

// buildFixtureShard writes a small fixture shard:
// three nodes {10,11,12} starting at node 10, with edges
// 10->11 (w=5, forward), 10->12 (w=9, forward), 11->10 (w=3, backward).
func buildFixtureShard(t *testing.T) *chshard.Shard {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shard-10.hsgr")

	edges := []chshard.Edge{
		chshard.NewOriginalEdge(11, 5, true, false, 100), // node 10's range
		chshard.NewOriginalEdge(12, 9, true, false, 101),
		chshard.NewOriginalEdge(10, 3, false, true, 102), // node 11's range
	}
	firstEdge := []uint32{0, 2, 3, 3} // node 10: [0,2); node 11: [2,3); node 12: [3,3)

	if err := chshard.WriteShard(path, 10, firstEdge, edges); err != nil {
		t.Fatalf("WriteShard: %v", err)
	}
	s, err := chshard.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestShardRangeAndOwnership(t *testing.T) {
	s := buildFixtureShard(t)
	lo, hi := s.RangeOfGraph()
	if lo != 10 || hi != 13 {
		t.Fatalf("RangeOfGraph() = [%d,%d), want [10,13)", lo, hi)
	}
	if !s.Owns(10) || !s.Owns(12) || s.Owns(9) || s.Owns(13) {
		t.Fatalf("Owns() boundary check failed")
	}
}

func TestShardAdjacentRangeAndEdges(t *testing.T) {
	s := buildFixtureShard(t)

	lo, hi, err := s.AdjacentRange(10)
	if err != nil {
		t.Fatalf("AdjacentRange(10): %v", err)
	}
	if lo != 0 || hi != 2 {
		t.Fatalf("AdjacentRange(10) = [%d,%d), want [0,2)", lo, hi)
	}

	edge, err := s.Edge(lo)
	if err != nil {
		t.Fatalf("Edge(0): %v", err)
	}
	if edge.Target != 11 || edge.Weight != 5 || !edge.Forward || edge.Backward {
		t.Fatalf("Edge(0) = %+v, want target=11 weight=5 forward=true backward=false", edge)
	}
	geomID, ok := edge.GeometryID()
	if !ok || geomID != 100 {
		t.Fatalf("GeometryID() = %d, %v; want 100, true", geomID, ok)
	}
}

func TestShardFindSmallestForwardAndBackward(t *testing.T) {
	s := buildFixtureShard(t)

	fwd, ok, err := s.FindSmallestForward(10, 11)
	if err != nil || !ok || fwd.Weight != 5 {
		t.Fatalf("FindSmallestForward(10,11) = %+v, %v, %v; want weight 5, true, nil", fwd, ok, err)
	}

	bwd, ok, err := s.FindSmallestBackward(11, 10)
	if err != nil || !ok || bwd.Weight != 3 {
		t.Fatalf("FindSmallestBackward(11,10) = %+v, %v, %v; want weight 3, true, nil", bwd, ok, err)
	}

	_, ok, err = s.FindSmallestForward(10, 99)
	if err != nil {
		t.Fatalf("FindSmallestForward(10,99): unexpected error %v", err)
	}
	if ok {
		t.Fatalf("FindSmallestForward(10,99) should report not-found")
	}
}

func TestShardOutOfRangeNodeFails(t *testing.T) {
	s := buildFixtureShard(t)
	if _, _, err := s.AdjacentRange(999); err != chshard.ErrNodeNotResolvable {
		t.Fatalf("AdjacentRange(999) err = %v, want ErrNodeNotResolvable", err)
	}
}

func TestShardSpecialSentinelsAreSpecial(t *testing.T) {
	if !chshard.IsSpecial(chshard.SpecialNID) {
		t.Fatalf("SpecialNID should be special")
	}
	if !chshard.IsSpecial(0x7FFFFFFF) {
		t.Fatalf("legacy special sentinel should be special")
	}
	if chshard.IsSpecial(12345) {
		t.Fatalf("an ordinary node id should not be special")
	}
}

func TestEncodeDecodeShortcutEdgeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shard-0.hsgr")
	sc := chshard.NewShortcutEdge(7, 42, true, true, 3)
	if err := chshard.WriteShard(path, 0, []uint32{0, 1}, []chshard.Edge{sc}); err != nil {
		t.Fatalf("WriteShard: %v", err)
	}
	s, err := chshard.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	got, err := s.Edge(0)
	if err != nil {
		t.Fatalf("Edge(0): %v", err)
	}
	if !got.Shortcut || got.Target != 7 || got.Weight != 42 || !got.Forward || !got.Backward {
		t.Fatalf("Edge(0) = %+v, want a forward+backward shortcut to 7 weight 42", got)
	}
	middle, ok := got.MiddleNode()
	if !ok || middle != 3 {
		t.Fatalf("MiddleNode() = %d, %v; want 3, true", middle, ok)
	}
}
