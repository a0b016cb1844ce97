package extract

import "testing"

func TestCollapseMultiEdgesMergesToBidirectional(t *testing.T) {
	names := NewNamePool()
	nameID := names.Intern("Main Street")

	edges := []CandidateEdge{
		{Source: 1, Target: 2, Weight: 10, Forward: true, Backward: true, Valid: true, NameID: nameID},
	}
	out := CollapseMultiEdges(edges, names)
	if len(out) != 1 {
		t.Fatalf("got %d edges, want 1", len(out))
	}
	if !out[0].Forward || !out[0].Backward || out[0].IsSplit {
		t.Fatalf("single bidirectional edge should stay merged: %+v", out[0])
	}
}

func TestCollapseMultiEdgesKeepsCheapestPerDirection(t *testing.T) {
	names := NewNamePool()
	nameA := names.Intern("A")

	edges := []CandidateEdge{
		{Source: 1, Target: 2, Weight: 50, Forward: true, Backward: false, Valid: true, NameID: nameA},
		{Source: 1, Target: 2, Weight: 10, Forward: true, Backward: false, Valid: true, NameID: nameA}, // cheaper forward
		{Source: 1, Target: 2, Weight: 30, Forward: false, Backward: true, Valid: true, NameID: nameA},
		{Source: 1, Target: 2, Weight: 20, Forward: false, Backward: true, Valid: true, NameID: nameA}, // cheaper backward
	}
	out := CollapseMultiEdges(edges, names)
	if len(out) != 2 {
		t.Fatalf("got %d edges, want 2 (one per direction)", len(out))
	}

	var fwd, bwd *CandidateEdge
	for i := range out {
		if out[i].Source == 1 && out[i].Target == 2 {
			fwd = &out[i]
		} else {
			bwd = &out[i]
		}
	}
	if fwd == nil || fwd.Weight != 10 {
		t.Fatalf("forward edge = %+v, want weight 10", fwd)
	}
	if bwd == nil || bwd.Weight != 20 {
		t.Fatalf("backward edge = %+v, want weight 20 (with source/target swapped)", bwd)
	}
	if bwd.Source != 2 || bwd.Target != 1 {
		t.Fatalf("backward edge should have source/target swapped, got %d->%d", bwd.Source, bwd.Target)
	}
}

func TestCollapseMultiEdgesDropsInvalidEdges(t *testing.T) {
	names := NewNamePool()
	edges := []CandidateEdge{
		{Source: 1, Target: 2, Weight: 5, Forward: true, Valid: false},
	}
	out := CollapseMultiEdges(edges, names)
	if len(out) != 0 {
		t.Fatalf("got %d edges, want 0 (all invalid)", len(out))
	}
}
