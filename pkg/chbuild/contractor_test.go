package chbuild

import "testing"

// TestContractPreservesShortestPaths builds a 4-node chain 0-1-2-3 and
// checks that contraction assigns distinct ranks and leaves an overlay
// in which a CH query (upward from each end) still finds the 0->3
// shortest path weight, so queries never need to revisit a contracted
// node.
func TestContractPreservesShortestPaths(t *testing.T) {
	g := &Graph{
		NumNodes: 4,
		Edges: []InputEdge{
			{From: 0, To: 1, Weight: 1, Forward: true, Backward: true},
			{From: 1, To: 2, Weight: 1, Forward: true, Backward: true},
			{From: 2, To: 3, Weight: 1, Forward: true, Backward: true},
		},
	}
	res := Contract(g)

	if len(res.Rank) != 4 {
		t.Fatalf("got %d ranks, want 4", len(res.Rank))
	}
	seen := make(map[uint32]bool, 4)
	for _, r := range res.Rank {
		if seen[r] {
			t.Fatalf("duplicate rank %d", r)
		}
		seen[r] = true
	}

	// Every original edge should still be reachable as either a direct
	// upward edge or implied by a shortcut, so the minimum path weight
	// between the endpoints is preserved by the upward search space.
	best := bestUpwardWeight(res, 0, 3)
	if best != 3 {
		t.Fatalf("best upward weight 0->3 = %d, want 3", best)
	}
}

// bestUpwardWeight runs both halves of a CH query by brute force over
// the tiny overlay: an upward search from `from` over the Forward lists
// and an upward search from `to` over the Backward lists, returning the
// cheapest sum over the nodes both searches reach. Used only to check
// Contract's output in tests.
func bestUpwardWeight(res *ContractionResult, from, to uint32) uint32 {
	const inf = ^uint32(0)
	search := func(adj [][]adjEntry, src uint32) []uint32 {
		dist := make([]uint32, res.NumNodes)
		for i := range dist {
			dist[i] = inf
		}
		dist[src] = 0
		changed := true
		for changed {
			changed = false
			for n := uint32(0); n < res.NumNodes; n++ {
				if dist[n] == inf {
					continue
				}
				for _, e := range adj[n] {
					if dist[n]+e.weight < dist[e.to] {
						dist[e.to] = dist[n] + e.weight
						changed = true
					}
				}
			}
		}
		return dist
	}
	fwd := search(res.Forward, from)
	bwd := search(res.Backward, to)
	best := inf
	for m := range fwd {
		if fwd[m] != inf && bwd[m] != inf && fwd[m]+bwd[m] < best {
			best = fwd[m] + bwd[m]
		}
	}
	return best
}

func TestBatchWitnessSearchFindsDirectPath(t *testing.T) {
	outAdj := [][]adjEntry{
		{{to: 1, weight: 5}},
		{{to: 2, weight: 3}},
		{},
	}
	ws := newWitnessState(3)
	contracted := make([]bool, 3)
	batchWitnessSearch(ws, outAdj, 0, 99, 100, contracted)
	if ws.dist[1] != 5 {
		t.Fatalf("dist[1] = %d, want 5", ws.dist[1])
	}
	if ws.dist[2] != 8 {
		t.Fatalf("dist[2] = %d, want 8", ws.dist[2])
	}
}

func TestBatchWitnessSearchExcludesNode(t *testing.T) {
	outAdj := [][]adjEntry{
		{{to: 1, weight: 1}},
		{{to: 2, weight: 1}},
		{},
	}
	ws := newWitnessState(3)
	contracted := make([]bool, 3)
	batchWitnessSearch(ws, outAdj, 0, 1, 100, contracted) // exclude node 1
	const inf = ^uint32(0)
	if ws.dist[2] != inf {
		t.Fatalf("dist[2] = %d, want unreachable (excluded middle node)", ws.dist[2])
	}
}
