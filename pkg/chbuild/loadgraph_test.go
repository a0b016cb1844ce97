package chbuild_test

import (
	"path/filepath"
	"testing"

	"github.com/raymond0/osrm-backend/pkg/chbuild"
	"github.com/raymond0/osrm-backend/pkg/extract"
)

func TestLoadGraphAndNodeCountRoundTrip(t *testing.T) {
	dir := t.TempDir()
	nodePath := filepath.Join(dir, "nodes.osrm")
	edgePath := filepath.Join(dir, "edges.osrm")

	na := &extract.NodeAssignment{
		OSMToInternal: map[int64]uint32{100: 0, 200: 1, 300: 2},
		Nodes: []extract.OSMNode{
			{ID: 100, Lon: 1, Lat: 1},
			{ID: 200, Lon: 2, Lat: 2},
			{ID: 300, Lon: 3, Lat: 3},
		},
	}
	if err := extract.WriteNodeFile(nodePath, na); err != nil {
		t.Fatalf("WriteNodeFile: %v", err)
	}

	edges := []extract.CandidateEdge{
		{Source: 0, Target: 1, Weight: 5, Forward: true, Backward: false, Valid: true},
		{Source: 1, Target: 2, Weight: 7, Forward: true, Backward: true, Valid: true},
	}
	if err := extract.WriteEdgeFile(edgePath, edges); err != nil {
		t.Fatalf("WriteEdgeFile: %v", err)
	}

	numNodes, err := chbuild.NodeCount(nodePath)
	if err != nil {
		t.Fatalf("NodeCount: %v", err)
	}
	if numNodes != 3 {
		t.Fatalf("got %d nodes, want 3", numNodes)
	}

	g, err := chbuild.LoadGraph(edgePath, numNodes)
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if len(g.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(g.Edges))
	}
	if g.Edges[0].From != 0 || g.Edges[0].To != 1 || g.Edges[0].Weight != 5 {
		t.Fatalf("got edge[0] = %+v, want From=0 To=1 Weight=5", g.Edges[0])
	}
	if !g.Edges[1].Forward || !g.Edges[1].Backward {
		t.Fatalf("got edge[1] = %+v, want both forward and backward set", g.Edges[1])
	}
}
