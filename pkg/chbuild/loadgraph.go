package chbuild

import (
	"fmt"

	"github.com/raymond0/osrm-backend/pkg/binfmt"
)

const (
	edgeHeaderLen  = 8 + 4 // fingerprint + count
	edgeRecordSize = 5 * 4 // source, target, weight, nameID, flags
)

// LoadGraph reads the node-based edge file written by the extraction
// pipeline's WriteEdgeFile and builds the plain CSR-ready Graph that
// Contract consumes, resolving numNodes from the caller since the edge
// file itself only carries node IDs, not a node count.
func LoadGraph(path string, numNodes uint32) (*Graph, error) {
	r, _, err := binfmt.Open(path, binfmt.MagicEdges)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	count, err := r.ReadU32At(8)
	if err != nil {
		return nil, fmt.Errorf("chbuild: read edge count: %w", err)
	}

	edges := make([]InputEdge, 0, count)
	off := int64(edgeHeaderLen)
	for i := uint32(0); i < count; i++ {
		source, err := r.ReadU32At(off)
		if err != nil {
			return nil, err
		}
		target, err := r.ReadU32At(off + 4)
		if err != nil {
			return nil, err
		}
		weight, err := r.ReadU32At(off + 8)
		if err != nil {
			return nil, err
		}
		// nameID at off+12 is not needed to build the contraction graph.
		flags, err := r.ReadU32At(off + 16)
		if err != nil {
			return nil, err
		}
		off += edgeRecordSize

		edges = append(edges, InputEdge{
			From:       source,
			To:         target,
			Weight:     weight,
			Forward:    flags&1 != 0,
			Backward:   flags&2 != 0,
			GeometryID: uint32(i), // original edges are keyed by their position in the edge file
		})
	}

	return &Graph{NumNodes: numNodes, Edges: edges}, nil
}

// NodeCount reads the max_internal_id field written at the head of a
// node file and returns the node count it implies, max_internal_id+1.
func NodeCount(nodePath string) (uint32, error) {
	r, _, err := binfmt.Open(nodePath, binfmt.MagicNodes)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	maxInternalID, err := r.ReadU32At(8)
	if err != nil {
		return 0, fmt.Errorf("chbuild: read max_internal_id: %w", err)
	}
	// An empty node file still writes max_internal_id=0, indistinguishable
	// from a single-node file; callers with zero nodes should not reach
	// contraction in the first place.
	return maxInternalID + 1, nil
}
