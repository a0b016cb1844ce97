package chbuild

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/raymond0/osrm-backend/pkg/chshard"
)

// BuildShards partitions res into contiguous node-ID-range shards of at
// most nodesPerShard nodes each and writes one .hsgr file per range
// under outDir, named shard-<node_start>.hsgr. Within each shard the
// node table stores both the forward and backward upward edges for a
// node back to back, forward first, mirroring the single combined
// adjacency range the facade's AdjacentEdges expects to scan.
func BuildShards(res *ContractionResult, nodesPerShard uint32, outDir string) error {
	if nodesPerShard == 0 {
		return fmt.Errorf("chbuild: nodesPerShard must be > 0")
	}

	for start := uint32(0); start < res.NumNodes; start += nodesPerShard {
		end := start + nodesPerShard
		if end > res.NumNodes {
			end = res.NumNodes
		}
		path := filepath.Join(outDir, fmt.Sprintf("shard-%d.hsgr", start))
		if err := writeOneShard(res, start, end, path); err != nil {
			return fmt.Errorf("chbuild: shard [%d,%d): %w", start, end, err)
		}
	}
	return nil
}

func writeOneShard(res *ContractionResult, start, end uint32, path string) error {
	numNodes := end - start
	firstEdge := make([]uint32, numNodes+1)
	var edges []chshard.Edge

	for n := start; n < end; n++ {
		firstEdge[n-start] = uint32(len(edges))

		fwd := append([]adjEntry(nil), res.Forward[n]...)
		sort.Slice(fwd, func(i, j int) bool { return fwd[i].to < fwd[j].to })
		for _, e := range fwd {
			edges = append(edges, adjEntryToShardEdge(e, true, false))
		}

		bwd := append([]adjEntry(nil), res.Backward[n]...)
		sort.Slice(bwd, func(i, j int) bool { return bwd[i].to < bwd[j].to })
		for _, e := range bwd {
			edges = append(edges, adjEntryToShardEdge(e, false, true))
		}
	}
	firstEdge[numNodes] = uint32(len(edges))

	return chshard.WriteShard(path, start, firstEdge, edges)
}

func adjEntryToShardEdge(e adjEntry, forward, backward bool) chshard.Edge {
	if e.middle >= 0 {
		return chshard.NewShortcutEdge(e.to, e.weight, forward, backward, uint32(e.middle))
	}
	return chshard.NewOriginalEdge(e.to, e.weight, forward, backward, e.geometryID)
}
