package chbuild

import (
	"fmt"
	"path/filepath"

	"github.com/raymond0/osrm-backend/pkg/binfmt"
	"github.com/raymond0/osrm-backend/pkg/chfacade"
	"github.com/raymond0/osrm-backend/pkg/chshard"
	"github.com/raymond0/osrm-backend/pkg/geo"
)

const (
	nodeHeaderLen  = 8 + 4  // fingerprint + max_internal_id
	nodeRecordSize = 8 + 4 + 4 // OSM id(int64) + lon(u32) + lat(u32)
)

// readNodeCoords reads the fixed-point coordinates out of the node
// file produced by the extraction pipeline's WriteNodeFile, in
// internal-NID order.
func readNodeCoords(path string) ([]geo.FC, error) {
	r, _, err := binfmt.Open(path, binfmt.MagicNodes)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	maxInternalID, err := r.ReadU32At(8)
	if err != nil {
		return nil, fmt.Errorf("chbuild: read max_internal_id: %w", err)
	}
	n := int(maxInternalID) + 1

	coords := make([]geo.FC, n)
	off := int64(nodeHeaderLen)
	for i := 0; i < n; i++ {
		lon, err := r.ReadU32At(off + 8)
		if err != nil {
			return nil, err
		}
		lat, err := r.ReadU32At(off + 12)
		if err != nil {
			return nil, err
		}
		coords[i] = geo.FC{Lon: int32(lon), Lat: int32(lat)}
		off += nodeRecordSize
	}
	return coords, nil
}

// BuildCoordShards reads a node file and writes one coordinates
// side-file per shard range, matching the node-ID ranges BuildShards
// partitions the overlay into, so the facade's filename-stem matching
// finds them.
func BuildCoordShards(nodePath string, nodesPerShard uint32, outDir string) error {
	coords, err := readNodeCoords(nodePath)
	if err != nil {
		return err
	}
	for start := uint32(0); start < uint32(len(coords)); start += nodesPerShard {
		end := start + nodesPerShard
		if end > uint32(len(coords)) {
			end = uint32(len(coords))
		}
		path := filepath.Join(outDir, fmt.Sprintf("shard-%d.coords", start))
		if err := chfacade.WriteCoordShard(path, start, coords[start:end]); err != nil {
			return fmt.Errorf("chbuild: coord shard [%d,%d): %w", start, end, err)
		}
	}
	return nil
}

// BuildGeomShards writes one geometry side-file per shard range over
// the original (non-shortcut) edges of g, each edge's geometry being
// the two-point [From, To] node sequence the extraction pipeline
// preserves (no intermediate shape points survive node-graph
// collapsing), indexed by the GeometryID LoadGraph assigned.
func BuildGeomShards(g *Graph, nodesPerShard uint32, outDir string) error {
	numGeoms := uint32(len(g.Edges))
	for start := uint32(0); start < numGeoms; start += nodesPerShard {
		end := start + nodesPerShard
		if end > numGeoms {
			end = numGeoms
		}
		geoms := make([][]chshard.NID, 0, end-start)
		for i := start; i < end; i++ {
			e := g.Edges[i]
			geoms = append(geoms, []chshard.NID{e.From, e.To})
		}
		path := filepath.Join(outDir, fmt.Sprintf("shard-%d.geom", start))
		if err := chfacade.WriteGeomShard(path, start, geoms); err != nil {
			return fmt.Errorf("chbuild: geom shard [%d,%d): %w", start, end, err)
		}
	}
	return nil
}
