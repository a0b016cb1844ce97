package chshard

import (
	"github.com/raymond0/osrm-backend/pkg/binfmt"
)

// WriteShard serializes one shard: fingerprint, checksum placeholder,
// node_start, num_nodes, num_edges, the node table (firstEdge per node
// plus one sentinel entry), then the edge table.
//
// firstEdge must have len(nodes)+1 entries, the trailing sentinel
// terminating the last node's range, per the data model in §3.
func WriteShard(path string, nodeStart uint32, firstEdge []uint32, edges []Edge) error {
	fp := binfmt.NewFingerprint(binfmt.MagicHSGR, 1, 0, 0)
	w, err := binfmt.Create(path, fp)
	if err != nil {
		return err
	}
	numNodes := uint32(len(firstEdge) - 1)
	numEdges := uint32(len(edges))

	// checksum field: reserved, written as zero. The wire format's
	// integrity check is the trailing CRC32 over the whole file that
	// binfmt.Writer appends on Close; this header field exists for wire
	// compatibility with tools that checksum the header separately and
	// is not independently verified by this implementation.
	if err := w.WriteU32(0); err != nil {
		w.Abort()
		return err
	}
	if err := w.WriteU32(nodeStart); err != nil {
		w.Abort()
		return err
	}
	if err := w.WriteU32(numNodes); err != nil {
		w.Abort()
		return err
	}
	if err := w.WriteU32(numEdges); err != nil {
		w.Abort()
		return err
	}
	if err := binfmt.WriteU32Slice(w, firstEdge); err != nil {
		w.Abort()
		return err
	}
	for _, e := range edges {
		target, packed, payload := encodeEdge(e)
		if err := w.WriteU32(target); err != nil {
			w.Abort()
			return err
		}
		if err := w.WriteU32(packed); err != nil {
			w.Abort()
			return err
		}
		if err := w.WriteU32(payload); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Close()
}
