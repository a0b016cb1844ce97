package extract

import (
	"sort"

	"github.com/raymond0/osrm-backend/pkg/binfmt"
)

// NodeAssignment is the Phase 1 output: a dense OSM->internal NID
// mapping plus the internal-order node table ready to write.
type NodeAssignment struct {
	OSMToInternal map[int64]uint32
	Nodes         []OSMNode // indexed by internal NID, in OSM-sorted order
}

// AssignNodeIDs runs Phase 1: sort and dedup usedNodeIDs, sort allNodes
// by OSM ID, merge-join the two, and assign dense internal NIDs 0,1,2,…
// in OSM-sorted order.
func AssignNodeIDs(sr *scanResult) (*NodeAssignment, error) {
	used := append([]int64(nil), sr.usedNodeIDs.Slice()...)
	sort.Slice(used, func(i, j int) bool { return used[i] < used[j] })
	used = dedupInt64(used)

	allNodes := append([]OSMNode(nil), sr.allNodes.Slice()...)
	sort.Slice(allNodes, func(i, j int) bool { return allNodes[i].ID < allNodes[j].ID })

	result := &NodeAssignment{
		OSMToInternal: make(map[int64]uint32, len(used)),
		Nodes:         make([]OSMNode, 0, len(used)),
	}

	i, j := 0, 0
	for i < len(used) && j < len(allNodes) {
		switch {
		case used[i] < allNodes[j].ID:
			i++
		case used[i] > allNodes[j].ID:
			j++
		default:
			if len(result.Nodes) >= 0xFFFFFFFF {
				return nil, ErrTooManyNodes
			}
			nid := uint32(len(result.Nodes))
			result.OSMToInternal[used[i]] = nid
			result.Nodes = append(result.Nodes, allNodes[j])
			i++
			j++
		}
	}
	if uint64(len(result.Nodes)) > 0xFFFFFFFF-1 {
		return nil, ErrTooManyNodes
	}
	return result, nil
}

func dedupInt64(sorted []int64) []int64 {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// WriteNodeFile writes the node file: fingerprint, max_internal_id,
// then the nodes that appear in the intersection, in OSM-sorted order.
func WriteNodeFile(path string, na *NodeAssignment) error {
	fp := binfmt.NewFingerprint(binfmt.MagicNodes, 1, 0, 0)
	w, err := binfmt.Create(path, fp)
	if err != nil {
		return err
	}
	maxInternalID := uint32(0)
	if len(na.Nodes) > 0 {
		maxInternalID = uint32(len(na.Nodes) - 1)
	}
	if err := w.WriteU32(maxInternalID); err != nil {
		w.Abort()
		return err
	}
	for _, n := range na.Nodes {
		if err := w.WriteI64(n.ID); err != nil {
			w.Abort()
			return err
		}
		if err := w.WriteU32(uint32(n.Lon)); err != nil {
			w.Abort()
			return err
		}
		if err := w.WriteU32(uint32(n.Lat)); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Close()
}
