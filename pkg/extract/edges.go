package extract

import "sort"

// AttachSourceCoordinates runs Phase 2: sort candidate edges by
// osm_source_id and two-finger merge against allNodes (already sorted
// by OSM ID) to attach each edge's source (lon, lat). Loops (source ==
// target) have both endpoints marked specialNID/invalid; edges whose
// source has no matching node are marked invalid.
func AttachSourceCoordinates(edges []CandidateEdge, allNodes []OSMNode) {
	sort.Slice(edges, func(i, j int) bool { return edges[i].SourceOSM < edges[j].SourceOSM })
	sortedNodes := append([]OSMNode(nil), allNodes...)
	sort.Slice(sortedNodes, func(i, j int) bool { return sortedNodes[i].ID < sortedNodes[j].ID })

	j := 0
	for i := range edges {
		e := &edges[i]
		if !e.Valid {
			continue
		}
		if e.SourceOSM == e.TargetOSM {
			e.Source = specialNID
			e.Target = specialNID
			e.Valid = false
			continue
		}
		for j < len(sortedNodes) && sortedNodes[j].ID < e.SourceOSM {
			j++
		}
		if j >= len(sortedNodes) || sortedNodes[j].ID != e.SourceOSM {
			e.Valid = false
			continue
		}
		e.SourceLon = sortedNodes[j].Lon
		e.SourceLat = sortedNodes[j].Lat
	}
}
