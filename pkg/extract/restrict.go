package extract

import "sort"

// TurnRestriction is the Phase 6 output record for one remapped
// restriction triple.
type TurnRestriction struct {
	From, Via, To uint32
	Only          bool
}

// endpointOtherThan returns the endpoint of ep that is not via, or -1
// if neither endpoint resolves uniquely (both equal via, or ep missing).
func endpointOtherThan(ep WayEndpoint, via int64, found bool) int64 {
	if !found {
		return -1
	}
	switch {
	case ep.StartOSM != via:
		return ep.StartOSM
	case ep.EndOSM != via:
		return ep.EndOSM
	default:
		return -1
	}
}

// RemapRestrictions runs the restriction half of Phase 6: sort by
// from.way and join against the way start/end table to resolve each
// restriction's "from" node (the endpoint of its from-way that is not
// the via node), then sort by to.way and join again to resolve "to"
// (the endpoint of its to-way that is not the via node). Lookups that
// fail to resolve are dropped; only fully-valid triples (from, via, and
// to all present in the internal node map) are returned.
func RemapRestrictions(restrictions []RestrictionTriple, endpoints []WayEndpoint, osmToInternal map[int64]uint32) []TurnRestriction {
	byWay := make(map[int64]WayEndpoint, len(endpoints))
	for _, ep := range endpoints {
		byWay[ep.WayID] = ep
	}

	sort.Slice(restrictions, func(i, j int) bool { return restrictions[i].FromWay < restrictions[j].FromWay })
	fromOSM := make([]int64, len(restrictions))
	for i, r := range restrictions {
		ep, ok := byWay[r.FromWay]
		fromOSM[i] = endpointOtherThan(ep, r.ViaNodeOSM, ok)
	}

	order := make([]int, len(restrictions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return restrictions[order[i]].ToWay < restrictions[order[j]].ToWay })

	out := make([]TurnRestriction, 0, len(restrictions))
	for _, i := range order {
		r := restrictions[i]
		ep, ok := byWay[r.ToWay]
		toOSM := endpointOtherThan(ep, r.ViaNodeOSM, ok)
		fromOSMi := fromOSM[i]

		if fromOSMi == -1 || toOSM == -1 {
			continue
		}
		fromNID, fromOK := osmToInternal[fromOSMi]
		toNID, toOK := osmToInternal[toOSM]
		viaNID, viaOK := osmToInternal[r.ViaNodeOSM]
		if !fromOK || !toOK || !viaOK {
			continue
		}
		out = append(out, TurnRestriction{From: fromNID, Via: viaNID, To: toNID, Only: r.Only})
	}
	return out
}
