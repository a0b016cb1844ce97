package extract

import "sort"

// CollapseMultiEdges runs Phase 5: sort by (source, target, name_id)
// using lexicographic name-byte comparison through the mutex-protected
// NamePool comparator, with sentinel (invalid) edges sorting last. For
// each group sharing (source, target), keep the minimum-weight forward
// and minimum-weight backward edge; if they are the same edge, mark it
// bidirectional with is_split=false, otherwise emit both (the backward
// one with source/target swapped). The rest of the group, and every
// invalid edge, is left out of the returned slice.
func CollapseMultiEdges(edges []CandidateEdge, names *NamePool) []CandidateEdge {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if !a.Valid && !b.Valid {
			return false
		}
		if !a.Valid {
			return false
		}
		if !b.Valid {
			return true
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return names.Compare(a.NameID, b.NameID) < 0
	})

	out := make([]CandidateEdge, 0, len(edges))
	i := 0
	for i < len(edges) && edges[i].Valid {
		j := i
		for j < len(edges) && edges[j].Valid && edges[j].Source == edges[i].Source && edges[j].Target == edges[i].Target {
			j++
		}
		out = append(out, collapseGroup(edges[i:j])...)
		i = j
	}
	return out
}

func collapseGroup(group []CandidateEdge) []CandidateEdge {
	var fwdBest, bwdBest *CandidateEdge
	for k := range group {
		e := &group[k]
		if e.Forward && (fwdBest == nil || e.Weight < fwdBest.Weight) {
			fwdBest = e
		}
		if e.Backward && (bwdBest == nil || e.Weight < bwdBest.Weight) {
			bwdBest = e
		}
	}
	if fwdBest == nil && bwdBest == nil {
		return nil
	}
	if fwdBest != nil && bwdBest != nil && fwdBest == bwdBest {
		kept := *fwdBest
		kept.Forward, kept.Backward = true, true
		kept.IsSplit = false
		return []CandidateEdge{kept}
	}
	var result []CandidateEdge
	if fwdBest != nil {
		kept := *fwdBest
		kept.Forward, kept.Backward = true, false
		kept.IsSplit = bwdBest != nil
		result = append(result, kept)
	}
	if bwdBest != nil {
		kept := *bwdBest
		kept.Source, kept.Target = kept.Target, kept.Source
		kept.Forward, kept.Backward = true, false
		kept.IsSplit = fwdBest != nil
		result = append(result, kept)
	}
	return result
}
