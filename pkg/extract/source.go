package extract

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// carHighways mirrors the teacher's drivable-highway allowlist: the set
// of `highway` tag values this extractor treats as routable segments.
var carHighways = map[string]bool{
	"motorway": true, "trunk": true, "primary": true, "secondary": true,
	"tertiary": true, "unclassified": true, "residential": true,
	"motorway_link": true, "trunk_link": true, "primary_link": true,
	"secondary_link": true, "tertiary_link": true, "living_street": true,
	"service": true, "road": true,
}

func isCarAccessible(tags osm.Tags) bool {
	if v := tags.Find("access"); v == "no" || v == "private" {
		return false
	}
	return carHighways[tags.Find("highway")]
}

// directionFlags mirrors the teacher's oneway-tag interpretation,
// including the motorway/roundabout implied-oneway rule and treating
// "reversible" oneway ways as excluded from directional routing.
func directionFlags(tags osm.Tags) (forward, backward bool, ok bool) {
	oneway := tags.Find("oneway")
	switch oneway {
	case "yes", "true", "1":
		return true, false, true
	case "-1", "reverse":
		return false, true, true
	case "reversible", "alternating":
		return false, false, false
	}
	highway := tags.Find("highway")
	if highway == "motorway" || highway == "motorway_link" {
		return true, false, true
	}
	if tags.Find("junction") == "roundabout" {
		return true, false, true
	}
	return true, true, true
}

// ReadOptions configures ReadOSM.
type ReadOptions struct {
	ScratchDir string // directory for mmap-backed scratch files; "" uses os.TempDir
}

// scanResult holds the raw extraction-state vectors ReadOSM populates,
// before Phase 1 sorts/joins anything.
type scanResult struct {
	usedNodeIDs   *diskVector[int64]
	allNodes      *diskVector[OSMNode]
	candidates    *diskVector[CandidateEdge]
	restrictions  *diskVector[RestrictionTriple]
	wayEndpoints  *diskVector[WayEndpoint]
	names         *NamePool
}

func (sr *scanResult) Close() {
	sr.usedNodeIDs.Close()
	sr.allNodes.Close()
	sr.candidates.Close()
	sr.restrictions.Close()
	sr.wayEndpoints.Close()
}

// ReadOSM performs the teacher's own two-pass osmpbf scan (ways first
// to learn which nodes are referenced, then only the referenced nodes),
// generalized to populate the extraction pipeline's external-memory
// vectors instead of an in-process ParseResult. A way's tags are read
// while that way is scanned and are not kept afterwards.
func ReadOSM(ctx context.Context, rs io.ReadSeeker, opts ReadOptions) (*scanResult, error) {
	usedNodeIDs, err := newDiskVector[int64](opts.ScratchDir, "used-nodes")
	if err != nil {
		return nil, err
	}
	allNodes, err := newDiskVector[OSMNode](opts.ScratchDir, "all-nodes")
	if err != nil {
		return nil, err
	}
	candidates, err := newDiskVector[CandidateEdge](opts.ScratchDir, "candidates")
	if err != nil {
		return nil, err
	}
	restrictions, err := newDiskVector[RestrictionTriple](opts.ScratchDir, "restrictions")
	if err != nil {
		return nil, err
	}
	wayEndpoints, err := newDiskVector[WayEndpoint](opts.ScratchDir, "way-endpoints")
	if err != nil {
		return nil, err
	}
	names := NewNamePool()
	sr := &scanResult{
		usedNodeIDs:  usedNodeIDs,
		allNodes:     allNodes,
		candidates:   candidates,
		restrictions: restrictions,
		wayEndpoints: wayEndpoints,
		names:        names,
	}

	// Pass 1: ways and relations; skip nodes (they're scanned in pass 2,
	// once the set of referenced node IDs is known).
	scanner1 := osmpbf.New(ctx, rs, 1)
	scanner1.SkipNodes = true
	defer scanner1.Close()

	var appendErr error
scan1:
	for scanner1.Scan() {
		obj := scanner1.Object()
		switch v := obj.(type) {
		case *osm.Way:
			if !isCarAccessible(v.Tags) || len(v.Nodes) < 2 {
				continue
			}
			fwd, bwd, ok := directionFlags(v.Tags)
			if !ok {
				continue
			}
			nameID := names.Intern(v.Tags.Find("name"))
			if appendErr = wayEndpoints.Append(WayEndpoint{
				WayID:    int64(v.ID),
				StartOSM: int64(v.Nodes[0].ID),
				EndOSM:   int64(v.Nodes[len(v.Nodes)-1].ID),
			}); appendErr != nil {
				break scan1
			}
			for i := 0; i+1 < len(v.Nodes); i++ {
				from := v.Nodes[i].ID
				to := v.Nodes[i+1].ID
				if appendErr = usedNodeIDs.Append(int64(from)); appendErr != nil {
					break scan1
				}
				if appendErr = usedNodeIDs.Append(int64(to)); appendErr != nil {
					break scan1
				}
				if appendErr = candidates.Append(CandidateEdge{
					SourceOSM: int64(from),
					TargetOSM: int64(to),
					WayID:     int64(v.ID),
					Forward:   fwd,
					Backward:  bwd,
					NameID:    nameID,
					Valid:     true,
					Weights:   weightDataFromTags(v.Tags),
				}); appendErr != nil {
					break scan1
				}
			}
		case *osm.Relation:
			if v.Tags.Find("type") != "restriction" {
				continue
			}
			rt, ok := restrictionFromRelation(v)
			if ok {
				if appendErr = restrictions.Append(rt); appendErr != nil {
					break scan1
				}
			}
		}
	}
	if appendErr != nil {
		sr.Close()
		return nil, fmt.Errorf("extract: pass 1 scratch write: %w", appendErr)
	}
	if err := scanner1.Err(); err != nil {
		sr.Close()
		return nil, fmt.Errorf("extract: pass 1 scan: %w", err)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		sr.Close()
		return nil, fmt.Errorf("extract: seek back to start: %w", err)
	}

	referenced := make(map[int64]bool, usedNodeIDs.Len())
	for _, id := range usedNodeIDs.Slice() {
		referenced[id] = true
	}

	// Pass 2: nodes only, keeping the ones referenced by pass 1's ways.
	scanner2 := osmpbf.New(ctx, rs, 1)
	scanner2.SkipWays = true
	scanner2.SkipRelations = true
	defer scanner2.Close()

	for scanner2.Scan() {
		n, ok := scanner2.Object().(*osm.Node)
		if !ok || !referenced[int64(n.ID)] {
			continue
		}
		if err := allNodes.Append(OSMNode{
			ID:  int64(n.ID),
			Lon: int32(math.Round(n.Lon * 1e6)),
			Lat: int32(math.Round(n.Lat * 1e6)),
		}); err != nil {
			sr.Close()
			return nil, fmt.Errorf("extract: pass 2 scratch write: %w", err)
		}
	}
	if err := scanner2.Err(); err != nil {
		sr.Close()
		return nil, fmt.Errorf("extract: pass 2 scan: %w", err)
	}

	return sr, nil
}

func weightDataFromTags(tags osm.Tags) WeightData {
	if d := tags.Find("duration"); d != "" {
		return WeightData{Kind: WeightWayDuration, DurationDs: 0}
	}
	return WeightData{Kind: WeightSpeed}
}

// restrictionFromRelation extracts a (from-way, via-node, to-way,
// only/no) triple from an OSM turn-restriction relation. Relations
// whose members don't fit the expected from/via/to shape are skipped.
func restrictionFromRelation(rel *osm.Relation) (RestrictionTriple, bool) {
	var fromWay, toWay int64
	var viaNode int64
	haveFrom, haveTo, haveVia := false, false, false
	for _, m := range rel.Members {
		switch m.Role {
		case "from":
			if m.Type == osm.TypeWay {
				fromWay = m.Ref
				haveFrom = true
			}
		case "to":
			if m.Type == osm.TypeWay {
				toWay = m.Ref
				haveTo = true
			}
		case "via":
			if m.Type == osm.TypeNode {
				viaNode = m.Ref
				haveVia = true
			}
		}
	}
	if !haveFrom || !haveTo || !haveVia {
		return RestrictionTriple{}, false
	}
	restrictionType := rel.Tags.Find("restriction")
	only := len(restrictionType) >= 4 && restrictionType[:4] == "only"
	return RestrictionTriple{
		FromWay:    fromWay,
		ToWay:      toWay,
		ViaNodeOSM: viaNode,
		Only:       only,
	}, true
}
