package extract

import (
	"fmt"
	"math"

	"github.com/raymond0/osrm-backend/pkg/geo"
)

// ComputeWeights runs Phase 4: for each valid edge, compute great-circle
// distance between the source coordinate and the target node, invoke
// the scripting collaborator, apply the weight formula, remap
// osm_target_id to its internal NID, and orient source < target.
func ComputeWeights(edges []CandidateEdge, allNodes []OSMNode, osmToInternal map[int64]uint32, profile *Profile, tagsByWay map[int64]map[string]string) error {
	byID := make(map[int64]OSMNode, len(allNodes))
	for _, n := range allNodes {
		byID[n.ID] = n
	}

	for i := range edges {
		e := &edges[i]
		if !e.Valid {
			continue
		}
		targetNode, ok := byID[e.TargetOSM]
		if !ok {
			e.Valid = false
			continue
		}
		d := geo.GreatCircleMeters(
			geo.FC{Lon: e.SourceLon, Lat: e.SourceLat},
			geo.FC{Lon: targetNode.Lon, Lat: targetNode.Lat},
		)

		if profile != nil {
			tags := tagsByWay[e.WayID]
			if err := profile.ProcessSegment(tags, d, e.InTown, &e.Weights); err != nil {
				return err
			}
		}

		weight, err := applyWeightFormula(e.Weights, d, e.InTown)
		if err != nil {
			return fmt.Errorf("edge %d->%d: %w", e.SourceOSM, e.TargetOSM, err)
		}
		e.Weight = weight

		srcNID, ok := osmToInternal[e.SourceOSM]
		if !ok {
			e.Valid = false
			continue
		}
		tgtNID, ok := osmToInternal[e.TargetOSM]
		if !ok {
			e.Valid = false
			continue
		}
		e.Source, e.Target = srcNID, tgtNID

		if e.Source > e.Target {
			e.Source, e.Target = e.Target, e.Source
			e.Forward, e.Backward = e.Backward, e.Forward
		}
	}
	return nil
}

// applyWeightFormula implements §4.H Phase 4's weight formula exactly:
//
//	EDGE_DURATION / WAY_DURATION -> duration * 10
//	SPEED -> (d*10) / (speed/3.6), speed = city_speed if inTown else country_speed
//	INVALID -> ErrInvalidWeight
//
// The result is floored with round-half-up and clamped to a minimum of 1.
func applyWeightFormula(wd WeightData, d float64, inTown bool) (uint32, error) {
	var raw float64
	switch wd.Kind {
	case WeightEdgeDuration, WeightWayDuration:
		raw = wd.DurationDs * 10
	case WeightSpeed:
		speed := wd.CountrySpeed
		if inTown {
			speed = wd.CitySpeed
		}
		if speed == 0 {
			speed = wd.SpeedKMH
		}
		if speed <= 0 {
			return 0, ErrInvalidWeight
		}
		raw = (d * 10) / (speed / 3.6)
	case WeightInvalid:
		return 0, ErrInvalidWeight
	default:
		return 0, ErrInvalidWeight
	}
	w := uint32(math.Floor(raw + 0.5))
	if w < 1 {
		w = 1
	}
	return w, nil
}
