// Package extract implements the external-memory sort/merge/join
// pipeline that turns OSM-style node and edge streams into the
// node-based edge file and restrictions file consumed by downstream
// contraction tools.
package extract

import "errors"

const specialNID = 0xFFFFFFFF

// Errors surfaced by the pipeline, matching the error kinds of the
// wire/query error model.
var (
	ErrTooManyNodes  = errors.New("extract: node count exceeds uint32 range")
	ErrTooManyEdges  = errors.New("extract: edge count exceeds uint32 range")
	ErrInvalidWeight = errors.New("extract: weight data is INVALID")
)

// OSMNode is one OSM-style node: external ID plus fixed-point lon/lat.
type OSMNode struct {
	ID       int64
	Lon, Lat int32
}

// WeightKind selects which branch of the Phase 4 weight formula applies
// to a candidate edge.
type WeightKind uint8

const (
	WeightInvalid WeightKind = iota
	WeightEdgeDuration
	WeightWayDuration
	WeightSpeed
)

// WeightData is the per-edge input to the weight formula, mutable by
// the ProcessSegment scripting hook before the formula runs.
type WeightData struct {
	Kind        WeightKind
	DurationDs  float64 // deciseconds, used by EDGE_DURATION/WAY_DURATION
	SpeedKMH    float64 // used by SPEED when already resolved (city/country chosen)
	CitySpeed   float64 // km/h, used by SPEED when InTown
	CountrySpeed float64 // km/h, used by SPEED when not InTown
}

// CandidateEdge is one directed way-segment edge as it flows through
// Phases 2-5 of the pipeline.
type CandidateEdge struct {
	SourceOSM, TargetOSM int64
	WayID                int64
	SourceLon, SourceLat int32 // attached in Phase 2; SourceOSM's coordinate
	Source, Target       uint32 // internal NIDs; SourceOSM/TargetOSM until Phase 4 remap
	Weight               uint32
	Forward, Backward    bool
	InTown               bool
	NameID               uint32
	IsSplit              bool
	Valid                bool
	Weights              WeightData
}

// RestrictionTriple is one turn restriction as it flows through
// Phase 6's via/from/to remap joins.
type RestrictionTriple struct {
	FromWay, ToWay int64
	ViaNodeOSM     int64
	From, To       uint32 // internal NIDs after remap; specialNID if unresolved
	Only           bool
}

// WayEndpoint records a way's first/last node, used by the Phase 6
// restriction remap joins.
type WayEndpoint struct {
	WayID           int64
	StartOSM, EndOSM int64
	Start, End       uint32
}
