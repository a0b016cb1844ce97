package extract

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/raymond0/osrm-backend/pkg/density"
)

// Options configures a full Run of the extraction pipeline.
type Options struct {
	ReadOptions  ReadOptions
	Classifier   *density.Classifier // nil disables in-town classification (every edge treated as out-of-town)
	Profile      *Profile             // nil disables the ProcessSegment scripting hook
	TagsByWay    map[int64]map[string]string
	EdgeOutPath  string
	RestrictOut  string
	NodeOutPath  string
	NameOutPath  string
}

// Run drives Phases 1 through 6 of the extraction pipeline end to end
// against an OSM PBF source, following the teacher's own
// adaptive-progress-logging and elapsed-time-reporting idiom for each
// phase boundary.
func Run(ctx context.Context, rs io.ReadSeeker, opts Options) error {
	start := time.Now()

	sr, err := ReadOSM(ctx, rs, opts.ReadOptions)
	if err != nil {
		return fmt.Errorf("extract: scan: %w", err)
	}
	defer sr.Close()
	log.Printf("extract: scanned %d candidate edges, %d raw nodes (%s)", sr.candidates.Len(), sr.allNodes.Len(), time.Since(start))

	na, err := AssignNodeIDs(sr)
	if err != nil {
		return fmt.Errorf("extract: phase 1: %w", err)
	}
	log.Printf("extract: phase 1 assigned %d internal node ids (%s)", len(na.Nodes), time.Since(start))

	if err := WriteNodeFile(opts.NodeOutPath, na); err != nil {
		return fmt.Errorf("extract: write node file: %w", err)
	}

	edges := append([]CandidateEdge(nil), sr.candidates.Slice()...)
	AttachSourceCoordinates(edges, sr.allNodes.Slice())
	log.Printf("extract: phase 2 attached source coordinates (%s)", time.Since(start))

	if opts.Classifier != nil {
		if err := ClassifyInTown(ctx, edges, opts.Classifier); err != nil {
			return fmt.Errorf("extract: phase 3: %w", err)
		}
	}
	log.Printf("extract: phase 3 classified in-town/out-of-town (%s)", time.Since(start))

	if err := ComputeWeights(edges, sr.allNodes.Slice(), na.OSMToInternal, opts.Profile, opts.TagsByWay); err != nil {
		return fmt.Errorf("extract: phase 4: %w", err)
	}
	log.Printf("extract: phase 4 computed weights (%s)", time.Since(start))

	collapsed := CollapseMultiEdges(edges, sr.names)
	log.Printf("extract: phase 5 collapsed %d edges to %d (%s)", len(edges), len(collapsed), time.Since(start))

	if err := WriteEdgeFile(opts.EdgeOutPath, collapsed); err != nil {
		return fmt.Errorf("extract: write edge file: %w", err)
	}

	restrictions := RemapRestrictions(sr.restrictions.Slice(), sr.wayEndpoints.Slice(), na.OSMToInternal)
	if err := WriteRestrictionFile(opts.RestrictOut, restrictions); err != nil {
		return fmt.Errorf("extract: write restriction file: %w", err)
	}
	log.Printf("extract: wrote %d restrictions (%s)", len(restrictions), time.Since(start))

	if opts.NameOutPath != "" {
		if err := WriteNamePool(opts.NameOutPath, sr.names); err != nil {
			return fmt.Errorf("extract: write name pool: %w", err)
		}
	}

	log.Printf("extract: done in %s", time.Since(start))
	return nil
}
