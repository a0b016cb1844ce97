package extract

import (
	"context"
	"log"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/raymond0/osrm-backend/pkg/density"
	"github.com/raymond0/osrm-backend/pkg/geo"
)

// progressCounters mirrors the data model's process-wide country/city/
// count atomics, modeled here as a small reporter instance owned by the
// pipeline rather than package-level globals.
type progressCounters struct {
	country atomic.Int64
	city    atomic.Int64
	count   atomic.Int64
}

// ClassifyInTown runs Phase 3: sort candidate edges by osm_target_id,
// then submit one classification task per valid edge to a worker pool
// (golang.org/x/sync/errgroup) that runs up to runtime.GOMAXPROCS(0)
// tasks at once, each task writing its result into its own edge's
// InTown field — a distinct slot per edge, needing no further
// synchronization. errgroup.Group.Wait is the barrier before Phase 4
// begins.
func ClassifyInTown(ctx context.Context, edges []CandidateEdge, clf *density.Classifier) error {
	sort.Slice(edges, func(i, j int) bool { return edges[i].TargetOSM < edges[j].TargetOSM })

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var counters progressCounters

	for i := range edges {
		if !edges[i].Valid {
			continue
		}
		idx := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e := &edges[idx]
			fp := geo.FC{Lon: e.SourceLon, Lat: e.SourceLat}
			inTown := clf.IsInTown(fp)
			e.InTown = inTown
			if inTown {
				counters.city.Add(1)
			} else {
				counters.country.Add(1)
			}
			n := counters.count.Add(1)
			if n%100_000 == 0 {
				log.Printf("extract: classified %d edges (city=%d country=%d)", n, counters.city.Load(), counters.country.Load())
			}
			return nil
		})
	}
	return g.Wait()
}
