// Package chfacade aggregates multiple CH graph shards and their
// coordinate/geometry side-files behind a single lookup surface, routing
// each node/edge query to the shard that owns it.
package chfacade

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/raymond0/osrm-backend/pkg/chshard"
	"github.com/raymond0/osrm-backend/pkg/geo"
)

// ErrNodeNotResolvable is returned when no loaded shard owns the
// requested node.
var ErrNodeNotResolvable = errors.New("chfacade: node not resolvable")

// Facade holds the ordered shard lists making up one partitioned CH
// graph.
type Facade struct {
	shards []*chshard.Shard
	coords []*CoordShard
	geoms  []*GeomShard
}

// stem returns the filename without its extension, used to match a
// coordinate/geometry side-file to the .hsgr shard it belongs to.
func stem(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// Open opens every listed .hsgr shard, coordinate side-file, and
// geometry side-file. A shard that fails to open is dropped with a
// diagnostic rather than failing the whole facade; any coordinate or
// geometry file whose path shares that shard's filename stem is dropped
// along with it (the decided resolution of the shard-open-failure
// stem-matching open question).
func Open(hsgrPaths, coordPaths, geomPaths []string) (*Facade, error) {
	f := &Facade{}
	droppedStems := make(map[string]bool)

	for _, p := range hsgrPaths {
		s, err := chshard.Open(p)
		if err != nil {
			log.Printf("chfacade: dropping shard %s: %v", p, err)
			droppedStems[stem(p)] = true
			continue
		}
		f.shards = append(f.shards, s)
	}
	for _, p := range coordPaths {
		if droppedStems[stem(p)] {
			log.Printf("chfacade: dropping coord side-file %s (shard dropped)", p)
			continue
		}
		c, err := OpenCoordShard(p)
		if err != nil {
			log.Printf("chfacade: dropping coord side-file %s: %v", p, err)
			continue
		}
		f.coords = append(f.coords, c)
	}
	for _, p := range geomPaths {
		if droppedStems[stem(p)] {
			log.Printf("chfacade: dropping geometry side-file %s (shard dropped)", p)
			continue
		}
		g, err := OpenGeomShard(p)
		if err != nil {
			log.Printf("chfacade: dropping geometry side-file %s: %v", p, err)
			continue
		}
		f.geoms = append(f.geoms, g)
	}
	return f, nil
}

// Close closes every open shard and side-file.
func (f *Facade) Close() error {
	var firstErr error
	for _, s := range f.shards {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, c := range f.coords {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, g := range f.geoms {
		if err := g.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *Facade) shardFor(n chshard.NID) *chshard.Shard {
	for _, s := range f.shards {
		if s.Owns(n) {
			return s
		}
	}
	return nil
}

// GetCoordinateOfNode returns the coordinate of node n, or
// ErrNodeNotResolvable if no loaded coordinate side-file owns it.
func (f *Facade) GetCoordinateOfNode(n chshard.NID) (geo.FC, error) {
	for _, c := range f.coords {
		if c.CanResolve(n) {
			return c.Coordinate(n)
		}
	}
	return geo.FC{}, ErrNodeNotResolvable
}

// GetUncompressedGeometry returns the NID sequence for geometry id g,
// or an empty sequence if no loaded geometry side-file owns it.
func (f *Facade) GetUncompressedGeometry(g uint32) []chshard.NID {
	for _, gs := range f.geoms {
		if gs.CanResolve(g) {
			nids, err := gs.Geometry(g)
			if err != nil {
				return nil
			}
			return nids
		}
	}
	return nil
}

// AdjacentEdges materialises every edge out of node n into a caller
// vector, filtering out entries with an absent target and shortcuts
// with an absent middle-node payload.
func (f *Facade) AdjacentEdges(n chshard.NID) ([]chshard.Edge, error) {
	s := f.shardFor(n)
	if s == nil {
		return nil, ErrNodeNotResolvable
	}
	lo, hi, err := s.AdjacentRange(n)
	if err != nil {
		return nil, err
	}
	out := make([]chshard.Edge, 0, hi-lo)
	for e := lo; e < hi; e++ {
		edge, err := s.Edge(e)
		if err != nil {
			return nil, err
		}
		if chshard.IsSpecial(edge.Target) {
			continue
		}
		if edge.Shortcut {
			if _, ok := edge.MiddleNode(); !ok {
				continue
			}
		}
		out = append(out, edge)
	}
	return out, nil
}

// FindSmallestForward locates the owning shard for u and delegates.
func (f *Facade) FindSmallestForward(u, v chshard.NID) (chshard.Edge, bool, error) {
	s := f.shardFor(u)
	if s == nil {
		return chshard.Edge{}, false, fmt.Errorf("%w: node %d", ErrNodeNotResolvable, u)
	}
	return s.FindSmallestForward(u, v)
}

// FindSmallestBackward locates the owning shard for u and delegates.
func (f *Facade) FindSmallestBackward(u, v chshard.NID) (chshard.Edge, bool, error) {
	s := f.shardFor(u)
	if s == nil {
		return chshard.Edge{}, false, fmt.Errorf("%w: node %d", ErrNodeNotResolvable, u)
	}
	return s.FindSmallestBackward(u, v)
}
