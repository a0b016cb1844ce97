package chfacade

import (
	"github.com/raymond0/osrm-backend/pkg/binfmt"
	"github.com/raymond0/osrm-backend/pkg/chshard"
)

// GeomShard is one geometry side-file: u32 start, u32 count, then
// count+1 offsets into a pool of NIDs, a u32 pool length, then the
// pool itself.
type GeomShard struct {
	r       *binfmt.Reader
	path    string
	start   uint32
	count   uint32
	offOff  int64
	poolOff int64
}

const (
	geomHeaderStartOff = 8
	geomHeaderCountOff = 12
	geomOffsetsBase    = 16
)

// OpenGeomShard opens a geometry side-file.
func OpenGeomShard(path string) (*GeomShard, error) {
	r, _, err := binfmt.Open(path, binfmt.MagicGeometry)
	if err != nil {
		return nil, err
	}
	start, err := r.ReadU32At(geomHeaderStartOff)
	if err != nil {
		r.Close()
		return nil, err
	}
	count, err := r.ReadU32At(geomHeaderCountOff)
	if err != nil {
		r.Close()
		return nil, err
	}
	g := &GeomShard{r: r, path: path, start: start, count: count}
	g.offOff = geomOffsetsBase
	g.poolOff = g.offOff + int64(count+1)*4 + 4 // skip the pool-length u32
	return g, nil
}

// Path returns the side-file's source path.
func (g *GeomShard) Path() string { return g.path }

// Close closes the underlying file.
func (g *GeomShard) Close() error { return g.r.Close() }

// CanResolve reports whether this shard can resolve geometry ID n.
func (g *GeomShard) CanResolve(n uint32) bool {
	return n >= g.start && n < g.start+g.count
}

// Geometry returns the sequence of NIDs spanning geometry n, i.e. pool
// indices [offsets[n-start], offsets[n-start+1]).
func (g *GeomShard) Geometry(n uint32) ([]chshard.NID, error) {
	idx := n - g.start
	lo, err := g.r.ReadU32At(g.offOff + int64(idx)*4)
	if err != nil {
		return nil, err
	}
	hi, err := g.r.ReadU32At(g.offOff + int64(idx+1)*4)
	if err != nil {
		return nil, err
	}
	if hi <= lo {
		return nil, nil
	}
	return g.r.ReadU32SliceAt(g.poolOff+int64(lo)*4, int(hi-lo))
}

// WriteGeomShard writes one geometry side-file: start, the count of
// geometries, count+1 offsets into a flattened NID pool, the pool
// length, then the pool itself.
func WriteGeomShard(path string, start uint32, geometries [][]chshard.NID) error {
	fp := binfmt.NewFingerprint(binfmt.MagicGeometry, 1, 0, 0)
	w, err := binfmt.Create(path, fp)
	if err != nil {
		return err
	}
	if err := w.WriteU32(start); err != nil {
		w.Abort()
		return err
	}
	if err := w.WriteU32(uint32(len(geometries))); err != nil {
		w.Abort()
		return err
	}

	offsets := make([]uint32, len(geometries)+1)
	var pool []chshard.NID
	for i, g := range geometries {
		offsets[i] = uint32(len(pool))
		pool = append(pool, g...)
	}
	offsets[len(geometries)] = uint32(len(pool))

	if err := binfmt.WriteU32Slice(w, offsets); err != nil {
		w.Abort()
		return err
	}
	if err := w.WriteU32(uint32(len(pool))); err != nil {
		w.Abort()
		return err
	}
	if err := binfmt.WriteU32Slice(w, pool); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}
