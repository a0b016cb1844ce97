package chfacade

import (
	"github.com/raymond0/osrm-backend/pkg/binfmt"
	"github.com/raymond0/osrm-backend/pkg/chshard"
	"github.com/raymond0/osrm-backend/pkg/geo"
)

// CoordShard is one coordinates side-file: u32 start, u32 count, then
// count packed fixed-point coordinates.
type CoordShard struct {
	r     *binfmt.Reader
	path  string
	start uint32
	count uint32
}

const (
	coordHeaderStartOff = 8
	coordHeaderCountOff = 12
	coordTableOff       = 16
	coordEntrySize      = 8 // lon(4) + lat(4)
)

// OpenCoordShard opens a coordinates side-file.
func OpenCoordShard(path string) (*CoordShard, error) {
	r, _, err := binfmt.Open(path, binfmt.MagicCoords)
	if err != nil {
		return nil, err
	}
	start, err := r.ReadU32At(coordHeaderStartOff)
	if err != nil {
		r.Close()
		return nil, err
	}
	count, err := r.ReadU32At(coordHeaderCountOff)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &CoordShard{r: r, path: path, start: start, count: count}, nil
}

// Path returns the side-file's source path.
func (c *CoordShard) Path() string { return c.path }

// Close closes the underlying file.
func (c *CoordShard) Close() error { return c.r.Close() }

// CanResolve reports whether this shard can resolve node n: start <= n
// < start+count.
func (c *CoordShard) CanResolve(n chshard.NID) bool {
	return n >= c.start && n < c.start+c.count
}

// Coordinate returns the fixed-point coordinate of node n.
func (c *CoordShard) Coordinate(n chshard.NID) (geo.FC, error) {
	idx := n - c.start
	off := int64(coordTableOff) + int64(idx)*coordEntrySize
	lon, err := c.r.ReadU32At(off)
	if err != nil {
		return geo.FC{}, err
	}
	lat, err := c.r.ReadU32At(off + 4)
	if err != nil {
		return geo.FC{}, err
	}
	return geo.FC{Lon: int32(lon), Lat: int32(lat)}, nil
}

// WriteCoordShard writes one coordinates side-file: start, the count of
// coords, then the packed fixed-point coordinates themselves, one per
// node starting at start.
func WriteCoordShard(path string, start uint32, coords []geo.FC) error {
	fp := binfmt.NewFingerprint(binfmt.MagicCoords, 1, 0, 0)
	w, err := binfmt.Create(path, fp)
	if err != nil {
		return err
	}
	if err := w.WriteU32(start); err != nil {
		w.Abort()
		return err
	}
	if err := w.WriteU32(uint32(len(coords))); err != nil {
		w.Abort()
		return err
	}
	for _, c := range coords {
		if err := w.WriteU32(uint32(c.Lon)); err != nil {
			w.Abort()
			return err
		}
		if err := w.WriteU32(uint32(c.Lat)); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Close()
}
