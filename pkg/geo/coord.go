package geo

import "math"

// fixedPointPrecision is P in the projection formula: coordinates carried
// as fixed-point integers at 1/P of a degree.
const fixedPointPrecision = 1_000_000.0

// IC is an integer coordinate in the planar Web-Mercator metric
// projection (metres, scaled by the caller's convention).
type IC struct {
	X, Y int32
}

// FC is a fixed-point lon/lat coordinate, in units of 1/P degrees.
type FC struct {
	Lon, Lat int32
}

// BB is an axis-aligned bounding rectangle with lo.X <= hi.X and
// lo.Y <= hi.Y. A zero BB (all fields zero) is not a valid empty box;
// callers must seed it from the first extended point.
type BB struct {
	Lo, Hi IC
	seeded bool
}

// ExtendPoint grows bb in place to include p.
func (bb *BB) ExtendPoint(p IC) {
	if !bb.seeded {
		bb.Lo = p
		bb.Hi = p
		bb.seeded = true
		return
	}
	if p.X < bb.Lo.X {
		bb.Lo.X = p.X
	}
	if p.Y < bb.Lo.Y {
		bb.Lo.Y = p.Y
	}
	if p.X > bb.Hi.X {
		bb.Hi.X = p.X
	}
	if p.Y > bb.Hi.Y {
		bb.Hi.Y = p.Y
	}
}

// ExtendRing grows bb in place to include every point of ring.
func (bb *BB) ExtendRing(ring []IC) {
	for _, p := range ring {
		bb.ExtendPoint(p)
	}
}

// Contains reports whether p falls within bb, inclusive of the edges.
func (bb BB) Contains(p IC) bool {
	return p.X >= bb.Lo.X && p.X <= bb.Hi.X && p.Y >= bb.Lo.Y && p.Y <= bb.Hi.Y
}

// Project converts a fixed-point lon/lat coordinate to the planar
// Web-Mercator integer coordinate used by the boundary/density trees:
//
//	x = lon/P * R * pi/180
//	y = R * ln(tan(pi/4 + lat/P * pi/360))
func Project(fc FC) IC {
	lonDeg := float64(fc.Lon) / fixedPointPrecision
	latDeg := float64(fc.Lat) / fixedPointPrecision
	x := lonDeg * earthRadiusMeters * math.Pi / 180
	y := earthRadiusMeters * math.Log(math.Tan(math.Pi/4+latDeg*math.Pi/360))
	return IC{X: int32(math.Round(x)), Y: int32(math.Round(y))}
}

// GreatCircleMeters returns the great-circle distance in meters between
// two fixed-point lon/lat coordinates, used by the extraction pipeline's
// weight formula.
func GreatCircleMeters(a, b FC) float64 {
	return Haversine(
		float64(a.Lat)/fixedPointPrecision, float64(a.Lon)/fixedPointPrecision,
		float64(b.Lat)/fixedPointPrecision, float64(b.Lon)/fixedPointPrecision,
	)
}
