package boundary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/raymond0/osrm-backend/pkg/geo"
)

// countryDensity is the exact default-density table of the extraction
// format's companion tool (§6's country-density table).
var countryDensity = map[string]float64{
	"NL": 1.27158e-5,
	"BE": 8.0000e-6,
	"DE": 8.0000e-6,
	"JP": 1.40105e-5,
	"RU": 4.2000e-6,
}

const defaultDensity = 5.8887e-6

// TargetDensityFor returns the default density threshold for the given
// ISO country code, matched case-insensitively, falling back to the
// global default for a missing or empty code.
func TargetDensityFor(isoCode string) float64 {
	if d, ok := countryDensity[strings.ToUpper(isoCode)]; ok {
		return d
	}
	return defaultDensity
}

// ParseBoundaryList reads the top-level density file: u32 magic
// (0xE0E0E0E0), u32 nrCountries, then nrCountries Boundary records.
func ParseBoundaryList(r io.Reader) (BoundaryList, error) {
	br := bufio.NewReader(r)
	var magic uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return BoundaryList{}, fmt.Errorf("boundary: read list magic: %w", err)
	}
	if magic != magicBoundaryList {
		return BoundaryList{}, fmt.Errorf("boundary: bad list magic %#x", magic)
	}
	var nrCountries uint32
	if err := binary.Read(br, binary.LittleEndian, &nrCountries); err != nil {
		return BoundaryList{}, fmt.Errorf("boundary: read nrCountries: %w", err)
	}
	bl := BoundaryList{Countries: make([]Boundary, 0, nrCountries)}
	for i := uint32(0); i < nrCountries; i++ {
		b, err := parseBoundary(br)
		if err != nil {
			return BoundaryList{}, fmt.Errorf("boundary: country %d: %w", i, err)
		}
		b.TargetDensity = TargetDensityFor(b.ISOCode)
		bl.Countries = append(bl.Countries, b)
	}
	return bl, nil
}

// parseBoundary recursively parses one Boundary record:
// magic(0xE9E9E9E9) . nrOuterWays . nrChildren . totalArea(i64) .
// roadStarts(u32) . isoLen(usize) . isoBytes . outerWays . children
func parseBoundary(r *bufio.Reader) (Boundary, error) {
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return Boundary{}, fmt.Errorf("read boundary magic: %w", err)
	}
	if magic != magicBoundaryRecord {
		return Boundary{}, fmt.Errorf("bad boundary magic %#x", magic)
	}
	var nrOuterWays, nrChildren uint32
	if err := binary.Read(r, binary.LittleEndian, &nrOuterWays); err != nil {
		return Boundary{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &nrChildren); err != nil {
		return Boundary{}, err
	}
	var totalArea int64
	if err := binary.Read(r, binary.LittleEndian, &totalArea); err != nil {
		return Boundary{}, err
	}
	if totalArea < 0 {
		totalArea = -totalArea
	}
	var roadStarts uint32
	if err := binary.Read(r, binary.LittleEndian, &roadStarts); err != nil {
		return Boundary{}, err
	}
	var isoLen uint64
	if err := binary.Read(r, binary.LittleEndian, &isoLen); err != nil {
		return Boundary{}, err
	}
	if isoLen > 99 {
		return Boundary{}, fmt.Errorf("iso code length %d exceeds 99", isoLen)
	}
	isoBytes := make([]byte, isoLen)
	if isoLen > 0 {
		if _, err := io.ReadFull(r, isoBytes); err != nil {
			return Boundary{}, err
		}
	}

	b := Boundary{
		TotalArea:  totalArea,
		RoadStarts: roadStarts,
		ISOCode:    string(isoBytes),
		Outer:      make([]OuterRing, 0, nrOuterWays),
		Children:   make([]Boundary, 0, nrChildren),
	}

	for i := uint32(0); i < nrOuterWays; i++ {
		ring, ok, err := parseOuterWay(r)
		if err != nil {
			return Boundary{}, err
		}
		if !ok {
			// coordCount < 3: skipped, diagnostic only, does not abort load.
			log.Printf("boundary: skipping outer way %d of %q: fewer than 3 coordinates", i, b.ISOCode)
			continue
		}
		b.Enclosing.ExtendRing(ring.Points)
		b.Outer = append(b.Outer, ring)
	}
	for i := uint32(0); i < nrChildren; i++ {
		child, err := parseBoundary(r)
		if err != nil {
			return Boundary{}, fmt.Errorf("child %d: %w", i, err)
		}
		b.Children = append(b.Children, child)
	}
	return b, nil
}

// parseOuterWay parses magic(0xE8E8E8E8) . coordCount . (x,y)*. Returns
// ok=false (without error) when coordCount < 3, per spec: such rings are
// skipped but do not abort the load.
func parseOuterWay(r *bufio.Reader) (OuterRing, bool, error) {
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return OuterRing{}, false, err
	}
	if magic != magicOuterWay {
		return OuterRing{}, false, fmt.Errorf("%w: %#x", ErrCoordHeaderBad, magic)
	}
	var coordCount uint32
	if err := binary.Read(r, binary.LittleEndian, &coordCount); err != nil {
		return OuterRing{}, false, err
	}
	points := make([]geo.IC, coordCount)
	for i := uint32(0); i < coordCount; i++ {
		var x, y int32
		if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
			return OuterRing{}, false, err
		}
		if err := binary.Read(r, binary.LittleEndian, &y); err != nil {
			return OuterRing{}, false, err
		}
		points[i] = geo.IC{X: x, Y: y}
	}
	if coordCount < 3 {
		return OuterRing{}, false, nil
	}
	ring := OuterRing{Points: points}
	ring.Box.ExtendRing(points)
	return ring, true, nil
}
