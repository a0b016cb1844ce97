package boundary_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/raymond0/osrm-backend/pkg/boundary"
)

const (
	magicBoundaryRecord = uint32(0xE9E9E9E9)
	magicOuterWay       = uint32(0xE8E8E8E8)
	magicBoundaryList   = uint32(0xE0E0E0E0)
)

func writeU32(buf *bytes.Buffer, v uint32) { binary.Write(buf, binary.LittleEndian, v) }
func writeI64(buf *bytes.Buffer, v int64)  { binary.Write(buf, binary.LittleEndian, v) }
func writeI32(buf *bytes.Buffer, v int32)  { binary.Write(buf, binary.LittleEndian, v) }
func writeU64(buf *bytes.Buffer, v uint64) { binary.Write(buf, binary.LittleEndian, v) }

func writeOuterWay(buf *bytes.Buffer, pts [][2]int32) {
	writeU32(buf, magicOuterWay)
	writeU32(buf, uint32(len(pts)))
	for _, p := range pts {
		writeI32(buf, p[0])
		writeI32(buf, p[1])
	}
}

func writeBoundary(buf *bytes.Buffer, iso string, totalArea int64, roadStarts uint32, outer [][2]int32, children func(*bytes.Buffer)) {
	writeU32(buf, magicBoundaryRecord)
	writeU32(buf, 1) // nrOuterWays
	nrChildren := uint32(0)
	if children != nil {
		nrChildren = 1
	}
	writeU32(buf, nrChildren)
	writeI64(buf, totalArea)
	writeU32(buf, roadStarts)
	writeU64(buf, uint64(len(iso)))
	buf.WriteString(iso)
	writeOuterWay(buf, outer)
	if children != nil {
		children(buf)
	}
}

func TestParseBoundaryListRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writeU32(&buf, magicBoundaryList)
	writeU32(&buf, 1) // nrCountries
	writeBoundary(&buf, "NL", 100, 10,
		[][2]int32{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
		nil)

	bl, err := boundary.ParseBoundaryList(&buf)
	if err != nil {
		t.Fatalf("ParseBoundaryList: %v", err)
	}
	if len(bl.Countries) != 1 {
		t.Fatalf("got %d countries, want 1", len(bl.Countries))
	}
	c := bl.Countries[0]
	if c.ISOCode != "NL" {
		t.Fatalf("got ISOCode %q, want NL", c.ISOCode)
	}
	if c.TargetDensity != boundary.TargetDensityFor("NL") {
		t.Fatalf("TargetDensity not set from ISO code lookup")
	}
	if len(c.Outer) != 1 || len(c.Outer[0].Points) != 4 {
		t.Fatalf("got outer rings %+v, want 1 ring of 4 points", c.Outer)
	}
}

func TestParseBoundaryListRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	writeU32(&buf, 0xDEADBEEF)
	if _, err := boundary.ParseBoundaryList(&buf); err == nil {
		t.Fatalf("expected an error for a bad list magic")
	}
}

func TestTargetDensityForFallsBackToDefault(t *testing.T) {
	if boundary.TargetDensityFor("ZZ") != boundary.TargetDensityFor("") {
		t.Fatalf("unknown ISO codes should fall back to the same default density")
	}
	if boundary.TargetDensityFor("NL") == boundary.TargetDensityFor("ZZ") {
		t.Fatalf("NL has its own density entry, should differ from the default")
	}
}
