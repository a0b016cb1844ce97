package boundary_test

import (
	"testing"

	"github.com/raymond0/osrm-backend/pkg/boundary"
	"github.com/raymond0/osrm-backend/pkg/geo"
)

func square(minX, minY, maxX, maxY int32) boundary.OuterRing {
	pts := []geo.IC{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}
	var box geo.BB
	box.ExtendRing(pts)
	return boundary.OuterRing{Points: pts, Box: box}
}

func boundaryFromRing(ring boundary.OuterRing, totalArea int64, roadStarts uint32, children ...boundary.Boundary) boundary.Boundary {
	var enclosing geo.BB
	enclosing.ExtendRing(ring.Points)
	return boundary.Boundary{
		TotalArea:  totalArea,
		RoadStarts: roadStarts,
		Outer:      []boundary.OuterRing{ring},
		Children:   children,
		Enclosing:  enclosing,
	}
}

func TestContainsInsideOutsideOnEdge(t *testing.T) {
	b := boundaryFromRing(square(0, 0, 100, 100), 10000, 5)

	inside := geo.IC{X: 50, Y: 50}
	if !b.Contains(inside) {
		t.Fatalf("expected interior point to be contained")
	}

	onVertex := geo.IC{X: 0, Y: 0}
	if !b.Contains(onVertex) {
		t.Fatalf("expected a ring vertex to count as contained")
	}

	outside := geo.IC{X: 150, Y: 50}
	if b.Contains(outside) {
		t.Fatalf("expected (150,50) to not be contained")
	}
}

func TestContainsOpenRingMatchesClosedForm(t *testing.T) {
	closedPts := []geo.IC{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 0},
	}
	var closedBox geo.BB
	closedBox.ExtendRing(closedPts)
	closedRing := boundary.OuterRing{Points: closedPts, Box: closedBox}
	openRing := square(0, 0, 100, 100)

	closedB := boundaryFromRing(closedRing, 10000, 5)
	openB := boundaryFromRing(openRing, 10000, 5)

	for _, p := range []geo.IC{{X: 50, Y: 50}, {X: 0, Y: 0}, {X: 150, Y: 50}} {
		if closedB.Contains(p) != openB.Contains(p) {
			t.Fatalf("open vs closed ring disagree at %+v: closed=%v open=%v",
				p, closedB.Contains(p), openB.Contains(p))
		}
	}
}

func TestContainsNoOverflowNearInt32Magnitude(t *testing.T) {
	const big = int32(2_000_000_000)
	ring := square(-big, -big, big, big)
	b := boundaryFromRing(ring, 1, 1)

	inside := geo.IC{X: 0, Y: 0}
	if !b.Contains(inside) {
		t.Fatalf("expected origin to be contained within a +/-2e9 square")
	}

	outside := geo.IC{X: big + 1000, Y: 0}
	if b.Contains(outside) {
		t.Fatalf("expected a point past the +2e9 edge to not be contained")
	}

	// A point whose coordinates alone would overflow int32 arithmetic if
	// the ray-cast subtracted before widening to int64.
	nearEdge := geo.IC{X: big - 1, Y: big - 1}
	if !b.Contains(nearEdge) {
		t.Fatalf("expected a point just inside the +/-2e9 boundary to be contained")
	}
}

func TestSmallestDescendsToDeepestContainingChild(t *testing.T) {
	grandchild := boundaryFromRing(square(10, 10, 20, 20), 100, 1)
	child := boundaryFromRing(square(0, 0, 50, 50), 2500, 1, grandchild)
	root := boundaryFromRing(square(-100, -100, 100, 100), 40000, 1, child)

	p := geo.IC{X: 15, Y: 15}
	got, ok := root.Smallest(p)
	if !ok {
		t.Fatalf("expected Smallest to find a containing boundary")
	}
	if got.TotalArea != grandchild.TotalArea {
		t.Fatalf("got TotalArea %d, want grandchild's %d", got.TotalArea, grandchild.TotalArea)
	}

	outside := geo.IC{X: -50, Y: -50}
	got2, ok2 := root.Smallest(outside)
	if !ok2 || got2.TotalArea != root.TotalArea {
		t.Fatalf("expected a point outside child/grandchild to resolve to root")
	}
}

func TestIsInTownChecksSelfThenChildren(t *testing.T) {
	// Dense child (high density) inside a sparse root.
	denseChild := boundaryFromRing(square(0, 0, 10, 10), 100, 50) // density 0.5
	sparseRoot := boundaryFromRing(square(-1000, -1000, 1000, 1000), 4_000_000, 1, denseChild)

	p := geo.IC{X: 5, Y: 5}
	if !sparseRoot.IsInTown(p, 0.1) {
		t.Fatalf("expected point inside the dense child to classify as in-town")
	}

	pOutsideChild := geo.IC{X: 500, Y: 500}
	if sparseRoot.IsInTown(pOutsideChild, 0.1) {
		t.Fatalf("expected point outside the dense child (and below root density) to classify as out-of-town")
	}
}

func TestDensityZeroAreaIsZero(t *testing.T) {
	b := boundary.Boundary{TotalArea: 0, RoadStarts: 5}
	if d := b.Density(); d != 0 {
		t.Fatalf("Density() with zero area = %v, want 0", d)
	}
}
