package density_test

import (
	"testing"

	"github.com/raymond0/osrm-backend/pkg/boundary"
	"github.com/raymond0/osrm-backend/pkg/density"
	"github.com/raymond0/osrm-backend/pkg/geo"
)

func squareAround(lon, lat int32, halfWidth int32) boundary.OuterRing {
	c := geo.Project(geo.FC{Lon: lon, Lat: lat})
	pts := []geo.IC{
		{X: c.X - halfWidth, Y: c.Y - halfWidth},
		{X: c.X + halfWidth, Y: c.Y - halfWidth},
		{X: c.X + halfWidth, Y: c.Y + halfWidth},
		{X: c.X - halfWidth, Y: c.Y + halfWidth},
	}
	var box geo.BB
	box.ExtendRing(pts)
	return boundary.OuterRing{Points: pts, Box: box}
}

func TestClassifierIsInTown(t *testing.T) {
	ring := squareAround(0, 0, 50_000)
	var enclosing geo.BB
	enclosing.ExtendRing(ring.Points)

	country := boundary.Boundary{
		TotalArea:     100,
		RoadStarts:    80, // density 0.8, comfortably above any threshold
		ISOCode:       "XX",
		Outer:         []boundary.OuterRing{ring},
		Enclosing:     enclosing,
		TargetDensity: 0.1,
	}
	list := boundary.BoundaryList{Countries: []boundary.Boundary{country}}
	c := density.New(list)

	inside := geo.FC{Lon: 0, Lat: 0}
	if !c.IsInTown(inside) {
		t.Fatalf("expected the dense country's interior to be in-town")
	}

	farAway := geo.FC{Lon: 90_000_000, Lat: 45_000_000}
	if c.IsInTown(farAway) {
		t.Fatalf("expected a point far outside every country to be out-of-town")
	}
}

func TestClassifierEmptyListIsNeverInTown(t *testing.T) {
	c := density.New(boundary.BoundaryList{})
	if c.IsInTown(geo.FC{Lon: 0, Lat: 0}) {
		t.Fatalf("an empty boundary list should never classify anything as in-town")
	}
}
