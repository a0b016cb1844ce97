package geo

import (
	"math"
	"testing"
)

func TestProjectOrigin(t *testing.T) {
	p := Project(FC{Lon: 0, Lat: 0})
	if p.X != 0 || p.Y != 0 {
		t.Errorf("Project(0,0) = %+v, want (0,0)", p)
	}
}

func TestProjectMonotonicInLongitude(t *testing.T) {
	a := Project(FC{Lon: 10_000_000, Lat: 0})
	b := Project(FC{Lon: 20_000_000, Lat: 0})
	if b.X <= a.X {
		t.Errorf("expected X to increase with longitude: got %d then %d", a.X, b.X)
	}
}

func TestGreatCircleMetersMatchesHaversine(t *testing.T) {
	a := FC{Lon: 103_851_300, Lat: 1_283_000}
	b := FC{Lon: 103_991_500, Lat: 1_364_400}
	got := GreatCircleMeters(a, b)
	want := Haversine(1.2830, 103.8513, 1.3644, 103.9915)
	if math.Abs(got-want) > 1 {
		t.Errorf("GreatCircleMeters = %f, want ~%f", got, want)
	}
}

func TestBBExtendAndContains(t *testing.T) {
	var bb BB
	bb.ExtendPoint(IC{X: 5, Y: 5})
	bb.ExtendPoint(IC{X: -5, Y: 10})
	if bb.Lo.X != -5 || bb.Lo.Y != 5 || bb.Hi.X != 5 || bb.Hi.Y != 10 {
		t.Errorf("got bb=%+v, want Lo=(-5,5) Hi=(5,10)", bb)
	}
	if !bb.Contains(IC{X: 0, Y: 7}) {
		t.Errorf("expected interior point to be contained")
	}
	if bb.Contains(IC{X: 100, Y: 100}) {
		t.Errorf("expected far point to not be contained")
	}
}

func TestBBExtendRing(t *testing.T) {
	var bb BB
	bb.ExtendRing([]IC{{X: 1, Y: 1}, {X: -3, Y: 4}, {X: 7, Y: -2}})
	if bb.Lo.X != -3 || bb.Lo.Y != -2 || bb.Hi.X != 7 || bb.Hi.Y != 4 {
		t.Errorf("got bb=%+v, want Lo=(-3,-2) Hi=(7,4)", bb)
	}
}
