package extract

import "testing"

func TestRemapRestrictionsResolvesFromAndTo(t *testing.T) {
	// Way 100 runs node 1 -> node 2 (via node), way 200 runs node 2 -> node 3.
	endpoints := []WayEndpoint{
		{WayID: 100, StartOSM: 1, EndOSM: 2},
		{WayID: 200, StartOSM: 2, EndOSM: 3},
	}
	restrictions := []RestrictionTriple{
		{FromWay: 100, ToWay: 200, ViaNodeOSM: 2, Only: true},
	}
	osmToInternal := map[int64]uint32{1: 10, 2: 20, 3: 30}

	out := RemapRestrictions(restrictions, endpoints, osmToInternal)
	if len(out) != 1 {
		t.Fatalf("got %d restrictions, want 1", len(out))
	}
	r := out[0]
	if r.From != 10 || r.Via != 20 || r.To != 30 || !r.Only {
		t.Fatalf("got %+v, want From=10 Via=20 To=30 Only=true", r)
	}
}

func TestRemapRestrictionsDropsUnresolvable(t *testing.T) {
	endpoints := []WayEndpoint{
		{WayID: 100, StartOSM: 1, EndOSM: 2},
	}
	restrictions := []RestrictionTriple{
		{FromWay: 100, ToWay: 999, ViaNodeOSM: 2}, // to-way missing
	}
	osmToInternal := map[int64]uint32{1: 10, 2: 20}

	out := RemapRestrictions(restrictions, endpoints, osmToInternal)
	if len(out) != 0 {
		t.Fatalf("got %d restrictions, want 0 (unresolvable to-way)", len(out))
	}
}

func TestRemapRestrictionsDropsWhenViaEqualsBothEndpoints(t *testing.T) {
	endpoints := []WayEndpoint{
		{WayID: 100, StartOSM: 5, EndOSM: 5}, // degenerate way
		{WayID: 200, StartOSM: 5, EndOSM: 6},
	}
	restrictions := []RestrictionTriple{
		{FromWay: 100, ToWay: 200, ViaNodeOSM: 5},
	}
	osmToInternal := map[int64]uint32{5: 50, 6: 60}

	out := RemapRestrictions(restrictions, endpoints, osmToInternal)
	if len(out) != 0 {
		t.Fatalf("got %d restrictions, want 0 (from endpoint ambiguous)", len(out))
	}
}
