package extract

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Profile embeds a Lua state and exposes the opaque ProcessSegment
// scripting collaborator named in the design notes: a hook permitted to
// mutate a candidate edge's WeightData before Phase 4's weight formula
// runs, parameterised by a user-supplied script rather than hardcoded
// per-way speeds.
//
// *lua.LState is single-threaded, so ProcessSegment holds the embedded
// mutex for the whole call: one Profile may be shared by several
// goroutines, and their calls through it run one at a time.
type Profile struct {
	mu sync.Mutex
	L  *lua.LState
}

// LoadProfile compiles and runs the given Lua source once (to register
// globals such as a process_segment function), returning a Profile
// ready for per-segment calls.
func LoadProfile(source string) (*Profile, error) {
	L := lua.NewState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("extract: load profile script: %w", err)
	}
	return &Profile{L: L}, nil
}

// Close releases the Lua state.
func (p *Profile) Close() {
	p.L.Close()
}

// ProcessSegment calls the script's process_segment(tags, distance,
// in_town) function, if defined, and applies any weight_data overrides
// it returns onto wd. A script that doesn't define process_segment is a
// no-op, so extraction works with no profile configured at all.
func (p *Profile) ProcessSegment(tags map[string]string, distanceMeters float64, inTown bool, wd *WeightData) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn := p.L.GetGlobal("process_segment")
	if fn.Type() != lua.LTFunction {
		return nil
	}

	tagsTable := p.L.NewTable()
	for k, v := range tags {
		tagsTable.RawSetString(k, lua.LString(v))
	}

	if err := p.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, tagsTable, lua.LNumber(distanceMeters), lua.LBool(inTown)); err != nil {
		return fmt.Errorf("extract: process_segment: %w", err)
	}
	ret := p.L.Get(-1)
	p.L.Pop(1)

	table, ok := ret.(*lua.LTable)
	if !ok {
		return nil
	}
	if v := table.RawGetString("speed_kmh"); v.Type() == lua.LTNumber {
		wd.Kind = WeightSpeed
		wd.SpeedKMH = float64(v.(lua.LNumber))
	}
	if v := table.RawGetString("city_speed_kmh"); v.Type() == lua.LTNumber {
		wd.Kind = WeightSpeed
		wd.CitySpeed = float64(v.(lua.LNumber))
	}
	if v := table.RawGetString("country_speed_kmh"); v.Type() == lua.LTNumber {
		wd.Kind = WeightSpeed
		wd.CountrySpeed = float64(v.(lua.LNumber))
	}
	if v := table.RawGetString("duration_deciseconds"); v.Type() == lua.LTNumber {
		wd.Kind = WeightEdgeDuration
		wd.DurationDs = float64(v.(lua.LNumber))
	}
	if v := table.RawGetString("invalid"); v.Type() == lua.LTBool && bool(v.(lua.LBool)) {
		wd.Kind = WeightInvalid
	}
	return nil
}
