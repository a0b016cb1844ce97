package extract

import "testing"

func TestProcessSegmentAppliesSpeedOverride(t *testing.T) {
	p, err := LoadProfile(`
function process_segment(tags, distance, in_town)
  if tags.highway == "motorway" then
    return { city_speed_kmh = 60, country_speed_kmh = 120 }
  end
  return { invalid = true }
end
`)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	defer p.Close()

	var wd WeightData
	if err := p.ProcessSegment(map[string]string{"highway": "motorway"}, 1000, false, &wd); err != nil {
		t.Fatalf("ProcessSegment: %v", err)
	}
	if wd.Kind != WeightSpeed || wd.CountrySpeed != 120 || wd.CitySpeed != 60 {
		t.Fatalf("got %+v, want Kind=WeightSpeed CitySpeed=60 CountrySpeed=120", wd)
	}
}

func TestProcessSegmentMarksInvalid(t *testing.T) {
	p, err := LoadProfile(`
function process_segment(tags, distance, in_town)
  return { invalid = true }
end
`)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	defer p.Close()

	var wd WeightData
	if err := p.ProcessSegment(map[string]string{"highway": "footway"}, 10, false, &wd); err != nil {
		t.Fatalf("ProcessSegment: %v", err)
	}
	if wd.Kind != WeightInvalid {
		t.Fatalf("got Kind=%v, want WeightInvalid", wd.Kind)
	}
}

func TestProcessSegmentNoOpWithoutFunction(t *testing.T) {
	p, err := LoadProfile(`-- no process_segment defined`)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	defer p.Close()

	wd := WeightData{Kind: WeightSpeed, CitySpeed: 30}
	if err := p.ProcessSegment(nil, 10, true, &wd); err != nil {
		t.Fatalf("ProcessSegment: %v", err)
	}
	if wd.CitySpeed != 30 {
		t.Fatalf("wd should be untouched when no process_segment is defined, got %+v", wd)
	}
}
