package schema

import "testing"

func TestDateIsFirstColumn(t *testing.T) {
	if Fields[0].Key != "Date" || Fields[0].Title != "Date" {
		t.Fatalf("expected Date as first field, got %q", Fields[0].Key)
	}
}

func TestTitlesMatchFieldOrder(t *testing.T) {
	titles := Titles()
	if len(titles) != len(Fields) {
		t.Fatalf("expected %d titles, got %d", len(Fields), len(titles))
	}
	for i, f := range Fields {
		if titles[i] != f.Title {
			t.Errorf("title %d: expected %q, got %q", i, f.Title, titles[i])
		}
	}
}

func TestUniqueKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Fields {
		if seen[f.Key] {
			t.Errorf("duplicate field key %q", f.Key)
		}
		seen[f.Key] = true
	}
}

func TestVolatileSetDefaults(t *testing.T) {
	set := VolatileSet("")
	for _, key := range []string{"IntensityMin", "IntensityMod", "IntensityVig", "HRV"} {
		if !set[key] {
			t.Errorf("expected %s volatile by default", key)
		}
	}
	if set["Steps"] {
		t.Error("Steps must not be volatile by default")
	}
}

func TestVolatileSetOverride(t *testing.T) {
	set := VolatileSet("HRV, WeightLb, NotAField")
	if !set["HRV"] || !set["WeightLb"] {
		t.Errorf("override not applied: %v", set)
	}
	if set["IntensityMin"] {
		t.Error("override must replace defaults, not extend them")
	}
	if set["NotAField"] {
		t.Error("unknown keys must be dropped")
	}
}
